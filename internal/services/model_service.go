package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"rmgen/internal/assets"
)

// ModelChoice is one resolved chat model: the provider to talk to, the model
// name to request and where its API key comes from.
type ModelChoice struct {
	ProviderID   string
	ProviderName string
	DisplayName  string
	APIName      string
	APIKeyEnv    string
}

type ProviderInfo struct {
	ID          string
	DisplayName string
	APIKeyEnv   string
	Models      []ModelChoice
}

type ModelCatalogService interface {
	Providers() ([]ProviderInfo, error)
	// Resolve picks model for provider; an empty model means the provider's
	// default.
	Resolve(provider, model string) (ModelChoice, error)
}

type modelCatalogService struct {
	data []byte

	once      sync.Once
	loadErr   error
	providers []ProviderInfo
	defaults  map[string]string
}

type rawModelFile struct {
	Providers []rawProvider `json:"providers"`
}

type rawProvider struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"displayName"`
	APIKeyEnv   string     `json:"apiKeyEnv"`
	Models      []rawModel `json:"models"`
}

type rawModel struct {
	DisplayName string `json:"displayName"`
	APIName     string `json:"apiName"`
	Default     bool   `json:"default"`
}

// NewModelCatalogService reads the embedded model catalog.
func NewModelCatalogService() ModelCatalogService {
	return NewModelCatalogServiceFromData(assets.ModelsData)
}

func NewModelCatalogServiceFromData(data []byte) ModelCatalogService {
	return &modelCatalogService{data: data, defaults: make(map[string]string)}
}

func (s *modelCatalogService) load() error {
	s.once.Do(func() {
		var parsed rawModelFile
		if err := json.Unmarshal(s.data, &parsed); err != nil {
			s.loadErr = fmt.Errorf("parse models asset: %w", err)
			return
		}
		for _, p := range parsed.Providers {
			id := strings.TrimSpace(p.ID)
			if id == "" {
				continue
			}
			info := ProviderInfo{ID: id, DisplayName: strings.TrimSpace(p.DisplayName), APIKeyEnv: p.APIKeyEnv}
			if info.DisplayName == "" {
				info.DisplayName = id
			}
			for i, m := range p.Models {
				choice := ModelChoice{
					ProviderID:   id,
					ProviderName: info.DisplayName,
					DisplayName:  strings.TrimSpace(m.DisplayName),
					APIName:      strings.TrimSpace(m.APIName),
					APIKeyEnv:    p.APIKeyEnv,
				}
				info.Models = append(info.Models, choice)
				if m.Default || (i == 0 && s.defaults[id] == "") {
					s.defaults[id] = choice.APIName
				}
			}
			s.providers = append(s.providers, info)
		}
	})
	return s.loadErr
}

func (s *modelCatalogService) Providers() ([]ProviderInfo, error) {
	if err := s.load(); err != nil {
		return nil, err
	}
	return append([]ProviderInfo(nil), s.providers...), nil
}

func (s *modelCatalogService) Resolve(provider, model string) (ModelChoice, error) {
	if err := s.load(); err != nil {
		return ModelChoice{}, err
	}
	provider = strings.TrimSpace(provider)
	if provider == "" {
		return ModelChoice{}, fmt.Errorf("provider is required")
	}
	model = strings.TrimSpace(model)
	for _, p := range s.providers {
		if p.ID != provider {
			continue
		}
		if model == "" {
			model = s.defaults[provider]
		}
		for _, m := range p.Models {
			if m.APIName == model {
				return m, nil
			}
		}
		// Models outside the catalog are allowed; providers add them faster
		// than we ship releases.
		return ModelChoice{
			ProviderID:   p.ID,
			ProviderName: p.DisplayName,
			DisplayName:  model,
			APIName:      model,
			APIKeyEnv:    p.APIKeyEnv,
		}, nil
	}
	return ModelChoice{}, fmt.Errorf("provider %s not found", provider)
}
