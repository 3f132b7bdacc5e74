package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zalando/go-keyring"
)

// keyringService namespaces RMGen's entries in the OS keyring.
const keyringService = "rmgen"

var (
	ErrUnknownProvider = errors.New("unknown provider")
	ErrEmptyAPIKey     = errors.New("API key is empty")
)

// StoredKey is a provider whose API key is in the keyring.
type StoredKey struct {
	Provider    string
	DisplayName string
	// EnvVar overrides the stored key when set in the environment.
	EnvVar string
}

// KeyringService keeps LLM provider API keys in the OS keyring. Keyrings
// cannot be enumerated, so the providers holding a key are also recorded in
// an index file under ConfigDir.
type KeyringService struct {
	// ConfigDir holds the index; empty means the user config dir.
	ConfigDir string

	catalog ModelCatalogService
}

// NewKeyringService accepts the providers listed by catalog; nil means the
// embedded catalog.
func NewKeyringService(catalog ModelCatalogService) *KeyringService {
	if catalog == nil {
		catalog = NewModelCatalogService()
	}
	return &KeyringService{catalog: catalog}
}

// Provider resolves a case-insensitive provider name against the catalog.
func (s *KeyringService) Provider(name string) (ProviderInfo, error) {
	id := strings.ToLower(strings.TrimSpace(name))
	if id == "" {
		return ProviderInfo{}, errors.New("provider is required")
	}
	providers, err := s.catalog.Providers()
	if err != nil {
		return ProviderInfo{}, err
	}
	for _, p := range providers {
		if p.ID == id {
			return p, nil
		}
	}
	return ProviderInfo{}, fmt.Errorf("%w %q", ErrUnknownProvider, id)
}

// KeyEnv returns the environment variable holding provider's key.
func (s *KeyringService) KeyEnv(provider string) (string, error) {
	p, err := s.Provider(provider)
	if err != nil {
		return "", err
	}
	return p.APIKeyEnv, nil
}

// Store saves key for provider, replacing any earlier one.
func (s *KeyringService) Store(provider, key string) (StoredKey, error) {
	p, err := s.Provider(provider)
	if err != nil {
		return StoredKey{}, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return StoredKey{}, ErrEmptyAPIKey
	}
	if err := keyring.Set(keyringService, p.ID, key); err != nil {
		return StoredKey{}, fmt.Errorf("store %s key: %w", p.ID, err)
	}
	if err := s.updateIndex(func(ids map[string]bool) { ids[p.ID] = true }); err != nil {
		return StoredKey{}, err
	}
	return storedKey(p), nil
}

// APIKey returns the stored key for provider.
func (s *KeyringService) APIKey(provider string) (string, error) {
	p, err := s.Provider(provider)
	if err != nil {
		return "", err
	}
	return keyring.Get(keyringService, p.ID)
}

// Delete removes provider's key. Deleting a key that is not there is not an
// error.
func (s *KeyringService) Delete(provider string) error {
	p, err := s.Provider(provider)
	if err != nil {
		return err
	}
	if err := keyring.Delete(keyringService, p.ID); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete %s key: %w", p.ID, err)
	}
	return s.updateIndex(func(ids map[string]bool) { delete(ids, p.ID) })
}

// List returns the providers that currently have a key, in catalog order.
// Index entries whose key has gone from the keyring are skipped.
func (s *KeyringService) List() ([]StoredKey, error) {
	ids, err := s.readIndex()
	if err != nil {
		return nil, err
	}
	providers, err := s.catalog.Providers()
	if err != nil {
		return nil, err
	}
	var out []StoredKey
	for _, p := range providers {
		if !ids[p.ID] {
			continue
		}
		if _, err := keyring.Get(keyringService, p.ID); err != nil {
			continue
		}
		out = append(out, storedKey(p))
	}
	return out, nil
}

func storedKey(p ProviderInfo) StoredKey {
	return StoredKey{Provider: p.ID, DisplayName: p.DisplayName, EnvVar: p.APIKeyEnv}
}

func (s *KeyringService) indexPath() (string, error) {
	dir := s.ConfigDir
	if dir == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(configDir, "rmgen")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "providers.json"), nil
}

func (s *KeyringService) readIndex() (map[string]bool, error) {
	path, err := s.indexPath()
	if err != nil {
		return nil, err
	}
	ids := map[string]bool{}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return ids, nil
	}
	if err != nil {
		return nil, err
	}
	var listed []string
	if err := json.Unmarshal(data, &listed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for _, id := range listed {
		ids[id] = true
	}
	return ids, nil
}

func (s *KeyringService) updateIndex(edit func(map[string]bool)) error {
	ids, err := s.readIndex()
	if err != nil {
		return err
	}
	edit(ids)
	listed := make([]string, 0, len(ids))
	for id := range ids {
		listed = append(listed, id)
	}
	sort.Strings(listed)

	path, err := s.indexPath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(listed, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
