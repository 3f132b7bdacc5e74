// Package config reads RMGen's settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"

	"rmgen/internal/utils"
)

type GitHub struct {
	Token        string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	APIBaseURL   string
}

type LLM struct {
	Provider  string
	Model     string
	BaseURL   string
	MaxTokens int
	// APIKey is filled from the provider's environment variable or, failing
	// that, the OS keyring.
	APIKey string
}

type Config struct {
	Addr       string
	BackendURL string
	DBPath     string
	SessionTTL time.Duration
	// SkipClone turns off cloning during repository validation.
	SkipClone bool
	GinMode   string
	GitHub    GitHub
	LLM       LLM
}

// ProviderKeys knows, per LLM provider, which variable holds its API key
// and what key is stored for it.
type ProviderKeys interface {
	KeyEnv(provider string) (string, error)
	APIKey(provider string) (string, error)
}

func defaults(v *viper.Viper) {
	v.SetDefault("RMGEN_ADDR", ":3000")
	v.SetDefault("RMGEN_SESSION_TTL", "24h")
	v.SetDefault("RMGEN_LLM_PROVIDER", "gemini")
	v.SetDefault("RMGEN_LLM_MAX_TOKENS", 8192)
	v.SetDefault("RMGEN_SKIP_CLONE", false)
	v.SetDefault("GIN_MODE", "release")
}

// Load reads envFile (or the default .env locations when empty) and the
// process environment. keys validates the provider and supplies the stored
// key when the environment has none.
func Load(envFile string, keys ProviderKeys) (*Config, error) {
	if keys == nil {
		return nil, fmt.Errorf("provider keys are required")
	}
	if err := utils.LoadEnv(envFile); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	defaults(v)

	cfg := &Config{
		Addr:       v.GetString("RMGEN_ADDR"),
		BackendURL: v.GetString("RMGEN_BACKEND_URL"),
		DBPath:     v.GetString("RMGEN_DB_PATH"),
		SessionTTL: v.GetDuration("RMGEN_SESSION_TTL"),
		SkipClone:  v.GetBool("RMGEN_SKIP_CLONE"),
		GinMode:    v.GetString("GIN_MODE"),
		GitHub: GitHub{
			Token:        v.GetString("GITHUB_TOKEN"),
			ClientID:     v.GetString("GITHUB_CLIENT_ID"),
			ClientSecret: v.GetString("GITHUB_CLIENT_SECRET"),
			RedirectURI:  v.GetString("GITHUB_REDIRECT_URI"),
			APIBaseURL:   v.GetString("GITHUB_API_URL"),
		},
		LLM: LLM{
			Provider:  strings.ToLower(strings.TrimSpace(v.GetString("RMGEN_LLM_PROVIDER"))),
			Model:     v.GetString("RMGEN_LLM_MODEL"),
			BaseURL:   v.GetString("RMGEN_LLM_BASE_URL"),
			MaxTokens: v.GetInt("RMGEN_LLM_MAX_TOKENS"),
		},
	}

	// A bare PORT, as hosting platforms set it, overrides the listen port.
	if port := v.GetString("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("RMGEN_SESSION_TTL must be positive, got %s", v.GetString("RMGEN_SESSION_TTL"))
	}
	keyEnv, err := keys.KeyEnv(cfg.LLM.Provider)
	if err != nil {
		return nil, fmt.Errorf("unsupported RMGEN_LLM_PROVIDER %q: %w", cfg.LLM.Provider, err)
	}
	if cfg.BackendURL == "" {
		cfg.BackendURL = localBackendURL(cfg.Addr)
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	cfg.LLM.APIKey = v.GetString(keyEnv)
	if cfg.LLM.APIKey == "" {
		key, err := keys.APIKey(cfg.LLM.Provider)
		if err != nil {
			log.Printf("config: no %s key in keyring: %v", cfg.LLM.Provider, err)
		} else {
			cfg.LLM.APIKey = key
		}
	}
	return cfg, nil
}

// localBackendURL is the /api base of this process when it listens on addr.
func localBackendURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://localhost:3000/api"
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/api"
}
