package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKeys serves the three real providers; stored holds keyring entries.
type fakeKeys map[string]string

var keyEnv = map[string]string{
	"gemini":    "GEMINI_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
}

func (f fakeKeys) KeyEnv(provider string) (string, error) {
	if env, ok := keyEnv[provider]; ok {
		return env, nil
	}
	return "", errors.New("unknown provider")
}

func (f fakeKeys) APIKey(provider string) (string, error) {
	if k, ok := f[provider]; ok {
		return k, nil
	}
	return "", errors.New("secret not found in keyring")
}

// clearEnv blanks every variable Load reads so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"RMGEN_ADDR", "PORT", "RMGEN_BACKEND_URL", "RMGEN_DB_PATH", "RMGEN_SESSION_TTL",
		"RMGEN_SKIP_CLONE", "GIN_MODE", "GITHUB_TOKEN", "GITHUB_CLIENT_ID",
		"GITHUB_CLIENT_SECRET", "GITHUB_REDIRECT_URI", "GITHUB_API_URL",
		"RMGEN_LLM_PROVIDER", "RMGEN_LLM_MODEL", "RMGEN_LLM_BASE_URL", "RMGEN_LLM_MAX_TOKENS",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func emptyEnvFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, nil, 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(emptyEnvFile(t), fakeKeys{})
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "http://localhost:3000/api", cfg.BackendURL)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, 8192, cfg.LLM.MaxTokens)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.False(t, cfg.SkipClone)
}

func TestLoad_EnvFileAndOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "GITHUB_CLIENT_ID=abc\nGITHUB_CLIENT_SECRET=shh\nRMGEN_LLM_PROVIDER=OpenAI\nOPENAI_API_KEY=sk-file\nRMGEN_SESSION_TTL=90m\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("PORT", "8081")

	cfg, err := Load(path, fakeKeys{})
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Addr)
	assert.Equal(t, "http://localhost:8081/api", cfg.BackendURL)
	assert.Equal(t, "abc", cfg.GitHub.ClientID)
	assert.Equal(t, "shh", cfg.GitHub.ClientSecret)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-file", cfg.LLM.APIKey)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
}

func TestLoad_KeyringFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("RMGEN_LLM_PROVIDER", "anthropic")

	cfg, err := Load(emptyEnvFile(t), fakeKeys{"anthropic": "sk-ant"})
	require.NoError(t, err)
	assert.Equal(t, "sk-ant", cfg.LLM.APIKey)

	t.Setenv("ANTHROPIC_API_KEY", "sk-env")
	cfg, err = Load(emptyEnvFile(t), fakeKeys{"anthropic": "sk-ant"})
	require.NoError(t, err)
	assert.Equal(t, "sk-env", cfg.LLM.APIKey, "environment wins over keyring")
}

func TestLoad_Rejects(t *testing.T) {
	clearEnv(t)
	t.Setenv("RMGEN_LLM_PROVIDER", "llama")
	_, err := Load(emptyEnvFile(t), fakeKeys{})
	assert.ErrorContains(t, err, "unsupported RMGEN_LLM_PROVIDER")

	clearEnv(t)
	t.Setenv("RMGEN_SESSION_TTL", "-1h")
	_, err = Load(emptyEnvFile(t), fakeKeys{})
	assert.ErrorContains(t, err, "RMGEN_SESSION_TTL")
}

func TestLoad_ExplicitBackendURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("RMGEN_BACKEND_URL", "https://api.example.com/api/")
	cfg, err := Load(emptyEnvFile(t), fakeKeys{})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/api", cfg.BackendURL)
}

func TestLocalBackendURL(t *testing.T) {
	assert.Equal(t, "http://localhost:3000/api", localBackendURL(":3000"))
	assert.Equal(t, "http://127.0.0.1:9000/api", localBackendURL("127.0.0.1:9000"))
	assert.Equal(t, "http://localhost:3000/api", localBackendURL("bogus"))
}

func TestLoad_RequiresProviderKeys(t *testing.T) {
	clearEnv(t)
	_, err := Load(emptyEnvFile(t), nil)
	assert.EqualError(t, err, "provider keys are required")
}
