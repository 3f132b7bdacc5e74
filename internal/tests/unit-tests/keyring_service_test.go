package unit_tests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"rmgen/internal/config"
	"rmgen/internal/services"
)

var _ config.ProviderKeys = (*services.KeyringService)(nil)

func newKeyringService(t *testing.T) *services.KeyringService {
	t.Helper()
	keyring.MockInit()
	svc := services.NewKeyringService(nil)
	svc.ConfigDir = t.TempDir()
	return svc
}

func TestKeyringService_StoreListDelete(t *testing.T) {
	svc := newKeyringService(t)

	stored, err := svc.Store("OpenAI", "sk-test")
	require.NoError(t, err)
	assert.Equal(t, services.StoredKey{Provider: "openai", DisplayName: "OpenAI", EnvVar: "OPENAI_API_KEY"}, stored)
	_, err = svc.Store("openai", " sk-test-2 ")
	require.NoError(t, err)
	_, err = svc.Store("gemini", "g-key")
	require.NoError(t, err)

	key, err := svc.APIKey("openai")
	require.NoError(t, err)
	assert.Equal(t, "sk-test-2", key)

	listed, err := svc.List()
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "gemini", listed[0].Provider, "listed in catalog order")
	assert.Equal(t, "openai", listed[1].Provider)

	require.NoError(t, svc.Delete("openai"))
	_, err = svc.APIKey("openai")
	assert.ErrorIs(t, err, keyring.ErrNotFound)
	require.NoError(t, svc.Delete("openai"), "deleting twice is fine")

	listed, err = svc.List()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "gemini", listed[0].Provider)
}

func TestKeyringService_ListSkipsKeysGoneFromKeyring(t *testing.T) {
	svc := newKeyringService(t)
	_, err := svc.Store("anthropic", "sk-ant")
	require.NoError(t, err)
	require.NoError(t, keyring.Delete("rmgen", "anthropic"))

	listed, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, listed)

	data, err := os.ReadFile(filepath.Join(svc.ConfigDir, "providers.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `["anthropic"]`, string(data))
}

func TestKeyringService_Validation(t *testing.T) {
	svc := newKeyringService(t)

	_, err := svc.Store("openai", "  ")
	assert.ErrorIs(t, err, services.ErrEmptyAPIKey)
	_, err = svc.Store("", "k")
	assert.EqualError(t, err, "provider is required")
	_, err = svc.Store("llama", "k")
	assert.ErrorIs(t, err, services.ErrUnknownProvider)
	_, err = svc.APIKey("llama")
	assert.ErrorIs(t, err, services.ErrUnknownProvider)
	assert.ErrorIs(t, svc.Delete("llama"), services.ErrUnknownProvider)
}

func TestKeyringService_KeyEnvFollowsCatalog(t *testing.T) {
	data := []byte(`{"providers":[{"id":"local","displayName":"Local","apiKeyEnv":"LOCAL_KEY","models":[{"apiName":"m"}]}]}`)
	svc := services.NewKeyringService(services.NewModelCatalogServiceFromData(data))

	env, err := svc.KeyEnv(" LOCAL ")
	require.NoError(t, err)
	assert.Equal(t, "LOCAL_KEY", env)

	_, err = svc.KeyEnv("openai")
	assert.ErrorIs(t, err, services.ErrUnknownProvider)
}
