package wizard

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func persist(t *testing.T, storage *memStorage, s State) {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	storage.items[StateKey] = string(data)
}

func TestResolve(t *testing.T) {
	content := Initial()
	content.CurrentStep = StepContent
	callback := Initial()
	callback.CurrentStep = StepAuthCallback
	landing := Initial()

	tests := []struct {
		name      string
		persisted *State
		path      string
		token     string
		want      Step
	}{
		{name: "fresh session", path: "/", want: StepLanding},
		{name: "token without state", path: "/", token: "tok", want: StepSelectRepo},
		{name: "token with landing state", persisted: &landing, path: "/", token: "tok", want: StepSelectRepo},
		{name: "progress kept across reloads", persisted: &content, path: "/", want: StepContent},
		{name: "progress kept with token", persisted: &content, path: "/", token: "tok", want: StepContent},
		{name: "callback path wins over persisted step", persisted: &content, path: CallbackPath, want: StepAuthCallback},
		{name: "callback path with token", path: CallbackPath, token: "tok", want: StepAuthCallback},
		{name: "callback path with trailing slash", path: CallbackPath + "/", want: StepAuthCallback},
		{name: "stale callback step falls back to landing", persisted: &callback, path: "/", want: StepLanding},
		{name: "stale callback step with token", persisted: &callback, path: "/", token: "tok", want: StepSelectRepo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.persisted, at(tt.path), tt.token)
			assert.Equal(t, tt.want, got.CurrentStep)
			assert.Equal(t, tt.token, got.GitHubAccessToken)
		})
	}
}

func TestResolve_TokenNeverLandsOnLanding(t *testing.T) {
	for _, step := range allSteps {
		persisted := Initial()
		persisted.CurrentStep = step
		got := Resolve(&persisted, at("/"), "tok")
		assert.NotEqual(t, StepLanding, got.CurrentStep, "persisted %s", step)
	}
}

func TestResolve_CallbackAlwaysAuthCallback(t *testing.T) {
	for _, step := range allSteps {
		persisted := Initial()
		persisted.CurrentStep = step
		got := Resolve(&persisted, at(CallbackPath), "")
		assert.Equal(t, StepAuthCallback, got.CurrentStep, "persisted %s", step)
	}
}

func TestResolve_DropsUnknownSectionsAndLoading(t *testing.T) {
	persisted := Initial()
	persisted.SelectedSections = []string{"usage", "bogus", "usage", "license"}
	persisted.IsLoading = true
	persisted.SectionContent = nil
	persisted.CurrentStep = "nowhere"

	got := Resolve(&persisted, at("/"), "")

	assert.Equal(t, []string{"usage", "license"}, got.SelectedSections)
	assert.False(t, got.IsLoading)
	assert.NotNil(t, got.SectionContent)
	assert.Equal(t, StepLanding, got.CurrentStep)
}

func TestLoad_PersistedContentStepWithoutToken(t *testing.T) {
	storage := newMemStorage()
	s := Initial()
	s.CurrentStep = StepContent
	persist(t, storage, s)

	store, err := Load(context.Background(), storage, at("/"), nil)
	require.NoError(t, err)
	assert.Equal(t, StepContent, store.Read().CurrentStep)
}

func TestLoad_TokenWithoutStateGoesToSelectRepo(t *testing.T) {
	storage := newMemStorage()
	storage.items[TokenKey] = "tok"

	store, err := Load(context.Background(), storage, at("/"), nil)
	require.NoError(t, err)
	assert.Equal(t, StepSelectRepo, store.Read().CurrentStep)
	assert.Equal(t, "tok", store.Read().GitHubAccessToken)
}

func TestLoad_UnparseableStateFallsBackToDefaults(t *testing.T) {
	storage := newMemStorage()
	storage.items[StateKey] = "{not json"

	store, err := Load(context.Background(), storage, at("/"), nil)
	require.NoError(t, err)
	assert.Equal(t, Initial(), store.Read())
}

func TestLoad_PersistsResolvedStep(t *testing.T) {
	storage := newMemStorage()
	s := Initial()
	s.CurrentStep = StepAuthCallback
	persist(t, storage, s)

	_, err := Load(context.Background(), storage, at("/"), nil)
	require.NoError(t, err)

	var saved State
	require.NoError(t, json.Unmarshal([]byte(storage.items[StateKey]), &saved))
	assert.Equal(t, StepLanding, saved.CurrentStep)
}

func TestCallbackCode(t *testing.T) {
	loc := at(CallbackPath)
	_, err := CallbackCode(loc)
	assert.ErrorIs(t, err, ErrMissingCode)

	loc.query["code"] = " abc "
	code, err := CallbackCode(loc)
	require.NoError(t, err)
	assert.Equal(t, "abc", code)
}
