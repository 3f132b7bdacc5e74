package wizard

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmgen/internal/models"
)

func loadStore(t *testing.T, storage *memStorage, loc *fakeLocation) *Store {
	t.Helper()
	store, err := Load(context.Background(), storage, loc, nil)
	require.NoError(t, err)
	return store
}

func TestStore_UpdatePersistsEveryRevision(t *testing.T) {
	storage := newMemStorage()
	store := loadStore(t, storage, at("/"))

	err := store.Update(context.Background(), Patch{ProjectName: Set("rmgen")})
	require.NoError(t, err)

	var saved State
	require.NoError(t, json.Unmarshal([]byte(storage.items[StateKey]), &saved))
	assert.Equal(t, "rmgen", saved.ProjectName)
	assert.Equal(t, "rmgen", store.Read().ProjectName)
}

func TestStore_UpdateIsIdempotent(t *testing.T) {
	storage := newMemStorage()
	store := loadStore(t, storage, at("/"))
	p := Patch{
		SelectedSections: Set([]string{SectionUsage, SectionLicense}),
		SectionContent:   Set(map[string]string{SectionUsage: "run it"}),
		Error:            Set(""),
	}

	require.NoError(t, store.Update(context.Background(), p))
	once := store.Read()
	require.NoError(t, store.Update(context.Background(), p))

	assert.Equal(t, once, store.Read())
}

func TestStore_UpdateRejectsUnknownSection(t *testing.T) {
	storage := newMemStorage()
	store := loadStore(t, storage, at("/"))

	err := store.Update(context.Background(), Patch{SelectedSections: Set([]string{"bogus"})})

	assert.ErrorIs(t, err, ErrUnknownSection)
	assert.Empty(t, store.Read().SelectedSections)
}

func TestStore_UpdateMergesLatestPersistedRevision(t *testing.T) {
	storage := newMemStorage()
	ctx := context.Background()
	first := loadStore(t, storage, at("/"))
	second := loadStore(t, storage, at("/"))

	require.NoError(t, first.Update(ctx, Patch{ProjectName: Set("alpha")}))
	require.NoError(t, second.Update(ctx, Patch{ProjectDescription: Set("beta")}))

	got := second.Read()
	assert.Equal(t, "alpha", got.ProjectName)
	assert.Equal(t, "beta", got.ProjectDescription)
}

func TestStore_UpdateWhenGuardRejects(t *testing.T) {
	storage := newMemStorage()
	store := loadStore(t, storage, at("/"))
	sets := storage.sets

	applied, err := store.UpdateWhen(context.Background(), func(s State) bool {
		return s.CurrentStep == StepPreview
	}, Patch{GeneratedContent: Set("late")})

	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, sets, storage.sets)
	assert.Empty(t, store.Read().GeneratedContent)
}

func TestStore_TokenWrittenUnderItsOwnKey(t *testing.T) {
	storage := newMemStorage()
	store := loadStore(t, storage, at("/"))

	require.NoError(t, store.Update(context.Background(), Patch{GitHubAccessToken: Set("tok")}))
	assert.Equal(t, "tok", storage.items[TokenKey])

	require.NoError(t, store.Update(context.Background(), Patch{GitHubAccessToken: Set("")}))
	_, ok := storage.items[TokenKey]
	assert.False(t, ok)
}

func TestStore_ResetClearsEverything(t *testing.T) {
	storage := newMemStorage()
	loc := at("/")
	s := Initial()
	s.CurrentStep = StepPreview
	s.GeneratedContent = "# Hello"
	s.RepositoryMetadata = &models.RepositoryMetadata{Name: "demo"}
	persist(t, storage, s)
	storage.items[TokenKey] = "tok"
	store := loadStore(t, storage, loc)

	require.NoError(t, store.Reset(context.Background()))

	assert.Equal(t, Initial(), store.Read())
	assert.Empty(t, storage.items)
	assert.Equal(t, []string{"/"}, loc.pushed)

	reloaded := loadStore(t, storage, at("/"))
	assert.Equal(t, StepLanding, reloaded.Read().CurrentStep)
}

func TestStore_ReadReturnsIndependentCopies(t *testing.T) {
	storage := newMemStorage()
	store := loadStore(t, storage, at("/"))
	require.NoError(t, store.Update(context.Background(), Patch{
		SectionContent: Set(map[string]string{SectionUsage: "run it"}),
	}))

	got := store.Read()
	got.SectionContent[SectionUsage] = "changed"

	assert.Equal(t, "run it", store.Read().SectionContent[SectionUsage])
}
