package unit_tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmgen/internal/models"
	"rmgen/internal/services"
	"rmgen/internal/tests/mocks"
)

func TestSessionStorage_RoundTrip(t *testing.T) {
	stored := map[string]string{}
	repo := &mocks.SessionEntryRepositoryMock{
		GetFunc: func(ctx context.Context, sessionID, key string) (*models.SessionEntry, error) {
			v, ok := stored[sessionID+"/"+key]
			if !ok {
				return nil, nil
			}
			return &models.SessionEntry{SessionID: sessionID, Key: key, Value: v}, nil
		},
		UpsertFunc: func(ctx context.Context, sessionID, key, value string) error {
			stored[sessionID+"/"+key] = value
			return nil
		},
		DeleteFunc: func(ctx context.Context, sessionID, key string) error {
			delete(stored, sessionID+"/"+key)
			return nil
		},
	}
	storage := services.NewSessionService(repo).Storage("abc")
	ctx := context.Background()

	_, ok, err := storage.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, storage.SetItem(ctx, "k", "v"))
	assert.Equal(t, "v", stored["abc/k"])

	v, ok, err := storage.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, storage.RemoveItem(ctx, "k"))
	assert.Empty(t, stored)
}

func TestSessionService_Prune(t *testing.T) {
	var cutoff time.Time
	repo := &mocks.SessionEntryRepositoryMock{
		PruneBeforeFunc: func(ctx context.Context, c time.Time) (int64, error) {
			cutoff = c
			return 2, nil
		},
	}
	svc := services.NewSessionService(repo)

	n, err := svc.Prune(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.WithinDuration(t, time.Now().Add(-time.Hour), cutoff, time.Minute)

	_, err = svc.Prune(context.Background(), 0)
	assert.Error(t, err)
}

func TestSessionService_ClearRequiresID(t *testing.T) {
	svc := services.NewSessionService(&mocks.SessionEntryRepositoryMock{})
	assert.EqualError(t, svc.Clear(context.Background(), ""), "session id is required")
}
