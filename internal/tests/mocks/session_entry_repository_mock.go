package mocks

import (
	"context"
	"time"

	"rmgen/internal/models"
)

type SessionEntryRepositoryMock struct {
	GetFunc           func(ctx context.Context, sessionID, key string) (*models.SessionEntry, error)
	UpsertFunc        func(ctx context.Context, sessionID, key, value string) error
	DeleteFunc        func(ctx context.Context, sessionID, key string) error
	DeleteSessionFunc func(ctx context.Context, sessionID string) error
	PruneBeforeFunc   func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *SessionEntryRepositoryMock) Get(ctx context.Context, sessionID, key string) (*models.SessionEntry, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, sessionID, key)
	}
	return nil, nil
}

func (m *SessionEntryRepositoryMock) Upsert(ctx context.Context, sessionID, key, value string) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, sessionID, key, value)
	}
	return nil
}

func (m *SessionEntryRepositoryMock) Delete(ctx context.Context, sessionID, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID, key)
	}
	return nil
}

func (m *SessionEntryRepositoryMock) DeleteSession(ctx context.Context, sessionID string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, sessionID)
	}
	return nil
}

func (m *SessionEntryRepositoryMock) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.PruneBeforeFunc != nil {
		return m.PruneBeforeFunc(ctx, cutoff)
	}
	return 0, nil
}
