package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"rmgen/internal/repositories"
)

type SessionService interface {
	// Storage returns the key/value storage of one browser session.
	Storage(sessionID string) *SessionStorage
	Clear(ctx context.Context, sessionID string) error
	// Prune drops sessions idle for longer than ttl.
	Prune(ctx context.Context, ttl time.Duration) (int64, error)
}

type sessionService struct {
	repo repositories.SessionEntryRepository
}

func NewSessionService(repo repositories.SessionEntryRepository) SessionService {
	return &sessionService{repo: repo}
}

func (s *sessionService) Storage(sessionID string) *SessionStorage {
	return &SessionStorage{repo: s.repo, sessionID: sessionID}
}

func (s *sessionService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session id is required")
	}
	return s.repo.DeleteSession(ctx, sessionID)
}

func (s *sessionService) Prune(ctx context.Context, ttl time.Duration) (int64, error) {
	if ttl <= 0 {
		return 0, fmt.Errorf("ttl must be positive")
	}
	n, err := s.repo.PruneBefore(ctx, time.Now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("sessions: pruned %d idle entries", n)
	}
	return n, nil
}

// SessionStorage is the sessionStorage of one browser session, kept in the
// database.
type SessionStorage struct {
	repo      repositories.SessionEntryRepository
	sessionID string
}

func (s *SessionStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	entry, err := s.repo.Get(ctx, s.sessionID, key)
	if err != nil {
		return "", false, err
	}
	if entry == nil {
		return "", false, nil
	}
	return entry.Value, true, nil
}

func (s *SessionStorage) SetItem(ctx context.Context, key, value string) error {
	return s.repo.Upsert(ctx, s.sessionID, key, value)
}

func (s *SessionStorage) RemoveItem(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, s.sessionID, key)
}
