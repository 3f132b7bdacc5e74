package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
)

// Storage keys, matching what the browser client kept in sessionStorage.
const (
	StateKey = "rmgen_app_state"
	TokenKey = "github_access_token"
)

// SessionStorage is key/value storage scoped to one browser session.
type SessionStorage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// StateStore is what step views depend on.
type StateStore interface {
	Read() State
	Update(ctx context.Context, p Patch) error
	UpdateWhen(ctx context.Context, guard func(State) bool, p Patch) (bool, error)
	Reset(ctx context.Context) error
}

// Store holds one session's aggregate and writes every revision through to
// its SessionStorage.
type Store struct {
	storage SessionStorage
	loc     Location
	lock    sync.Locker

	mu    sync.RWMutex
	state State
}

var _ StateStore = (*Store)(nil)

// Load rehydrates the aggregate for a page load at loc. Unparseable stored
// state is logged and ignored. lock serializes read-modify-write cycles of
// the session; nil means the store is the only writer.
func Load(ctx context.Context, storage SessionStorage, loc Location, lock sync.Locker) (*Store, error) {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	s := &Store{storage: storage, loc: loc, lock: lock}

	lock.Lock()
	defer lock.Unlock()

	persisted, err := s.readPersisted(ctx)
	if err != nil {
		return nil, err
	}
	token, _, err := storage.GetItem(ctx, TokenKey)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}

	resolved := Resolve(persisted, loc, token)
	if err := s.save(ctx, resolved, false); err != nil {
		return nil, err
	}
	s.state = resolved
	return s, nil
}

// Read returns the current revision.
func (s *Store) Read() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Update merges p into the latest persisted revision and persists the
// result.
func (s *Store) Update(ctx context.Context, p Patch) error {
	_, err := s.UpdateWhen(ctx, nil, p)
	return err
}

// UpdateWhen is Update guarded by a predicate on the latest revision. It
// reports false, without error, when the guard rejects it; callers use it to
// drop responses that arrive after the user has moved on.
func (s *Store) UpdateWhen(ctx context.Context, guard func(State) bool, p Patch) (bool, error) {
	if err := p.Validate(); err != nil {
		return false, err
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	current, err := s.latest(ctx)
	if err != nil {
		return false, err
	}
	if guard != nil && !guard(current) {
		return false, nil
	}

	next := p.Apply(current)
	if err := s.save(ctx, next, p.GitHubAccessToken.IsSet()); err != nil {
		return false, err
	}
	s.mu.Lock()
	s.state = next
	s.mu.Unlock()
	return true, nil
}

// Reset discards the session's progress and token and sends the browser back
// to the root location.
func (s *Store) Reset(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.storage.RemoveItem(ctx, StateKey); err != nil {
		return fmt.Errorf("clear state: %w", err)
	}
	if err := s.storage.RemoveItem(ctx, TokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	s.mu.Lock()
	s.state = Initial()
	s.mu.Unlock()
	s.loc.Push("/")
	return nil
}

// latest returns the persisted revision, falling back to the in-memory one
// when storage has nothing usable.
func (s *Store) latest(ctx context.Context) (State, error) {
	persisted, err := s.readPersisted(ctx)
	if err != nil {
		return State{}, err
	}
	s.mu.RLock()
	inMemory := s.state.clone()
	s.mu.RUnlock()
	if persisted == nil {
		return inMemory, nil
	}
	// The token lives under its own key; the aggregate copy may be stale.
	persisted.GitHubAccessToken = inMemory.GitHubAccessToken
	if token, ok, err := s.storage.GetItem(ctx, TokenKey); err == nil && ok {
		persisted.GitHubAccessToken = token
	}
	if persisted.SectionContent == nil {
		persisted.SectionContent = map[string]string{}
	}
	return *persisted, nil
}

func (s *Store) readPersisted(ctx context.Context) (*State, error) {
	raw, ok, err := s.storage.GetItem(ctx, StateKey)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var parsed State
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		log.Printf("wizard: failed to parse stored state: %v", err)
		return nil, nil
	}
	return &parsed, nil
}

func (s *Store) save(ctx context.Context, state State, writeToken bool) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := s.storage.SetItem(ctx, StateKey, string(data)); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if !writeToken {
		return nil
	}
	if state.GitHubAccessToken == "" {
		if err := s.storage.RemoveItem(ctx, TokenKey); err != nil {
			return fmt.Errorf("clear token: %w", err)
		}
		return nil
	}
	if err := s.storage.SetItem(ctx, TokenKey, state.GitHubAccessToken); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}
