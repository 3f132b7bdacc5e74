package wizard

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"rmgen/internal/events"
)

func TestMain(m *testing.M) {
	events.SetCustomEmitter(nil)
	goleak.VerifyTestMain(m)
}

type memStorage struct {
	mu    sync.Mutex
	items map[string]string
	sets  int
}

func newMemStorage() *memStorage {
	return &memStorage{items: map[string]string{}}
}

func (m *memStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *memStorage) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	m.sets++
	return nil
}

func (m *memStorage) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

type fakeLocation struct {
	path   string
	query  map[string]string
	pushed []string
}

func at(path string) *fakeLocation {
	return &fakeLocation{path: path, query: map[string]string{}}
}

func (l *fakeLocation) Path() string            { return l.path }
func (l *fakeLocation) Query(key string) string { return l.query[key] }
func (l *fakeLocation) Push(path string)        { l.pushed = append(l.pushed, path) }
