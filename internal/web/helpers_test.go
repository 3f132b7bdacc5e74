package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"rmgen/internal/events"
	"rmgen/internal/tests/mocks"
	"rmgen/internal/wizard"
)

// memSessions is an in-memory session storage table.
type memSessions struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

type memStorage struct {
	parent *memSessions
	id     string
}

func (m *memSessions) storage(id string) wizard.SessionStorage {
	return &memStorage{parent: m, id: id}
}

func (s *memStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	v, ok := s.parent.data[s.id][key]
	return v, ok, nil
}

func (s *memStorage) SetItem(_ context.Context, key, value string) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	if s.parent.data[s.id] == nil {
		s.parent.data[s.id] = map[string]string{}
	}
	s.parent.data[s.id][key] = value
	return nil
}

func (s *memStorage) RemoveItem(_ context.Context, key string) error {
	s.parent.mu.Lock()
	defer s.parent.mu.Unlock()
	delete(s.parent.data[s.id], key)
	return nil
}

type harness struct {
	t        *testing.T
	server   *Server
	backend  *mocks.BackendMock
	sessions *memSessions
	cookie   *http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	events.SetCustomEmitter(nil)
	t.Cleanup(events.ResetEmitter)

	h := &harness{
		t:        t,
		backend:  &mocks.BackendMock{},
		sessions: &memSessions{data: map[string]map[string]string{}},
	}
	srv, err := New(Options{Backend: h.backend, Storage: h.sessions.storage})
	require.NoError(t, err)
	h.server = srv
	return h
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	h.t.Helper()
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	rec := httptest.NewRecorder()
	h.server.Handler().ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			h.cookie = c
		}
	}
	return rec
}

func (h *harness) get(path string) *httptest.ResponseRecorder {
	return h.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (h *harness) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

// sid starts a session if needed and returns its id.
func (h *harness) sid() string {
	if h.cookie == nil {
		h.get("/")
	}
	require.NotNil(h.t, h.cookie)
	return h.cookie.Value
}

// seed stores st and token for the session, as an earlier page load would.
func (h *harness) seed(st wizard.State, token string) {
	h.t.Helper()
	id := h.sid()
	data, err := json.Marshal(st)
	require.NoError(h.t, err)
	h.sessions.mu.Lock()
	defer h.sessions.mu.Unlock()
	h.sessions.data[id] = map[string]string{wizard.StateKey: string(data)}
	if token != "" {
		h.sessions.data[id][wizard.TokenKey] = token
	}
}

// state returns the persisted aggregate of the session.
func (h *harness) state() wizard.State {
	h.t.Helper()
	h.sessions.mu.Lock()
	raw := h.sessions.data[h.sid()][wizard.StateKey]
	h.sessions.mu.Unlock()
	var st wizard.State
	require.NoError(h.t, json.Unmarshal([]byte(raw), &st))
	return st
}

func (h *harness) token() (string, bool) {
	h.sessions.mu.Lock()
	defer h.sessions.mu.Unlock()
	v, ok := h.sessions.data[h.sid()][wizard.TokenKey]
	return v, ok
}

// at returns an aggregate on step with the given changes applied.
func at(step wizard.Step, edit func(*wizard.State)) wizard.State {
	st := wizard.Initial()
	st.CurrentStep = step
	if edit != nil {
		edit(&st)
	}
	return st
}
