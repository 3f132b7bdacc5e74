package web

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rmgen/internal/events"
)

const (
	sessionCookie = "rmgen_session"
	sessionKey    = "rmgen.session"
)

// sessionMiddleware makes sure every page request carries a session id,
// issuing a browser-session cookie when there is none.
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     sessionCookie,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(sessionKey, id)
		c.Request = c.Request.WithContext(events.WithSession(c.Request.Context(), id))
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

// sessionLocks hands out one mutex per session so read-modify-write cycles
// of concurrent requests from the same browser do not interleave.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*refLock)}
}

// acquire returns the session's lock; release must be called once the
// request is done with it.
func (l *sessionLocks) acquire(id string) (lock sync.Locker, release func()) {
	l.mu.Lock()
	rl, ok := l.locks[id]
	if !ok {
		rl = &refLock{}
		l.locks[id] = rl
	}
	rl.refs++
	l.mu.Unlock()

	return rl, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		rl.refs--
		if rl.refs == 0 {
			delete(l.locks, id)
		}
	}
}

func (l *sessionLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

// Network actions that may only run once at a time per session.
const (
	actionValidate = "validate"
	actionOAuth    = "oauth"
	actionCallback = "callback"
	actionRepos    = "repos"
	actionGenerate = "generate"
	actionRefine   = "refine"
)

// inflight tracks the network actions currently running per session.
type inflight struct {
	mu      sync.Mutex
	running map[string]bool
}

func newInflight() *inflight {
	return &inflight{running: make(map[string]bool)}
}

// begin marks action as running for the session. It reports false when the
// action is already running.
func (f *inflight) begin(id, action string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := id + "/" + action
	if f.running[key] {
		return false
	}
	f.running[key] = true
	return true
}

func (f *inflight) end(id, action string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.running, id+"/"+action)
}

func (f *inflight) busy(id, action string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running[id+"/"+action]
}
