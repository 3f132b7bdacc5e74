package web

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rmgen/internal/wizard"
)

// request bundles what a step handler works with: the session's store and
// navigator, loaded for this request's location.
type request struct {
	c       *gin.Context
	ctx     context.Context
	sid     string
	loc     *httpLocation
	store   *wizard.Store
	nav     *wizard.Navigator
	release func()
}

// open loads the session's aggregate. On failure it renders the error page
// and reports false.
func (s *Server) open(c *gin.Context) (*request, bool) {
	sid := sessionID(c)
	lock, release := s.locks.acquire(sid)
	loc := newLocation(c.Request.URL)
	ctx := c.Request.Context()

	store, err := wizard.Load(ctx, s.storage(sid), loc, lock)
	if err != nil {
		release()
		log.Printf("web: load session %s: %v", sid, err)
		s.renderFailure(c, http.StatusInternalServerError, "Your session could not be loaded. Please try again.")
		return nil, false
	}
	return &request{
		c:       c,
		ctx:     ctx,
		sid:     sid,
		loc:     loc,
		store:   store,
		nav:     wizard.NewNavigator(store),
		release: release,
	}, true
}

func (r *request) done() {
	r.release()
}

func (r *request) state() wizard.State {
	return r.store.Read()
}

// redirect finishes a form post by sending the browser to wherever the
// store pushed it, or back to the current step.
func (r *request) redirect() {
	target := "/"
	if r.loc.pushed != "" {
		target = r.loc.pushed
	}
	r.c.Redirect(http.StatusSeeOther, target)
}

// fail handles an error from the store or navigator. Illegal transitions
// come from stale pages and just show the current step again.
func (s *Server) fail(r *request, err error) {
	switch {
	case errors.Is(err, wizard.ErrIllegalTransition):
		log.Printf("web: session %s: %v", r.sid, err)
		r.redirect()
	case errors.Is(err, wizard.ErrUnknownSection):
		if uerr := r.store.Update(r.ctx, wizard.Patch{Error: wizard.Set("Please choose sections from the list")}); uerr != nil {
			log.Printf("web: session %s: %v", r.sid, uerr)
		}
		r.redirect()
	default:
		log.Printf("web: session %s: %v", r.sid, err)
		s.renderFailure(r.c, http.StatusInternalServerError, "Something went wrong while saving your progress. Please try again.")
	}
}

// setError records a message for the current step and redirects.
func (s *Server) setError(r *request, msg string) {
	if err := r.store.Update(r.ctx, wizard.Patch{Error: wizard.Set(msg)}); err != nil {
		s.fail(r, err)
		return
	}
	r.redirect()
}

// guard runs fn as the session's only instance of action. A duplicate
// submission gets a 409 page and fn is not called.
func (s *Server) guard(r *request, action string, fn func()) bool {
	if !s.inflight.begin(r.sid, action) {
		s.renderFailure(r.c, http.StatusConflict, "This request is already in progress. Please wait for it to finish.")
		return false
	}
	defer s.inflight.end(r.sid, action)
	fn()
	return true
}

// onStep accepts revisions still sitting on one of steps.
func onStep(steps ...wizard.Step) func(wizard.State) bool {
	return func(st wizard.State) bool {
		for _, step := range steps {
			if st.CurrentStep == step {
				return true
			}
		}
		return false
	}
}
