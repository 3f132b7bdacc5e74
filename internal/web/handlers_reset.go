package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rmgen/internal/events"
	"rmgen/internal/wizard"
)

// handleResetPrompt asks for confirmation when there is progress to lose
// and resets straight away otherwise.
func (s *Server) handleResetPrompt(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	st := r.state()
	if wizard.NeedsResetConfirmation(st.CurrentStep) {
		v := newView(st)
		v.Page = "reset"
		s.render(c, http.StatusOK, v)
		return
	}
	s.reset(r)
}

func (s *Server) handleReset(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()
	s.reset(r)
}

func (s *Server) reset(r *request) {
	from := r.state().CurrentStep
	if err := r.store.Reset(r.ctx); err != nil {
		s.fail(r, err)
		return
	}
	events.Emit(r.ctx, events.WizardReset, events.NewInfo("reset from "+string(from)))
	r.redirect()
}
