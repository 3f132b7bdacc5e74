package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rmgen/internal/api"
	"rmgen/internal/wizard"
)

// handleAuthCallback is where GitHub sends the browser back. Loading the
// store at this path puts the session on authCallback.
func (s *Server) handleAuthCallback(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	code, err := wizard.CallbackCode(r.loc)
	if err != nil {
		s.renderAuthFailure(r, "No authorization code found.")
		return
	}

	s.guard(r, actionCallback, func() {
		res := s.backend.ExchangeCodeForToken(r.ctx, code)
		if !res.Success || res.Data == "" {
			msg := res.Error
			if msg == "" || res.Success {
				msg = "Failed to get access token."
			}
			s.renderAuthFailure(r, msg)
			return
		}
		_, err := r.nav.GoToWhen(r.ctx, wizard.StepSelectRepo, onStep(wizard.StepAuthCallback), wizard.Patch{
			GitHubAccessToken: wizard.Set(res.Data),
			Error:             wizard.Set(""),
		})
		if err != nil {
			s.fail(r, err)
			return
		}
		r.redirect()
	})
}

func (s *Server) renderAuthFailure(r *request, msg string) {
	v := newView(r.state())
	v.Page = string(wizard.StepAuthCallback)
	v.Fatal = msg
	s.render(r.c, http.StatusOK, v)
}

// handleAuthBack is the "go back" of a failed callback. Loading off the
// callback path already resolved the session to landing.
func (s *Server) handleAuthBack(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	if err := r.nav.GoTo(r.ctx, wizard.StepLanding, wizard.Patch{Error: wizard.Set("")}); err != nil {
		s.fail(r, err)
		return
	}
	r.redirect()
}

func (s *Server) renderSelectRepo(r *request) {
	st := r.state()
	v := newView(st)
	if !st.HasToken() {
		v.Fatal = api.MsgMissingToken
		s.render(r.c, http.StatusOK, v)
		return
	}

	// A page load never conflicts: a second tab waits on the first one's
	// listing instead.
	if !s.inflight.begin(r.sid, actionRepos) {
		v.Listing = true
		s.render(r.c, http.StatusOK, v)
		return
	}
	res := s.backend.GetUserRepositories(r.ctx, st.GitHubAccessToken)
	s.inflight.end(r.sid, actionRepos)
	if !res.Success {
		v.Fatal = res.Error
		if v.Fatal == "" {
			v.Fatal = "Failed to fetch repositories."
		}
		s.render(r.c, http.StatusOK, v)
		return
	}
	v.Repos = res.Data
	v.Busy = s.inflight.busy(r.sid, actionValidate)
	s.render(r.c, http.StatusOK, v)
}

func (s *Server) handleSelectRepo(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	st := r.state()
	if st.CurrentStep != wizard.StepSelectRepo {
		r.redirect()
		return
	}
	if !st.HasToken() {
		s.setError(r, api.MsgMissingToken)
		return
	}
	owner, name, found := strings.Cut(trimmed(c, "full_name"), "/")
	if !found || owner == "" || name == "" {
		s.setError(r, "Please select a repository to continue.")
		return
	}

	chosen := wizard.RepositoryInput{Method: wizard.MethodOAuth, Owner: owner, RepoName: name}
	s.guard(r, actionValidate, func() {
		s.validateInto(r, api.RepositoryInput{Method: api.MethodOwnerRepo, Owner: owner, RepoName: name},
			wizard.StepSelectRepo, func(wizard.State) bool { return true },
			wizard.Patch{RepositoryInput: wizard.Set(chosen)})
	})
}

// handleSelectRepoLeave drops the token and returns to landing, the
// recovery action of the repository picker.
func (s *Server) handleSelectRepoLeave(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	err := r.nav.GoTo(r.ctx, wizard.StepLanding, wizard.Patch{
		GitHubAccessToken: wizard.Set(""),
		Error:             wizard.Set(""),
	})
	if err != nil {
		s.fail(r, err)
		return
	}
	r.redirect()
}
