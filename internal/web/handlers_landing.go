package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rmgen/internal/api"
	"rmgen/internal/models"
	"rmgen/internal/wizard"
)

func (s *Server) handleLandingMethod(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	method := wizard.InputMethod(c.PostForm("method"))
	if !method.Valid() {
		s.setError(r, api.MsgInvalidMethod)
		return
	}
	in := r.state().RepositoryInput
	in.Method = method
	if err := r.store.Update(r.ctx, wizard.Patch{RepositoryInput: wizard.Set(in), Error: wizard.Set("")}); err != nil {
		s.fail(r, err)
		return
	}
	r.redirect()
}

func (s *Server) handleLandingValidate(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	in := wizard.RepositoryInput{
		Method:   wizard.InputMethod(c.PostForm("method")),
		RepoURL:  trimmed(c, "repo_url"),
		Owner:    trimmed(c, "owner"),
		RepoName: trimmed(c, "repo_name"),
	}
	if err := r.store.Update(r.ctx, wizard.Patch{RepositoryInput: wizard.Set(in), Error: wizard.Set("")}); err != nil {
		s.fail(r, err)
		return
	}
	if err := wizard.ValidateRepositoryInput(in); err != nil {
		s.setError(r, err.Error())
		return
	}
	if r.state().CurrentStep != wizard.StepLanding {
		r.redirect()
		return
	}

	s.guard(r, actionValidate, func() {
		s.validateInto(r, toAPIInput(in), wizard.StepLanding, func(st wizard.State) bool {
			return st.RepositoryInput == in
		}, wizard.Patch{})
	})
}

// validateInto asks the backend about a repository and, on success, moves
// from step to setup with the metadata. keep decides whether the answer is
// still wanted once it arrives.
func (s *Server) validateInto(r *request, in api.RepositoryInput, step wizard.Step, keep func(wizard.State) bool, extra wizard.Patch) {
	if err := r.store.Update(r.ctx, wizard.Patch{IsLoading: wizard.Set(true), Error: wizard.Set("")}); err != nil {
		s.fail(r, err)
		return
	}

	res := s.backend.ValidateRepository(r.ctx, in)
	wanted := func(st wizard.State) bool {
		return st.CurrentStep == step && keep(st)
	}
	if !res.Success || res.Data == nil {
		msg := res.Error
		if msg == "" {
			msg = "Failed to validate repository"
		}
		if _, err := r.store.UpdateWhen(r.ctx, wanted, wizard.Patch{IsLoading: wizard.Set(false), Error: wizard.Set(msg)}); err != nil {
			s.fail(r, err)
			return
		}
		r.redirect()
		return
	}

	current := r.state()
	patch := extra
	patch.RepositoryMetadata = wizard.Set(res.Data)
	patch.ProjectType = wizard.Set(wizard.InitialProjectType(res.Data, current.ProjectType))
	patch.TeamContext = wizard.Set(wizard.InitialTeamContext(res.Data, current.TeamContext))
	patch.ProjectName = wizard.Set("")
	patch.ProjectDescription = wizard.Set("")
	patch.IsLoading = wizard.Set(false)
	patch.Error = wizard.Set("")
	if _, err := r.nav.GoToWhen(r.ctx, wizard.StepSetup, wanted, patch); err != nil {
		s.fail(r, err)
		return
	}
	r.redirect()
}

func (s *Server) handleLandingSkip(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	err := r.nav.GoTo(r.ctx, wizard.StepSetup, wizard.Patch{
		RepositoryInput:    wizard.Set(wizard.RepositoryInput{Method: wizard.MethodSkip}),
		RepositoryMetadata: wizard.Set[*models.RepositoryMetadata](nil),
		Error:              wizard.Set(""),
	})
	if err != nil {
		s.fail(r, err)
		return
	}
	r.redirect()
}

// handleLandingConnect starts the OAuth round trip by sending the browser
// to GitHub's authorization page.
func (s *Server) handleLandingConnect(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	s.guard(r, actionOAuth, func() {
		res := s.backend.GetGitHubOAuthURL(r.ctx)
		if !res.Success {
			s.setError(r, res.Error)
			return
		}
		in := r.state().RepositoryInput
		in.Method = wizard.MethodOAuth
		if err := r.store.Update(r.ctx, wizard.Patch{RepositoryInput: wizard.Set(in), Error: wizard.Set("")}); err != nil {
			s.fail(r, err)
			return
		}
		c.Redirect(http.StatusSeeOther, res.Data)
	})
}

func toAPIInput(in wizard.RepositoryInput) api.RepositoryInput {
	return api.RepositoryInput{
		Method:   api.Method(in.Method),
		RepoURL:  in.RepoURL,
		Owner:    in.Owner,
		RepoName: in.RepoName,
	}
}
