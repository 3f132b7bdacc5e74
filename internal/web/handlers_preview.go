package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rmgen/internal/wizard"
)

const readmeFilename = "README.md"

// renderPreview shows the preview step, generating the README first when
// the step has nothing to show yet.
func (s *Server) renderPreview(r *request) {
	st := r.state()
	if st.GeneratedContent == "" && st.Error == "" {
		if !s.inflight.begin(r.sid, actionGenerate) {
			v := previewView(st)
			v.Busy = true
			s.render(r.c, http.StatusOK, v)
			return
		}
		err := s.generate(r)
		s.inflight.end(r.sid, actionGenerate)
		if err != nil {
			s.fail(r, err)
			return
		}
	}
	s.render(r.c, http.StatusOK, previewView(r.state()))
}

// generate sends the generation request built from the current revision
// and stores the outcome if the session is still on the preview step.
func (s *Server) generate(r *request) error {
	req := wizard.GenerationRequest(r.state())
	if err := r.store.Update(r.ctx, wizard.Patch{IsLoading: wizard.Set(true), Error: wizard.Set("")}); err != nil {
		return err
	}

	res := s.backend.GenerateReadme(r.ctx, req)
	patch := wizard.Patch{IsLoading: wizard.Set(false)}
	if res.Success {
		patch.GeneratedContent = wizard.Set(res.Data)
		patch.Error = wizard.Set("")
	} else {
		patch.Error = wizard.Set(res.Error)
	}
	_, err := r.store.UpdateWhen(r.ctx, onStep(wizard.StepPreview), patch)
	return err
}

// handlePreviewGenerate serves both "Try Again" and "Regenerate".
func (s *Server) handlePreviewGenerate(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	if r.state().CurrentStep != wizard.StepPreview {
		r.redirect()
		return
	}
	s.guard(r, actionGenerate, func() {
		if err := s.generate(r); err != nil {
			s.fail(r, err)
			return
		}
		r.redirect()
	})
}

func (s *Server) handlePreviewSave(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	content := normalizeNewlines(c.PostForm("content"))
	_, err := r.store.UpdateWhen(r.ctx, onStep(wizard.StepPreview), wizard.Patch{
		GeneratedContent: wizard.Set(content),
		Error:            wizard.Set(""),
	})
	if err != nil {
		s.fail(r, err)
		return
	}
	r.redirect()
}

func (s *Server) handlePreviewRefine(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	st := r.state()
	if st.CurrentStep != wizard.StepPreview {
		r.redirect()
		return
	}
	prompt := trimmed(c, "prompt")
	if prompt == "" {
		s.setError(r, "Prompt cannot be empty.")
		return
	}

	current := st.GeneratedContent
	s.guard(r, actionRefine, func() {
		if err := r.store.Update(r.ctx, wizard.Patch{IsLoading: wizard.Set(true), Error: wizard.Set("")}); err != nil {
			s.fail(r, err)
			return
		}
		res := s.backend.RefineReadme(r.ctx, current, prompt)
		patch := wizard.Patch{IsLoading: wizard.Set(false)}
		if res.Success {
			patch.GeneratedContent = wizard.Set(res.Data)
		} else {
			patch.Error = wizard.Set(res.Error)
		}
		// An edit saved while refining wins over the refined text.
		_, err := r.store.UpdateWhen(r.ctx, func(cur wizard.State) bool {
			return cur.CurrentStep == wizard.StepPreview && cur.GeneratedContent == current
		}, patch)
		if err != nil {
			s.fail(r, err)
			return
		}
		r.redirect()
	})
}

func (s *Server) handlePreviewBack(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	if err := r.nav.Back(r.ctx, wizard.StepContent); err != nil {
		s.fail(r, err)
		return
	}
	r.redirect()
}

func (s *Server) handlePreviewRendered(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	v := previewView(r.state())
	v.Page = "rendered"
	s.render(c, http.StatusOK, v)
}

// handleDownload returns the current README verbatim.
func (s *Server) handleDownload(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	content := r.state().GeneratedContent
	if content == "" {
		s.renderFailure(c, http.StatusNotFound, "There is no README to download yet.")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+readmeFilename+`"`)
	c.Data(http.StatusOK, "text/markdown", []byte(content))
}

// normalizeNewlines undoes the CRLF line endings browsers submit textareas
// with.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
