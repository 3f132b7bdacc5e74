package web

import (
	"github.com/gin-gonic/gin"

	"rmgen/internal/wizard"
)

func (s *Server) handleSetup(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	if c.PostForm("action") == "back" {
		if err := r.nav.Back(r.ctx, wizard.StepLanding); err != nil {
			s.fail(r, err)
			return
		}
		r.redirect()
		return
	}

	projectType := c.PostForm("project_type")
	team := wizard.TeamContext(c.PostForm("team_context"))
	patch := wizard.Patch{
		ProjectName:        wizard.Set(trimmed(c, "project_name")),
		ProjectDescription: wizard.Set(trimmed(c, "project_description")),
	}
	if err := wizard.SetupCanContinue(projectType, team); err != nil {
		patch.Error = wizard.Set(err.Error())
		if _, err := r.store.UpdateWhen(r.ctx, onStep(wizard.StepSetup), patch); err != nil {
			s.fail(r, err)
			return
		}
		r.redirect()
		return
	}

	patch.ProjectType = wizard.Set(projectType)
	patch.TeamContext = wizard.Set(team)
	patch.Error = wizard.Set("")
	if err := r.nav.GoTo(r.ctx, wizard.StepSections, patch); err != nil {
		s.fail(r, err)
		return
	}
	r.redirect()
}

func (s *Server) handleSections(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	if c.PostForm("action") == "back" {
		if err := r.nav.Back(r.ctx, wizard.StepSetup); err != nil {
			s.fail(r, err)
			return
		}
		r.redirect()
		return
	}

	selected := c.PostFormArray("section")
	for _, id := range selected {
		if !wizard.IsSectionKind(id) {
			s.setError(r, "Please choose sections from the list")
			return
		}
	}
	// Walk order is catalog order whatever order the form listed them in.
	ordered := make([]string, 0, len(selected))
	for _, sec := range wizard.OrderedSections(selected) {
		ordered = append(ordered, sec.ID)
	}

	st := r.state()
	first := wizard.FirstSection(ordered)
	patch := wizard.Patch{
		SelectedSections: wizard.Set(ordered),
		ActiveSection:    wizard.Set(first),
		Error:            wizard.Set(""),
	}
	if first != "" {
		patch.SectionContent = wizard.Set(wizard.SeedSectionContent(st.SectionContent, first, st.RepositoryMetadata))
	}
	if err := r.nav.GoTo(r.ctx, wizard.StepContent, patch); err != nil {
		s.fail(r, err)
		return
	}
	r.redirect()
}

// handleContent saves the posted body of the active section and moves
// between sections. A post for a section that is no longer active is
// dropped.
func (s *Server) handleContent(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	st := r.state()
	selected := st.SelectedSections
	action := c.PostForm("action")
	// Section tabs submit the editor form with only a target.
	if action == "" && c.PostForm("target") != "" {
		action = "goto"
	}

	// With nothing selected the step is only a pass-through.
	if len(wizard.OrderedSections(selected)) == 0 {
		var err error
		if action == "previous" {
			err = r.nav.Back(r.ctx, wizard.StepSections)
		} else {
			err = r.nav.GoTo(r.ctx, wizard.StepPreview, wizard.Patch{GeneratedContent: wizard.Set(""), Error: wizard.Set("")})
		}
		if err != nil {
			s.fail(r, err)
			return
		}
		r.redirect()
		return
	}

	section := c.PostForm("section")
	body, posted := c.GetPostForm("body")
	if !posted {
		body = st.SectionContent[section]
	}
	if action == "use-existing" && st.RepositoryMetadata.HasExistingReadme() {
		body = *st.RepositoryMetadata.ExistingReadme
	}
	stillActive := func(cur wizard.State) bool {
		return cur.CurrentStep == wizard.StepContent && cur.ActiveSection == section
	}

	content := make(map[string]string, len(st.SectionContent)+1)
	for k, v := range st.SectionContent {
		content[k] = v
	}
	content[section] = body
	patch := wizard.Patch{SectionContent: wizard.Set(content), Error: wizard.Set("")}

	switch action {
	case "next":
		if err := wizard.ContentCanContinue(body); err != nil {
			patch.Error = wizard.Set(err.Error())
			break
		}
		next := wizard.NextSection(selected, section)
		if next == "" {
			patch.GeneratedContent = wizard.Set("")
			if _, err := r.nav.GoToWhen(r.ctx, wizard.StepPreview, stillActive, patch); err != nil {
				s.fail(r, err)
				return
			}
			r.redirect()
			return
		}
		patch.ActiveSection = wizard.Set(next)
		patch.SectionContent = wizard.Set(wizard.SeedSectionContent(content, next, st.RepositoryMetadata))
	case "previous":
		prev := wizard.PreviousSection(selected, section)
		if prev == "" {
			applied, err := r.store.UpdateWhen(r.ctx, stillActive, patch)
			if err != nil {
				s.fail(r, err)
				return
			}
			if applied {
				if err := r.nav.Back(r.ctx, wizard.StepSections); err != nil {
					s.fail(r, err)
					return
				}
			}
			r.redirect()
			return
		}
		patch.ActiveSection = wizard.Set(prev)
		patch.SectionContent = wizard.Set(wizard.SeedSectionContent(content, prev, st.RepositoryMetadata))
	case "goto":
		target := c.PostForm("target")
		if containsSection(selected, target) {
			patch.ActiveSection = wizard.Set(target)
			patch.SectionContent = wizard.Set(wizard.SeedSectionContent(content, target, st.RepositoryMetadata))
		}
	}

	if _, err := r.store.UpdateWhen(r.ctx, stillActive, patch); err != nil {
		s.fail(r, err)
		return
	}
	r.redirect()
}

func containsSection(selected []string, id string) bool {
	for _, s := range selected {
		if s == id {
			return true
		}
	}
	return false
}
