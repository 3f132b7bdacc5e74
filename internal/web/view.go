package web

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rmgen/internal/markdown"
	"rmgen/internal/models"
	"rmgen/internal/wizard"
)

// view is the data every page template renders from.
type view struct {
	Page  string
	State wizard.State
	Error string
	Busy  bool
	// Fatal is a terminal error for the authCallback and selectRepo
	// screens; the only way on is back to landing.
	Fatal string

	// Listing is set while another request of the session is fetching the
	// repository list.
	Listing bool

	Methods []methodView

	ProjectName        string
	ProjectDescription string
	ProjectTypes       []string

	Sections []sectionView

	Ordered        []wizard.Section
	Active         wizard.Section
	ActiveIndex    int
	ActiveBody     string
	IsFirst        bool
	IsLast         bool
	CanUseExisting bool

	Repos []models.GithubRepo

	Rendered template.HTML
	Summary  summary
}

type methodView struct {
	ID     wizard.InputMethod
	Label  string
	Active bool
}

type sectionView struct {
	wizard.Section
	Selected bool
}

type summary struct {
	ProjectName string
	ProjectType string
	TeamContext string
	Sections    []string
	Repository  string
}

var methodLabels = []methodView{
	{ID: wizard.MethodURL, Label: "Repository URL"},
	{ID: wizard.MethodOwnerRepo, Label: "Owner / Repository"},
	{ID: wizard.MethodOAuth, Label: "Connect GitHub"},
	{ID: wizard.MethodSkip, Label: "Start from Scratch"},
}

func newView(st wizard.State) view {
	return view{Page: string(st.CurrentStep), State: st, Error: st.Error}
}

func (s *Server) render(c *gin.Context, status int, v view) {
	c.HTML(status, "layout", v)
}

func (s *Server) renderFailure(c *gin.Context, status int, msg string) {
	s.render(c, status, view{Page: "failure", Fatal: msg})
}

func landingView(st wizard.State) view {
	v := newView(st)
	method := st.RepositoryInput.Method
	if !method.Valid() {
		method = wizard.MethodURL
	}
	for _, m := range methodLabels {
		m.Active = m.ID == method
		v.Methods = append(v.Methods, m)
	}
	return v
}

func setupView(st wizard.State) view {
	v := newView(st)
	v.ProjectTypes = wizard.ProjectTypes
	v.ProjectName = st.ProjectName
	v.ProjectDescription = st.ProjectDescription
	if meta := st.RepositoryMetadata; meta != nil {
		if v.ProjectName == "" {
			v.ProjectName = meta.Name
		}
		if v.ProjectDescription == "" {
			v.ProjectDescription = meta.Description
		}
	}
	return v
}

func sectionsView(st wizard.State) view {
	v := newView(st)
	selected := make(map[string]bool, len(st.SelectedSections))
	for _, id := range st.SelectedSections {
		selected[id] = true
	}
	for _, sec := range wizard.Catalog() {
		v.Sections = append(v.Sections, sectionView{Section: sec, Selected: selected[sec.ID]})
	}
	return v
}

func contentView(st wizard.State) view {
	v := newView(st)
	v.Ordered = wizard.OrderedSections(st.SelectedSections)
	if len(v.Ordered) == 0 {
		return v
	}
	v.ActiveIndex = 0
	for i, sec := range v.Ordered {
		if sec.ID == st.ActiveSection {
			v.ActiveIndex = i
			break
		}
	}
	v.Active = v.Ordered[v.ActiveIndex]
	v.ActiveBody = st.SectionContent[v.Active.ID]
	if v.ActiveBody == "" {
		v.ActiveBody = v.Active.DefaultContent(st.RepositoryMetadata)
	}
	v.IsFirst = v.ActiveIndex == 0
	v.IsLast = v.ActiveIndex == len(v.Ordered)-1
	v.CanUseExisting = st.RepositoryMetadata.HasExistingReadme()
	return v
}

func previewView(st wizard.State) view {
	v := newView(st)
	if st.GeneratedContent != "" {
		v.Rendered = markdown.Render(st.GeneratedContent)
	}
	v.Summary = summary{
		ProjectName: st.ProjectName,
		ProjectType: st.ProjectType,
		TeamContext: string(st.TeamContext),
	}
	for _, sec := range wizard.OrderedSections(st.SelectedSections) {
		v.Summary.Sections = append(v.Summary.Sections, sec.Title)
	}
	if meta := st.RepositoryMetadata; meta != nil {
		if v.Summary.ProjectName == "" {
			v.Summary.ProjectName = meta.Name
		}
		if meta.Owner != "" && meta.RepoName != "" {
			v.Summary.Repository = meta.Owner + "/" + meta.RepoName
		}
	}
	return v
}

func trimmed(c *gin.Context, field string) string {
	return strings.TrimSpace(c.PostForm(field))
}

func (s *Server) handleIndex(c *gin.Context) {
	r, ok := s.open(c)
	if !ok {
		return
	}
	defer r.done()

	st := r.state()
	switch st.CurrentStep {
	case wizard.StepLanding:
		v := landingView(st)
		v.Busy = s.inflight.busy(r.sid, actionValidate)
		s.render(c, http.StatusOK, v)
	case wizard.StepAuthCallback:
		// Only reachable through the callback path, which has its own handler.
		s.render(c, http.StatusOK, newView(st))
	case wizard.StepSelectRepo:
		s.renderSelectRepo(r)
	case wizard.StepSetup:
		s.render(c, http.StatusOK, setupView(st))
	case wizard.StepSections:
		s.render(c, http.StatusOK, sectionsView(st))
	case wizard.StepContent:
		s.render(c, http.StatusOK, contentView(st))
	case wizard.StepPreview:
		s.renderPreview(r)
	default:
		s.renderFailure(c, http.StatusInternalServerError, "Unknown step.")
	}
}
