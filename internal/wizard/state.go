// Package wizard holds the README wizard's state aggregate, the navigation
// state machine that moves it between steps and the session store that
// persists it.
package wizard

import (
	"rmgen/internal/models"
)

type Step string

const (
	StepLanding      Step = "landing"
	StepSetup        Step = "setup"
	StepSections     Step = "sections"
	StepContent      Step = "content"
	StepPreview      Step = "preview"
	StepAuthCallback Step = "authCallback"
	StepSelectRepo   Step = "selectRepo"
)

var allSteps = []Step{
	StepLanding, StepSetup, StepSections, StepContent,
	StepPreview, StepAuthCallback, StepSelectRepo,
}

// Valid reports whether s is one of the known steps.
func (s Step) Valid() bool {
	for _, known := range allSteps {
		if s == known {
			return true
		}
	}
	return false
}

type InputMethod string

const (
	MethodURL       InputMethod = "url"
	MethodOwnerRepo InputMethod = "owner-repo"
	MethodOAuth     InputMethod = "oauth"
	MethodSkip      InputMethod = "skip"
)

// Valid reports whether m is one of the known input methods.
func (m InputMethod) Valid() bool {
	switch m {
	case MethodURL, MethodOwnerRepo, MethodOAuth, MethodSkip:
		return true
	}
	return false
}

// RepositoryInput is how the user identified the source repository. Only the
// fields matching Method are meaningful.
type RepositoryInput struct {
	Method   InputMethod `json:"method"`
	RepoURL  string      `json:"repoUrl"`
	Owner    string      `json:"owner"`
	RepoName string      `json:"repoName"`
}

const (
	ProjectTemplate     = "Template"
	ProjectWebApp       = "Web Application"
	ProjectDownloadable = "Downloadable Application"
)

// ProjectTypes lists the project types offered on the setup step.
var ProjectTypes = []string{ProjectTemplate, ProjectWebApp, ProjectDownloadable}

type TeamContext string

const (
	TeamSolo TeamContext = "Solo"
	TeamTeam TeamContext = "Team"
)

// Valid reports whether t is Solo or Team.
func (t TeamContext) Valid() bool {
	return t == TeamSolo || t == TeamTeam
}

// State is the wizard aggregate. Values are treated as immutable revisions:
// Apply returns a new State rather than mutating the receiver.
type State struct {
	CurrentStep        Step                       `json:"currentStep"`
	RepositoryInput    RepositoryInput            `json:"repositoryInput"`
	RepositoryMetadata *models.RepositoryMetadata `json:"repositoryMetadata"`
	ProjectType        string                     `json:"projectType"`
	TeamContext        TeamContext                `json:"teamContext"`
	ProjectName        string                     `json:"projectName"`
	ProjectDescription string                     `json:"projectDescription"`
	SelectedSections   []string                   `json:"selectedSections"`
	SectionContent     map[string]string          `json:"sectionContent"`
	ActiveSection      string                     `json:"activeSection"`
	GeneratedContent   string                     `json:"generatedContent"`
	IsLoading          bool                       `json:"isLoading"`
	Error              string                     `json:"error"`
	GitHubAccessToken  string                     `json:"github_access_token"`
}

// Initial returns the aggregate a fresh session starts from.
func Initial() State {
	return State{
		CurrentStep: StepLanding,
		RepositoryInput: RepositoryInput{
			Method: MethodURL,
		},
		ProjectType:      ProjectTemplate,
		TeamContext:      TeamSolo,
		SelectedSections: []string{},
		SectionContent:   map[string]string{},
	}
}

// HasToken reports whether an access token is present.
func (s State) HasToken() bool {
	return s.GitHubAccessToken != ""
}

// clone copies the reference-typed fields so revisions never share backing
// storage.
func (s State) clone() State {
	out := s
	if s.SelectedSections != nil {
		out.SelectedSections = append([]string(nil), s.SelectedSections...)
	}
	if s.SectionContent != nil {
		out.SectionContent = make(map[string]string, len(s.SectionContent))
		for k, v := range s.SectionContent {
			out.SectionContent[k] = v
		}
	}
	return out
}
