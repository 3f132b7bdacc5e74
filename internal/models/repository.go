package models

import "strings"

// RepositoryMetadata is the snapshot of repository facts returned by a
// successful validation. It is always replaced as a whole.
type RepositoryMetadata struct {
	Name                string        `json:"name"`
	Description         string        `json:"description"`
	Language            string        `json:"language"`
	License             string        `json:"license"`
	Stars               int           `json:"stars"`
	Forks               int           `json:"forks"`
	Topics              []string      `json:"topics"`
	DefaultBranch       string        `json:"default_branch"`
	CreatedAt           string        `json:"created_at"`
	UpdatedAt           string        `json:"updated_at"`
	ExistingReadme      *string       `json:"existing_readme,omitempty"`
	Contributors        []Contributor `json:"contributors"`
	Owner               string        `json:"owner"`
	RepoName            string        `json:"repo_name"`
	DetectedProjectType string        `json:"detected_project_type"`
	DetectedTeamContext string        `json:"detected_team_context,omitempty"`
}

// HasExistingReadme reports whether the repository shipped a README.md.
func (m *RepositoryMetadata) HasExistingReadme() bool {
	return m != nil && m.ExistingReadme != nil && *m.ExistingReadme != ""
}

type Contributor struct {
	Login         string `json:"login"`
	Name          string `json:"name"`
	Contributions int    `json:"contributions"`
}

// GithubRepo is the summary shown on the repository picker.
type GithubRepo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Private     bool   `json:"private"`
	Fork        bool   `json:"fork"`
	UpdatedAt   string `json:"updated_at"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
}

// Owner returns the account part of FullName.
func (r GithubRepo) Owner() string {
	owner, _, _ := strings.Cut(r.FullName, "/")
	return owner
}
