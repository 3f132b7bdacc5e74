package models

// ValidateRepoRequest is the body of POST /validate-repo. Either RepoURL or
// Owner and RepoName are set.
type ValidateRepoRequest struct {
	RepoURL  string `json:"repo_url,omitempty"`
	Owner    string `json:"owner,omitempty"`
	RepoName string `json:"repo_name,omitempty"`
}

// GenerateReadmeRequest is the body of POST /generate-readme.
type GenerateReadmeRequest struct {
	ProjectType      string              `json:"project_type"`
	TeamContext      string              `json:"team_context"`
	SelectedSections []string            `json:"selected_sections"`
	SectionContent   map[string]string   `json:"section_content"`
	RepoMetadata     *RepositoryMetadata `json:"repo_metadata"`
}

// RefineReadmeRequest is the body of POST /refine-readme.
type RefineReadmeRequest struct {
	CurrentContent string `json:"current_content"`
	Prompt         string `json:"prompt"`
}

// GitHubCallbackRequest is the body of POST /github-callback.
type GitHubCallbackRequest struct {
	Code string `json:"code"`
}
