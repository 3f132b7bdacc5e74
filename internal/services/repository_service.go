package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"regexp"
	"strings"
	"time"

	"rmgen/internal/models"
)

var (
	ErrInvalidRepoURL    = errors.New("Invalid GitHub URL format")
	ErrMissingRepository = errors.New("Missing repository information")
)

var repoURLPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/?#]+)`)

var webKeywords = []string{"blog", "website", "portfolio", "http", "server", "api", "frontend", "backend", "webapp", "web-app"}

// markerTypes maps root files to the project type they imply, checked in
// order.
var markerTypes = []struct {
	files []string
	kind  string
}{
	{[]string{"package.json", "yarn.lock", "webpack.config.js"}, "Web Application"},
	{[]string{"requirements.txt", "setup.py", "pipfile"}, "Python Application"},
	{[]string{"pom.xml", "build.gradle"}, "Java Application"},
	{[]string{"cargo.toml"}, "Rust Application"},
	{[]string{"go.mod"}, "Go Application"},
	{[]string{"dockerfile", "docker-compose.yml"}, "Containerized Application"},
}

const genericProject = "Generic Project"

func manifestNames() []string {
	return []string{"package.json", "requirements.txt", "setup.py", "pom.xml", "build.gradle", "Cargo.toml", "go.mod", "Dockerfile"}
}

// RepoInspector looks inside a repository checkout.
type RepoInspector interface {
	Inspect(ctx context.Context, url, branch, token string) (*RepoSnapshot, error)
}

type RepositoryService interface {
	Validate(ctx context.Context, req models.ValidateRepoRequest) (*models.RepositoryMetadata, error)
}

type repositoryService struct {
	github    GitHubService
	inspector RepoInspector
	token     string
}

// NewRepositoryService builds validation on top of the GitHub API and a
// checkout inspector. inspector may be nil, in which case README and file
// based detection are skipped.
func NewRepositoryService(github GitHubService, inspector RepoInspector, token string) RepositoryService {
	return &repositoryService{github: github, inspector: inspector, token: token}
}

func (s *repositoryService) Validate(ctx context.Context, req models.ValidateRepoRequest) (*models.RepositoryMetadata, error) {
	owner, name, err := RepositoryFromRequest(req)
	if err != nil {
		return nil, err
	}

	repo, err := s.github.GetRepository(ctx, owner, name)
	if err != nil {
		log.Printf("Error validating GitHub repo %s/%s: %v", owner, name, err)
		return nil, err
	}

	contributors, err := s.github.ListContributors(ctx, owner, name, 10)
	if err != nil {
		log.Printf("Error listing contributors of %s/%s: %v", owner, name, err)
		contributors = []models.Contributor{}
	}

	var snap *RepoSnapshot
	if s.inspector != nil {
		cloneURL := repo.CloneURL
		if cloneURL == "" {
			cloneURL = fmt.Sprintf("https://github.com/%s/%s.git", owner, name)
		}
		snap, err = s.inspector.Inspect(ctx, cloneURL, repo.DefaultBranch, s.token)
		if err != nil {
			log.Printf("Error inspecting %s/%s: %v", owner, name, err)
			snap = nil
		}
	}

	meta := &models.RepositoryMetadata{
		Name:                repo.Name,
		Description:         deref(repo.Description),
		Language:            deref(repo.Language),
		License:             "Not specified",
		Stars:               repo.Stars,
		Forks:               repo.Forks,
		Topics:              repo.Topics,
		DefaultBranch:       repo.DefaultBranch,
		CreatedAt:           repo.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:           repo.UpdatedAt.UTC().Format(time.RFC3339),
		Contributors:        contributors,
		Owner:               owner,
		RepoName:            name,
		DetectedProjectType: DetectProjectType(repo, snap),
		DetectedTeamContext: DetectTeamContext(contributors),
	}
	if meta.Language == "" {
		meta.Language = "Unknown"
	}
	if repo.License != nil && repo.License.Name != "" {
		meta.License = repo.License.Name
	}
	if meta.Topics == nil {
		meta.Topics = []string{}
	}
	if snap != nil {
		meta.ExistingReadme = snap.Readme
	}
	return meta, nil
}

// RepositoryFromRequest extracts owner and repository name from either a
// GitHub URL or the explicit pair.
func RepositoryFromRequest(req models.ValidateRepoRequest) (string, string, error) {
	if url := strings.TrimSpace(req.RepoURL); url != "" {
		return ParseRepoURL(url)
	}
	owner, name := strings.TrimSpace(req.Owner), strings.TrimSpace(req.RepoName)
	if owner == "" || name == "" {
		return "", "", ErrMissingRepository
	}
	return owner, name, nil
}

// ParseRepoURL accepts https://github.com/<owner>/<repo>[.git][/...].
func ParseRepoURL(raw string) (string, string, error) {
	m := repoURLPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", "", ErrInvalidRepoURL
	}
	name := strings.TrimSuffix(m[2], ".git")
	if name == "" {
		return "", "", ErrInvalidRepoURL
	}
	return m[1], name, nil
}

// DetectProjectType guesses the kind of project from its name, description
// and topics, then its template flag, then marker files at the root and
// below it, then its primary language.
func DetectProjectType(repo *GitHubRepository, snap *RepoSnapshot) string {
	if repo == nil {
		return genericProject
	}
	name := strings.ToLower(repo.Name)
	description := strings.ToLower(deref(repo.Description))
	for _, kw := range webKeywords {
		if strings.Contains(name, kw) || strings.Contains(description, kw) {
			return "Web Application"
		}
		for _, topic := range repo.Topics {
			if topic == kw {
				return "Web Application"
			}
		}
	}
	if repo.IsTemplate {
		return "Template"
	}

	if snap != nil {
		if kind := typeFromFiles(snap.RootFiles); kind != "" {
			return kind
		}
		nested := make([]string, 0, len(snap.Manifests))
		for _, m := range snap.Manifests {
			nested = append(nested, path.Base(m))
		}
		if kind := typeFromFiles(nested); kind != "" {
			return kind
		}
	}

	if lang := deref(repo.Language); lang != "" {
		return lang + " Application"
	}
	return genericProject
}

func typeFromFiles(files []string) string {
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[strings.ToLower(f)] = true
	}
	for _, m := range markerTypes {
		for _, f := range m.files {
			if present[f] {
				return m.kind
			}
		}
	}
	return ""
}

// DetectTeamContext is Team when more than one person contributed.
func DetectTeamContext(contributors []models.Contributor) string {
	if len(contributors) > 1 {
		return "Team"
	}
	return "Solo"
}
