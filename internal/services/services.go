package services

import (
	"gorm.io/gorm"

	"rmgen/internal/repositories"
)

// Services aggregates the backend's domain services.
// Fields use plural names (e.g., Sessions) to align with Go conventions
// seen in service/store containers.
type Services struct {
	Sessions     SessionService
	GitHub       GitHubService
	Repositories RepositoryService
	Readmes      ReadmeService
	Models       ModelCatalogService
	Keyring      *KeyringService
	Git          *GitService
}

// Options wires the non-database dependencies.
type Options struct {
	GitHub GitHubConfig
	// Writer generates README text; nil leaves generation unavailable.
	Writer ReadmeWriter
	// SkipClone disables cloning during validation.
	SkipClone bool
}

// NewServices constructs the service container using repositories backed by db.
func NewServices(db *gorm.DB, opts Options) *Services {
	sessionRepo := repositories.NewSessionEntryRepository(db)
	gh := NewGitHubService(opts.GitHub)
	git := NewGitService()
	catalog := NewModelCatalogService()

	var inspector RepoInspector
	if !opts.SkipClone {
		inspector = git
	}

	return &Services{
		Sessions:     NewSessionService(sessionRepo),
		GitHub:       gh,
		Repositories: NewRepositoryService(gh, inspector, opts.GitHub.Token),
		Readmes:      NewReadmeService(opts.Writer),
		Models:       catalog,
		Keyring:      NewKeyringService(catalog),
		Git:          git,
	}
}
