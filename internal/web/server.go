// Package web serves the README wizard as server-rendered pages. Each
// browser session gets its own wizard aggregate, persisted through the
// session storage table.
package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rmgen/internal/api"
	"rmgen/internal/backend"
	"rmgen/internal/models"
	"rmgen/internal/wizard"
)

//go:embed templates/*.html
var templateFS embed.FS

// Backend is the part of the API client the step views call.
type Backend interface {
	ValidateRepository(ctx context.Context, in api.RepositoryInput) api.Result[*models.RepositoryMetadata]
	GenerateReadme(ctx context.Context, req models.GenerateReadmeRequest) api.Result[string]
	RefineReadme(ctx context.Context, current, prompt string) api.Result[string]
	GetGitHubOAuthURL(ctx context.Context) api.Result[string]
	ExchangeCodeForToken(ctx context.Context, code string) api.Result[string]
	GetUserRepositories(ctx context.Context, token string) api.Result[[]models.GithubRepo]
}

var _ Backend = (*api.Client)(nil)

// StorageFactory returns the key/value storage of one session.
type StorageFactory func(sessionID string) wizard.SessionStorage

type Options struct {
	Backend Backend
	Storage StorageFactory
	// API, when set, is mounted under /api on the same engine.
	API *backend.Server
	// SecureCookies marks the session cookie Secure; enable behind TLS.
	SecureCookies bool
}

type Server struct {
	backend  Backend
	storage  StorageFactory
	locks    *sessionLocks
	inflight *inflight
	secure   bool
	engine   *gin.Engine
}

func New(opts Options) (*Server, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("web: backend is required")
	}
	if opts.Storage == nil {
		return nil, fmt.Errorf("web: storage is required")
	}
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		backend:  opts.Backend,
		storage:  opts.Storage,
		locks:    newSessionLocks(),
		inflight: newInflight(),
		secure:   opts.SecureCookies,
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.SetHTMLTemplate(tmpl)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/help", s.handleHelp)
	if opts.API != nil {
		opts.API.Register(router.Group("/api"))
	}

	pages := router.Group("/", s.sessionMiddleware())
	pages.GET("/", s.handleIndex)
	pages.GET(wizard.CallbackPath, s.handleAuthCallback)
	pages.POST("/auth/back", s.handleAuthBack)

	pages.POST("/landing/method", s.handleLandingMethod)
	pages.POST("/landing/validate", s.handleLandingValidate)
	pages.POST("/landing/skip", s.handleLandingSkip)
	pages.POST("/landing/connect", s.handleLandingConnect)

	pages.POST("/select-repo", s.handleSelectRepo)
	pages.POST("/select-repo/leave", s.handleSelectRepoLeave)

	pages.POST("/setup", s.handleSetup)
	pages.POST("/sections", s.handleSections)
	pages.POST("/content", s.handleContent)

	pages.POST("/preview/generate", s.handlePreviewGenerate)
	pages.POST("/preview/save", s.handlePreviewSave)
	pages.POST("/preview/refine", s.handlePreviewRefine)
	pages.POST("/preview/back", s.handlePreviewBack)
	pages.GET("/preview/rendered", s.handlePreviewRendered)
	pages.GET("/download", s.handleDownload)

	pages.GET("/reset", s.handleResetPrompt)
	pages.POST("/reset", s.handleReset)

	s.engine = router
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"join": strings.Join,
		"add":  func(a, b int) int { return a + b },
	}
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
