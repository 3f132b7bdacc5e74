// Package backend serves the README backend's JSON API: repository
// validation, README generation and refinement, and the GitHub OAuth flow.
package backend

import (
	"github.com/gin-gonic/gin"

	"rmgen/internal/services"
)

const ServiceName = "RMGen Backend"

// Server holds the services the API handlers call into.
type Server struct {
	repos   services.RepositoryService
	readmes services.ReadmeService
	github  services.GitHubService
}

func NewServer(repos services.RepositoryService, readmes services.ReadmeService, github services.GitHubService) *Server {
	return &Server{repos: repos, readmes: readmes, github: github}
}

// NewServerFromServices picks the handlers' dependencies out of svc.
func NewServerFromServices(svc *services.Services) *Server {
	return NewServer(svc.Repositories, svc.Readmes, svc.GitHub)
}

// Register mounts the API routes on r, normally the /api group.
func (s *Server) Register(r gin.IRoutes) {
	r.POST("/validate-repo", s.handleValidateRepo)
	r.POST("/generate-readme", s.handleGenerateReadme)
	r.POST("/refine-readme", s.handleRefineReadme)
	r.GET("/github-oauth-url", s.handleGitHubOAuthURL)
	r.POST("/github-callback", s.handleGitHubCallback)
	r.GET("/github-repos", s.handleGitHubRepos)
	r.GET("/health", s.handleHealth)
}
