package backend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rmgen/internal/events"
	"rmgen/internal/metrics"
	"rmgen/internal/models"
	"rmgen/internal/services"
)

const maxBodySize = 1 << 20 // 1MB

func (s *Server) handleValidateRepo(c *gin.Context) {
	var req models.ValidateRepoRequest
	if err := bindJSON(c, &req); err != nil {
		observe(c.Request.Context(), "validate-repo", false, err.Error())
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": services.ErrMissingRepository.Error()})
		return
	}

	meta, err := s.repos.Validate(c.Request.Context(), req)
	if err != nil {
		observe(c.Request.Context(), "validate-repo", false, err.Error())
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": err.Error()})
		return
	}

	observe(c.Request.Context(), "validate-repo", true, meta.Owner+"/"+meta.RepoName)
	c.JSON(http.StatusOK, gin.H{"valid": true, "metadata": meta})
}

func (s *Server) handleGenerateReadme(c *gin.Context) {
	var req models.GenerateReadmeRequest
	if err := bindJSON(c, &req); err != nil {
		observe(c.Request.Context(), "generate-readme", false, err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}
	if isEmptyMetadata(req.RepoMetadata) {
		req.RepoMetadata = nil
	}

	content, err := s.readmes.Generate(c.Request.Context(), req)
	if err != nil {
		log.Printf("Error generating README: %v", err)
		observe(c.Request.Context(), "generate-readme", false, err.Error())
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}

	observe(c.Request.Context(), "generate-readme", true, "")
	c.JSON(http.StatusOK, gin.H{"success": true, "content": content})
}

func (s *Server) handleRefineReadme(c *gin.Context) {
	var req models.RefineReadmeRequest
	if err := bindJSON(c, &req); err != nil {
		observe(c.Request.Context(), "refine-readme", false, err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": services.ErrMissingRefineInput.Error()})
		return
	}

	content, err := s.readmes.Refine(c.Request.Context(), req)
	if err != nil {
		observe(c.Request.Context(), "refine-readme", false, err.Error())
		status := http.StatusInternalServerError
		if errors.Is(err, services.ErrMissingRefineInput) {
			status = http.StatusBadRequest
		} else {
			log.Printf("Error refining README: %v", err)
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	observe(c.Request.Context(), "refine-readme", true, "")
	c.JSON(http.StatusOK, gin.H{"success": true, "content": content})
}

func (s *Server) handleGitHubOAuthURL(c *gin.Context) {
	url, err := s.github.OAuthURL()
	if err != nil {
		observe(c.Request.Context(), "github-oauth-url", false, err.Error())
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}
	observe(c.Request.Context(), "github-oauth-url", true, "")
	c.JSON(http.StatusOK, gin.H{"oauth_url": url})
}

func (s *Server) handleGitHubCallback(c *gin.Context) {
	var req models.GitHubCallbackRequest
	if err := bindJSON(c, &req); err != nil || strings.TrimSpace(req.Code) == "" {
		observe(c.Request.Context(), "github-callback", false, "no code")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "No code provided"})
		return
	}

	token, err := s.github.ExchangeCode(c.Request.Context(), strings.TrimSpace(req.Code))
	if err != nil {
		log.Printf("GitHub OAuth exchange failed: %v", err)
		observe(c.Request.Context(), "github-callback", false, err.Error())
		status := http.StatusBadRequest
		if errors.Is(err, services.ErrOAuthNotConfigured) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error()})
		return
	}

	observe(c.Request.Context(), "github-callback", true, "")
	c.JSON(http.StatusOK, gin.H{"success": true, "access_token": token})
}

func (s *Server) handleGitHubRepos(c *gin.Context) {
	token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
	if token == "" {
		observe(c.Request.Context(), "github-repos", false, "no token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No access token provided"})
		return
	}

	repos, err := s.github.ListUserRepos(c.Request.Context(), token)
	if err != nil {
		log.Printf("GitHub API call failed: %v", err)
		observe(c.Request.Context(), "github-repos", false, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("GitHub API error: %v", err)})
		return
	}

	observe(c.Request.Context(), "github-repos", true, fmt.Sprintf("%d repositories", len(repos)))
	c.JSON(http.StatusOK, gin.H{"success": true, "repos": repos})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": ServiceName})
}

func bindJSON(c *gin.Context, dst any) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	return c.ShouldBindJSON(dst)
}

// isEmptyMetadata treats "{}" like an absent repository, which is what the
// browser client sends when none was validated.
func isEmptyMetadata(m *models.RepositoryMetadata) bool {
	return m != nil && m.Name == "" && m.Owner == "" && m.RepoName == "" && m.Description == "" && m.Language == ""
}

func observe(ctx context.Context, op string, success bool, detail string) {
	metrics.ObserveBackend(op, success)
	evt := events.NewSuccess(op)
	if !success {
		evt = events.NewWarn(op)
	}
	if detail != "" {
		evt = evt.WithMetadata("detail", detail)
	}
	events.Emit(ctx, events.BackendRequest, evt)
}
