package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rmgen/internal/models"
)

const (
	DefaultGitHubAPIURL   = "https://api.github.com"
	DefaultGitHubOAuthURL = "https://github.com"
	DefaultRedirectURI    = "http://localhost:3000/auth/callback"

	oauthScope   = "repo read:user"
	reposPerPage = 100
	maxRepoPages = 10
)

var ErrOAuthNotConfigured = errors.New("GitHub OAuth not configured")

// GitHubConfig carries the endpoints and credentials the GitHub service
// talks to. Empty URLs fall back to the public GitHub endpoints.
type GitHubConfig struct {
	APIBaseURL   string
	OAuthBaseURL string
	// Token authenticates repository lookups; empty means anonymous and
	// rate limited.
	Token        string
	ClientID     string
	ClientSecret string
	RedirectURI  string
	HTTPClient   *http.Client
}

// GitHubRepository is the subset of the REST repository resource the
// backend reads.
type GitHubRepository struct {
	Name          string  `json:"name"`
	FullName      string  `json:"full_name"`
	Description   *string `json:"description"`
	Language      *string `json:"language"`
	License       *struct {
		Name string `json:"name"`
	} `json:"license"`
	Stars         int       `json:"stargazers_count"`
	Forks         int       `json:"forks_count"`
	Topics        []string  `json:"topics"`
	DefaultBranch string    `json:"default_branch"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	IsTemplate    bool      `json:"is_template"`
	Private       bool      `json:"private"`
	CloneURL      string    `json:"clone_url"`
}

// GitHubAPIError is a non-2xx answer from GitHub.
type GitHubAPIError struct {
	Status  int
	Message string
}

func (e *GitHubAPIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("GitHub API returned status %d", e.Status)
	}
	return fmt.Sprintf("GitHub API error (%d): %s", e.Status, e.Message)
}

type GitHubService interface {
	GetRepository(ctx context.Context, owner, name string) (*GitHubRepository, error)
	ListContributors(ctx context.Context, owner, name string, limit int) ([]models.Contributor, error)
	OAuthURL() (string, error)
	ExchangeCode(ctx context.Context, code string) (string, error)
	ListUserRepos(ctx context.Context, token string) ([]models.GithubRepo, error)
}

type gitHubService struct {
	cfg    GitHubConfig
	client *http.Client
}

func NewGitHubService(cfg GitHubConfig) GitHubService {
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultGitHubAPIURL
	}
	if cfg.OAuthBaseURL == "" {
		cfg.OAuthBaseURL = DefaultGitHubOAuthURL
	}
	if cfg.RedirectURI == "" {
		cfg.RedirectURI = DefaultRedirectURI
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.OAuthBaseURL = strings.TrimRight(cfg.OAuthBaseURL, "/")
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &gitHubService{cfg: cfg, client: client}
}

func (s *gitHubService) GetRepository(ctx context.Context, owner, name string) (*GitHubRepository, error) {
	if owner == "" || name == "" {
		return nil, errors.New("owner and repository name are required")
	}
	var repo GitHubRepository
	path := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(name))
	if err := s.getJSON(ctx, path, s.cfg.Token, &repo); err != nil {
		var apiErr *GitHubAPIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, fmt.Errorf("repository %s/%s not found", owner, name)
		}
		return nil, err
	}
	return &repo, nil
}

func (s *gitHubService) ListContributors(ctx context.Context, owner, name string, limit int) ([]models.Contributor, error) {
	if limit <= 0 {
		limit = 10
	}
	var raw []struct {
		Login         string `json:"login"`
		Contributions int    `json:"contributions"`
	}
	path := fmt.Sprintf("/repos/%s/%s/contributors?per_page=%d", url.PathEscape(owner), url.PathEscape(name), limit)
	if err := s.getJSON(ctx, path, s.cfg.Token, &raw); err != nil {
		return nil, err
	}
	out := make([]models.Contributor, 0, len(raw))
	for _, c := range raw {
		if len(out) == limit {
			break
		}
		// The list endpoint carries no display name; fetching one per
		// contributor would cost a request each.
		out = append(out, models.Contributor{Login: c.Login, Name: c.Login, Contributions: c.Contributions})
	}
	return out, nil
}

func (s *gitHubService) OAuthURL() (string, error) {
	if s.cfg.ClientID == "" {
		log.Printf("GitHub OAuth not configured: client id is missing")
		return "", ErrOAuthNotConfigured
	}
	q := url.Values{}
	q.Set("client_id", s.cfg.ClientID)
	q.Set("redirect_uri", s.cfg.RedirectURI)
	q.Set("scope", oauthScope)
	return s.cfg.OAuthBaseURL + "/login/oauth/authorize?" + q.Encode(), nil
}

func (s *gitHubService) ExchangeCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", errors.New("No code provided")
	}
	if s.cfg.ClientID == "" || s.cfg.ClientSecret == "" {
		return "", ErrOAuthNotConfigured
	}
	form := url.Values{}
	form.Set("client_id", s.cfg.ClientID)
	form.Set("client_secret", s.cfg.ClientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", s.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.OAuthBaseURL+"/login/oauth/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("Network error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &GitHubAPIError{Status: resp.StatusCode}
	}

	var token struct {
		AccessToken      string `json:"access_token"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if token.Error != "" {
		if token.ErrorDescription != "" {
			return "", errors.New(token.ErrorDescription)
		}
		return "", errors.New(token.Error)
	}
	if token.AccessToken == "" {
		return "", errors.New("Could not retrieve access token")
	}
	return token.AccessToken, nil
}

func (s *gitHubService) ListUserRepos(ctx context.Context, token string) ([]models.GithubRepo, error) {
	if token == "" {
		return nil, errors.New("No access token provided")
	}
	var out []models.GithubRepo
	for page := 1; page <= maxRepoPages; page++ {
		var raw []struct {
			ID          int64     `json:"id"`
			Name        string    `json:"name"`
			FullName    string    `json:"full_name"`
			Description *string   `json:"description"`
			Language    *string   `json:"language"`
			Private     bool      `json:"private"`
			Fork        bool      `json:"fork"`
			UpdatedAt   time.Time `json:"updated_at"`
			Stars       int       `json:"stargazers_count"`
			Forks       int       `json:"forks_count"`
		}
		path := fmt.Sprintf("/user/repos?sort=updated&per_page=%d&page=%d", reposPerPage, page)
		if err := s.getJSON(ctx, path, token, &raw); err != nil {
			return nil, err
		}
		for _, r := range raw {
			out = append(out, models.GithubRepo{
				ID:          r.ID,
				Name:        r.Name,
				FullName:    r.FullName,
				Description: deref(r.Description),
				Language:    deref(r.Language),
				Private:     r.Private,
				Fork:        r.Fork,
				UpdatedAt:   r.UpdatedAt.Format(time.RFC3339),
				Stars:       r.Stars,
				Forks:       r.Forks,
			})
		}
		if len(raw) < reposPerPage {
			break
		}
	}
	if out == nil {
		out = []models.GithubRepo{}
	}
	return out, nil
}

func (s *gitHubService) getJSON(ctx context.Context, path, token string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.APIBaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("GitHub request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var msg struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &msg)
		return &GitHubAPIError{Status: resp.StatusCode, Message: msg.Message}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode GitHub response: %w", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
