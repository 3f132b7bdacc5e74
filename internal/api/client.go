// Package api is the wizard's client for the README backend. Every call
// returns a Result; failures never surface as Go errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"rmgen/internal/metrics"
	"rmgen/internal/models"
)

// Generic messages for failures the backend did not explain itself.
const (
	MsgNetworkError    = "Could not reach the RMGen backend. Please try again."
	MsgBadResponse     = "The RMGen backend returned an unexpected response. Please try again."
	MsgInvalidMethod   = "Invalid repository input method"
	MsgMissingToken    = "GitHub access token not found. Please re-authenticate."
	MsgUnknownFailure  = "Unknown error occurred"
	defaultHTTPTimeout = 2 * time.Minute
	maxErrorBody       = 64 << 10
)

// Result is the uniform outcome of a backend call. Data is only meaningful
// when Success is true; Error only when it is false.
type Result[T any] struct {
	Success bool
	Data    T
	Error   string
}

func ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func fail[T any](msg string) Result[T] {
	if msg == "" {
		msg = MsgUnknownFailure
	}
	return Result[T]{Error: msg}
}

// Method is how the user identified a repository.
type Method string

const (
	MethodURL       Method = "url"
	MethodOwnerRepo Method = "owner-repo"
	MethodOAuth     Method = "oauth"
	MethodSkip      Method = "skip"
)

// RepositoryInput mirrors the landing form.
type RepositoryInput struct {
	Method   Method
	RepoURL  string
	Owner    string
	RepoName string
}

// Health is the backend's self report.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the backend mounted at baseURL, for example
// http://localhost:5001/api. A nil httpClient gets a default with a generous
// timeout since generation is slow.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// ValidateRepository looks the repository up. Only the url and owner-repo
// methods reach the network.
func (c *Client) ValidateRepository(ctx context.Context, in RepositoryInput) Result[*models.RepositoryMetadata] {
	var payload models.ValidateRepoRequest
	switch in.Method {
	case MethodURL:
		payload.RepoURL = in.RepoURL
	case MethodOwnerRepo:
		payload.Owner = in.Owner
		payload.RepoName = in.RepoName
	default:
		metrics.ObserveClient("validate-repo", false)
		return fail[*models.RepositoryMetadata](MsgInvalidMethod)
	}

	var body struct {
		Valid    bool                       `json:"valid"`
		Metadata *models.RepositoryMetadata `json:"metadata"`
		Error    string                     `json:"error"`
	}
	if msg, good := c.do(ctx, "validate-repo", http.MethodPost, "/validate-repo", "", payload, &body); !good {
		return fail[*models.RepositoryMetadata](msg)
	}
	if !body.Valid || body.Metadata == nil {
		return fail[*models.RepositoryMetadata](body.Error)
	}
	return ok(body.Metadata)
}

// GenerateReadme asks the backend for a full README.
func (c *Client) GenerateReadme(ctx context.Context, req models.GenerateReadmeRequest) Result[string] {
	if req.SectionContent == nil {
		req.SectionContent = map[string]string{}
	}
	if req.SelectedSections == nil {
		req.SelectedSections = []string{}
	}
	return c.content(ctx, "generate-readme", "/generate-readme", req)
}

// RefineReadme asks the backend to rewrite current following prompt.
func (c *Client) RefineReadme(ctx context.Context, current, prompt string) Result[string] {
	return c.content(ctx, "refine-readme", "/refine-readme", models.RefineReadmeRequest{CurrentContent: current, Prompt: prompt})
}

// GetGitHubOAuthURL returns where to send the browser to authorize.
func (c *Client) GetGitHubOAuthURL(ctx context.Context) Result[string] {
	var body struct {
		OAuthURL string `json:"oauth_url"`
		Error    string `json:"error"`
	}
	if msg, good := c.do(ctx, "github-oauth-url", http.MethodGet, "/github-oauth-url", "", nil, &body); !good {
		return fail[string](msg)
	}
	if body.OAuthURL == "" {
		return fail[string](body.Error)
	}
	return ok(body.OAuthURL)
}

// ExchangeCodeForToken trades an OAuth code for an access token.
func (c *Client) ExchangeCodeForToken(ctx context.Context, code string) Result[string] {
	var body struct {
		Success     bool   `json:"success"`
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if msg, good := c.do(ctx, "github-callback", http.MethodPost, "/github-callback", "", models.GitHubCallbackRequest{Code: code}, &body); !good {
		return fail[string](msg)
	}
	if !body.Success || body.AccessToken == "" {
		return fail[string](body.Error)
	}
	return ok(body.AccessToken)
}

// GetUserRepositories lists the repositories token can see, most recently
// updated first.
func (c *Client) GetUserRepositories(ctx context.Context, token string) Result[[]models.GithubRepo] {
	if strings.TrimSpace(token) == "" {
		metrics.ObserveClient("github-repos", false)
		return fail[[]models.GithubRepo](MsgMissingToken)
	}
	var body struct {
		Success bool                `json:"success"`
		Repos   []models.GithubRepo `json:"repos"`
		Error   string              `json:"error"`
	}
	if msg, good := c.do(ctx, "github-repos", http.MethodGet, "/github-repos", token, nil, &body); !good {
		return fail[[]models.GithubRepo](msg)
	}
	if !body.Success {
		return fail[[]models.GithubRepo](body.Error)
	}
	if body.Repos == nil {
		body.Repos = []models.GithubRepo{}
	}
	return ok(body.Repos)
}

// HealthCheck reports whether the backend is up.
func (c *Client) HealthCheck(ctx context.Context) Result[Health] {
	var body Health
	if msg, good := c.do(ctx, "health", http.MethodGet, "/health", "", nil, &body); !good {
		return fail[Health](msg)
	}
	if body.Status == "" {
		return fail[Health](MsgBadResponse)
	}
	return ok(body)
}

func (c *Client) content(ctx context.Context, op, path string, payload any) Result[string] {
	var body struct {
		Success bool   `json:"success"`
		Content string `json:"content"`
		Error   string `json:"error"`
	}
	if msg, good := c.do(ctx, op, http.MethodPost, path, "", payload, &body); !good {
		return fail[string](msg)
	}
	if !body.Success {
		return fail[string](body.Error)
	}
	return ok(body.Content)
}

// do performs one request and decodes the JSON answer into dst. On failure
// it returns the message to show and false.
func (c *Client) do(ctx context.Context, op, method, path, token string, payload, dst any) (string, bool) {
	good := false
	defer func() { metrics.ObserveClient(op, good) }()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Printf("api: encode %s request: %v", op, err)
			return MsgUnknownFailure, false
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		log.Printf("api: build %s request: %v", op, err)
		return MsgNetworkError, false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("API request failed: %s: %v", op, err)
		return MsgNetworkError, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("API request failed: %s: %s", op, fmt.Sprintf("HTTP error! status: %d", resp.StatusCode))
		// The backend explains most of its refusals in an error field.
		var reported struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxErrorBody)).Decode(&reported); err == nil && strings.TrimSpace(reported.Error) != "" {
			return reported.Error, false
		}
		return MsgBadResponse, false
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		log.Printf("API request failed: %s: decode: %v", op, err)
		return MsgBadResponse, false
	}
	good = true
	return "", true
}
