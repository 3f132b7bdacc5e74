package mocks

import (
	"context"
	"sync"

	"rmgen/internal/api"
	"rmgen/internal/models"
)

// BackendMock stands in for the API client in wizard page tests. Calls
// counts invocations per operation.
type BackendMock struct {
	ValidateRepositoryFunc   func(ctx context.Context, in api.RepositoryInput) api.Result[*models.RepositoryMetadata]
	GenerateReadmeFunc       func(ctx context.Context, req models.GenerateReadmeRequest) api.Result[string]
	RefineReadmeFunc         func(ctx context.Context, current, prompt string) api.Result[string]
	GetGitHubOAuthURLFunc    func(ctx context.Context) api.Result[string]
	ExchangeCodeForTokenFunc func(ctx context.Context, code string) api.Result[string]
	GetUserRepositoriesFunc  func(ctx context.Context, token string) api.Result[[]models.GithubRepo]

	mu    sync.Mutex
	calls map[string]int
}

func (m *BackendMock) record(op string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[op]++
}

// Calls returns how many times op was invoked.
func (m *BackendMock) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

func (m *BackendMock) ValidateRepository(ctx context.Context, in api.RepositoryInput) api.Result[*models.RepositoryMetadata] {
	m.record("validate-repo")
	if m.ValidateRepositoryFunc != nil {
		return m.ValidateRepositoryFunc(ctx, in)
	}
	return api.Result[*models.RepositoryMetadata]{Success: true, Data: &models.RepositoryMetadata{
		Name:     in.RepoName,
		Owner:    in.Owner,
		RepoName: in.RepoName,
		Topics:   []string{},
	}}
}

func (m *BackendMock) GenerateReadme(ctx context.Context, req models.GenerateReadmeRequest) api.Result[string] {
	m.record("generate-readme")
	if m.GenerateReadmeFunc != nil {
		return m.GenerateReadmeFunc(ctx, req)
	}
	return api.Result[string]{Success: true, Data: "# README"}
}

func (m *BackendMock) RefineReadme(ctx context.Context, current, prompt string) api.Result[string] {
	m.record("refine-readme")
	if m.RefineReadmeFunc != nil {
		return m.RefineReadmeFunc(ctx, current, prompt)
	}
	return api.Result[string]{Success: true, Data: current}
}

func (m *BackendMock) GetGitHubOAuthURL(ctx context.Context) api.Result[string] {
	m.record("github-oauth-url")
	if m.GetGitHubOAuthURLFunc != nil {
		return m.GetGitHubOAuthURLFunc(ctx)
	}
	return api.Result[string]{Success: true, Data: "https://github.com/login/oauth/authorize?client_id=test"}
}

func (m *BackendMock) ExchangeCodeForToken(ctx context.Context, code string) api.Result[string] {
	m.record("github-callback")
	if m.ExchangeCodeForTokenFunc != nil {
		return m.ExchangeCodeForTokenFunc(ctx, code)
	}
	return api.Result[string]{Success: true, Data: "token-" + code}
}

func (m *BackendMock) GetUserRepositories(ctx context.Context, token string) api.Result[[]models.GithubRepo] {
	m.record("github-repos")
	if m.GetUserRepositoriesFunc != nil {
		return m.GetUserRepositoriesFunc(ctx, token)
	}
	return api.Result[[]models.GithubRepo]{Success: true, Data: []models.GithubRepo{}}
}
