package mocks

import (
	"context"

	"rmgen/internal/models"
	"rmgen/internal/services"
)

type GitHubServiceMock struct {
	GetRepositoryFunc    func(ctx context.Context, owner, name string) (*services.GitHubRepository, error)
	ListContributorsFunc func(ctx context.Context, owner, name string, limit int) ([]models.Contributor, error)
	OAuthURLFunc         func() (string, error)
	ExchangeCodeFunc     func(ctx context.Context, code string) (string, error)
	ListUserReposFunc    func(ctx context.Context, token string) ([]models.GithubRepo, error)
}

func (m *GitHubServiceMock) GetRepository(ctx context.Context, owner, name string) (*services.GitHubRepository, error) {
	if m.GetRepositoryFunc != nil {
		return m.GetRepositoryFunc(ctx, owner, name)
	}
	return &services.GitHubRepository{Name: name, FullName: owner + "/" + name, DefaultBranch: "main"}, nil
}

func (m *GitHubServiceMock) ListContributors(ctx context.Context, owner, name string, limit int) ([]models.Contributor, error) {
	if m.ListContributorsFunc != nil {
		return m.ListContributorsFunc(ctx, owner, name, limit)
	}
	return []models.Contributor{}, nil
}

func (m *GitHubServiceMock) OAuthURL() (string, error) {
	if m.OAuthURLFunc != nil {
		return m.OAuthURLFunc()
	}
	return "https://github.com/login/oauth/authorize?client_id=test", nil
}

func (m *GitHubServiceMock) ExchangeCode(ctx context.Context, code string) (string, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code)
	}
	return "token-" + code, nil
}

func (m *GitHubServiceMock) ListUserRepos(ctx context.Context, token string) ([]models.GithubRepo, error) {
	if m.ListUserReposFunc != nil {
		return m.ListUserReposFunc(ctx, token)
	}
	return []models.GithubRepo{}, nil
}
