package mocks

import (
	"context"

	"rmgen/internal/models"
)

type RepositoryServiceMock struct {
	ValidateFunc func(ctx context.Context, req models.ValidateRepoRequest) (*models.RepositoryMetadata, error)
}

func (m *RepositoryServiceMock) Validate(ctx context.Context, req models.ValidateRepoRequest) (*models.RepositoryMetadata, error) {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(ctx, req)
	}
	return &models.RepositoryMetadata{
		Name:                req.RepoName,
		Owner:               req.Owner,
		RepoName:            req.RepoName,
		Language:            "Go",
		License:             "MIT License",
		Topics:              []string{},
		Contributors:        []models.Contributor{},
		DetectedProjectType: "Downloadable Application",
		DetectedTeamContext: "Solo",
	}, nil
}
