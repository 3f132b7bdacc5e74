package mocks

import (
	"context"

	"rmgen/internal/models"
)

type ReadmeServiceMock struct {
	GenerateFunc func(ctx context.Context, req models.GenerateReadmeRequest) (string, error)
	RefineFunc   func(ctx context.Context, req models.RefineReadmeRequest) (string, error)
}

func (m *ReadmeServiceMock) Generate(ctx context.Context, req models.GenerateReadmeRequest) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return "# README", nil
}

func (m *ReadmeServiceMock) Refine(ctx context.Context, req models.RefineReadmeRequest) (string, error) {
	if m.RefineFunc != nil {
		return m.RefineFunc(ctx, req)
	}
	return req.CurrentContent, nil
}
