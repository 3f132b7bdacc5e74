package mocks

import (
	"context"

	"rmgen/internal/models"
)

type ReadmeWriterMock struct {
	GenerateReadmeFunc func(ctx context.Context, req models.GenerateReadmeRequest) (string, error)
	RefineReadmeFunc   func(ctx context.Context, current, instruction string) (string, error)
}

func (m *ReadmeWriterMock) GenerateReadme(ctx context.Context, req models.GenerateReadmeRequest) (string, error) {
	if m.GenerateReadmeFunc != nil {
		return m.GenerateReadmeFunc(ctx, req)
	}
	return "# Generated\n", nil
}

func (m *ReadmeWriterMock) RefineReadme(ctx context.Context, current, instruction string) (string, error) {
	if m.RefineReadmeFunc != nil {
		return m.RefineReadmeFunc(ctx, current, instruction)
	}
	return current, nil
}
