package mocks

import (
	"context"

	"rmgen/internal/services"
)

type RepoInspectorMock struct {
	InspectFunc func(ctx context.Context, url, branch, token string) (*services.RepoSnapshot, error)
	Calls       int
}

func (m *RepoInspectorMock) Inspect(ctx context.Context, url, branch, token string) (*services.RepoSnapshot, error) {
	m.Calls++
	if m.InspectFunc != nil {
		return m.InspectFunc(ctx, url, branch, token)
	}
	return &services.RepoSnapshot{}, nil
}
