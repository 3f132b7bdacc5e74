package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rmgen/internal/events"
	"rmgen/internal/models"
)

var (
	ErrMissingRefineInput = errors.New("Missing current_content or prompt")
	ErrNoModel            = errors.New("no chat model configured; set an API key for one of the providers")
)

// ReadmeWriter is the chat model side of README generation.
type ReadmeWriter interface {
	GenerateReadme(ctx context.Context, req models.GenerateReadmeRequest) (string, error)
	RefineReadme(ctx context.Context, current, instruction string) (string, error)
}

type ReadmeService interface {
	Generate(ctx context.Context, req models.GenerateReadmeRequest) (string, error)
	Refine(ctx context.Context, req models.RefineReadmeRequest) (string, error)
}

type readmeService struct {
	writer ReadmeWriter
}

// NewReadmeService wraps writer. A nil writer makes every call fail with
// ErrNoModel so the rest of the backend can run without credentials.
func NewReadmeService(writer ReadmeWriter) ReadmeService {
	return &readmeService{writer: writer}
}

func (s *readmeService) Generate(ctx context.Context, req models.GenerateReadmeRequest) (string, error) {
	if s.writer == nil {
		return "", ErrNoModel
	}
	if req.SectionContent == nil {
		req.SectionContent = map[string]string{}
	}
	content, err := s.writer.GenerateReadme(ctx, req)
	if err != nil {
		events.Emit(ctx, events.LLMGenerate, events.NewError(fmt.Sprintf("generate failed: %v", err)))
		return "", err
	}
	events.Emit(ctx, events.LLMGenerate, events.NewSuccess("generated README").
		WithMetadata("sections", strings.Join(req.SelectedSections, ",")))
	return content, nil
}

func (s *readmeService) Refine(ctx context.Context, req models.RefineReadmeRequest) (string, error) {
	if strings.TrimSpace(req.CurrentContent) == "" || strings.TrimSpace(req.Prompt) == "" {
		return "", ErrMissingRefineInput
	}
	if s.writer == nil {
		return "", ErrNoModel
	}
	content, err := s.writer.RefineReadme(ctx, req.CurrentContent, req.Prompt)
	if err != nil {
		events.Emit(ctx, events.LLMGenerate, events.NewError(fmt.Sprintf("refine failed: %v", err)))
		return "", err
	}
	events.Emit(ctx, events.LLMGenerate, events.NewSuccess("refined README"))
	return content, nil
}
