package client

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rmgen/internal/models"
)

type fakeChatModel struct {
	reply    string
	err      error
	received []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.received = input
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestRenderGeneratePrompt_WithMetadata(t *testing.T) {
	prompt, err := RenderGeneratePrompt(models.GenerateReadmeRequest{
		ProjectType:      "Web Application",
		TeamContext:      "Team",
		SelectedSections: []string{"usage", "license"},
		SectionContent:   map[string]string{"usage": "run make"},
		RepoMetadata: &models.RepositoryMetadata{
			Name:     "rmgen",
			Language: "Go",
			License:  "MIT License",
			Topics:   []string{"readme", "cli"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "sections listed here: usage, license.")
	assert.Contains(t, prompt, "- Project Type: Web Application")
	assert.Contains(t, prompt, `- Team Context: Team (use "I" for Solo, "We" for Team)`)
	assert.Contains(t, prompt, "- Repository: rmgen")
	assert.Contains(t, prompt, "- Description: No description provided")
	assert.Contains(t, prompt, "- Primary Language: Go")
	assert.Contains(t, prompt, "- License: MIT License")
	assert.Contains(t, prompt, "- Topics: readme, cli")
	assert.Contains(t, prompt, `"usage": "run make"`)
}

func TestRenderGeneratePrompt_WithoutMetadata(t *testing.T) {
	prompt, err := RenderGeneratePrompt(models.GenerateReadmeRequest{
		SelectedSections: []string{"roadmap"},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "- Project Type: Template")
	assert.Contains(t, prompt, "- Team Context: Solo")
	assert.NotContains(t, prompt, "- Repository:")
	assert.NotContains(t, prompt, "- License:")
	assert.Contains(t, prompt, "{}")
}

func TestRenderGeneratePrompt_LicenseOnlyWhenSelected(t *testing.T) {
	prompt, err := RenderGeneratePrompt(models.GenerateReadmeRequest{
		SelectedSections: []string{"usage"},
		RepoMetadata:     &models.RepositoryMetadata{Name: "x", License: "MIT"},
	})
	require.NoError(t, err)
	assert.NotContains(t, prompt, "- License:")
}

func TestReadmeClient_GenerateSendsPrompt(t *testing.T) {
	fake := &fakeChatModel{reply: "# Title\n"}
	c := NewReadmeClientWithModel(fake, ProviderGemini, "gemini-1.5-flash")

	out, err := c.GenerateReadme(context.Background(), models.GenerateReadmeRequest{SelectedSections: []string{"usage"}})
	require.NoError(t, err)

	assert.Equal(t, "# Title\n", out)
	require.Len(t, fake.received, 1)
	assert.Equal(t, schema.User, fake.received[0].Role)
	assert.Contains(t, fake.received[0].Content, "usage")
}

func TestReadmeClient_Refine(t *testing.T) {
	fake := &fakeChatModel{reply: "```markdown\n# Better\n```"}
	c := NewReadmeClientWithModel(fake, ProviderOpenAI, "gpt-5-mini")

	out, err := c.RefineReadme(context.Background(), "# Old", "make it better")
	require.NoError(t, err)

	assert.Equal(t, "# Better\n", out)
	assert.Contains(t, fake.received[0].Content, "# Old")
	assert.Contains(t, fake.received[0].Content, "make it better")
}

func TestReadmeClient_Errors(t *testing.T) {
	c := NewReadmeClientWithModel(&fakeChatModel{err: errors.New("quota exceeded")}, ProviderOpenAI, "m")
	_, err := c.RefineReadme(context.Background(), "a", "b")
	assert.EqualError(t, err, "quota exceeded")

	c = NewReadmeClientWithModel(&fakeChatModel{reply: "  "}, ProviderOpenAI, "m")
	_, err = c.RefineReadme(context.Background(), "a", "b")
	assert.Error(t, err)
}

func TestNewReadmeClient_RejectsBadOptions(t *testing.T) {
	_, err := NewReadmeClient(context.Background(), Options{Provider: ProviderOpenAI})
	assert.Error(t, err)

	_, err = NewReadmeClient(context.Background(), Options{Provider: "mistral", APIKey: "k"})
	assert.EqualError(t, err, `unsupported provider "mistral"`)
}

func TestStripMarkdownFence(t *testing.T) {
	assert.Equal(t, "# A\n", StripMarkdownFence("```md\n# A\n```"))
	assert.Equal(t, "# A\n\n```go\nx\n```", StripMarkdownFence("# A\n\n```go\nx\n```"))
	assert.Equal(t, "```go\nx\n```", StripMarkdownFence("```go\nx\n```"))
}
