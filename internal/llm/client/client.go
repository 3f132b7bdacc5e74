package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"rmgen/internal/metrics"
	"rmgen/internal/models"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	defaultMaxTokens = 8192
)

// Options selects and authenticates a chat model.
type Options struct {
	Provider string
	Model    string
	APIKey   string
	// BaseURL overrides the provider endpoint; only OpenAI and Anthropic
	// honour it.
	BaseURL   string
	MaxTokens int
}

// ReadmeClient writes and rewrites README documents with a chat model.
type ReadmeClient struct {
	chat     model.BaseChatModel
	provider string
	model    string
}

// NewReadmeClient builds the chat model for opts.Provider.
func NewReadmeClient(ctx context.Context, opts Options) (*ReadmeClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("API key for %s is empty", opts.Provider)
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}

	var (
		chat model.BaseChatModel
		err  error
	)
	switch opts.Provider {
	case ProviderOpenAI:
		cfg := &openai.ChatModelConfig{APIKey: opts.APIKey, Model: opts.Model}
		if opts.BaseURL != "" {
			cfg.BaseURL = opts.BaseURL
		}
		chat, err = openai.NewChatModel(ctx, cfg)
	case ProviderAnthropic:
		cfg := &claude.Config{APIKey: opts.APIKey, Model: opts.Model, MaxTokens: opts.MaxTokens}
		if opts.BaseURL != "" {
			cfg.BaseURL = &opts.BaseURL
		}
		chat, err = claude.NewChatModel(ctx, cfg)
	case ProviderGemini:
		var gc *genai.Client
		gc, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  opts.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err == nil {
			chat, err = gemini.NewChatModel(ctx, &gemini.Config{Client: gc, Model: opts.Model})
		}
	default:
		return nil, fmt.Errorf("unsupported provider %q", opts.Provider)
	}
	if err != nil {
		log.Printf("Error creating %s client: %v", opts.Provider, err)
		return nil, err
	}

	return NewReadmeClientWithModel(chat, opts.Provider, opts.Model), nil
}

// NewReadmeClientWithModel wraps an already built chat model.
func NewReadmeClientWithModel(chat model.BaseChatModel, provider, modelName string) *ReadmeClient {
	return &ReadmeClient{chat: chat, provider: provider, model: modelName}
}

type generateData struct {
	ProjectType    string
	TeamContext    string
	Sections       []string
	Metadata       *models.RepositoryMetadata
	IncludeLicense bool
	ContentJSON    string
}

// GenerateReadme writes a README covering exactly the requested sections.
func (c *ReadmeClient) GenerateReadme(ctx context.Context, req models.GenerateReadmeRequest) (string, error) {
	prompt, err := RenderGeneratePrompt(req)
	if err != nil {
		return "", err
	}
	return c.complete(ctx, prompt)
}

// RefineReadme rewrites current following instruction.
func (c *ReadmeClient) RefineReadme(ctx context.Context, current, instruction string) (string, error) {
	prompt, err := RenderRefinePrompt(current, instruction)
	if err != nil {
		return "", err
	}
	return c.complete(ctx, prompt)
}

// RenderGeneratePrompt fills the generation template from req.
func RenderGeneratePrompt(req models.GenerateReadmeRequest) (string, error) {
	content := req.SectionContent
	if content == nil {
		content = map[string]string{}
	}
	contentJSON, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode section content: %w", err)
	}
	data := generateData{
		ProjectType: orDefault(req.ProjectType, "Template"),
		TeamContext: orDefault(req.TeamContext, "Solo"),
		Sections:    req.SelectedSections,
		Metadata:    req.RepoMetadata,
		ContentJSON: string(contentJSON),
	}
	if req.RepoMetadata != nil && req.RepoMetadata.License != "" {
		for _, s := range req.SelectedSections {
			if s == "license" {
				data.IncludeLicense = true
			}
		}
	}
	return render("generate_readme.txt", data)
}

// RenderRefinePrompt fills the refinement template.
func RenderRefinePrompt(current, instruction string) (string, error) {
	return render("refine_readme.txt", struct {
		CurrentContent string
		Prompt         string
	}{current, instruction})
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := prompts.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (c *ReadmeClient) complete(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	msg, err := c.chat.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	metrics.ObserveLLM(c.provider, c.model, err == nil, time.Since(start))
	if err != nil {
		log.Printf("Error calling %s model %s: %v", c.provider, c.model, err)
		return "", err
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("model returned no content")
	}
	return StripMarkdownFence(msg.Content), nil
}

// StripMarkdownFence removes a single fence wrapping the whole answer, which
// some models add around Markdown output.
func StripMarkdownFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") {
		return s
	}
	firstNL := strings.IndexByte(trimmed, '\n')
	if firstNL < 0 {
		return s
	}
	lang := strings.TrimSpace(trimmed[3:firstNL])
	if lang != "" && lang != "markdown" && lang != "md" {
		return s
	}
	body := strings.TrimSuffix(trimmed[firstNL+1:], "```")
	return strings.TrimRight(body, "\n") + "\n"
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
