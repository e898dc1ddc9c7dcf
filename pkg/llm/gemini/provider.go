package gemini

import (
	"context"
	"fmt"
	"strings"

	"virtual-assistant-be/pkg/llm"

	"google.golang.org/genai"
)

// DefaultModel is the fixed model used for every turn unless overridden by configuration.
const DefaultModel = "gemini-2.0-flash"

// Provider generates answers through the Gemini API.
type Provider struct {
	client *genai.Client
	model  string
}

var _ llm.Generator = (*Provider)(nil)

// NewProvider creates a Gemini-backed generator. baseURL is only set in tests.
func NewProvider(ctx context.Context, apiKey, model, baseURL string) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Provider{client: client, model: model}, nil
}

func (p *Provider) Name() string {
	return "gemini:" + p.model
}

// Generate sends prompt as a single user turn. No streaming, no retries.
func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) llm.Outcome {
	options := llm.ApplyOptions(opts...)

	model := p.model
	if options.Model != "" {
		model = options.Model
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(options.Temperature)),
	}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return llm.ClassifyError(ctx, fmt.Errorf("gemini generate: %w", err))
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return llm.Failure(llm.EmptyCandidates, fmt.Errorf("gemini returned no usable candidate"))
	}
	return llm.Success(text)
}

// extractText joins the non-thought parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}
