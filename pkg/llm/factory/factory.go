package factory

import (
	"context"
	"fmt"

	"virtual-assistant-be/pkg/llm"
	"virtual-assistant-be/pkg/llm/gemini"
	"virtual-assistant-be/pkg/llm/huggingface"
	"virtual-assistant-be/pkg/llm/ollama"
)

type Params struct {
	Provider           string // "gemini", "ollama" or "huggingface"
	Model              string
	GeminiAPIKey       string
	OllamaBaseURL      string
	HuggingFaceAPIKey  string
	HuggingFaceBaseURL string
}

func NewGenerator(ctx context.Context, p Params) (llm.Generator, error) {
	switch p.Provider {
	case "gemini", "":
		return gemini.NewProvider(ctx, p.GeminiAPIKey, p.Model, "")
	case "ollama":
		baseURL := p.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, p.Model), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(p.HuggingFaceAPIKey, p.HuggingFaceBaseURL, p.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", p.Provider)
	}
}
