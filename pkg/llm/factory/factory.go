package factory

import (
	"context"
	"fmt"

	"simvado-be/pkg/llm"
	"simvado-be/pkg/llm/anthropic"
	"simvado-be/pkg/llm/gemini"
	"simvado-be/pkg/llm/ollama"
	"simvado-be/pkg/llm/openai"
)

type Config struct {
	Provider        string
	Model           string
	AnthropicAPIKey string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	GeminiAPIKey    string
	OllamaBaseURL   string
}

func NewLLMProvider(ctx context.Context, cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "anthropic":
		return anthropic.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.Model)
	case "openai":
		return openai.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model)
	case "gemini":
		return gemini.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.Model)
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		model := cfg.Model
		if model == "" {
			model = "llama3.1"
		}
		return ollama.NewOllamaProvider(baseURL, model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
