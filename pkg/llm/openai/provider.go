package openai

import (
	"context"
	"fmt"

	"simvado-be/pkg/llm"

	sdk "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o-mini"

// OpenAIProvider also serves any OpenAI-compatible endpoint via baseURL.
type OpenAIProvider struct {
	client *sdk.Client
	model  string
}

var _ llm.LLMProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, baseURL, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	config := sdk.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIProvider{
		client: sdk.NewClientWithConfig(config),
		model:  model,
	}, nil
}

func (p *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{Model: p.model, Temperature: 0.7}, opts...)

	messages := make([]sdk.ChatCompletionMessage, len(history))
	for i, m := range history {
		role := sdk.ChatMessageRoleUser
		switch m.Role {
		case llm.RoleSystem:
			role = sdk.ChatMessageRoleSystem
		case llm.RoleAssistant:
			role = sdk.ChatMessageRoleAssistant
		}
		messages[i] = sdk.ChatCompletionMessage{Role: role, Content: m.Content}
	}

	resp, err := p.client.CreateChatCompletion(ctx, sdk.ChatCompletionRequest{
		Model:               options.Model,
		Messages:            messages,
		MaxCompletionTokens: options.MaxTokens,
		Temperature:         float32(options.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}
