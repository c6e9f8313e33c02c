package anthropic

import (
	"context"
	"fmt"
	"strings"

	"simvado-be/pkg/llm"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var models = map[string]string{
	"claude-sonnet": "claude-sonnet-4-20250514",
	"claude-haiku":  "claude-haiku-4-5-20251001",
}

const defaultModel = "claude-haiku"

type AnthropicProvider struct {
	client *sdk.Client
	model  string
}

var _ llm.LLMProvider = &AnthropicProvider{}

func NewAnthropicProvider(apiKey, model string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client := sdk.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicProvider{
		client: &client,
		model:  llm.ResolveModel(model, models),
	}, nil
}

func (p *AnthropicProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{Model: p.model, MaxTokens: 1024}, opts...)

	params := sdk.MessageNewParams{
		Model:     sdk.Model(llm.ResolveModel(options.Model, models)),
		MaxTokens: int64(options.MaxTokens),
	}

	var system []string
	for _, m := range history {
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, m.Content)
		case llm.RoleAssistant:
			params.Messages = append(params.Messages, sdk.MessageParam{
				Role:    sdk.MessageParamRoleAssistant,
				Content: []sdk.ContentBlockParamUnion{sdk.NewTextBlock(m.Content)},
			})
		default:
			params.Messages = append(params.Messages, sdk.MessageParam{
				Role:    sdk.MessageParamRoleUser,
				Content: []sdk.ContentBlockParamUnion{sdk.NewTextBlock(m.Content)},
			})
		}
	}
	if len(system) > 0 {
		params.System = []sdk.TextBlockParam{{Text: strings.Join(system, "\n\n")}}
	}
	if options.Temperature > 0 {
		params.Temperature = sdk.Float(options.Temperature)
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in anthropic response")
}

func (p *AnthropicProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}
