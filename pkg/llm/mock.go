package llm

import (
	"context"
	"sync"
)

// MockProvider returns canned output. Safe for concurrent use.
type MockProvider struct {
	Response string
	Err      error
	// Fn overrides Response/Err when set.
	Fn func(ctx context.Context, prompt string, opts Options) (string, error)

	mu      sync.Mutex
	prompts []string
}

var _ LLMProvider = &MockProvider{}

func (m *MockProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	var prompt string
	if len(history) > 0 {
		prompt = history[len(history)-1].Content
	}
	return m.Generate(ctx, prompt, options...)
}

func (m *MockProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.Fn != nil {
		return m.Fn(ctx, prompt, Apply(Options{}, options...))
	}
	return m.Response, m.Err
}

// Prompts returns every prompt received so far.
func (m *MockProvider) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
