// Package debrief composes bounded prompts for NPC reactions and session
// debriefs and calls a text generator with a deterministic fallback.
package debrief

import (
	"context"
	"errors"
	"strings"
	"time"

	"simvado-be/pkg/llm"
)

// Placeholder is stored when debrief generation fails.
const Placeholder = "Debrief generation is temporarily unavailable."

var ErrEmptyResponse = errors.New("empty response from text generator")

// Summarizer is a single-attempt text generator.
type Summarizer interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LLMSummarizer bounds each call with a timeout and a token budget.
type LLMSummarizer struct {
	provider  llm.LLMProvider
	timeout   time.Duration
	maxTokens int
}

func NewLLMSummarizer(provider llm.LLMProvider, timeout time.Duration, maxTokens int) *LLMSummarizer {
	return &LLMSummarizer{
		provider:  provider,
		timeout:   timeout,
		maxTokens: maxTokens,
	}
}

func (s *LLMSummarizer) Generate(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out, err := s.provider.Generate(ctx, prompt, llm.WithMaxTokens(s.maxTokens))
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}
