package debrief

import (
	"context"
	"time"

	"simvado-be/internal/pkg/logger"
	"simvado-be/pkg/metrics"
)

// Generator wraps the reaction and debrief summarizers. Its methods never
// return errors: failures are logged and replaced by fallback values.
type Generator struct {
	reaction Summarizer
	debrief  Summarizer
	logger   logger.ILogger
	metrics  *metrics.Recorder
}

// NewGenerator accepts nil summarizers, which disables that call.
func NewGenerator(reaction, debrief Summarizer, log logger.ILogger, rec *metrics.Recorder) *Generator {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Generator{
		reaction: reaction,
		debrief:  debrief,
		logger:   log,
		metrics:  rec,
	}
}

// Reaction returns an NPC reply, or nil when the node has no template or
// the call fails.
func (g *Generator) Reaction(ctx context.Context, template *string, label, description string) *string {
	if template == nil || *template == "" || g.reaction == nil {
		return nil
	}

	start := time.Now()
	text, err := g.reaction.Generate(ctx, BuildReactionPrompt(*template, label, description))
	g.metrics.AICall(metrics.KindReaction, time.Since(start), err)
	if err != nil {
		g.logger.Warn("DEBRIEF", "NPC reaction generation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	return &text
}

// Debrief returns generated text, or Placeholder on failure.
func (g *Generator) Debrief(ctx context.Context, prompt string) string {
	text, err := g.TryDebrief(ctx, prompt)
	if err != nil {
		return Placeholder
	}
	return text
}

// TryDebrief is Debrief without the fallback, for on-demand generation
// where the caller decides what to show.
func (g *Generator) TryDebrief(ctx context.Context, prompt string) (string, error) {
	if g.debrief == nil {
		return "", ErrEmptyResponse
	}

	start := time.Now()
	text, err := g.debrief.Generate(ctx, prompt)
	g.metrics.AICall(metrics.KindDebrief, time.Since(start), err)
	if err != nil {
		g.logger.Warn("DEBRIEF", "Debrief generation failed", map[string]interface{}{
			"error":         err.Error(),
			"prompt_length": len(prompt),
		})
		return "", err
	}
	return text, nil
}
