package events

import (
	"context"
	"time"

	"simvado-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Publisher emits the decision engine's outbound events. Delivery is best
// effort: failures are logged and never reach the caller.
type Publisher interface {
	PublishDecisionRecorded(ctx context.Context, sessionId, userId uuid.UUID, sequence int, nodeKey string, isComplete bool)
	PublishSessionCompleted(ctx context.Context, sessionId, userId, moduleId uuid.UUID, path string, finalScores map[string]interface{})
	PublishGameEventsReported(ctx context.Context, sessionId uuid.UUID, eventTypes []string)
}

// NatsPublisher implements Publisher on a Sender. A nil sender disables publishing.
type NatsPublisher struct {
	sender Sender
	logger logger.ILogger
}

func NewNatsPublisher(sender Sender, log logger.ILogger) *NatsPublisher {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &NatsPublisher{
		sender: sender,
		logger: log,
	}
}

func (p *NatsPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.sender == nil {
		return
	}

	now := time.Now()
	data["occurred_at"] = now
	evt := BaseEvent{Type: eventType, Data: data, OccurredAt: now}

	if err := p.sender.Publish(ctx, evt); err != nil {
		p.logger.Error("EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *NatsPublisher) PublishDecisionRecorded(ctx context.Context, sessionId, userId uuid.UUID, sequence int, nodeKey string, isComplete bool) {
	p.publish(ctx, TypeDecisionRecorded, map[string]interface{}{
		"session_id":  sessionId.String(),
		"user_id":     userId.String(),
		"sequence":    sequence,
		"node_key":    nodeKey,
		"is_complete": isComplete,
		"entity_type": "session",
		"entity_id":   sessionId.String(),
	})
}

func (p *NatsPublisher) PublishSessionCompleted(ctx context.Context, sessionId, userId, moduleId uuid.UUID, path string, finalScores map[string]interface{}) {
	p.publish(ctx, TypeSessionCompleted, map[string]interface{}{
		"session_id":   sessionId.String(),
		"user_id":      userId.String(),
		"module_id":    moduleId.String(),
		"path":         path,
		"final_scores": finalScores,
		"entity_type":  "session",
		"entity_id":    sessionId.String(),
	})
}

func (p *NatsPublisher) PublishGameEventsReported(ctx context.Context, sessionId uuid.UUID, eventTypes []string) {
	p.publish(ctx, TypeGameEventsReported, map[string]interface{}{
		"session_id":  sessionId.String(),
		"event_types": eventTypes,
		"count":       len(eventTypes),
		"entity_type": "session",
		"entity_id":   sessionId.String(),
	})
}
