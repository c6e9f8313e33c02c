package events

import (
	"context"
	"time"
)

const (
	TypeDecisionRecorded   = "DECISION_RECORDED"
	TypeSessionCompleted   = "SESSION_COMPLETED"
	TypeGameEventsReported = "GAME_EVENTS_REPORTED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Sender delivers an event to a bus. Implemented by pkg/nats.Publisher.
type Sender interface {
	Publish(ctx context.Context, event Event) error
}
