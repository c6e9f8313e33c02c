package entity

import (
	"time"

	"github.com/google/uuid"
)

type GameEventType string

const (
	GameEventDecision    GameEventType = "decision"
	GameEventMilestone   GameEventType = "milestone"
	GameEventScoreUpdate GameEventType = "score_update"
	GameEventCompletion  GameEventType = "completion"
	GameEventCustom      GameEventType = "custom"
)

var validGameEventTypes = map[GameEventType]bool{
	GameEventDecision:    true,
	GameEventMilestone:   true,
	GameEventScoreUpdate: true,
	GameEventCompletion:  true,
	GameEventCustom:      true,
}

func (t GameEventType) IsValid() bool {
	return validGameEventTypes[t]
}

// GameEvent is a typed event reported by an engine client.
type GameEvent struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	EventType GameEventType
	EventData map[string]interface{}
	Timestamp time.Time
}
