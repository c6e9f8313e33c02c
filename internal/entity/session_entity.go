package entity

import (
	"time"

	"simvado-be/pkg/scoring"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusNotStarted SessionStatus = "not_started"
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
)

type Session struct {
	Id                   uuid.UUID
	UserId               uuid.UUID
	ModuleId             uuid.UUID
	OrganizationId       *uuid.UUID
	Status               SessionStatus
	CurrentNodeKey       *string
	DecisionCount        int
	Platform             Platform
	ExternalSessionId    *string
	LaunchUrl            *string
	StartedAt            time.Time
	CompletedAt          *time.Time
	TotalDurationSeconds *int
	FinalScores          map[string]interface{}
	DebriefText          *string
	DebriefGeneratedAt   *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// AcceptsDecisions reports whether the session can still take a decision.
func (s *Session) AcceptsDecisions() bool {
	return s.Status == SessionStatusNotStarted || s.Status == SessionStatusInProgress
}

func (s *Session) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}

// SessionDecision is an append-only record of one decision.
type SessionDecision struct {
	Id                 uuid.UUID
	SessionId          uuid.UUID
	Sequence           int
	DecisionNodeId     uuid.UUID
	SelectedOptionId   uuid.UUID
	TimeSpentSeconds   *int
	AiDialogueResponse *string
	ScoreSnapshot      scoring.Scores
	DecidedAt          time.Time
}

// Finalization is everything written when a session completes.
type Finalization struct {
	CompletedAt          time.Time
	TotalDurationSeconds *int
	FinalScores          map[string]interface{}
	DebriefText          *string
	DecisionCount        int
}
