package model

import (
	"time"

	"simvado-be/pkg/scoring"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Session struct {
	Id                   uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserId               uuid.UUID         `gorm:"type:uuid;not null;index"`
	ModuleId             uuid.UUID         `gorm:"type:uuid;not null;index"`
	OrganizationId       *uuid.UUID        `gorm:"type:uuid;index"`
	Status               string            `gorm:"type:varchar(20);not null;default:'not_started';index"`
	CurrentNodeKey       *string           `gorm:"type:varchar(100)"`
	DecisionCount        int               `gorm:"default:0"`
	Platform             string            `gorm:"type:varchar(20);not null;default:'browser'"`
	ExternalSessionId    *string           `gorm:"type:varchar(255);index"`
	LaunchUrl            *string           `gorm:"type:text"`
	StartedAt            time.Time         `gorm:"not null"`
	CompletedAt          *time.Time        `gorm:""`
	TotalDurationSeconds *int              `gorm:""`
	FinalScores          datatypes.JSONMap `gorm:""`
	DebriefText          *string           `gorm:"type:text"`
	DebriefGeneratedAt   *time.Time        `gorm:""`
	CreatedAt            time.Time         `gorm:"autoCreateTime"`
	UpdatedAt            time.Time         `gorm:"autoUpdateTime"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	ensureId(&s.Id)
	return nil
}

// SessionDecision rows are append-only; (session_id, sequence) is unique so
// two writers can never record the same step twice.
type SessionDecision struct {
	Id                 uuid.UUID                          `gorm:"type:uuid;primaryKey"`
	SessionId          uuid.UUID                          `gorm:"type:uuid;not null;uniqueIndex:idx_session_decisions_seq,priority:1"`
	Sequence           int                                `gorm:"not null;uniqueIndex:idx_session_decisions_seq,priority:2"`
	DecisionNodeId     uuid.UUID                          `gorm:"type:uuid;not null"`
	SelectedOptionId   uuid.UUID                          `gorm:"type:uuid;not null"`
	TimeSpentSeconds   *int                               `gorm:""`
	AiDialogueResponse *string                            `gorm:"type:text"`
	ScoreSnapshot      datatypes.JSONType[scoring.Scores] `gorm:""`
	DecidedAt          time.Time                          `gorm:"not null;index"`
}

func (SessionDecision) TableName() string {
	return "session_decisions"
}

func (d *SessionDecision) BeforeCreate(tx *gorm.DB) error {
	ensureId(&d.Id)
	return nil
}

type GameEvent struct {
	Id        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	SessionId uuid.UUID         `gorm:"type:uuid;not null;index:idx_game_events_session_ts,priority:1"`
	EventType string            `gorm:"type:varchar(20);not null"`
	EventData datatypes.JSONMap `gorm:""`
	Timestamp time.Time         `gorm:"not null;index:idx_game_events_session_ts,priority:2"`
}

func (GameEvent) TableName() string {
	return "game_events"
}

func (e *GameEvent) BeforeCreate(tx *gorm.DB) error {
	ensureId(&e.Id)
	return nil
}
