package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateGameSessionRequest struct {
	UserId            uuid.UUID `json:"userId" validate:"required"`
	ModuleId          uuid.UUID `json:"moduleId" validate:"required"`
	ExternalSessionId *string   `json:"externalSessionId" validate:"omitempty,max=255"`
	Platform          *string   `json:"platform" validate:"omitempty,oneof=unreal unity browser other"`
}

type CreateGameSessionResponse struct {
	SessionId         uuid.UUID `json:"sessionId"`
	ExternalSessionId *string   `json:"externalSessionId"`
}

type GameEventRequest struct {
	EventType string                 `json:"eventType" validate:"required"`
	EventData map[string]interface{} `json:"eventData"`
	Timestamp *time.Time             `json:"timestamp"`
}

type ReportEventsResponse struct {
	EventIds []uuid.UUID `json:"eventIds"`
}

type GameEventResponse struct {
	Id        uuid.UUID              `json:"id"`
	SessionId uuid.UUID              `json:"sessionId"`
	EventType string                 `json:"eventType"`
	EventData map[string]interface{} `json:"eventData"`
	Timestamp time.Time              `json:"timestamp"`
}

type GameSessionUser struct {
	Id    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type GameSessionModule struct {
	Id    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
}

type GameSessionResponse struct {
	Id                   uuid.UUID              `json:"id"`
	Status               string                 `json:"status"`
	Platform             string                 `json:"platform"`
	ExternalSessionId    *string                `json:"externalSessionId"`
	LaunchUrl            *string                `json:"launchUrl"`
	StartedAt            time.Time              `json:"startedAt"`
	CompletedAt          *time.Time             `json:"completedAt"`
	TotalDurationSeconds *int                   `json:"totalDurationSeconds"`
	FinalScores          map[string]interface{} `json:"finalScores"`
	DebriefText          *string                `json:"debriefText"`
	User                 *GameSessionUser       `json:"user"`
	Module               *GameSessionModule     `json:"module"`
	GameEvents           []GameEventResponse    `json:"gameEvents"`
}

type CompleteGameSessionRequest struct {
	FinalScores          map[string]interface{} `json:"finalScores" validate:"required"`
	TotalDurationSeconds *int                   `json:"totalDurationSeconds" validate:"omitempty,min=0"`
	Summary              *string                `json:"summary"`
}

type CompleteGameSessionResponse struct {
	Status           string `json:"status"`
	DebriefGenerated bool   `json:"debriefGenerated"`
}

type IssueApiKeyRequest struct {
	StudioId  *uuid.UUID `json:"studioId"`
	Name      string     `json:"name" validate:"required,max=100"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// IssueApiKeyResponse is the only place the plaintext key is ever returned.
type IssueApiKeyResponse struct {
	Id        uuid.UUID `json:"id"`
	Key       string    `json:"key"`
	KeyPrefix string    `json:"keyPrefix"`
}
