package dto

import (
	"time"

	"simvado-be/internal/entity"
	"simvado-be/pkg/scoring"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	ModuleId uuid.UUID `json:"moduleId" validate:"required"`
}

type StartSessionResponse struct {
	SessionId uuid.UUID `json:"sessionId"`
}

// OptionResponse never carries score impacts or successor keys.
type OptionResponse struct {
	Id          uuid.UUID `json:"id"`
	Key         string    `json:"key"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
}

type CurrentNodeResponse struct {
	NodeKey          string                   `json:"nodeKey"`
	PromptText       string                   `json:"promptText"`
	TimerSeconds     *int                     `json:"timerSeconds"`
	PreVideoUrl      *string                  `json:"preVideoUrl"`
	ContextDocuments []entity.ContextDocument `json:"contextDocuments"`
	Options          []OptionResponse         `json:"options"`
}

type SubmitDecisionRequest struct {
	OptionId         uuid.UUID `json:"optionId" validate:"required"`
	TimeSpentSeconds *int      `json:"timeSpentSeconds" validate:"omitempty,min=0"`
}

type SubmitDecisionResponse struct {
	ConsequenceVideoUrl *string        `json:"consequenceVideoUrl"`
	AiDialogue          *string        `json:"aiDialogue"`
	RunningScores       scoring.Scores `json:"runningScores"`
	NextNodeKey         *string        `json:"nextNodeKey"`
	IsComplete          bool           `json:"isComplete"`
}

type DecisionResultResponse struct {
	Sequence         int            `json:"sequence"`
	NodeKey          string         `json:"nodeKey"`
	OptionKey        string         `json:"optionKey"`
	OptionLabel      string         `json:"optionLabel"`
	TimeSpentSeconds *int           `json:"timeSpentSeconds"`
	AiDialogue       *string        `json:"aiDialogue"`
	Scores           scoring.Scores `json:"scores"`
	DecidedAt        time.Time      `json:"decidedAt"`
}

type SessionResultsResponse struct {
	SessionId            uuid.UUID                `json:"sessionId"`
	ModuleId             uuid.UUID                `json:"moduleId"`
	Status               string                   `json:"status"`
	StartedAt            time.Time                `json:"startedAt"`
	CompletedAt          *time.Time               `json:"completedAt"`
	TotalDurationSeconds *int                     `json:"totalDurationSeconds"`
	FinalScores          map[string]interface{}   `json:"finalScores"`
	Decisions            []DecisionResultResponse `json:"decisions"`
	DebriefText          *string                  `json:"debriefText"`
}

type DebriefResponse struct {
	Debrief     string     `json:"debrief"`
	GeneratedAt *time.Time `json:"generatedAt"`
}

type AnalyticsSession struct {
	Id                   uuid.UUID  `json:"id"`
	Status               string     `json:"status"`
	StartedAt            time.Time  `json:"startedAt"`
	CompletedAt          *time.Time `json:"completedAt"`
	TotalDurationSeconds *int       `json:"totalDurationSeconds"`
	Platform             string     `json:"platform"`
}

type AnalyticsSimulation struct {
	Title  string `json:"title"`
	Module string `json:"module"`
}

type AnalyticsTimeline struct {
	Decisions    []GameEventResponse `json:"decisions"`
	Milestones   []GameEventResponse `json:"milestones"`
	ScoreUpdates []GameEventResponse `json:"scoreUpdates"`
	TotalEvents  int                 `json:"totalEvents"`
}

type AnalyticsResponse struct {
	Session     AnalyticsSession       `json:"session"`
	Simulation  AnalyticsSimulation    `json:"simulation"`
	FinalScores map[string]interface{} `json:"finalScores"`
	Timeline    AnalyticsTimeline      `json:"timeline"`
}
