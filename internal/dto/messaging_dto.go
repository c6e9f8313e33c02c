package dto

import (
	"github.com/google/uuid"
)

// SessionCompletedMessage is published on the in-process bus after a
// session is finalized.
type SessionCompletedMessage struct {
	SessionId   uuid.UUID   `json:"session_id"`
	UserId      uuid.UUID   `json:"user_id"`
	ModuleId    uuid.UUID   `json:"module_id"`
	Path        string      `json:"path"`
	Total       *int        `json:"total,omitempty"`
	Grade       string      `json:"grade,omitempty"`
	Assignments []uuid.UUID `json:"assignment_ids"`
}
