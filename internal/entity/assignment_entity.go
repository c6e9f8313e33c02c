package entity

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentStatus string

const (
	AssignmentStatusAssigned   AssignmentStatus = "assigned"
	AssignmentStatusInProgress AssignmentStatus = "in_progress"
	AssignmentStatusCompleted  AssignmentStatus = "completed"
	AssignmentStatusOverdue    AssignmentStatus = "overdue"
)

// Assignment is an enterprise "play this module" task for one user.
type Assignment struct {
	Id               uuid.UUID
	OrganizationId   uuid.UUID
	ModuleId         uuid.UUID
	AssignedToUserId uuid.UUID
	AssignedByUserId *uuid.UUID
	NotifyEmail      *string
	Status           AssignmentStatus
	DueDate          *time.Time
	CompletedAt      *time.Time
	CreatedAt        time.Time
}
