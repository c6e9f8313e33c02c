package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Assignment struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrganizationId   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ModuleId         uuid.UUID  `gorm:"type:uuid;not null;index:idx_assignments_user_module,priority:2"`
	AssignedToUserId uuid.UUID  `gorm:"type:uuid;not null;index:idx_assignments_user_module,priority:1"`
	AssignedByUserId *uuid.UUID `gorm:"type:uuid"`
	NotifyEmail      *string    `gorm:"type:varchar(255)"`
	Status           string     `gorm:"type:varchar(20);not null;default:'assigned'"`
	DueDate          *time.Time `gorm:""`
	CompletedAt      *time.Time `gorm:""`
	CreatedAt        time.Time  `gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime"`
}

func (Assignment) TableName() string {
	return "simulation_assignments"
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	ensureId(&a.Id)
	return nil
}
