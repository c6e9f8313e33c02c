package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ExternalId       string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Email            string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name             string     `gorm:"type:varchar(255)"`
	Role             string     `gorm:"type:varchar(50);not null;default:'user'"`
	SubscriptionTier string     `gorm:"type:varchar(50);not null;default:'free'"`
	OrganizationId   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt        time.Time  `gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureId(&u.Id)
	return nil
}
