package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApiKey struct {
	Id         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	StudioId   *uuid.UUID `gorm:"type:uuid;index"`
	Name       string     `gorm:"type:varchar(255);not null"`
	KeyHash    string     `gorm:"type:varchar(64);uniqueIndex;not null"`
	KeyPrefix  string     `gorm:"type:varchar(20);not null"`
	IsActive   bool       `gorm:"not null"`
	ExpiresAt  *time.Time `gorm:""`
	LastUsedAt *time.Time `gorm:""`
	CreatedAt  time.Time  `gorm:"autoCreateTime"`
}

func (ApiKey) TableName() string {
	return "api_keys"
}

func (k *ApiKey) BeforeCreate(tx *gorm.DB) error {
	ensureId(&k.Id)
	return nil
}
