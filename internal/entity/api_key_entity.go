package entity

import (
	"time"

	"github.com/google/uuid"
)

// ApiKey authorizes an engine client. Only the SHA-256 hash of the key is stored.
type ApiKey struct {
	Id         uuid.UUID
	StudioId   *uuid.UUID
	Name       string
	KeyHash    string
	KeyPrefix  string
	IsActive   bool
	ExpiresAt  *time.Time
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

func (k *ApiKey) IsUsable(now time.Time) bool {
	if !k.IsActive {
		return false
	}
	return k.ExpiresAt == nil || k.ExpiresAt.After(now)
}
