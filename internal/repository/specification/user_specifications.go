package specification

import (
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByExternalID struct {
	ExternalID string
}

func (s ByExternalID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("external_id = ?", s.ExternalID)
}

type ByKeyHash struct {
	Hash string
}

func (s ByKeyHash) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("key_hash = ?", s.Hash)
}
