package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByModuleID struct {
	ModuleID uuid.UUID
}

func (s ByModuleID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("module_id = ?", s.ModuleID)
}

type BySlug struct {
	Slug string
}

func (s BySlug) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("slug = ?", s.Slug)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByNodeKey struct {
	NodeKey string
}

func (s ByNodeKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("node_key = ?", s.NodeKey)
}

// WithOptions preloads node options in authoring order.
type WithOptions struct{}

func (s WithOptions) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Options", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("sort_order ASC")
	})
}

type WithSimulation struct{}

func (s WithSimulation) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("Simulation")
}
