package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Simulation struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	StudioId  *uuid.UUID `gorm:"type:uuid;index"`
	Title     string     `gorm:"type:varchar(255);not null"`
	Slug      string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (Simulation) TableName() string {
	return "simulations"
}

func (s *Simulation) BeforeCreate(tx *gorm.DB) error {
	ensureId(&s.Id)
	return nil
}

type Module struct {
	Id               uuid.UUID   `gorm:"type:uuid;primaryKey"`
	SimulationId     uuid.UUID   `gorm:"type:uuid;not null;index"`
	Simulation       *Simulation `gorm:"foreignKey:SimulationId"`
	Title            string      `gorm:"type:varchar(255);not null"`
	Slug             string      `gorm:"type:varchar(255);not null"`
	SortOrder        int         `gorm:"default:0"`
	NarrativeContext string      `gorm:"type:text"`
	Status           string      `gorm:"type:varchar(20);not null;default:'draft';index"`
	IsFreeDemo       bool        `gorm:"default:false"`
	Platform         string      `gorm:"type:varchar(20);not null;default:'browser'"`
	LaunchUrl        *string     `gorm:"type:text"`
	PublishedAt      *time.Time
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (Module) TableName() string {
	return "modules"
}

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	ensureId(&m.Id)
	return nil
}
