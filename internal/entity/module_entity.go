package entity

import (
	"time"

	"github.com/google/uuid"
)

type ModuleStatus string
type Platform string

const (
	ModuleStatusDraft     ModuleStatus = "draft"
	ModuleStatusInReview  ModuleStatus = "in_review"
	ModuleStatusPublished ModuleStatus = "published"
	ModuleStatusArchived  ModuleStatus = "archived"

	PlatformUnreal  Platform = "unreal"
	PlatformUnity   Platform = "unity"
	PlatformBrowser Platform = "browser"
	PlatformOther   Platform = "other"
)

type Simulation struct {
	Id        uuid.UUID
	StudioId  *uuid.UUID
	Title     string
	Slug      string
	CreatedAt time.Time
}

// Module is one playable scenario of a Simulation.
type Module struct {
	Id               uuid.UUID
	SimulationId     uuid.UUID
	SimulationTitle  string
	Title            string
	Slug             string
	SortOrder        int
	NarrativeContext string
	Status           ModuleStatus
	IsFreeDemo       bool
	Platform         Platform
	LaunchUrl        *string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
	PublishedAt      *time.Time
}

func (m *Module) IsPublished() bool {
	return m.Status == ModuleStatusPublished
}
