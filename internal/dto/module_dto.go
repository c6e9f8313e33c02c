package dto

import (
	"time"

	"simvado-be/internal/entity"

	"github.com/google/uuid"
)

// GraphDocument is the YAML authoring format for a module's decision graph.
type GraphDocument struct {
	Nodes []GraphNodeDocument `yaml:"nodes"`
}

type GraphNodeDocument struct {
	Key              string                   `yaml:"key"`
	Prompt           string                   `yaml:"prompt"`
	TimerSeconds     *int                     `yaml:"timerSeconds"`
	AiPromptTemplate *string                  `yaml:"aiPromptTemplate"`
	SortOrder        int                      `yaml:"sortOrder"`
	PreVideoUrl      *string                  `yaml:"preVideoUrl"`
	ContextDocuments []entity.ContextDocument `yaml:"contextDocuments"`
	Options          []GraphOptionDocument    `yaml:"options"`
}

type GraphOptionDocument struct {
	Key                 string         `yaml:"key"`
	Label               string         `yaml:"label"`
	Description         string         `yaml:"description"`
	ScoreImpacts        map[string]int `yaml:"scoreImpacts"`
	NextNodeKey         *string        `yaml:"nextNodeKey"`
	ConsequenceVideoUrl *string        `yaml:"consequenceVideoUrl"`
}

type ImportGraphResponse struct {
	ModuleId    uuid.UUID `json:"moduleId"`
	NodeCount   int       `json:"nodeCount"`
	OptionCount int       `json:"optionCount"`
}

type PublishModuleResponse struct {
	ModuleId    uuid.UUID `json:"moduleId"`
	Status      string    `json:"status"`
	NodeCount   int       `json:"nodeCount"`
	PublishedAt time.Time `json:"publishedAt"`
}

// GraphProblemsResponse lists every validation problem found at publish time.
type GraphProblemsResponse struct {
	Problems []string `json:"problems"`
}
