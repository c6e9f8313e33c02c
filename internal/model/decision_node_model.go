package model

import (
	"time"

	"simvado-be/pkg/scoring"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContextDocument struct {
	Title   string `json:"title"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

// DecisionNode keys are unique per module; options point at successors by key.
type DecisionNode struct {
	Id               uuid.UUID                            `gorm:"type:uuid;primaryKey"`
	ModuleId         uuid.UUID                            `gorm:"type:uuid;not null;uniqueIndex:idx_decision_nodes_module_key,priority:1"`
	NodeKey          string                               `gorm:"type:varchar(100);not null;uniqueIndex:idx_decision_nodes_module_key,priority:2"`
	PromptText       string                               `gorm:"type:text;not null"`
	TimerSeconds     *int                                 `gorm:""`
	AiPromptTemplate *string                              `gorm:"type:text"`
	SortOrder        int                                  `gorm:"default:0;index"`
	ContextDocuments datatypes.JSONSlice[ContextDocument] `gorm:""`
	PreVideoUrl      *string                              `gorm:"type:text"`
	Options          []NodeOption                         `gorm:"foreignKey:DecisionNodeId;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time                            `gorm:"autoCreateTime"`
	UpdatedAt        time.Time                            `gorm:"autoUpdateTime"`
}

func (DecisionNode) TableName() string {
	return "decision_nodes"
}

func (n *DecisionNode) BeforeCreate(tx *gorm.DB) error {
	ensureId(&n.Id)
	return nil
}

type NodeOption struct {
	Id                  uuid.UUID                         `gorm:"type:uuid;primaryKey"`
	DecisionNodeId      uuid.UUID                         `gorm:"type:uuid;not null;index"`
	OptionKey           string                            `gorm:"type:varchar(50);not null"`
	Label               string                            `gorm:"type:varchar(255);not null"`
	Description         string                            `gorm:"type:text"`
	ScoreImpacts        datatypes.JSONType[scoring.Delta] `gorm:""`
	NextNodeKey         *string                           `gorm:"type:varchar(100)"`
	ConsequenceVideoUrl *string                           `gorm:"type:text"`
	SortOrder           int                               `gorm:"default:0"`
	CreatedAt           time.Time                         `gorm:"autoCreateTime"`
}

func (NodeOption) TableName() string {
	return "node_options"
}

func (o *NodeOption) BeforeCreate(tx *gorm.DB) error {
	ensureId(&o.Id)
	return nil
}
