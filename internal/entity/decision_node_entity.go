package entity

import (
	"time"

	"simvado-be/pkg/scoring"

	"github.com/google/uuid"
)

// ContextDocument is supporting material shown next to a decision prompt.
type ContextDocument struct {
	Title   string `json:"title" yaml:"title"`
	Type    string `json:"type" yaml:"type"`
	Content string `json:"content" yaml:"content"`
}

type DecisionNode struct {
	Id               uuid.UUID
	ModuleId         uuid.UUID
	NodeKey          string
	PromptText       string
	TimerSeconds     *int
	AiPromptTemplate *string
	SortOrder        int
	ContextDocuments []ContextDocument
	PreVideoUrl      *string
	Options          []*NodeOption
	CreatedAt        time.Time
}

type NodeOption struct {
	Id                  uuid.UUID
	DecisionNodeId      uuid.UUID
	OptionKey           string
	Label               string
	Description         string
	ScoreImpacts        scoring.Delta
	NextNodeKey         *string
	ConsequenceVideoUrl *string
	SortOrder           int
}

// IsTerminal reports whether choosing the option ends the session.
func (o *NodeOption) IsTerminal() bool {
	return o.NextNodeKey == nil || *o.NextNodeKey == ""
}
