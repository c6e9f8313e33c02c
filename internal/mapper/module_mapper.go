package mapper

import (
	"time"

	"simvado-be/internal/entity"
	"simvado-be/internal/model"

	"gorm.io/datatypes"
)

type ModuleMapper struct{}

func NewModuleMapper() *ModuleMapper {
	return &ModuleMapper{}
}

// Simulation Mappers

func (m *ModuleMapper) SimulationToEntity(s *model.Simulation) *entity.Simulation {
	if s == nil {
		return nil
	}
	return &entity.Simulation{
		Id:        s.Id,
		StudioId:  s.StudioId,
		Title:     s.Title,
		Slug:      s.Slug,
		CreatedAt: s.CreatedAt,
	}
}

func (m *ModuleMapper) SimulationToModel(s *entity.Simulation) *model.Simulation {
	if s == nil {
		return nil
	}
	return &model.Simulation{
		Id:        s.Id,
		StudioId:  s.StudioId,
		Title:     s.Title,
		Slug:      s.Slug,
		CreatedAt: s.CreatedAt,
	}
}

// Module Mappers

func (m *ModuleMapper) ModuleToEntity(mod *model.Module) *entity.Module {
	if mod == nil {
		return nil
	}

	var updatedAt *time.Time
	if !mod.UpdatedAt.IsZero() {
		t := mod.UpdatedAt
		updatedAt = &t
	}

	var simulationTitle string
	if mod.Simulation != nil {
		simulationTitle = mod.Simulation.Title
	}

	return &entity.Module{
		Id:               mod.Id,
		SimulationId:     mod.SimulationId,
		SimulationTitle:  simulationTitle,
		Title:            mod.Title,
		Slug:             mod.Slug,
		SortOrder:        mod.SortOrder,
		NarrativeContext: mod.NarrativeContext,
		Status:           entity.ModuleStatus(mod.Status),
		IsFreeDemo:       mod.IsFreeDemo,
		Platform:         entity.Platform(mod.Platform),
		LaunchUrl:        mod.LaunchUrl,
		CreatedAt:        mod.CreatedAt,
		UpdatedAt:        updatedAt,
		PublishedAt:      mod.PublishedAt,
	}
}

func (m *ModuleMapper) ModuleToModel(mod *entity.Module) *model.Module {
	if mod == nil {
		return nil
	}

	var updatedAt time.Time
	if mod.UpdatedAt != nil {
		updatedAt = *mod.UpdatedAt
	}

	return &model.Module{
		Id:               mod.Id,
		SimulationId:     mod.SimulationId,
		Title:            mod.Title,
		Slug:             mod.Slug,
		SortOrder:        mod.SortOrder,
		NarrativeContext: mod.NarrativeContext,
		Status:           string(mod.Status),
		IsFreeDemo:       mod.IsFreeDemo,
		Platform:         string(mod.Platform),
		LaunchUrl:        mod.LaunchUrl,
		CreatedAt:        mod.CreatedAt,
		UpdatedAt:        updatedAt,
		PublishedAt:      mod.PublishedAt,
	}
}

// Decision Node Mappers

func (m *ModuleMapper) DecisionNodeToEntity(n *model.DecisionNode) *entity.DecisionNode {
	if n == nil {
		return nil
	}

	docs := make([]entity.ContextDocument, len(n.ContextDocuments))
	for i, d := range n.ContextDocuments {
		docs[i] = entity.ContextDocument{Title: d.Title, Type: d.Type, Content: d.Content}
	}

	options := make([]*entity.NodeOption, len(n.Options))
	for i := range n.Options {
		options[i] = m.NodeOptionToEntity(&n.Options[i])
	}

	return &entity.DecisionNode{
		Id:               n.Id,
		ModuleId:         n.ModuleId,
		NodeKey:          n.NodeKey,
		PromptText:       n.PromptText,
		TimerSeconds:     n.TimerSeconds,
		AiPromptTemplate: n.AiPromptTemplate,
		SortOrder:        n.SortOrder,
		ContextDocuments: docs,
		PreVideoUrl:      n.PreVideoUrl,
		Options:          options,
		CreatedAt:        n.CreatedAt,
	}
}

func (m *ModuleMapper) DecisionNodeToModel(n *entity.DecisionNode) *model.DecisionNode {
	if n == nil {
		return nil
	}

	docs := make(datatypes.JSONSlice[model.ContextDocument], len(n.ContextDocuments))
	for i, d := range n.ContextDocuments {
		docs[i] = model.ContextDocument{Title: d.Title, Type: d.Type, Content: d.Content}
	}

	options := make([]model.NodeOption, len(n.Options))
	for i, o := range n.Options {
		options[i] = *m.NodeOptionToModel(o)
	}

	return &model.DecisionNode{
		Id:               n.Id,
		ModuleId:         n.ModuleId,
		NodeKey:          n.NodeKey,
		PromptText:       n.PromptText,
		TimerSeconds:     n.TimerSeconds,
		AiPromptTemplate: n.AiPromptTemplate,
		SortOrder:        n.SortOrder,
		ContextDocuments: docs,
		PreVideoUrl:      n.PreVideoUrl,
		Options:          options,
		CreatedAt:        n.CreatedAt,
	}
}

func (m *ModuleMapper) NodeOptionToEntity(o *model.NodeOption) *entity.NodeOption {
	if o == nil {
		return nil
	}
	return &entity.NodeOption{
		Id:                  o.Id,
		DecisionNodeId:      o.DecisionNodeId,
		OptionKey:           o.OptionKey,
		Label:               o.Label,
		Description:         o.Description,
		ScoreImpacts:        o.ScoreImpacts.Data(),
		NextNodeKey:         o.NextNodeKey,
		ConsequenceVideoUrl: o.ConsequenceVideoUrl,
		SortOrder:           o.SortOrder,
	}
}

func (m *ModuleMapper) NodeOptionToModel(o *entity.NodeOption) *model.NodeOption {
	if o == nil {
		return nil
	}
	return &model.NodeOption{
		Id:                  o.Id,
		DecisionNodeId:      o.DecisionNodeId,
		OptionKey:           o.OptionKey,
		Label:               o.Label,
		Description:         o.Description,
		ScoreImpacts:        datatypes.NewJSONType(o.ScoreImpacts),
		NextNodeKey:         o.NextNodeKey,
		ConsequenceVideoUrl: o.ConsequenceVideoUrl,
		SortOrder:           o.SortOrder,
	}
}
