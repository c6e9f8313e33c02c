package mapper

import (
	"encoding/json"

	"simvado-be/internal/entity"
	"simvado-be/internal/model"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// Session Mappers

func (m *SessionMapper) SessionToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	var finalScores map[string]interface{}
	if s.FinalScores != nil {
		finalScores = normalizeNumbers(s.FinalScores)
	}

	return &entity.Session{
		Id:                   s.Id,
		UserId:               s.UserId,
		ModuleId:             s.ModuleId,
		OrganizationId:       s.OrganizationId,
		Status:               entity.SessionStatus(s.Status),
		CurrentNodeKey:       s.CurrentNodeKey,
		DecisionCount:        s.DecisionCount,
		Platform:             entity.Platform(s.Platform),
		ExternalSessionId:    s.ExternalSessionId,
		LaunchUrl:            s.LaunchUrl,
		StartedAt:            s.StartedAt,
		CompletedAt:          s.CompletedAt,
		TotalDurationSeconds: s.TotalDurationSeconds,
		FinalScores:          finalScores,
		DebriefText:          s.DebriefText,
		DebriefGeneratedAt:   s.DebriefGeneratedAt,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

func (m *SessionMapper) SessionToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}

	var finalScores datatypes.JSONMap
	if s.FinalScores != nil {
		finalScores = datatypes.JSONMap(s.FinalScores)
	}

	return &model.Session{
		Id:                   s.Id,
		UserId:               s.UserId,
		ModuleId:             s.ModuleId,
		OrganizationId:       s.OrganizationId,
		Status:               string(s.Status),
		CurrentNodeKey:       s.CurrentNodeKey,
		DecisionCount:        s.DecisionCount,
		Platform:             string(s.Platform),
		ExternalSessionId:    s.ExternalSessionId,
		LaunchUrl:            s.LaunchUrl,
		StartedAt:            s.StartedAt,
		CompletedAt:          s.CompletedAt,
		TotalDurationSeconds: s.TotalDurationSeconds,
		FinalScores:          finalScores,
		DebriefText:          s.DebriefText,
		DebriefGeneratedAt:   s.DebriefGeneratedAt,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}
}

// Decision Mappers

func (m *SessionMapper) DecisionToEntity(d *model.SessionDecision) *entity.SessionDecision {
	if d == nil {
		return nil
	}
	return &entity.SessionDecision{
		Id:                 d.Id,
		SessionId:          d.SessionId,
		Sequence:           d.Sequence,
		DecisionNodeId:     d.DecisionNodeId,
		SelectedOptionId:   d.SelectedOptionId,
		TimeSpentSeconds:   d.TimeSpentSeconds,
		AiDialogueResponse: d.AiDialogueResponse,
		ScoreSnapshot:      d.ScoreSnapshot.Data(),
		DecidedAt:          d.DecidedAt,
	}
}

func (m *SessionMapper) DecisionToModel(d *entity.SessionDecision) *model.SessionDecision {
	if d == nil {
		return nil
	}
	return &model.SessionDecision{
		Id:                 d.Id,
		SessionId:          d.SessionId,
		Sequence:           d.Sequence,
		DecisionNodeId:     d.DecisionNodeId,
		SelectedOptionId:   d.SelectedOptionId,
		TimeSpentSeconds:   d.TimeSpentSeconds,
		AiDialogueResponse: d.AiDialogueResponse,
		ScoreSnapshot:      datatypes.NewJSONType(d.ScoreSnapshot),
		DecidedAt:          d.DecidedAt,
	}
}

func (m *SessionMapper) DecisionsToEntities(models []*model.SessionDecision) []*entity.SessionDecision {
	entities := make([]*entity.SessionDecision, len(models))
	for i, d := range models {
		entities[i] = m.DecisionToEntity(d)
	}
	return entities
}

// Game Event Mappers

func (m *SessionMapper) GameEventToEntity(e *model.GameEvent) *entity.GameEvent {
	if e == nil {
		return nil
	}
	data := map[string]interface{}{}
	if e.EventData != nil {
		data = normalizeNumbers(e.EventData)
	}
	return &entity.GameEvent{
		Id:        e.Id,
		SessionId: e.SessionId,
		EventType: entity.GameEventType(e.EventType),
		EventData: data,
		Timestamp: e.Timestamp,
	}
}

func (m *SessionMapper) GameEventToModel(e *entity.GameEvent) *model.GameEvent {
	if e == nil {
		return nil
	}
	data := datatypes.JSONMap{}
	if e.EventData != nil {
		data = datatypes.JSONMap(e.EventData)
	}
	return &model.GameEvent{
		Id:        e.Id,
		SessionId: e.SessionId,
		EventType: string(e.EventType),
		EventData: data,
		Timestamp: e.Timestamp,
	}
}

// normalizeNumbers replaces the json.Number values JSONMap scans into with
// int when integral and float64 otherwise, so readers see the types they wrote.
func normalizeNumbers(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v interface{}) interface{} {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]interface{}:
		return normalizeNumbers(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = normalizeValue(e)
		}
		return out
	default:
		return v
	}
}
