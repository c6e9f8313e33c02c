package implementation

import (
	"context"
	"errors"
	"time"

	"simvado-be/internal/entity"
	"simvado-be/internal/mapper"
	"simvado-be/internal/model"
	"simvado-be/internal/repository/contract"
	"simvado-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.Session) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) Update(ctx context.Context, session *entity.Session) error {
	m := r.mapper.SessionToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.SessionToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	var m model.Session
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SessionToEntity(&m), nil
}

func (r *SessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	var models []*model.Session
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Session, len(models))
	for i, m := range models {
		entities[i] = r.mapper.SessionToEntity(m)
	}
	return entities, nil
}

func (r *SessionRepositoryImpl) Advance(ctx context.Context, id uuid.UUID, currentNodeKey *string, decisionCount int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND status <> ?", id, string(entity.SessionStatusCompleted)).
		Updates(map[string]interface{}{
			"status":           string(entity.SessionStatusInProgress),
			"current_node_key": currentNodeKey,
			"decision_count":   decisionCount,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SessionRepositoryImpl) Finalize(ctx context.Context, id uuid.UUID, fin entity.Finalization) (bool, error) {
	updates := map[string]interface{}{
		"status":                 string(entity.SessionStatusCompleted),
		"completed_at":           fin.CompletedAt,
		"current_node_key":       nil,
		"decision_count":         fin.DecisionCount,
		"total_duration_seconds": fin.TotalDurationSeconds,
		"final_scores":           datatypes.JSONMap(fin.FinalScores),
	}
	if fin.DebriefText != nil {
		updates["debrief_text"] = *fin.DebriefText
		updates["debrief_generated_at"] = fin.CompletedAt
	}

	res := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND status <> ?", id, string(entity.SessionStatusCompleted)).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SessionRepositoryImpl) SaveDebrief(ctx context.Context, id uuid.UUID, text string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND debrief_text IS NULL", id).
		Updates(map[string]interface{}{
			"debrief_text":         text,
			"debrief_generated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

type SessionDecisionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionDecisionRepository(db *gorm.DB) contract.SessionDecisionRepository {
	return &SessionDecisionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionDecisionRepositoryImpl) Create(ctx context.Context, decision *entity.SessionDecision) error {
	m := r.mapper.DecisionToModel(decision)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*decision = *r.mapper.DecisionToEntity(m)
	return nil
}

func (r *SessionDecisionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionDecision, error) {
	var models []*model.SessionDecision
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.DecisionsToEntities(models), nil
}

func (r *SessionDecisionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.SessionDecision{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type GameEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewGameEventRepository(db *gorm.DB) contract.GameEventRepository {
	return &GameEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *GameEventRepositoryImpl) CreateBatch(ctx context.Context, events []*entity.GameEvent) error {
	if len(events) == 0 {
		return nil
	}
	models := make([]*model.GameEvent, len(events))
	for i, e := range events {
		models[i] = r.mapper.GameEventToModel(e)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*events[i] = *r.mapper.GameEventToEntity(m)
	}
	return nil
}

func (r *GameEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GameEvent, error) {
	var models []*model.GameEvent
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.GameEvent, len(models))
	for i, m := range models {
		entities[i] = r.mapper.GameEventToEntity(m)
	}
	return entities, nil
}

func (r *GameEventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.GameEvent{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
