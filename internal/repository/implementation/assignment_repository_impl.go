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
	"gorm.io/gorm"
)

var outstandingAssignmentStatuses = []string{
	string(entity.AssignmentStatusAssigned),
	string(entity.AssignmentStatusInProgress),
}

type AssignmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssignmentMapper
}

func NewAssignmentRepository(db *gorm.DB) contract.AssignmentRepository {
	return &AssignmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewAssignmentMapper(),
	}
}

func (r *AssignmentRepositoryImpl) Create(ctx context.Context, assignment *entity.Assignment) error {
	m := r.mapper.ToModel(assignment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*assignment = *r.mapper.ToEntity(m)
	return nil
}

func (r *AssignmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Assignment, error) {
	var models []*model.Assignment
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Assignment, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *AssignmentRepositoryImpl) CompleteOutstanding(ctx context.Context, userId, moduleId uuid.UUID, at time.Time) ([]*entity.Assignment, error) {
	db := r.db.WithContext(ctx)

	var models []*model.Assignment
	err := db.Where("assigned_to_user_id = ? AND module_id = ? AND status IN ?", userId, moduleId, outstandingAssignmentStatuses).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(models))
	for i, m := range models {
		ids[i] = m.Id
	}
	err = db.Model(&model.Assignment{}).
		Where("id IN ? AND status IN ?", ids, outstandingAssignmentStatuses).
		Updates(map[string]interface{}{
			"status":       string(entity.AssignmentStatusCompleted),
			"completed_at": at,
		}).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*entity.Assignment, len(models))
	for i, m := range models {
		m.Status = string(entity.AssignmentStatusCompleted)
		completedAt := at
		m.CompletedAt = &completedAt
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

type ApiKeyRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ApiKeyMapper
}

func NewApiKeyRepository(db *gorm.DB) contract.ApiKeyRepository {
	return &ApiKeyRepositoryImpl{
		db:     db,
		mapper: mapper.NewApiKeyMapper(),
	}
}

func (r *ApiKeyRepositoryImpl) Create(ctx context.Context, key *entity.ApiKey) error {
	m := r.mapper.ToModel(key)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*key = *r.mapper.ToEntity(m)
	return nil
}

func (r *ApiKeyRepositoryImpl) Update(ctx context.Context, key *entity.ApiKey) error {
	m := r.mapper.ToModel(key)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*key = *r.mapper.ToEntity(m)
	return nil
}

func (r *ApiKeyRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ApiKey, error) {
	var m model.ApiKey
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ApiKeyRepositoryImpl) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.ApiKey{}).
		Where("id = ?", id).
		Update("last_used_at", at).Error
}
