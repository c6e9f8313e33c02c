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

type SimulationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ModuleMapper
}

func NewSimulationRepository(db *gorm.DB) contract.SimulationRepository {
	return &SimulationRepositoryImpl{
		db:     db,
		mapper: mapper.NewModuleMapper(),
	}
}

func (r *SimulationRepositoryImpl) Create(ctx context.Context, simulation *entity.Simulation) error {
	m := r.mapper.SimulationToModel(simulation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*simulation = *r.mapper.SimulationToEntity(m)
	return nil
}

func (r *SimulationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Simulation, error) {
	var m model.Simulation
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.SimulationToEntity(&m), nil
}

type ModuleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ModuleMapper
}

func NewModuleRepository(db *gorm.DB) contract.ModuleRepository {
	return &ModuleRepositoryImpl{
		db:     db,
		mapper: mapper.NewModuleMapper(),
	}
}

func (r *ModuleRepositoryImpl) Create(ctx context.Context, module *entity.Module) error {
	m := r.mapper.ModuleToModel(module)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*module = *r.mapper.ModuleToEntity(m)
	return nil
}

func (r *ModuleRepositoryImpl) Update(ctx context.Context, module *entity.Module) error {
	m := r.mapper.ModuleToModel(module)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*module = *r.mapper.ModuleToEntity(m)
	return nil
}

func (r *ModuleRepositoryImpl) MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Module{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       string(entity.ModuleStatusPublished),
			"published_at": at,
		}).Error
}

func (r *ModuleRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Module, error) {
	var m model.Module
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ModuleToEntity(&m), nil
}

func (r *ModuleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Module, error) {
	var models []*model.Module
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Module, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ModuleToEntity(m)
	}
	return entities, nil
}

type DecisionNodeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ModuleMapper
}

func NewDecisionNodeRepository(db *gorm.DB) contract.DecisionNodeRepository {
	return &DecisionNodeRepositoryImpl{
		db:     db,
		mapper: mapper.NewModuleMapper(),
	}
}

func (r *DecisionNodeRepositoryImpl) Create(ctx context.Context, node *entity.DecisionNode) error {
	m := r.mapper.DecisionNodeToModel(node)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*node = *r.mapper.DecisionNodeToEntity(m)
	return nil
}

func (r *DecisionNodeRepositoryImpl) DeleteByModuleId(ctx context.Context, moduleId uuid.UUID) error {
	db := r.db.WithContext(ctx)
	nodeIds := db.Model(&model.DecisionNode{}).Select("id").Where("module_id = ?", moduleId)
	if err := db.Where("decision_node_id IN (?)", nodeIds).Delete(&model.NodeOption{}).Error; err != nil {
		return err
	}
	return db.Where("module_id = ?", moduleId).Delete(&model.DecisionNode{}).Error
}

func (r *DecisionNodeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DecisionNode, error) {
	var m model.DecisionNode
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.DecisionNodeToEntity(&m), nil
}

func (r *DecisionNodeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DecisionNode, error) {
	var models []*model.DecisionNode
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.DecisionNode, len(models))
	for i, m := range models {
		entities[i] = r.mapper.DecisionNodeToEntity(m)
	}
	return entities, nil
}

func (r *DecisionNodeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.DecisionNode{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
