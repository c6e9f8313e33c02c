package contract

import (
	"context"
	"time"

	"simvado-be/internal/entity"
	"simvado-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SimulationRepository interface {
	Create(ctx context.Context, simulation *entity.Simulation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Simulation, error)
}

type ModuleRepository interface {
	Create(ctx context.Context, module *entity.Module) error
	Update(ctx context.Context, module *entity.Module) error
	MarkPublished(ctx context.Context, id uuid.UUID, at time.Time) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Module, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Module, error)
}

type DecisionNodeRepository interface {
	// Create inserts the node together with its options.
	Create(ctx context.Context, node *entity.DecisionNode) error
	DeleteByModuleId(ctx context.Context, moduleId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DecisionNode, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DecisionNode, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
