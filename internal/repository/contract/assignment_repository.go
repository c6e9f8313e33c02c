package contract

import (
	"context"
	"time"

	"simvado-be/internal/entity"
	"simvado-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *entity.Assignment) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Assignment, error)

	// CompleteOutstanding flips assigned/in_progress rows for user+module to
	// completed and returns the rows it changed.
	CompleteOutstanding(ctx context.Context, userId, moduleId uuid.UUID, at time.Time) ([]*entity.Assignment, error)
}

type ApiKeyRepository interface {
	Create(ctx context.Context, key *entity.ApiKey) error
	Update(ctx context.Context, key *entity.ApiKey) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ApiKey, error)
	TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error
}
