package contract

import (
	"context"

	"simvado-be/internal/entity"
	"simvado-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	Update(ctx context.Context, session *entity.Session) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)

	// Advance moves a session that is not completed to in_progress at the given node.
	// It reports false when the session was already completed.
	Advance(ctx context.Context, id uuid.UUID, currentNodeKey *string, decisionCount int) (bool, error)

	// Finalize completes the session unless it is already completed.
	// It reports false when another writer finalized first.
	Finalize(ctx context.Context, id uuid.UUID, fin entity.Finalization) (bool, error)

	// SaveDebrief stores debrief text only when none is stored yet.
	SaveDebrief(ctx context.Context, id uuid.UUID, text string) (bool, error)
}

type SessionDecisionRepository interface {
	Create(ctx context.Context, decision *entity.SessionDecision) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionDecision, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type GameEventRepository interface {
	CreateBatch(ctx context.Context, events []*entity.GameEvent) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GameEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
