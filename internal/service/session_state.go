package service

import (
	"context"
	"errors"

	"simvado-be/internal/entity"
	"simvado-be/internal/pkg/apperr"
	"simvado-be/internal/repository/specification"
	"simvado-be/internal/repository/unitofwork"
	"simvado-be/pkg/graph"
	"simvado-be/pkg/lock"
	"simvado-be/pkg/scoring"

	"github.com/google/uuid"
)

var (
	errSessionNotFound = apperr.NotFound("Session not found")
	errModuleNotFound  = apperr.NotFound("Module not found")
	errOptionNotFound  = apperr.NotFound("Option not found")
	errNoMoreDecisions = apperr.BadRequest("No more decisions")
)

// loadOwnedSession hides sessions of other users behind not-found.
func loadOwnedSession(ctx context.Context, uow unitofwork.UnitOfWork, userId, sessionId uuid.UUID) (*entity.Session, error) {
	session, err := uow.SessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errSessionNotFound
	}
	return session, nil
}

func loadSession(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) (*entity.Session, error) {
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, errSessionNotFound
	}
	return session, nil
}

func loadModule(ctx context.Context, uow unitofwork.UnitOfWork, moduleId uuid.UUID) (*entity.Module, error) {
	module, err := uow.ModuleRepository().FindOne(ctx,
		specification.ByID{ID: moduleId},
		specification.WithSimulation{},
	)
	if err != nil {
		return nil, err
	}
	if module == nil {
		return nil, errModuleNotFound
	}
	return module, nil
}

// sessionDecisions returns the decision log in sequence order.
func sessionDecisions(ctx context.Context, uow unitofwork.UnitOfWork, sessionId uuid.UUID) ([]*entity.SessionDecision, error) {
	return uow.SessionDecisionRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "sequence"},
	)
}

// currentNode resolves the node a session is waiting on. The stored
// current_node_key wins; sessions without one start at the entry node or
// continue from their latest decision.
func currentNode(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session, g *entity.ModuleGraph) (*graph.Node, error) {
	if session.IsCompleted() {
		return nil, errNoMoreDecisions
	}

	if session.CurrentNodeKey != nil {
		node, err := g.Graph.Node(*session.CurrentNodeKey)
		if err != nil {
			return nil, apperr.Internal("Session points at an unknown node", err)
		}
		return node, nil
	}

	latest, err := uow.SessionDecisionRepository().FindAll(ctx,
		specification.BySessionID{SessionID: session.Id},
		specification.OrderBy{Field: "sequence", Desc: true},
		specification.Pagination{Limit: 1},
	)
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		node, err := g.Graph.Entry()
		if err != nil {
			return nil, errNoMoreDecisions
		}
		return node, nil
	}
	return successorOf(g, latest[0].SelectedOptionId)
}

func successorOf(g *entity.ModuleGraph, optionId uuid.UUID) (*graph.Node, error) {
	opt, err := g.Graph.Option(optionId)
	if err != nil {
		return nil, apperr.Internal("Decision references an unknown option", err)
	}
	next, err := g.Graph.Next(opt)
	if err != nil {
		return nil, apperr.Internal("Option points at an unknown node", err)
	}
	if next == nil {
		return nil, errNoMoreDecisions
	}
	return next, nil
}

// replayDeltas collects the score impacts of every recorded decision.
func replayDeltas(g *entity.ModuleGraph, decisions []*entity.SessionDecision) ([]scoring.Delta, error) {
	deltas := make([]scoring.Delta, 0, len(decisions))
	for _, d := range decisions {
		opt := g.Option(d.SelectedOptionId)
		if opt == nil {
			return nil, apperr.Internal("Decision references an unknown option", graph.ErrOptionNotFound)
		}
		deltas = append(deltas, opt.ScoreImpacts)
	}
	return deltas, nil
}

// totalDuration sums the time spent on each decision.
func totalDuration(decisions []*entity.SessionDecision) int {
	total := 0
	for _, d := range decisions {
		if d.TimeSpentSeconds != nil {
			total += *d.TimeSpentSeconds
		}
	}
	return total
}

// mapLockError converts session lock failures into API errors and passes
// everything else through.
func mapLockError(err error) error {
	switch {
	case errors.Is(err, lock.ErrLockBusy):
		return apperr.Conflict("Session is busy, retry shortly").Wrap(err)
	case errors.Is(err, lock.ErrLockAcquire):
		return apperr.Internal("Session lock unavailable", err)
	}
	return err
}
