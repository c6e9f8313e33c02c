package unitofwork

import (
	"context"

	"simvado-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SimulationRepository() contract.SimulationRepository
	ModuleRepository() contract.ModuleRepository
	DecisionNodeRepository() contract.DecisionNodeRepository

	SessionRepository() contract.SessionRepository
	SessionDecisionRepository() contract.SessionDecisionRepository
	GameEventRepository() contract.GameEventRepository
	AssignmentRepository() contract.AssignmentRepository
	ApiKeyRepository() contract.ApiKeyRepository
}
