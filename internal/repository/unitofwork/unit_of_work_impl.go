package unitofwork

import (
	"context"
	"fmt"

	"simvado-be/internal/repository/contract"
	"simvado-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SimulationRepository() contract.SimulationRepository {
	return implementation.NewSimulationRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ModuleRepository() contract.ModuleRepository {
	return implementation.NewModuleRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DecisionNodeRepository() contract.DecisionNodeRepository {
	return implementation.NewDecisionNodeRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SessionRepository() contract.SessionRepository {
	return implementation.NewSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SessionDecisionRepository() contract.SessionDecisionRepository {
	return implementation.NewSessionDecisionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) GameEventRepository() contract.GameEventRepository {
	return implementation.NewGameEventRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AssignmentRepository() contract.AssignmentRepository {
	return implementation.NewAssignmentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ApiKeyRepository() contract.ApiKeyRepository {
	return implementation.NewApiKeyRepository(u.getDB())
}
