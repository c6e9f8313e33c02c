package unitofwork

import "context"

// RepositoryFactory hands out a fresh UnitOfWork per request. Services must
// not share one across goroutines.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
