package service

import (
	"context"

	"simvado-be/internal/entity"
	"simvado-be/internal/repository/memory"
	"simvado-be/internal/repository/specification"
	"simvado-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// IGraphStore serves a module's compiled decision graph.
type IGraphStore interface {
	Load(ctx context.Context, moduleId uuid.UUID) (*entity.ModuleGraph, error)
	Invalidate(moduleId uuid.UUID)
}

type graphStore struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *memory.GraphCache
}

func NewGraphStore(uowFactory unitofwork.RepositoryFactory, cache *memory.GraphCache) IGraphStore {
	return &graphStore{
		uowFactory: uowFactory,
		cache:      cache,
	}
}

func (s *graphStore) Load(ctx context.Context, moduleId uuid.UUID) (*entity.ModuleGraph, error) {
	if s.cache != nil {
		if g, ok := s.cache.Get(moduleId); ok {
			return g, nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	nodes, err := uow.DecisionNodeRepository().FindAll(ctx,
		specification.ByModuleID{ModuleID: moduleId},
		specification.WithOptions{},
		specification.OrderBy{Field: "sort_order"},
	)
	if err != nil {
		return nil, err
	}

	g := entity.NewModuleGraph(moduleId, nodes)
	if s.cache != nil && len(nodes) > 0 {
		s.cache.Save(g)
	}
	return g, nil
}

func (s *graphStore) Invalidate(moduleId uuid.UUID) {
	if s.cache != nil {
		s.cache.Delete(moduleId)
	}
}
