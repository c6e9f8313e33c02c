package memory

import (
	"time"

	"simvado-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// GraphCache holds compiled module graphs. A graph only changes through
// import, which invalidates the entry.
type GraphCache struct {
	cache *cache.Cache
}

func NewGraphCache(ttl time.Duration) *GraphCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &GraphCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *GraphCache) Save(g *entity.ModuleGraph) {
	r.cache.Set(g.ModuleId().String(), g, cache.DefaultExpiration)
}

func (r *GraphCache) Get(moduleId uuid.UUID) (*entity.ModuleGraph, bool) {
	if x, found := r.cache.Get(moduleId.String()); found {
		return x.(*entity.ModuleGraph), true
	}
	return nil, false
}

func (r *GraphCache) Delete(moduleId uuid.UUID) {
	r.cache.Delete(moduleId.String())
}

func (r *GraphCache) Len() int {
	return r.cache.ItemCount()
}
