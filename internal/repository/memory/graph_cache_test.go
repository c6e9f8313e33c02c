package memory

import (
	"testing"
	"time"

	"simvado-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphCache(t *testing.T) {
	moduleId := uuid.New()
	g := entity.NewModuleGraph(moduleId, []*entity.DecisionNode{
		{Id: uuid.New(), NodeKey: "a", Options: []*entity.NodeOption{{Id: uuid.New(), OptionKey: "x"}}},
	})

	c := NewGraphCache(time.Minute)
	_, ok := c.Get(moduleId)
	assert.False(t, ok)

	c.Save(g)
	got, ok := c.Get(moduleId)
	require.True(t, ok)
	assert.Same(t, g, got)
	assert.Equal(t, 1, c.Len())

	c.Delete(moduleId)
	_, ok = c.Get(moduleId)
	assert.False(t, ok)
}

func TestGraphCacheExpiry(t *testing.T) {
	moduleId := uuid.New()
	c := NewGraphCache(20 * time.Millisecond)
	c.Save(entity.NewModuleGraph(moduleId, nil))

	assert.Eventually(t, func() bool {
		_, ok := c.Get(moduleId)
		return !ok
	}, time.Second, 10*time.Millisecond)
}
