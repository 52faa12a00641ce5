package ecs_test

import (
	"testing"

	"github.com/plus3/sheepdog/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	empty := storage.CollectStats()
	assert.Zero(t, empty.ArchetypeCount)
	assert.Zero(t, empty.TotalEntityCount)

	storage.Spawn(Position{}, Velocity{})
	storage.Spawn(Position{}, Velocity{})
	storage.Spawn(Position{})
	doomed := storage.Spawn(Health{})
	storage.Delete(doomed)
	storage.AddSingleton(Clock{})

	stats := storage.CollectStats()
	assert.Equal(t, 3, stats.ArchetypeCount)
	assert.Equal(t, 3, stats.TotalEntityCount)
	assert.Equal(t, 1, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Clock"}, stats.SingletonTypes)

	require.Len(t, stats.ArchetypeBreakdown, 3)
	for i := 1; i < len(stats.ArchetypeBreakdown); i++ {
		assert.Less(t, stats.ArchetypeBreakdown[i-1].ID, stats.ArchetypeBreakdown[i].ID)
	}

	counts := make(map[int]int)
	for _, a := range stats.ArchetypeBreakdown {
		counts[len(a.ComponentTypes)] += a.EntityCount
	}
	assert.Equal(t, 2, counts[2])
	assert.Equal(t, 1, counts[1])
}
