package ecs_test

import (
	"testing"

	"github.com/plus3/sheepdog/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type moving struct {
	*Position
	*Velocity
}

func TestQuery(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	storage.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	storage.Spawn(Position{X: 3, Y: 4}, Velocity{DX: 1, DY: 1})
	storage.Spawn(Position{X: 5, Y: 6}, Velocity{DX: 1.5, DY: 1.5}, Health{Current: 100, Max: 100})
	storage.Spawn(Position{X: 7, Y: 8})

	query := ecs.NewQuery[moving](storage)

	t.Run("execute builds cache", func(t *testing.T) {
		query.Execute()
		assert.Equal(t, 3, query.Len())

		for item := range query.Values() {
			assert.NotNil(t, item.Position)
			assert.NotNil(t, item.Velocity)
		}
	})

	t.Run("panics without execute", func(t *testing.T) {
		fresh := ecs.NewQuery[moving](storage)
		assert.Panics(t, func() { fresh.Iter() })
		assert.Panics(t, func() { fresh.Pairs() })
		assert.Panics(t, func() { fresh.Len() })
	})

	t.Run("cache reflects new spawns after re-execute", func(t *testing.T) {
		query.Execute()
		before := query.Len()

		storage.Spawn(Position{X: 10, Y: 10}, Velocity{DX: 2, DY: 2})
		assert.Equal(t, before, query.Len())

		query.Execute()
		assert.Equal(t, before+1, query.Len())
	})

	t.Run("iter ids resolve to the same components", func(t *testing.T) {
		query.Execute()
		for id, item := range query.Iter() {
			assert.Same(t, item.Position, ecs.ReadComponent[Position](storage, id))
		}
	})
}

func TestQueryPairs(t *testing.T) {
	spawn := func(n int) *ecs.Query[moving] {
		storage := ecs.NewStorage(newTestRegistry())
		for i := range n {
			storage.Spawn(Position{X: float32(i)}, Velocity{})
		}
		q := ecs.NewQuery[moving](storage)
		q.Execute()
		return q
	}

	t.Run("no pairs for zero or one entity", func(t *testing.T) {
		for _, n := range []int{0, 1} {
			count := 0
			for range spawn(n).Pairs() {
				count++
			}
			assert.Zero(t, count, "n=%d", n)
		}
	})

	t.Run("each unordered pair exactly once", func(t *testing.T) {
		const n = 7
		q := spawn(n)

		seen := make(map[[2]float32]int)
		for a, b := range q.Pairs() {
			require.NotSame(t, a.Position, b.Position)
			lo, hi := min(a.Position.X, b.Position.X), max(a.Position.X, b.Position.X)
			seen[[2]float32{lo, hi}]++
		}

		assert.Len(t, seen, n*(n-1)/2)
		for pair, count := range seen {
			assert.Equal(t, 1, count, "pair %v", pair)
		}
	})

	t.Run("both sides are mutable", func(t *testing.T) {
		q := spawn(3)
		for a, b := range q.Pairs() {
			a.Velocity.DX++
			b.Velocity.DX--
		}

		var total float32
		for item := range q.Values() {
			total += item.Velocity.DX
		}
		assert.Zero(t, total)
	})

	t.Run("early break", func(t *testing.T) {
		count := 0
		for range spawn(5).Pairs() {
			count++
			if count == 2 {
				break
			}
		}
		assert.Equal(t, 2, count)
	})
}
