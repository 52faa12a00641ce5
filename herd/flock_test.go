package herd

import (
	"math"
	"testing"

	"github.com/plus3/sheepdog/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFlockConfig() FlockConfig {
	cfg := DefaultConfig().Flock
	cfg.ProtectedDistance = 50
	cfg.VisibleDistance = 100
	return cfg
}

func TestScanPairSeparation(t *testing.T) {
	a := &Sheep{Velocity: geometry.NewVector(1, 2)}
	b := &Sheep{Velocity: geometry.NewVector(3, 4)}

	ScanPair(geometry.NewVector(0, 0), a, geometry.NewVector(30, 0), b, testFlockConfig())

	assert.Equal(t, geometry.NewVector(-30, 0), a.CloseD)
	assert.Equal(t, geometry.NewVector(30, 0), b.CloseD)
	for _, s := range []*Sheep{a, b} {
		assert.Zero(t, s.NumNeighbors)
		assert.Equal(t, geometry.Zero, s.VelAvg)
		assert.Equal(t, geometry.Zero, s.PosAvg)
	}
}

func TestScanPairNeighbors(t *testing.T) {
	posA, posB := geometry.NewVector(0, 0), geometry.NewVector(75, 0)
	a := &Sheep{Velocity: geometry.NewVector(1, 2)}
	b := &Sheep{Velocity: geometry.NewVector(3, 4)}

	ScanPair(posA, a, posB, b, testFlockConfig())

	assert.Equal(t, 1, a.NumNeighbors)
	assert.Equal(t, 1, b.NumNeighbors)
	assert.Equal(t, b.Velocity, a.VelAvg)
	assert.Equal(t, a.Velocity, b.VelAvg)
	assert.Equal(t, posB, a.PosAvg)
	assert.Equal(t, posA, b.PosAvg)
	assert.Equal(t, geometry.Zero, a.CloseD)
	assert.Equal(t, geometry.Zero, b.CloseD)
}

func TestScanPairThresholds(t *testing.T) {
	cfg := testFlockConfig()

	tests := []struct {
		name      string
		distance  float64
		separated bool
		neighbors int
	}{
		{"on protected edge", 50, true, 0},
		{"just past protected", 50.001, false, 1},
		{"on visible edge", 100, false, 1},
		{"out of sight", 100.001, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := &Sheep{}, &Sheep{}
			ScanPair(geometry.Zero, a, geometry.NewVector(0, tt.distance), b, cfg)
			assert.Equal(t, tt.separated, a.CloseD != geometry.Zero)
			assert.Equal(t, tt.neighbors, a.NumNeighbors)
			assert.Equal(t, tt.neighbors, b.NumNeighbors)
		})
	}
}

func TestFlockScanIsAntisymmetric(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Flock.SheepCount = 30
	cfg.Flock.SpawnSpread = 120
	w := NewWorld(cfg, discardLogger())

	fs := &FlockSystem{}
	w.Scheduler.Register(fs)
	fs.Flock.Execute()

	for m := range fs.Flock.Values() {
		ResetAccumulators(m.Sheep)
	}

	var total geometry.Vector2D
	pairs := 0
	for a, b := range fs.Flock.Pairs() {
		beforeA, beforeB := a.CloseD, b.CloseD
		ScanPair(a.Position, a.Sheep, b.Position, b.Sheep, cfg.Flock)
		deltaA, deltaB := a.CloseD.Sub(beforeA), b.CloseD.Sub(beforeB)
		assert.True(t, deltaA.Eq(deltaB.Neg()), "pair contributions %v and %v", deltaA, deltaB)
		pairs++
	}
	assert.Equal(t, 30*29/2, pairs)

	for m := range fs.Flock.Values() {
		total = total.Add(m.CloseD)
	}
	assert.InDelta(t, 0, total.X, 1e-6)
	assert.InDelta(t, 0, total.Y, 1e-6)
}

func TestFlockSmallPopulations(t *testing.T) {
	for _, n := range []int{0, 1} {
		cfg := DefaultConfig()
		cfg.Flock.SheepCount = n
		cfg.Flock.WanderForce = 0
		w := NewWorld(cfg, discardLogger())

		w.Tick(1.0 / 60)

		count := 0
		for m := range w.flock.Values() {
			assert.Zero(t, m.NumNeighbors)
			assert.Equal(t, geometry.Zero, m.CloseD)
			assert.Equal(t, geometry.Zero, m.VelAvg)
			assert.Equal(t, geometry.Zero, m.PosAvg)
			assert.False(t, math.IsNaN(m.Velocity.X) || math.IsNaN(m.Velocity.Y))
			count++
		}
		assert.Equal(t, n, count)
	}
}

func TestSteering(t *testing.T) {
	cfg := testFlockConfig()

	t.Run("without neighbors only separation and bias", func(t *testing.T) {
		s := &Sheep{
			Velocity: geometry.NewVector(5, 5),
			CloseD:   geometry.NewVector(10, -20),
			Bias:     geometry.NewVector(0.01, 0.02),
		}
		adj := Steering(geometry.NewVector(100, 100), s, cfg)
		want := geometry.NewVector(10*cfg.AvoidFactor+0.01, -20*cfg.AvoidFactor+0.02)
		assert.True(t, want.Eq(adj), "got %v want %v", adj, want)
	})

	t.Run("neighbors add alignment and cohesion", func(t *testing.T) {
		s := &Sheep{
			Velocity:     geometry.NewVector(1, 0),
			VelAvg:       geometry.NewVector(6, 4),
			PosAvg:       geometry.NewVector(200, 0),
			NumNeighbors: 2,
		}
		pos := geometry.NewVector(10, 0)
		adj := Steering(pos, s, cfg)

		align := geometry.NewVector(3-1, 2).Mul(cfg.AlignFactor)
		cohere := geometry.NewVector(100-10, 0).Mul(cfg.CenteringFactor)
		assert.True(t, align.Add(cohere).Eq(adj), "got %v", adj)
	})
}

func TestApplySteeringClampsBeforeWander(t *testing.T) {
	cfg := testFlockConfig()
	s := &Sheep{Velocity: geometry.NewVector(40, -40)}
	wander := geometry.NewVector(0.3, -0.4)

	ApplySteering(s, geometry.NewVector(100, -100), wander, cfg)

	assert.InDelta(t, cfg.MaxSpeed+0.3, s.Velocity.X, 1e-9)
	assert.InDelta(t, -cfg.MaxSpeed-0.4, s.Velocity.Y, 1e-9)
}

func TestWander(t *testing.T) {
	rng := NewRand(7)
	for range 100 {
		w := Wander(rng, 0.5)
		assert.InDelta(t, 0.5, w.Len(), 1e-9)
	}
	assert.Equal(t, geometry.Zero, Wander(rng, 0))
	assert.Equal(t, geometry.Zero, Wander(Rand{}, 1))
}

func TestIntegrate(t *testing.T) {
	cfg := testFlockConfig()
	bounds := NewField(100, 100).Bounds(cfg.Margin)
	dt := 1.0 / 60
	step := cfg.SpeedMultiplier * dt

	t.Run("single damping past max x", func(t *testing.T) {
		pos := geometry.NewVector(bounds.MaxX+1, 0)
		s := &Sheep{Velocity: geometry.NewVector(10, 0)}

		next := Integrate(pos, s, bounds, dt, cfg)

		assert.Equal(t, 10-cfg.BoundaryDamping, s.Velocity.X)
		assert.True(t, s.BouncedX)
		assert.False(t, s.BouncedY)
		assert.InDelta(t, pos.X+s.Velocity.X*step, next.X, 1e-9)
	})

	t.Run("min bounds push back", func(t *testing.T) {
		pos := geometry.NewVector(bounds.MinX, bounds.MinY)
		s := &Sheep{Velocity: geometry.NewVector(-1, -1)}

		Integrate(pos, s, bounds, dt, cfg)

		assert.Equal(t, geometry.NewVector(-1+cfg.BoundaryDamping, -1+cfg.BoundaryDamping), s.Velocity)
		assert.True(t, s.BouncedX)
		assert.True(t, s.BouncedY)
	})

	t.Run("inside bounds is plain euler", func(t *testing.T) {
		pos := geometry.NewVector(0, 0)
		s := &Sheep{Velocity: geometry.NewVector(2, -3), BouncedX: true}

		next := Integrate(pos, s, bounds, dt, cfg)

		assert.Equal(t, geometry.NewVector(2, -3), s.Velocity)
		assert.False(t, s.BouncedX)
		assert.True(t, geometry.NewVector(2*step, -3*step).Eq(next))
	})

	t.Run("zero sized field", func(t *testing.T) {
		zero := NewField(-10, 0).Bounds(cfg.Margin)
		s := &Sheep{}
		Integrate(geometry.Zero, s, zero, dt, cfg)
		// standing on a collapsed bound counts as reaching the max edge
		assert.Equal(t, geometry.NewVector(-cfg.BoundaryDamping, -cfg.BoundaryDamping), s.Velocity)
	})
}

func TestFlockSystemClampsEveryAxis(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Flock.SheepCount = 20
	cfg.Flock.InitialSpeed = 1000
	w := NewWorld(cfg, discardLogger())

	for range 10 {
		w.Tick(1.0 / 60)
		for _, s := range w.Sheep() {
			// boundary damping is applied after clamping and wander
			limit := cfg.Flock.MaxSpeed + cfg.Flock.WanderForce + cfg.Flock.BoundaryDamping
			require.LessOrEqual(t, math.Abs(s.Velocity.X), limit+1e-9)
			require.LessOrEqual(t, math.Abs(s.Velocity.Y), limit+1e-9)
		}
	}
}

func BenchmarkFlockSystem(b *testing.B) {
	cfg := DefaultConfig()
	cfg.Flock.SheepCount = 500
	w := NewWorld(cfg, discardLogger())

	b.ResetTimer()
	for range b.N {
		w.Tick(1.0 / 60)
	}
}
