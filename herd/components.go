// Package herd simulates a flock of sheep and the dog that herds them on top
// of the ecs runtime.
package herd

import (
	"math/rand/v2"

	"github.com/plus3/sheepdog/ecs"
	"github.com/plus3/sheepdog/geometry"
)

// Transform places an entity in world space. Y grows upward.
type Transform struct {
	Position geometry.Vector2D
	Z        float64
	Scale    float64
}

// Sheep is a flocking agent. The accumulators are rebuilt from scratch every tick.
type Sheep struct {
	ID       int
	Velocity geometry.Vector2D

	CloseD       geometry.Vector2D
	VelAvg       geometry.Vector2D
	PosAvg       geometry.Vector2D
	NumNeighbors int

	Bias geometry.Vector2D

	// BouncedX and BouncedY record whether boundary damping touched that axis
	// during the last tick.
	BouncedX bool
	BouncedY bool
}

// Dog is the herder. Its Command is driven by player input.
type Dog struct {
	Command DogCommand
}

// Herd holds world-level handles that systems need to reach directly.
type Herd struct {
	Dog *ecs.EntityRef
}

// WindowSize is the most recent viewport size reported by the host.
type WindowSize struct {
	Width, Height float64
}

// GameTime accumulates simulated time.
type GameTime struct {
	Elapsed float64
	Ticks   uint64
}

// Rand is the world's seeded random source. Every random draw in the
// simulation goes through it so runs are reproducible from Config.Flock.Seed.
type Rand struct {
	*rand.Rand
}

func NewRand(seed uint64) Rand {
	return Rand{rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Centered returns a uniform draw from [-0.5, 0.5).
func (r Rand) Centered() float64 {
	return r.Float64() - 0.5
}

func registerComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Sheep](registry)
	ecs.RegisterComponent[Dog](registry)
}
