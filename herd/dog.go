package herd

import (
	"fmt"
	"math"

	"github.com/plus3/sheepdog/ecs"
	"github.com/plus3/sheepdog/geometry"
)

// DogCommand is a whistle command given to the dog.
type DogCommand int

const (
	ComeBye DogCommand = iota // circle clockwise
	Away                      // circle anticlockwise
	LayDown
	WalkOn
	Easy
)

func (c DogCommand) String() string {
	switch c {
	case ComeBye:
		return "ComeBye"
	case Away:
		return "Away"
	case LayDown:
		return "LayDown"
	case WalkOn:
		return "WalkOn"
	case Easy:
		return "Easy"
	}
	return fmt.Sprintf("DogCommand(%d)", int(c))
}

// PatrolStep is the displacement the dog makes in one tick while patrolling.
// WalkOn and Easy do not move the dog.
func PatrolStep(cmd DogCommand, elapsed float64, cfg DogConfig) geometry.Vector2D {
	sin := math.Sin(elapsed) * cfg.DriftScale
	cos := math.Cos(elapsed) * cfg.DriftScale
	speed := cfg.PatrolSpeed

	switch cmd {
	case Away:
		return geometry.NewVector(speed*cos, speed*sin)
	case ComeBye:
		return geometry.NewVector(speed*sin, speed*cos)
	case LayDown:
		return geometry.Zero
	case WalkOn, Easy:
		return geometry.Zero
	}
	return geometry.Zero
}

// DogMotionSystem moves every dog by its patrol step.
type DogMotionSystem struct {
	Dogs ecs.Query[struct {
		*Transform
		*Dog
	}]
	Time   ecs.Singleton[GameTime]
	Config ecs.Singleton[Config]
}

func (s *DogMotionSystem) Execute(frame *ecs.UpdateFrame) {
	elapsed := s.Time.Get().Elapsed
	cfg := s.Config.Get().Dog

	for d := range s.Dogs.Values() {
		d.Position = d.Position.Add(PatrolStep(d.Command, elapsed, cfg))
	}
}

type herderState struct {
	Position geometry.Vector2D
	Command  DogCommand
}

// CommandWeight scales the herder's push for each command.
func CommandWeight(cmd DogCommand) float64 {
	switch cmd {
	case WalkOn, Away, ComeBye:
		return 1
	case Easy:
		return 0.5
	case LayDown:
		return 0
	}
	return 0
}

// HerderForce pushes a sheep directly away from the dog when it is within
// cfg.Radius. A sheep exactly on the dog gets no push.
func HerderForce(sheep geometry.Vector2D, herder herderState, cfg HerderConfig) geometry.Vector2D {
	away := sheep.Sub(herder.Position)
	distance := away.Len()
	if distance < geometry.Epsilon || distance > cfg.Radius {
		return geometry.Zero
	}
	return away.Div(distance).Mul(cfg.Strength * CommandWeight(herder.Command))
}
