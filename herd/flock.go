package herd

import (
	"math"

	"github.com/plus3/sheepdog/ecs"
	"github.com/plus3/sheepdog/geometry"
)

// ResetAccumulators zeroes the per-tick neighbor state of s.
func ResetAccumulators(s *Sheep) {
	s.CloseD = geometry.Zero
	s.VelAvg = geometry.Zero
	s.PosAvg = geometry.Zero
	s.NumNeighbors = 0
}

// ScanPair applies the neighbor rule to one unordered pair. Separation and
// alignment/cohesion are mutually exclusive: a pair inside the protected
// distance only pushes apart.
func ScanPair(posA geometry.Vector2D, a *Sheep, posB geometry.Vector2D, b *Sheep, cfg FlockConfig) {
	d := posA.Sub(posB)
	distance := d.Len()

	switch {
	case distance <= cfg.ProtectedDistance:
		a.CloseD = a.CloseD.Add(d)
		b.CloseD = b.CloseD.Sub(d)
	case distance <= cfg.VisibleDistance:
		a.NumNeighbors++
		b.NumNeighbors++

		a.VelAvg = a.VelAvg.Add(b.Velocity)
		b.VelAvg = b.VelAvg.Add(a.Velocity)

		a.PosAvg = a.PosAvg.Add(posB)
		b.PosAvg = b.PosAvg.Add(posA)
	}
}

// Steering converts the scanned accumulators into a velocity adjustment.
// Alignment and cohesion only apply with at least one neighbor; separation
// and bias always apply.
func Steering(pos geometry.Vector2D, s *Sheep, cfg FlockConfig) geometry.Vector2D {
	var adjustment geometry.Vector2D

	if s.NumNeighbors > 0 {
		n := float64(s.NumNeighbors)
		velAvg := s.VelAvg.Div(n)
		posAvg := s.PosAvg.Div(n)

		adjustment = adjustment.Add(velAvg.Sub(s.Velocity).Mul(cfg.AlignFactor))
		adjustment = adjustment.Add(posAvg.Sub(pos).Mul(cfg.CenteringFactor))
	}

	adjustment = adjustment.Add(s.CloseD.Mul(cfg.AvoidFactor))
	return adjustment.Add(s.Bias)
}

// ApplySteering adds adjustment to the velocity, clamps each axis to
// MaxSpeed, then adds wander. Wander is never clamped.
func ApplySteering(s *Sheep, adjustment, wander geometry.Vector2D, cfg FlockConfig) {
	s.Velocity = s.Velocity.Add(adjustment).ClampAxes(cfg.MaxSpeed)
	s.Velocity = s.Velocity.Add(wander)
}

// Wander returns a random direction of length force.
func Wander(rng Rand, force float64) geometry.Vector2D {
	if force == 0 || rng.Rand == nil {
		return geometry.Zero
	}
	return geometry.NewVectorPolar(force, rng.Float64()*2*math.Pi)
}

// Integrate moves pos by the sheep's velocity over dt. A tentative step is
// tested against bounds first; each axis that would land on or past a bound
// gets one BoundaryDamping correction, and the committed position is
// recomputed from the corrected velocity.
func Integrate(pos geometry.Vector2D, s *Sheep, bounds Bounds, dt float64, cfg FlockConfig) geometry.Vector2D {
	step := cfg.SpeedMultiplier * dt
	tentative := pos.Add(s.Velocity.Mul(step))

	s.BouncedX, s.BouncedY = false, false

	if tentative.X >= bounds.MaxX {
		s.Velocity.X -= cfg.BoundaryDamping
		s.BouncedX = true
	} else if tentative.X <= bounds.MinX {
		s.Velocity.X += cfg.BoundaryDamping
		s.BouncedX = true
	}

	if tentative.Y >= bounds.MaxY {
		s.Velocity.Y -= cfg.BoundaryDamping
		s.BouncedY = true
	} else if tentative.Y <= bounds.MinY {
		s.Velocity.Y += cfg.BoundaryDamping
		s.BouncedY = true
	}

	return pos.Add(s.Velocity.Mul(step))
}

type flockMember struct {
	*Transform
	*Sheep
}

// FlockSystem runs one tick of the flocking engine over every sheep.
type FlockSystem struct {
	Flock ecs.Query[flockMember]

	Field  ecs.Singleton[Field]
	Config ecs.Singleton[Config]
	Rand   ecs.Singleton[Rand]
	Herd   ecs.Singleton[Herd]
}

func (s *FlockSystem) Execute(frame *ecs.UpdateFrame) {
	cfg := s.Config.Get()
	rng := *s.Rand.Get()
	bounds := s.Field.Get().Bounds(cfg.Flock.Margin)
	herder, hasHerder := s.herder(frame.Storage, cfg.Herder)

	for m := range s.Flock.Values() {
		ResetAccumulators(m.Sheep)
	}

	for a, b := range s.Flock.Pairs() {
		ScanPair(a.Position, a.Sheep, b.Position, b.Sheep, cfg.Flock)
	}

	for m := range s.Flock.Values() {
		adjustment := Steering(m.Position, m.Sheep, cfg.Flock)
		if hasHerder {
			adjustment = adjustment.Add(HerderForce(m.Position, herder, cfg.Herder))
		}
		ApplySteering(m.Sheep, adjustment, Wander(rng, cfg.Flock.WanderForce), cfg.Flock)
	}

	for m := range s.Flock.Values() {
		m.Position = Integrate(m.Position, m.Sheep, bounds, frame.DeltaTime, cfg.Flock)
	}
}

// herder resolves the dog when herder influence is enabled.
func (s *FlockSystem) herder(storage *ecs.Storage, cfg HerderConfig) (herderState, bool) {
	if !cfg.Enabled {
		return herderState{}, false
	}
	id, ok := storage.ResolveEntityRef(s.Herd.Get().Dog)
	if !ok {
		return herderState{}, false
	}
	transform := ecs.ReadComponent[Transform](storage, id)
	dog := ecs.ReadComponent[Dog](storage, id)
	if transform == nil || dog == nil {
		return herderState{}, false
	}
	return herderState{Position: transform.Position, Command: dog.Command}, true
}
