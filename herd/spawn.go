package herd

import (
	"log/slog"

	"github.com/plus3/sheepdog/ecs"
	"github.com/plus3/sheepdog/geometry"
)

const (
	sheepScale = 0.1
	dogScale   = 0.3
	dogZ       = 1
)

// BiasGroups are the two steering preferences shared out across the flock.
// Spreading a few small biases over different subsets of sheep splits the
// flock into loose sub-groups.
type BiasGroups struct {
	A, B geometry.Vector2D
}

// NewBiasGroups draws A then B, each component uniform in
// [-strength/2, strength/2).
func NewBiasGroups(rng Rand, strength float64) BiasGroups {
	ax := rng.Centered() * strength
	ay := rng.Centered() * strength
	bx := rng.Centered() * strength
	by := rng.Centered() * strength
	return BiasGroups{A: geometry.NewVector(ax, ay), B: geometry.NewVector(bx, by)}
}

// For returns the bias of the sheep with the given id. The x component comes
// from id%8 and the y component from id%3: remainder 0 takes group A,
// remainder 1 takes group B, anything else is unbiased.
func (g BiasGroups) For(id int) geometry.Vector2D {
	var bias geometry.Vector2D
	switch id % 8 {
	case 0:
		bias.X = g.A.X
	case 1:
		bias.X = g.B.X
	}
	switch id % 3 {
	case 0:
		bias.Y = g.A.Y
	case 1:
		bias.Y = g.B.Y
	}
	return bias
}

// NewSheep rolls the starting velocity and position for sheep id.
func NewSheep(id int, rng Rand, groups BiasGroups, cfg FlockConfig) (Transform, Sheep) {
	velocity := geometry.NewVector(rng.Centered()*cfg.InitialSpeed, rng.Centered()*cfg.InitialSpeed)
	position := geometry.NewVector(rng.Centered()*cfg.SpawnSpread, rng.Centered()*cfg.SpawnSpread)

	return Transform{Position: position, Scale: sheepScale}, Sheep{
		ID:       id,
		Velocity: velocity,
		Bias:     groups.For(id),
	}
}

// spawnFlock hands SheepCount sheep (ids 1..N) to spawn.
func spawnFlock(spawn func(components ...any), rng Rand, cfg FlockConfig) {
	groups := NewBiasGroups(rng, cfg.BiasStrength)
	for id := 1; id <= cfg.SheepCount; id++ {
		transform, sheep := NewSheep(id, rng, groups, cfg)
		spawn(transform, sheep)
	}
}

// Setup populates an empty world: one dog at the origin commanded Away, then
// the flock. The dog's EntityRef is stored in the Herd singleton.
func Setup(storage *ecs.Storage, cfg *Config, rng Rand, l *slog.Logger) {
	dog := storage.Spawn(Transform{Z: dogZ, Scale: dogScale}, Dog{Command: Away})
	storage.AddSingleton(Herd{Dog: storage.CreateEntityRef(dog)})

	spawnFlock(func(components ...any) { storage.Spawn(components...) }, rng, cfg.Flock)

	logger(l).Info("flock spawned", "sheep", cfg.Flock.SheepCount, "seed", cfg.Flock.Seed)
}

// RespawnRequest asks RespawnSystem to replace the flock on the next tick.
type RespawnRequest struct {
	Pending bool
	Reseed  bool
}

// RespawnSystem replaces every sheep with a fresh flock when requested. The
// swap goes through Commands so the new flock first moves on the following tick.
type RespawnSystem struct {
	Flock ecs.Query[struct {
		ecs.EntityId
		*Sheep
	}]
	Request ecs.Singleton[RespawnRequest]
	Config  ecs.Singleton[Config]
	Rand    ecs.Singleton[Rand]

	Logger *slog.Logger
}

func (s *RespawnSystem) Execute(frame *ecs.UpdateFrame) {
	req := s.Request.Get()
	if !req.Pending {
		return
	}
	cfg := s.Config.Get().Flock
	rng := s.Rand.Get()
	if req.Reseed {
		*rng = NewRand(cfg.Seed)
	}
	*req = RespawnRequest{}

	removed := s.Flock.Len()
	for id := range s.Flock.Iter() {
		frame.Commands.Delete(id)
	}
	spawnFlock(frame.Commands.Spawn, *rng, cfg)

	logger(s.Logger).Info("flock respawned", "removed", removed, "sheep", cfg.SheepCount, "seed", cfg.Seed)
}
