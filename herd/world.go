package herd

import (
	"log/slog"
	"slices"

	"github.com/plus3/sheepdog/ecs"
	"github.com/plus3/sheepdog/geometry"
)

// World wires the herd components, singletons and systems into one ecs
// storage and scheduler. It is not safe for concurrent use; hosts call it
// from their update loop.
type World struct {
	Registry  *ecs.ComponentRegistry
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler

	reload *ConfigReloadSystem
	flock  *ecs.View[flockMember]
	dogs   *ecs.View[struct {
		*Transform
		*Dog
	}]
}

// NewWorld builds a populated world. A nil cfg selects DefaultConfig and a nil
// logger selects slog.Default.
func NewWorld(cfg *Config, l *slog.Logger) *World {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	l = logger(l)

	registry := ecs.NewComponentRegistry()
	registerComponents(registry)
	storage := ecs.NewStorage(registry)

	ecs.NewSingleton(storage, *cfg)
	ecs.NewSingleton(storage, NewField(cfg.Field.Width, cfg.Field.Height))
	ecs.NewSingleton(storage, WindowSize{Width: cfg.Field.Width, Height: cfg.Field.Height})
	ecs.NewSingleton(storage, Input{})
	ecs.NewSingleton(storage, GameTime{})
	ecs.NewSingleton(storage, RespawnRequest{})
	rng := ecs.NewSingleton(storage, NewRand(cfg.Flock.Seed))

	Setup(storage, cfg, *rng.Get(), l)

	w := &World{
		Registry:  registry,
		Storage:   storage,
		Scheduler: ecs.NewScheduler(storage),
		reload:    &ConfigReloadSystem{Logger: l},
		flock:     ecs.NewView[flockMember](storage),
		dogs: ecs.NewView[struct {
			*Transform
			*Dog
		}](storage),
	}

	w.Scheduler.Register(w.reload)
	w.Scheduler.Register(&RespawnSystem{Logger: l})
	w.Scheduler.Register(&TimeSystem{})
	w.Scheduler.Register(&FieldResizeSystem{Logger: l})
	w.Scheduler.Register(&CommandSystem{})
	w.Scheduler.Register(&DogMotionSystem{})
	w.Scheduler.Register(&FlockSystem{})
	return w
}

// Register appends a host system, such as a debug UI, after the simulation systems.
func (w *World) Register(system ecs.System) {
	w.Scheduler.Register(system)
}

// WatchConfig feeds configs from updates into the world at tick boundaries.
func (w *World) WatchConfig(updates <-chan *Config) {
	w.reload.Updates = updates
}

// Tick advances the simulation by dt seconds.
func (w *World) Tick(dt float64) {
	w.Scheduler.Once(dt)
}

// SetWindowSize records the viewport size; the field follows on the next tick.
func (w *World) SetWindowSize(width, height float64) {
	*singleton[WindowSize](w.Storage) = WindowSize{Width: width, Height: height}
}

// SetInput records the controls pressed for the next tick.
func (w *World) SetInput(in Input) {
	*singleton[Input](w.Storage) = in
}

// Respawn replaces the flock on the next tick, reusing the current random stream.
func (w *World) Respawn() {
	singleton[RespawnRequest](w.Storage).Pending = true
}

// Config returns the live config. Edits take effect on the next tick.
func (w *World) Config() *Config {
	return singleton[Config](w.Storage)
}

func (w *World) Field() Field {
	return *singleton[Field](w.Storage)
}

func (w *World) Time() GameTime {
	return *singleton[GameTime](w.Storage)
}

// SheepState is a copy of one sheep for renderers and tests.
type SheepState struct {
	ID       int
	Position geometry.Vector2D
	Velocity geometry.Vector2D
	Bias     geometry.Vector2D
	BouncedX bool
	BouncedY bool
}

// Sheep returns every sheep ordered by ID.
func (w *World) Sheep() []SheepState {
	var out []SheepState
	for m := range w.flock.Values() {
		out = append(out, SheepState{
			ID:       m.ID,
			Position: m.Position,
			Velocity: m.Velocity,
			Bias:     m.Bias,
			BouncedX: m.BouncedX,
			BouncedY: m.BouncedY,
		})
	}
	slices.SortFunc(out, func(a, b SheepState) int { return a.ID - b.ID })
	return out
}

type DogState struct {
	Position geometry.Vector2D
	Command  DogCommand
}

// Dog returns the herder, or false if it no longer exists.
func (w *World) Dog() (DogState, bool) {
	id, ok := w.Storage.ResolveEntityRef(singleton[Herd](w.Storage).Dog)
	if !ok {
		return DogState{}, false
	}
	d := w.dogs.Get(id)
	if d == nil {
		return DogState{}, false
	}
	return DogState{Position: d.Position, Command: d.Command}, true
}

func singleton[T any](storage *ecs.Storage) *T {
	var ptr *T
	if !storage.ReadSingleton(&ptr) {
		panic("herd: missing singleton")
	}
	return ptr
}
