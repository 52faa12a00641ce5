// Command sheepdog opens a window with a flock of sheep and a dog steered from the keyboard.
//
// W/Up, S/Down, A/Left and D/Right whistle WalkOn, LayDown, ComeBye and Away.
// Q or Escape quits.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sheepdog/ecs"
	"github.com/plus3/sheepdog/ecs/debugui"
	debugui_ebiten "github.com/plus3/sheepdog/ecs/debugui/ebiten"
	"github.com/plus3/sheepdog/herd"
)

const windowTitle = "Sheepdog"

func main() {
	configPath := flag.String("config", "", "JSON or YAML config file, reloaded when it changes.")
	seed := flag.Uint64("seed", 0, "Random seed. Zero keeps the configured seed.")
	debug := flag.Bool("debug", false, "Show the Dear ImGui tuning and stats panels.")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := herd.DefaultConfig()
	if *configPath != "" {
		loaded, err := herd.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *seed != 0 {
		cfg.Flock.Seed = *seed
	}

	world := herd.NewWorld(cfg, logger)

	if *configPath != "" {
		watcher, err := herd.WatchConfig(*configPath, logger)
		if err != nil {
			log.Fatalf("Failed to watch config: %v", err)
		}
		defer watcher.Close()
		world.WatchConfig(watcher.Updates())
	}

	game := &Game{World: world}

	if *debug {
		game.Imgui = debugui_ebiten.NewImguiBackend(windowTitle, int(cfg.Field.Width), int(cfg.Field.Height))
		installDebugUI(game)
	} else {
		ebiten.SetWindowSize(int(cfg.Field.Width), int(cfg.Field.Height))
		ebiten.SetWindowTitle(windowTitle)
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatalf("Game exited with error: %v", err)
	}
}

func installDebugUI(game *Game) {
	world := game.World
	debugui.RegisterComponents(world.Registry)
	game.InputState = ecs.NewSingleton(world.Storage, debugui.ImguiInputState{})

	game.Stats = debugui.NewStatsWindow(world.Storage, world.Scheduler, 120)
	tuning := &TuningPanel{World: world}

	world.Storage.Spawn(debugui.ImguiItem{Render: tuning.Render})
	world.Storage.Spawn(debugui.ImguiItem{Render: game.Stats.Render})
	world.Register(&debugui.ImguiSystem{})
}
