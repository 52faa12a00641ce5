// Command herd-stress runs the flocking simulation headless and reports tick timings.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/plus3/sheepdog/herd"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	sheepCount := flag.Int("sheep", 0, "Number of sheep to spawn. Zero keeps the configured count.")
	configPath := flag.String("config", "", "Optional JSON or YAML config file.")
	seed := flag.Uint64("seed", 0, "Random seed. Zero keeps the configured seed.")
	fixedStep := flag.Duration("dt", 0, "Fixed tick length. Zero uses wall-clock time between ticks.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg := herd.DefaultConfig()
	if *configPath != "" {
		loaded, err := herd.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *sheepCount > 0 {
		cfg.Flock.SheepCount = *sheepCount
	}
	if *seed != 0 {
		cfg.Flock.Seed = *seed
	}

	log.Println("Starting herd stress test...")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	world := herd.NewWorld(cfg, logger)

	report := &Report{
		Duration:       *duration,
		Sheep:          cfg.Flock.SheepCount,
		Seed:           cfg.Flock.Seed,
		FixedStep:      *fixedStep,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			dt := *fixedStep
			if dt == 0 {
				dt = time.Since(lastFrameTime)
				lastFrameTime = time.Now()
			}

			updateStart := time.Now()
			world.Tick(dt.Seconds())
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.TotalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	report.Systems = world.Scheduler.GetStats().Systems
	report.Storage = world.Storage.CollectStats()
	report.Spread = flockSpread(world.Sheep())
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}
