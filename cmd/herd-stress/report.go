package main

import (
	"fmt"
	"io"
	"math"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/sheepdog/ecs"
	"github.com/plus3/sheepdog/herd"
)

type Report struct {
	// Configuration
	Duration  time.Duration
	Sheep     int
	Seed      uint64
	FixedStep time.Duration

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Systems        []ecs.SystemStats
	Storage        *ecs.StorageStats
	Spread         Spread
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min, s.Max = s.Samples[0], s.Samples[0]
	for _, sample := range s.Samples {
		s.Min = min(s.Min, sample)
		s.Max = max(s.Max, sample)
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Spread summarizes where the flock ended up.
type Spread struct {
	Center      string
	MaxDistance float64
	MaxSpeed    float64
}

func flockSpread(sheep []herd.SheepState) Spread {
	if len(sheep) == 0 {
		return Spread{Center: "n/a"}
	}

	var sumX, sumY float64
	for _, s := range sheep {
		sumX += s.Position.X
		sumY += s.Position.Y
	}
	cx, cy := sumX/float64(len(sheep)), sumY/float64(len(sheep))

	var spread Spread
	spread.Center = fmt.Sprintf("(%.1f, %.1f)", cx, cy)
	for _, s := range sheep {
		spread.MaxDistance = max(spread.MaxDistance, math.Hypot(s.Position.X-cx, s.Position.Y-cy))
		spread.MaxSpeed = max(spread.MaxSpeed, s.Velocity.Len())
	}
	return spread
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Herd Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Sheep:** {{.Sheep}}
- **Seed:** {{.Seed}}
- **Tick Length:** {{if .FixedStep}}{{.FixedStep}} (fixed){{else}}wall clock{{end}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Tick):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Systems
| System | Runs | Avg | Min | Max |
|---|---|---|---|---|
{{range .Systems}}| {{.Name}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MinDuration}} | {{.MaxDuration}} |
{{end}}
## Flock
- **Center:** {{.Spread.Center}}
- **Max Distance From Center:** {{printf "%.1f" .Spread.MaxDistance}}
- **Max Speed:** {{printf "%.2f" .Spread.MaxSpeed}}
{{with .Storage}}- **Entities:** {{.TotalEntityCount}} in {{.ArchetypeCount}} archetypes{{end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}
