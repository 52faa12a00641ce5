package main

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/sheepdog/herd"
)

// TuningPanel edits the live config. Changes apply from the next tick; spawn
// settings only take effect on respawn.
type TuningPanel struct {
	World *herd.World
}

func (p *TuningPanel) Render() {
	if !imgui.Begin("Flock Tuning") {
		imgui.End()
		return
	}
	defer imgui.End()

	cfg := p.World.Config()

	imgui.Text("Steering")
	sliderFloat64("Max speed", &cfg.Flock.MaxSpeed, 1, 200)
	sliderFloat64("Speed multiplier", &cfg.Flock.SpeedMultiplier, 0, 400)
	sliderFloat64("Protected distance", &cfg.Flock.ProtectedDistance, 1, 200)
	sliderFloat64("Visible distance", &cfg.Flock.VisibleDistance, 1, 600)
	sliderFloat64("Avoid", &cfg.Flock.AvoidFactor, 0, 0.1)
	sliderFloat64("Align", &cfg.Flock.AlignFactor, 0, 1)
	sliderFloat64("Centering", &cfg.Flock.CenteringFactor, 0, 0.001)
	sliderFloat64("Wander", &cfg.Flock.WanderForce, 0, 5)
	sliderFloat64("Boundary damping", &cfg.Flock.BoundaryDamping, 0, 20)
	sliderFloat64("Margin", &cfg.Flock.Margin, 0.1, 1)

	// the scan treats these as mutually exclusive bands
	if cfg.Flock.VisibleDistance <= cfg.Flock.ProtectedDistance {
		cfg.Flock.VisibleDistance = cfg.Flock.ProtectedDistance + 1
	}

	imgui.Separator()
	imgui.Text("Herder")
	imgui.Checkbox("Dog pushes sheep", &cfg.Herder.Enabled)
	sliderFloat64("Radius", &cfg.Herder.Radius, 0, 500)
	sliderFloat64("Strength", &cfg.Herder.Strength, 0, 5)

	imgui.Separator()
	imgui.Text("Spawn")
	count := int32(cfg.Flock.SheepCount)
	if imgui.SliderInt("Sheep", &count, 0, 1000) {
		cfg.Flock.SheepCount = int(count)
	}
	sliderFloat64("Bias strength", &cfg.Flock.BiasStrength, 0, 0.2)
	sliderFloat64("Spawn spread", &cfg.Flock.SpawnSpread, 0, 3000)
	if imgui.Button("Respawn") {
		p.World.Respawn()
	}

	if dog, ok := p.World.Dog(); ok {
		imgui.Separator()
		imgui.Text(fmt.Sprintf("Dog at %s, command %s", dog.Position, dog.Command))
	}
}

func sliderFloat64(label string, v *float64, lo, hi float32) {
	f := float32(*v)
	if imgui.SliderFloat(label, &f, lo, hi) {
		*v = float64(f)
	}
}
