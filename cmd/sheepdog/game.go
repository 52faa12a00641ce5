package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sheepdog/ecs"
	"github.com/plus3/sheepdog/ecs/debugui"
	debugui_ebiten "github.com/plus3/sheepdog/ecs/debugui/ebiten"
	"github.com/plus3/sheepdog/herd"
)

// Game adapts a herd.World to ebiten's update/draw loop.
type Game struct {
	World *herd.World

	// set only with -debug
	Imgui      *debugui_ebiten.ImguiBackend
	InputState *ecs.Singleton[debugui.ImguiInputState]
	Stats      *debugui.StatsWindow

	width, height int
	renderer      renderer
}

func (g *Game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	dt := 1.0 / float64(ebiten.TPS())

	if g.width > 0 && g.height > 0 {
		g.World.SetWindowSize(float64(g.width), float64(g.height))
	}
	if g.keyboardFree() {
		g.World.SetInput(pollInput(ebiten.IsKeyPressed))
	} else {
		g.World.SetInput(herd.Input{})
	}

	if g.Imgui != nil {
		g.Imgui.BeginFrame()
		g.Stats.History.Push(dt)
	}
	g.World.Tick(dt)
	if g.Imgui != nil {
		g.Imgui.EndFrame()
	}
	return nil
}

// keyboardFree reports whether game keys should reach the simulation.
func (g *Game) keyboardFree() bool {
	if g.InputState == nil {
		return true
	}
	state := g.InputState.Get()
	return state == nil || !state.WantCaptureKeyboard
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.draw(screen, g.World)
	if g.Imgui != nil {
		g.Imgui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	if g.Imgui != nil {
		g.Imgui.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
