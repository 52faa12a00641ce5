package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sheepdog/herd"
)

// bindings lists the two accepted keys for each control.
var bindings = map[herd.Control][2]ebiten.Key{
	herd.Up:    {ebiten.KeyW, ebiten.KeyArrowUp},
	herd.Down:  {ebiten.KeyS, ebiten.KeyArrowDown},
	herd.Left:  {ebiten.KeyA, ebiten.KeyArrowLeft},
	herd.Right: {ebiten.KeyD, ebiten.KeyArrowRight},
}

// pollInput builds the tick's Input from a key state function, normally ebiten.IsKeyPressed.
func pollInput(pressed func(ebiten.Key) bool) herd.Input {
	held := func(c herd.Control) bool {
		keys := bindings[c]
		return pressed(keys[0]) || pressed(keys[1])
	}
	return herd.Input{
		Up:    held(herd.Up),
		Down:  held(herd.Down),
		Left:  held(herd.Left),
		Right: held(herd.Right),
	}
}
