package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/sheepdog/herd"
)

var (
	grassLight = color.RGBA{118, 170, 84, 255}
	grassDark  = color.RGBA{104, 155, 74, 255}
	boundsLine = color.RGBA{90, 130, 60, 255}
	sheepColor = color.RGBA{245, 245, 240, 255}
	sheepEdge  = color.RGBA{200, 195, 185, 255}
	dogColor   = color.RGBA{40, 35, 35, 255}
	dogPatch   = color.RGBA{240, 240, 240, 255}
)

const (
	sheepRadius = 7
	dogRadius   = 10
)

type renderer struct{}

// worldToScreen maps world coordinates (origin centered, y up) to screen
// pixels (origin top-left, y down) using the field's top-left corner.
func worldToScreen(field herd.Field, x, y float64) (float32, float32) {
	return float32(x - field.Origin.X), float32(field.Origin.Y - y)
}

func (renderer) draw(screen *ebiten.Image, world *herd.World) {
	field := world.Field()
	cfg := world.Config()

	tile := cfg.Field.TileSize
	if tile <= 0 {
		tile = herd.DefaultTileSize
	}
	rows := field.HeightInTiles(tile)
	i := 0
	for p := range field.Tiles(tile) {
		sx, sy := worldToScreen(field, p.X, p.Y)
		c := grassLight
		if (i/rows+i%rows)%2 == 1 {
			c = grassDark
		}
		vector.DrawFilledRect(screen, sx-float32(tile)/2, sy-float32(tile)/2, float32(tile), float32(tile), c, false)
		i++
	}

	b := field.Bounds(cfg.Flock.Margin)
	minX, maxY := worldToScreen(field, b.MinX, b.MaxY)
	maxX, minY := worldToScreen(field, b.MaxX, b.MinY)
	vector.StrokeRect(screen, minX, maxY, maxX-minX, minY-maxY, 1, boundsLine, false)

	for _, s := range world.Sheep() {
		sx, sy := worldToScreen(field, s.Position.X, s.Position.Y)
		vector.DrawFilledCircle(screen, sx, sy, sheepRadius+1, sheepEdge, true)
		vector.DrawFilledCircle(screen, sx, sy, sheepRadius, sheepColor, true)
	}

	dog, ok := world.Dog()
	if ok {
		sx, sy := worldToScreen(field, dog.Position.X, dog.Position.Y)
		vector.DrawFilledCircle(screen, sx, sy, dogRadius, dogColor, true)
		vector.DrawFilledCircle(screen, sx+3, sy-3, dogRadius/3, dogPatch, true)
	}

	status := "dog: gone"
	if ok {
		status = fmt.Sprintf("dog: %s", dog.Command)
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\nsheep: %d\nTPS: %0.1f", status, len(world.Sheep()), ebiten.ActualTPS()))
}
