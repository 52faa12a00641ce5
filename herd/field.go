package herd

import (
	"iter"
	"log/slog"
	"math"

	"github.com/plus3/sheepdog/ecs"
	"github.com/plus3/sheepdog/geometry"
)

// DefaultTileSize is the ground tile edge in world units.
const DefaultTileSize = 64

// Field is the arena. Origin is the top-left corner in world space and is
// always derived from Width and Height.
type Field struct {
	Width  float64
	Height float64
	Origin geometry.Vector2D
}

func NewField(width, height float64) Field {
	f := Field{}
	f.UpdateSize(width, height)
	return f
}

// UpdateSize sets both dimensions and the derived origin together.
func (f *Field) UpdateSize(width, height float64) {
	*f = Field{
		Width:  width,
		Height: height,
		Origin: geometry.NewVector(-width/2, height/2),
	}
}

// Bounds is the containment box agents are steered back into.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Bounds returns the box at margin times the half extents. Negative
// dimensions collapse to a zero-width box.
func (f Field) Bounds(margin float64) Bounds {
	halfW := max(f.Width, 0) / 2
	halfH := max(f.Height, 0) / 2
	return Bounds{
		MinX: -margin * halfW,
		MaxX: margin * halfW,
		MinY: -margin * halfH,
		MaxY: margin * halfH,
	}
}

func tileOrDefault(tile float64) float64 {
	if tile <= 0 {
		return DefaultTileSize
	}
	return tile
}

// WidthInTiles is the number of tile columns needed to cover the field with
// one spare column.
func (f Field) WidthInTiles(tile float64) int {
	return int(math.Ceil(max(f.Width, 0)/tileOrDefault(tile))) + 1
}

func (f Field) HeightInTiles(tile float64) int {
	return int(math.Ceil(max(f.Height, 0)/tileOrDefault(tile))) + 1
}

// TileOffset centers the tile grid over the field. Both components are <= 0.
func (f Field) TileOffset(tile float64) geometry.Vector2D {
	tile = tileOrDefault(tile)
	return geometry.NewVector(
		-(float64(f.WidthInTiles(tile))*tile-max(f.Width, 0))/2,
		-(float64(f.HeightInTiles(tile))*tile-max(f.Height, 0))/2,
	)
}

// TileOrigin is the world position of the top-left corner of the first tile.
func (f Field) TileOrigin(tile float64) geometry.Vector2D {
	off := f.TileOffset(tile)
	return geometry.NewVector(f.Origin.X+off.X, f.Origin.Y-off.Y)
}

// Tiles yields the position of every ground tile, column by column, stepping
// right and down from TileOrigin.
func (f Field) Tiles(tile float64) iter.Seq[geometry.Vector2D] {
	tile = tileOrDefault(tile)
	return func(yield func(geometry.Vector2D) bool) {
		start := f.TileOrigin(tile)
		cols, rows := f.WidthInTiles(tile), f.HeightInTiles(tile)
		for i := 0; i < cols; i++ {
			for j := 0; j < rows; j++ {
				if !yield(geometry.NewVector(start.X+float64(i)*tile, start.Y-float64(j)*tile)) {
					return
				}
			}
		}
	}
}

// FieldResizeSystem copies the host's window size into the Field. It only
// acts when the size changed, so resizes land on a tick boundary.
type FieldResizeSystem struct {
	Field  ecs.Singleton[Field]
	Window ecs.Singleton[WindowSize]
	Config ecs.Singleton[Config]

	Logger *slog.Logger
}

func (s *FieldResizeSystem) Execute(frame *ecs.UpdateFrame) {
	field, window := s.Field.Get(), s.Window.Get()
	if window.Width == field.Width && window.Height == field.Height {
		return
	}
	if window.Width == 0 && window.Height == 0 {
		return
	}

	field.UpdateSize(window.Width, window.Height)

	tile := s.Config.Get().Field.TileSize
	logger(s.Logger).Info("field resized",
		"width", field.Width,
		"height", field.Height,
		"tiles_x", field.WidthInTiles(tile),
		"tiles_y", field.HeightInTiles(tile),
	)
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
