// internal/level/grid.go
package level

import (
	"fmt"

	"go-tower-director/internal/component"
	"go-tower-director/internal/types"
)

// TileType — тип клетки карты
type TileType uint8

const (
	Buildable TileType = iota
	Border
	Path
	Mountain
	Lake
	Tree
	BaseZone
	TowerOccupied
)

var tileNames = [...]string{
	Buildable:     "BUILDABLE",
	Border:        "BORDER",
	Path:          "PATH",
	Mountain:      "MOUNTAIN",
	Lake:          "LAKE",
	Tree:          "TREE",
	BaseZone:      "BASE_ZONE",
	TowerOccupied: "TOWER_OCCUPIED",
}

func (t TileType) String() string {
	if int(t) < len(tileNames) {
		return tileNames[t]
	}
	return fmt.Sprintf("tile(%d)", int(t))
}

// Grid хранит клетки построчно.
type Grid struct {
	Width, Height int
	tiles         []TileType
}

func NewGrid(w, h int) *Grid {
	return &Grid{Width: w, Height: h, tiles: make([]TileType, w*h)}
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// At returns the tile at (x, y); out of bounds reads as Border.
func (g *Grid) At(x, y int) TileType {
	if !g.InBounds(x, y) {
		return Border
	}
	return g.tiles[y*g.Width+x]
}

// Set is a no-op out of bounds.
func (g *Grid) Set(x, y int, t TileType) {
	if g.InBounds(x, y) {
		g.tiles[y*g.Width+x] = t
	}
}

// IsBuildable reports whether a tower may be placed on (x, y).
func (g *Grid) IsBuildable(x, y int) bool { return g.At(x, y) == Buildable }

// Rows returns a copy of the tiles as rows for snapshots.
func (g *Grid) Rows() [][]TileType {
	rows := make([][]TileType, g.Height)
	for y := range rows {
		rows[y] = append([]TileType(nil), g.tiles[y*g.Width:(y+1)*g.Width]...)
	}
	return rows
}

// RowNames returns tile names row by row, the form snapshots carry.
func (g *Grid) RowNames() [][]string {
	rows := make([][]string, g.Height)
	for y := range rows {
		rows[y] = make([]string, g.Width)
		for x := range rows[y] {
			rows[y][x] = g.At(x, y).String()
		}
	}
	return rows
}

// Count считает клетки типа t.
func (g *Grid) Count(t TileType) int {
	n := 0
	for _, v := range g.tiles {
		if v == t {
			n++
		}
	}
	return n
}

// Level is a generated map: the grid plus the tile paths enemies walk.
type Level struct {
	Style   string
	Grid    *Grid
	Paths   [][]component.Tile
	Starts  []component.Tile
	Targets []component.Tile
}

// PixelPaths converts every path into pixel waypoints.
func (l *Level) PixelPaths(tileSize int) [][]types.Vec2 {
	out := make([][]types.Vec2, len(l.Paths))
	for i, p := range l.Paths {
		out[i] = component.PixelPath(p, tileSize)
	}
	return out
}
