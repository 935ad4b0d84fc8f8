// internal/component/movement.go
package component

import "go-tower-director/internal/types"

// Tile is a grid coordinate.
type Tile struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// TileCenter переводит тайл в пиксельный центр.
func TileCenter(t Tile, tileSize int) types.Vec2 {
	ts := float64(tileSize)
	return types.Vec2{X: float64(t.X)*ts + ts/2, Y: float64(t.Y)*ts + ts/2}
}

// PixelPath converts a tile path into pixel waypoints.
func PixelPath(path []Tile, tileSize int) []types.Vec2 {
	out := make([]types.Vec2, len(path))
	for i, t := range path {
		out[i] = TileCenter(t, tileSize)
	}
	return out
}
