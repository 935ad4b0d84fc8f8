// internal/render/color.go
package render

import (
	"image/color"

	"golang.org/x/image/colornames"

	"go-tower-director/internal/level"
)

// TileColors maps every tile type to its fill.
var TileColors = map[level.TileType]color.RGBA{
	level.Buildable:     colornames.Darkolivegreen,
	level.Border:        colornames.Dimgray,
	level.Path:          colornames.Tan,
	level.Mountain:      colornames.Slategray,
	level.Lake:          colornames.Steelblue,
	level.Tree:          colornames.Darkgreen,
	level.BaseZone:      colornames.Firebrick,
	level.TowerOccupied: colornames.Darkolivegreen,
}

var (
	ProjectileColor   = colornames.Gold
	GroundAuraColor   = color.RGBA{250, 120, 40, 60}
	AttachedAuraColor = color.RGBA{90, 200, 90, 70}
	SelectionColor    = colornames.White
	PathLineColor     = color.RGBA{255, 240, 200, 90}
)

// RGB turns a catalog color into an opaque RGBA.
func RGB(c [3]uint8) color.RGBA {
	return color.RGBA{c[0], c[1], c[2], 255}
}

// DarkenColor reduces the brightness of a color.
func DarkenColor(c color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * 0.5),
		G: uint8(float64(c.G) * 0.5),
		B: uint8(float64(c.B) * 0.5),
		A: c.A,
	}
}
