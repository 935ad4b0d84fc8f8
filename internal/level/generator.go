// internal/level/generator.go
package level

import (
	"errors"
	"fmt"
	"log"

	"go-tower-director/internal/component"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/utils"
	"go-tower-director/pkg/pathfind"
)

// ErrPathGeneration is returned when the essential path could not be built
// within the configured number of attempts.
var ErrPathGeneration = errors.New("level: path generation failed")

// generateFn подменяется в тестах.
var generateFn = generate

const (
	baseSize = 4
	minSide  = 10
)

// Build generates a level for style, retrying up to its generation_attempts.
func Build(style defs.LevelStyle, rng *utils.PRNGService) (*Level, error) {
	if style.Width < minSide || style.Height < minSide {
		return nil, fmt.Errorf("level: grid %dx%d is too small", style.Width, style.Height)
	}
	attempts := style.GenerationAttempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 1; i <= attempts; i++ {
		lvl, err := generateFn(style, rng)
		if err == nil {
			log.Printf("level: generated %q (%dx%d) with %d paths on attempt %d",
				style.Name, style.Width, style.Height, len(lvl.Paths), i)
			return lvl, nil
		}
		log.Printf("level: attempt %d/%d failed: %v", i, attempts, err)
	}
	return nil, fmt.Errorf("%w: %q after %d attempts", ErrPathGeneration, style.Name, attempts)
}

func generate(style defs.LevelStyle, rng *utils.PRNGService) (*Level, error) {
	g := NewGrid(style.Width, style.Height)
	createBorder(g)
	targets := placeBaseZone(g, baseSize)
	if len(targets) < 3 {
		return nil, errors.New("base zone has no room for targets")
	}
	starts := startPoints(g)

	w := g.Width
	occupied := make(pointSet)
	var paths [][]pathfind.Point

	middle := wanderingPath(g, rng, starts[1], targets[1], occupied)
	if len(middle) == 0 {
		return nil, errors.New("middle path failed")
	}
	paths = append(paths, middle)
	occupied.addAll(middle)

	top := elbowPath(g, rng, starts[0], targets[0], int(float64(w)*0.3), int(float64(w)*0.45), occupied)
	if len(top) > 0 {
		paths = append(paths, top)
		occupied.addAll(top)
	} else {
		log.Printf("level: top elbow path failed")
	}

	bottom := elbowPath(g, rng, starts[2], targets[2], int(float64(w)*0.55), int(float64(w)*0.7), occupied)
	if len(bottom) > 0 {
		paths = append(paths, bottom)
	} else {
		log.Printf("level: bottom elbow path failed")
	}

	lvl := &Level{Style: style.Name, Grid: g}
	for _, path := range paths {
		tiles := make([]component.Tile, len(path))
		for i, p := range path {
			tiles[i] = component.Tile{X: p.X, Y: p.Y}
			if g.At(p.X, p.Y) != BaseZone {
				g.Set(p.X, p.Y, Path)
			}
		}
		lvl.Paths = append(lvl.Paths, tiles)
	}
	for _, p := range starts {
		lvl.Starts = append(lvl.Starts, component.Tile{X: p.X, Y: p.Y})
	}
	for _, p := range targets {
		lvl.Targets = append(lvl.Targets, component.Tile{X: p.X, Y: p.Y})
	}

	f := style.Features
	placeFeature(g, rng, f.Mountains, func() { placeCluster(g, rng, Mountain) })
	placeFeature(g, rng, f.Lakes, func() { placeBlob(g, rng, Lake) })
	placeFeature(g, rng, f.Trees, func() { placeScatter(g, rng, Tree) })
	return lvl, nil
}

func createBorder(g *Grid) {
	for x := 0; x < g.Width; x++ {
		g.Set(x, 0, Border)
		g.Set(x, g.Height-1, Border)
	}
	for y := 0; y < g.Height; y++ {
		g.Set(0, y, Border)
		g.Set(g.Width-1, y, Border)
	}
}

// placeBaseZone ставит базу справа посередине и возвращает цели на ее
// верхней, левой и нижней стенах.
func placeBaseZone(g *Grid, size int) []pathfind.Point {
	startY := g.Height/2 - size/2
	startX := g.Width - 1 - size
	for y := startY; y < startY+size; y++ {
		for x := startX; x < startX+size; x++ {
			g.Set(x, y, BaseZone)
		}
	}
	candidates := []pathfind.Point{
		{X: startX + size/2, Y: startY - 1},
		{X: startX - 1, Y: startY + size/2},
		{X: startX + size/2, Y: startY + size},
	}
	var out []pathfind.Point
	for _, p := range candidates {
		if g.InBounds(p.X, p.Y) {
			out = append(out, p)
		}
	}
	return out
}

func startPoints(g *Grid) []pathfind.Point {
	return []pathfind.Point{
		{X: 1, Y: g.Height / 4},
		{X: 1, Y: g.Height / 2},
		{X: 1, Y: g.Height * 3 / 4},
	}
}

func placeFeature(g *Grid, rng *utils.PRNGService, r defs.FeatureRange, place func()) {
	if r.Min < 0 || r.Min > r.Max {
		return
	}
	n := rng.IntRange(r.Min, r.Max)
	for i := 0; i < n; i++ {
		place()
	}
}

// placeCluster — прямоугольник 2..4 на свободной земле, 10 попыток.
func placeCluster(g *Grid, rng *utils.PRNGService, t TileType) {
	cw, ch := rng.IntRange(2, 4), rng.IntRange(2, 4)
	if g.Width-cw-1 < 1 || g.Height-ch-1 < 1 {
		return
	}
	for attempt := 0; attempt < 10; attempt++ {
		sx, sy := rng.IntRange(1, g.Width-cw-1), rng.IntRange(1, g.Height-ch-1)
		free := true
		for y := sy; y < sy+ch && free; y++ {
			for x := sx; x < sx+cw; x++ {
				if !g.IsBuildable(x, y) {
					free = false
					break
				}
			}
		}
		if !free {
			continue
		}
		for y := sy; y < sy+ch; y++ {
			for x := sx; x < sx+cw; x++ {
				g.Set(x, y, t)
			}
		}
		return
	}
}

// placeBlob растит пятно 5..12 клеток обходом в ширину.
func placeBlob(g *Grid, rng *utils.PRNGService, t TileType) {
	size := rng.IntRange(5, 12)
	for attempt := 0; attempt < 10; attempt++ {
		sx, sy := rng.IntRange(1, g.Width-2), rng.IntRange(1, g.Height-2)
		if !g.IsBuildable(sx, sy) {
			continue
		}
		blob := make(pointSet)
		var order []pathfind.Point
		queue := []pathfind.Point{{X: sx, Y: sy}}
		for len(queue) > 0 && len(blob) < size {
			p := queue[0]
			queue = queue[1:]
			if blob[p] || !g.IsBuildable(p.X, p.Y) {
				continue
			}
			blob[p] = true
			order = append(order, p)
			for _, d := range []pathfind.Point{{X: 0, Y: 1}, {X: 0, Y: -1}, {X: 1, Y: 0}, {X: -1, Y: 0}} {
				if rng.Float64() > 0.4 {
					queue = append(queue, pathfind.Point{X: p.X + d.X, Y: p.Y + d.Y})
				}
			}
		}
		for _, p := range order {
			g.Set(p.X, p.Y, t)
		}
		return
	}
}

func placeScatter(g *Grid, rng *utils.PRNGService, t TileType) {
	for attempt := 0; attempt < 20; attempt++ {
		x, y := rng.IntRange(1, g.Width-2), rng.IntRange(1, g.Height-2)
		if g.IsBuildable(x, y) {
			g.Set(x, y, t)
			return
		}
	}
}
