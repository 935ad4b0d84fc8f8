// internal/level/paths.go
package level

import (
	"log"

	"go-tower-director/internal/utils"
	"go-tower-director/pkg/pathfind"
)

const occupiedCost = 1000.0

type pointSet map[pathfind.Point]bool

func (s pointSet) addAll(path []pathfind.Point) {
	for _, p := range path {
		s[p] = true
	}
}

func (s pointSet) union(path []pathfind.Point) pointSet {
	out := make(pointSet, len(s)+len(path))
	for p := range s {
		out[p] = true
	}
	out.addAll(path)
	return out
}

// findPath — A* по сетке: граница, горы и занятые клетки непроходимы.
func findPath(g *Grid, start, end pathfind.Point, occupied pointSet, cost pathfind.CostFunc) []pathfind.Point {
	passable := func(p pathfind.Point) bool {
		t := g.At(p.X, p.Y)
		return t != Border && t != Mountain && !occupied[p]
	}
	path := pathfind.AStar(g.Width, g.Height, start, end, passable, cost)
	if len(path) == 0 {
		log.Printf("level: no path from %v to %v", start, end)
	}
	return path
}

// randomCost draws a fresh cost per evaluation and penalizes occupied tiles.
func randomCost(rng *utils.PRNGService, occupied pointSet, lo, hi float64) pathfind.CostFunc {
	return func(p pathfind.Point) float64 {
		if occupied[p] {
			return occupiedCost
		}
		return rng.Uniform(lo, hi)
	}
}

// wanderingPath is a direct route with slight random deviations.
func wanderingPath(g *Grid, rng *utils.PRNGService, start, end pathfind.Point, occupied pointSet) []pathfind.Point {
	return findPath(g, start, end, occupied, randomCost(rng, occupied, 1.0, 1.5))
}

// elbowPath goes through a random turn point in the column range
// [turnLo, turnHi] and then on to end.
func elbowPath(g *Grid, rng *utils.PRNGService, start, end pathfind.Point, turnLo, turnHi int, occupied pointSet) []pathfind.Point {
	turnX := rng.IntRange(turnLo, turnHi)
	var ys []int
	for y := 1; y < g.Height-1; y++ {
		p := pathfind.Point{X: turnX, Y: y}
		if t := g.At(turnX, y); !occupied[p] && t != Border && t != Mountain {
			ys = append(ys, y)
		}
	}
	if len(ys) == 0 {
		log.Printf("level: no free turn point in column %d", turnX)
		return nil
	}
	turn := pathfind.Point{X: turnX, Y: ys[rng.Intn(len(ys))]}

	first := findPath(g, start, turn, occupied, randomCost(rng, occupied, 1.0, 2.0))
	if len(first) == 0 {
		return nil
	}
	taken := occupied.union(first)
	second := findPath(g, turn, end, taken, randomCost(rng, taken, 1.0, 1.8))
	if len(second) == 0 {
		return nil
	}
	// точка поворота присутствует в обоих отрезках
	full := make([]pathfind.Point, 0, len(first)+len(second)-1)
	seen := make(pointSet, len(first)+len(second))
	for _, p := range append(first, second...) {
		if !seen[p] {
			seen[p] = true
			full = append(full, p)
		}
	}
	return full
}
