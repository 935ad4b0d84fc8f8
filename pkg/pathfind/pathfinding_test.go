package pathfind

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStraightLine(t *testing.T) {
	path := AStar(10, 5, Point{0, 2}, Point{9, 2}, nil, nil)
	require.Len(t, path, 10)
	assert.Equal(t, Point{0, 2}, path[0])
	assert.Equal(t, Point{9, 2}, path[9])
}

func TestDetourAroundWall(t *testing.T) {
	// стена в колонке 3 с проходом внизу
	wall := func(p Point) bool { return !(p.X == 3 && p.Y < 4) }
	path := AStar(7, 5, Point{0, 0}, Point{6, 0}, wall, nil)
	require.NotEmpty(t, path)
	assertValid(t, path, wall)
	assert.Equal(t, 6+2*4, len(path)-1)
}

func TestNoPathIsEmpty(t *testing.T) {
	blocked := func(p Point) bool { return p.X != 2 }
	assert.Empty(t, AStar(5, 5, Point{0, 0}, Point{4, 4}, blocked, nil))
	assert.Empty(t, AStar(5, 5, Point{0, 0}, Point{9, 9}, nil, nil))
}

func TestGoalReachableEvenIfImpassable(t *testing.T) {
	passable := func(p Point) bool { return p != (Point{3, 0}) }
	path := AStar(4, 1, Point{0, 0}, Point{3, 0}, passable, nil)
	assert.Equal(t, []Point{{0, 0}, {1, 0}, {2, 0}, {3, 0}}, path)
}

func TestCostSteersPath(t *testing.T) {
	// дорогая середина: путь обходит по краю
	cost := func(p Point) float64 {
		if p.Y == 1 && p.X > 0 && p.X < 4 {
			return 100
		}
		return 1
	}
	path := AStar(5, 3, Point{0, 1}, Point{4, 1}, nil, cost)
	require.NotEmpty(t, path)
	for _, p := range path[1 : len(path)-1] {
		assert.NotEqual(t, 1, p.Y, "path crossed expensive row at %v", p)
	}
	assert.Equal(t, 6.0, PathCost(path, cost))
}

func TestMatchesDijkstraOnRandomGrids(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 40; round++ {
		w, h := 6+rng.Intn(10), 6+rng.Intn(10)
		blocked := make(map[Point]bool)
		costs := make(map[Point]float64)
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				if rng.Float64() < 0.2 {
					blocked[Point{x, y}] = true
				}
				costs[Point{x, y}] = 1 + rng.Float64()
			}
		}
		start, goal := Point{0, 0}, Point{w - 1, h - 1}
		delete(blocked, start)
		passable := func(p Point) bool { return !blocked[p] }
		cost := func(p Point) float64 { return costs[p] }

		want := dijkstra(w, h, start, goal, passable, cost)
		path := AStar(w, h, start, goal, passable, cost)
		if math.IsInf(want, 1) {
			assert.Empty(t, path)
			continue
		}
		require.NotEmpty(t, path)
		assertValid(t, path, passable)
		assert.InDelta(t, want, PathCost(path, cost), 1e-9)
	}
}

func assertValid(t *testing.T, path []Point, passable PassableFunc) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		require.Equal(t, 1, path[i-1].Manhattan(path[i]), "non-adjacent step at %d", i)
		if i < len(path)-1 {
			require.True(t, passable(path[i]), "impassable tile %v", path[i])
		}
	}
}

// dijkstra — квадратичный эталон для проверки
func dijkstra(w, h int, start, goal Point, passable PassableFunc, cost CostFunc) float64 {
	dist := map[Point]float64{start: 0}
	done := make(map[Point]bool)
	for {
		var cur Point
		best := math.Inf(1)
		for p, d := range dist {
			if !done[p] && (d < best || (d == best && (p.Y < cur.Y || (p.Y == cur.Y && p.X < cur.X)))) {
				cur, best = p, d
			}
		}
		if math.IsInf(best, 1) {
			return best
		}
		if cur == goal {
			return best
		}
		done[cur] = true
		for _, d := range directions {
			next := Point{cur.X + d.X, cur.Y + d.Y}
			if next.X < 0 || next.Y < 0 || next.X >= w || next.Y >= h || done[next] {
				continue
			}
			if next != goal && !passable(next) {
				continue
			}
			nd := best + math.Max(1, cost(next))
			if old, ok := dist[next]; !ok || nd < old {
				dist[next] = nd
			}
		}
	}
}
