package level

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-tower-director/internal/component"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/utils"
	"go-tower-director/pkg/pathfind"
)

func meadow() defs.LevelStyle {
	return defs.LevelStyle{
		Name: "Meadow", Width: 40, Height: 22, GenerationAttempts: 10,
		Features: defs.Features{
			Mountains: defs.FeatureRange{Min: 2, Max: 4},
			Lakes:     defs.FeatureRange{Min: 1, Max: 2},
			Trees:     defs.FeatureRange{Min: 10, Max: 20},
		},
	}
}

func TestBuildProducesConnectedPaths(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		lvl, err := Build(meadow(), utils.NewPRNGService(seed))
		require.NoError(t, err, "seed %d", seed)
		require.NotEmpty(t, lvl.Paths)
		assert.Len(t, lvl.Starts, 3)
		assert.Len(t, lvl.Targets, 3)

		// средний путь всегда первый: от (1, h/2) к левой цели
		assert.Equal(t, component.Tile{X: 1, Y: 11}, lvl.Paths[0][0])
		assert.Equal(t, lvl.Targets[1], lvl.Paths[0][len(lvl.Paths[0])-1])

		used := make(map[component.Tile]bool)
		for _, path := range lvl.Paths {
			for i, tile := range path {
				kind := lvl.Grid.At(tile.X, tile.Y)
				assert.Contains(t, []TileType{Path, BaseZone}, kind, "seed %d tile %v", seed, tile)
				if i > 0 {
					d := abs(path[i-1].X-tile.X) + abs(path[i-1].Y-tile.Y)
					require.Equal(t, 1, d, "seed %d: gap in path at %d", seed, i)
				}
				if i > 0 && i < len(path)-1 {
					assert.False(t, used[tile], "seed %d: paths share %v", seed, tile)
				}
			}
			for _, tile := range path {
				used[tile] = true
			}
		}
	}
}

func TestBorderAndBase(t *testing.T) {
	lvl, err := Build(meadow(), utils.NewPRNGService(3))
	require.NoError(t, err)
	g := lvl.Grid
	for x := 0; x < g.Width; x++ {
		assert.Equal(t, Border, g.At(x, 0))
		assert.Equal(t, Border, g.At(x, g.Height-1))
	}
	for y := 0; y < g.Height; y++ {
		assert.Equal(t, Border, g.At(0, y))
		assert.Equal(t, Border, g.At(g.Width-1, y))
	}
	assert.Equal(t, 16, g.Count(BaseZone))
	assert.Equal(t, BaseZone, g.At(g.Width-2, g.Height/2))
	trees := g.Count(Tree)
	assert.Greater(t, trees, 0)
	assert.LessOrEqual(t, trees, 20)
	assert.Equal(t, Border, g.At(-1, 3))
}

func TestBuildIsDeterministic(t *testing.T) {
	a, err := Build(meadow(), utils.NewPRNGService(77))
	require.NoError(t, err)
	b, err := Build(meadow(), utils.NewPRNGService(77))
	require.NoError(t, err)
	assert.Equal(t, a.Grid.Rows(), b.Grid.Rows())
	assert.Equal(t, a.Paths, b.Paths)
}

func TestBuildFailsAfterAttempts(t *testing.T) {
	calls := 0
	generateFn = func(defs.LevelStyle, *utils.PRNGService) (*Level, error) {
		calls++
		return nil, errors.New("middle path failed")
	}
	defer func() { generateFn = generate }()

	style := meadow()
	style.GenerationAttempts = 3
	_, err := Build(style, utils.NewPRNGService(1))
	assert.True(t, errors.Is(err, ErrPathGeneration))
	assert.Equal(t, 3, calls)
}

func TestTooSmallGrid(t *testing.T) {
	style := meadow()
	style.Width = 5
	_, err := Build(style, utils.NewPRNGService(1))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrPathGeneration))
}

func TestFindPathAvoidsMountainsAndOccupied(t *testing.T) {
	g := NewGrid(12, 7)
	createBorder(g)
	// горная стена с проходом в строке 5
	for y := 1; y < 5; y++ {
		g.Set(6, y, Mountain)
	}
	occupied := pointSet{{X: 3, Y: 3}: true}
	start, end := pathfind.Point{X: 1, Y: 3}, pathfind.Point{X: 10, Y: 3}

	path := findPath(g, start, end, occupied, nil)
	require.NotEmpty(t, path)
	assert.Equal(t, start, path[0])
	assert.Equal(t, end, path[len(path)-1])
	for _, p := range path {
		kind := g.At(p.X, p.Y)
		assert.NotEqual(t, Mountain, kind)
		assert.NotEqual(t, Border, kind)
		assert.False(t, occupied[p])
	}
	assert.Contains(t, path, pathfind.Point{X: 6, Y: 5})

	g.Set(6, 5, Mountain)
	assert.Empty(t, findPath(g, start, end, occupied, nil))
}

func TestPixelPaths(t *testing.T) {
	lvl := &Level{Paths: [][]component.Tile{{{X: 0, Y: 0}, {X: 2, Y: 1}}}}
	px := lvl.PixelPaths(32)
	require.Len(t, px, 1)
	assert.Equal(t, 16.0, px[0][0].X)
	assert.Equal(t, 80.0, px[0][1].X)
	assert.Equal(t, 48.0, px[0][1].Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
