package spatial

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-tower-director/internal/types"
)

type point struct {
	id    types.EntityID
	pos   types.Vec2
	alive bool
}

func (p *point) EntityID() types.EntityID { return p.id }
func (p *point) Position() types.Vec2     { return p.pos }
func (p *point) IsAlive() bool            { return p.alive }

func ids(bodies []Body) []types.EntityID {
	out := make([]types.EntityID, len(bodies))
	for i, b := range bodies {
		out[i] = b.EntityID()
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestQueryMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := NewGrid(64)
	var all []*point
	for i := 0; i < 400; i++ {
		p := &point{
			id:    types.EntityID(i + 1),
			pos:   types.Vec2{X: rng.Float64()*1200 - 100, Y: rng.Float64()*800 - 100},
			alive: rng.Intn(10) != 0,
		}
		all = append(all, p)
		g.Register(p, Enemy)
	}

	for q := 0; q < 200; q++ {
		center := types.Vec2{X: rng.Float64() * 1000, Y: rng.Float64() * 600}
		r := rng.Float64() * 250
		var want []types.EntityID
		for _, p := range all {
			if p.alive && p.pos.DistSq(center) <= r*r {
				want = append(want, p.id)
			}
		}
		got := ids(g.QueryRadius(center, r, Enemy))
		if len(want) == 0 {
			assert.Empty(t, got)
			continue
		}
		assert.Equal(t, want, got, "query %d", q)
	}
}

func TestCategoriesAreSeparate(t *testing.T) {
	g := NewGrid(50)
	g.Register(&point{id: 1, pos: types.Vec2{X: 10, Y: 10}, alive: true}, Enemy)
	g.Register(&point{id: 2, pos: types.Vec2{X: 12, Y: 10}, alive: true}, Tower)

	assert.Equal(t, []types.EntityID{1}, ids(g.QueryRadius(types.Vec2{X: 10, Y: 10}, 20, Enemy)))
	assert.Equal(t, []types.EntityID{2}, ids(g.QueryRadius(types.Vec2{X: 10, Y: 10}, 20, Tower)))
	assert.Empty(t, g.QueryRadius(types.Vec2{X: 10, Y: 10}, 20, Projectile))
}

func TestUpdateMovesBetweenCells(t *testing.T) {
	g := NewGrid(50)
	p := &point{id: 1, pos: types.Vec2{X: 10, Y: 10}, alive: true}
	g.Register(p, Enemy)

	p.pos = types.Vec2{X: 510, Y: 300}
	g.Update(p)
	assert.Empty(t, g.QueryRadius(types.Vec2{X: 10, Y: 10}, 30, Enemy))
	assert.Len(t, g.QueryRadius(types.Vec2{X: 500, Y: 300}, 30, Enemy), 1)
	assert.Equal(t, 1, g.Len())
}

func TestRemoveAndClear(t *testing.T) {
	g := NewGrid(50)
	a := &point{id: 1, pos: types.Vec2{X: 5, Y: 5}, alive: true}
	b := &point{id: 2, pos: types.Vec2{X: 6, Y: 5}, alive: true}
	g.Register(a, Enemy)
	g.Register(b, Enemy)

	g.Remove(a)
	require.False(t, g.Contains(1))
	assert.Equal(t, []types.EntityID{2}, ids(g.QueryRadius(types.Vec2{X: 5, Y: 5}, 10, Enemy)))
	g.Remove(a)

	g.Clear()
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.QueryRadius(types.Vec2{X: 5, Y: 5}, 10, Enemy))

	g.Register(a, Enemy)
	assert.Len(t, g.QueryRadius(types.Vec2{X: 5, Y: 5}, 10, Enemy), 1)
}

func TestBoundaryIsInclusive(t *testing.T) {
	g := NewGrid(32)
	g.Register(&point{id: 1, pos: types.Vec2{X: 100, Y: 0}, alive: true}, Enemy)
	assert.Len(t, g.QueryRadius(types.Vec2{}, 100, Enemy), 1)
	assert.Empty(t, g.QueryRadius(types.Vec2{}, 99.999, Enemy))
}
