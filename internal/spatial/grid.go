// internal/spatial/grid.go
package spatial

import (
	"math"

	"go-tower-director/internal/types"
)

// Category is a separate bucket set; queries are always type-specific.
type Category int

const (
	Enemy Category = iota
	Tower
	Projectile
	Aura
	numCategories
)

// Body is anything the index can hold.
type Body interface {
	EntityID() types.EntityID
	Position() types.Vec2
	IsAlive() bool
}

type cellKey struct{ x, y int }

type slot struct {
	cat  Category
	cell cellKey
}

// Grid — равномерная сетка. Каждая категория хранит свои ячейки, так что
// запрос по врагам не перебирает башни.
type Grid struct {
	cellSize float64
	cells    [numCategories]map[cellKey][]Body
	where    map[types.EntityID]slot
}

// NewGrid creates an index with the given cell size (about an average
// tower range).
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 96
	}
	g := &Grid{
		cellSize: cellSize,
		where:    make(map[types.EntityID]slot),
	}
	for i := range g.cells {
		g.cells[i] = make(map[cellKey][]Body)
	}
	return g
}

func (g *Grid) CellSize() float64 { return g.cellSize }

func (g *Grid) keyFor(p types.Vec2) cellKey {
	return cellKey{int(math.Floor(p.X / g.cellSize)), int(math.Floor(p.Y / g.cellSize))}
}

// Register adds b under cat. Registering an already indexed body moves it.
func (g *Grid) Register(b Body, cat Category) {
	id := b.EntityID()
	if _, ok := g.where[id]; ok {
		g.Remove(b)
	}
	key := g.keyFor(b.Position())
	g.cells[cat][key] = append(g.cells[cat][key], b)
	g.where[id] = slot{cat: cat, cell: key}
}

// Remove drops b from the index. Unknown bodies are ignored.
func (g *Grid) Remove(b Body) {
	id := b.EntityID()
	s, ok := g.where[id]
	if !ok {
		return
	}
	bucket := g.cells[s.cat][s.cell]
	for i, other := range bucket {
		if other.EntityID() == id {
			last := len(bucket) - 1
			bucket[i] = bucket[last]
			bucket[last] = nil
			bucket = bucket[:last]
			break
		}
	}
	g.cells[s.cat][s.cell] = bucket
	delete(g.where, id)
}

// Update moves b to a new cell if its position left the old one.
func (g *Grid) Update(b Body) {
	s, ok := g.where[b.EntityID()]
	if !ok {
		return
	}
	if g.keyFor(b.Position()) == s.cell {
		return
	}
	g.Register(b, s.cat)
}

// Clear empties every bucket but keeps the allocated slices.
func (g *Grid) Clear() {
	for c := range g.cells {
		for k, bucket := range g.cells[c] {
			for i := range bucket {
				bucket[i] = nil
			}
			g.cells[c][k] = bucket[:0]
		}
	}
	clear(g.where)
}

// Contains reports whether id is indexed.
func (g *Grid) Contains(id types.EntityID) bool {
	_, ok := g.where[id]
	return ok
}

// Len is the number of indexed bodies.
func (g *Grid) Len() int { return len(g.where) }

// QueryRadius returns alive bodies of cat with distance(pos, center) <= r.
// The result order is unspecified.
func (g *Grid) QueryRadius(center types.Vec2, r float64, cat Category) []Body {
	return g.AppendRadius(nil, center, r, cat)
}

// AppendRadius is QueryRadius reusing dst.
func (g *Grid) AppendRadius(dst []Body, center types.Vec2, r float64, cat Category) []Body {
	if r < 0 {
		return dst
	}
	lo := g.keyFor(types.Vec2{X: center.X - r, Y: center.Y - r})
	hi := g.keyFor(types.Vec2{X: center.X + r, Y: center.Y + r})
	r2 := r * r
	cells := g.cells[cat]
	for cx := lo.x; cx <= hi.x; cx++ {
		for cy := lo.y; cy <= hi.y; cy++ {
			for _, b := range cells[cellKey{cx, cy}] {
				if !b.IsAlive() {
					continue
				}
				if b.Position().DistSq(center) <= r2 {
					dst = append(dst, b)
				}
			}
		}
	}
	return dst
}
