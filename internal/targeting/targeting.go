// internal/targeting/targeting.go
package targeting

import (
	"log"
	"sort"

	"go-tower-director/internal/component"
	"go-tower-director/internal/config"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/types"
)

// Querier answers neighbourhood questions for group density.
type Querier interface {
	EnemiesNear(center types.Vec2, r float64) []*component.Enemy
}

// Engine maps persona ids from the catalog to priorities.
type Engine struct {
	personas map[string]defs.PersonaDef
	warned   map[string]bool
}

func NewEngine(cat *defs.Catalog) *Engine {
	return &Engine{personas: cat.Personas, warned: make(map[string]bool)}
}

// Priority resolves a persona id; unknown ids fall back to closest with a
// single warning per id.
func (e *Engine) Priority(persona string) defs.Priority {
	if p, ok := e.personas[persona]; ok {
		return p.Priority
	}
	if !e.warned[persona] {
		log.Printf("targeting: unknown persona %q, using closest", persona)
		e.warned[persona] = true
	}
	return defs.PriorityClosest
}

// SelectTargets orders candidates for tower by its current persona.
func (e *Engine) SelectTargets(candidates []*component.Enemy, tower *component.Tower, q Querier) []*component.Enemy {
	return Order(candidates, tower, e.Priority(tower.Persona), q)
}

type scored struct {
	e         *component.Enemy
	primary   float64 // меньше — раньше
	secondary float64
	dist      float64
}

// Order returns a new slice of the alive candidates sorted by priority.
// Every ordering is total: ties break by squared distance to the tower and
// then by entity id.
func Order(candidates []*component.Enemy, tower *component.Tower, p defs.Priority, q Querier) []*component.Enemy {
	items := make([]scored, 0, len(candidates))
	primaryEffect := tower.Attack.PrimaryEffect()
	if p == defs.PriorityUnaffected && primaryEffect == "" {
		p = defs.PriorityClosest
	}
	densityRadius := tower.Attack.BlastRadius
	if densityRadius <= 0 {
		densityRadius = config.DefaultDensityRadius
	}

	for _, c := range candidates {
		if c == nil || !c.Alive {
			continue
		}
		s := scored{e: c, dist: c.Pos.DistSq(tower.Pos)}
		switch p {
		case defs.PriorityFirst, defs.PriorityLast:
			idx, toNext := c.Progress()
			s.primary, s.secondary = -float64(idx), toNext
			if p == defs.PriorityLast {
				s.primary, s.secondary = -s.primary, -s.secondary
			}
		case defs.PriorityStrongest:
			s.primary = -c.MaxHP
		case defs.PriorityWeakest:
			s.primary = c.HP
		case defs.PriorityHighestArmor:
			s.primary = -c.Armor()
		case defs.PriorityLowestArmor:
			s.primary = c.Armor()
		case defs.PriorityGroupDensity:
			n := 0
			if q != nil {
				for _, other := range q.EnemiesNear(c.Pos, densityRadius) {
					if other.ID != c.ID {
						n++
					}
				}
			}
			s.primary = -float64(n)
		case defs.PriorityUnaffected:
			if c.Effects.Has(primaryEffect) {
				s.primary = 1
			}
		default:
			s.primary = s.dist
		}
		items = append(items, s)
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.primary != b.primary {
			return a.primary < b.primary
		}
		if a.secondary != b.secondary {
			return a.secondary < b.secondary
		}
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		return a.e.ID < b.e.ID
	})

	out := make([]*component.Enemy, len(items))
	for i := range items {
		out[i] = items[i].e
	}
	return out
}
