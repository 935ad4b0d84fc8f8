// internal/system/reaper.go
package system

import (
	"go-tower-director/internal/component"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/entity"
	"go-tower-director/internal/types"
)

// Death описывает убранного врага для телеметрии и событий.
type Death struct {
	ID        types.EntityID
	TypeID    string
	Variant   defs.EnemyVariant
	PathIndex int
	Pos       types.Vec2
	Bounty    int
	Leaked    bool
}

// Report is what one reaping pass removed, in the order it was processed.
type Report struct {
	Killed []Death
	Leaked []Death
}

// ReaperSystem убирает мертвые сущности в конце тика.
type ReaperSystem struct {
	ecs     *entity.ECS
	applier *Applier
}

func NewReaperSystem(ecs *entity.ECS, applier *Applier) *ReaperSystem {
	return &ReaperSystem{ecs: ecs, applier: applier}
}

// Reap awards bounties, detonates death explosions and removes every dead
// entity. Kills caused by an explosion are reaped in the same pass.
func (s *ReaperSystem) Reap() Report {
	var rep Report
	processed := make(map[types.EntityID]bool)
	for {
		progressed := false
		for _, e := range s.ecs.SortedEnemies() {
			if e.Alive || processed[e.ID] {
				continue
			}
			processed[e.ID] = true
			progressed = true
			d := Death{ID: e.ID, TypeID: e.TypeID, Variant: e.Variant, PathIndex: e.PathIndex, Pos: e.Pos, Leaked: e.Leaked}
			if e.Leaked {
				rep.Leaked = append(rep.Leaked, d)
				continue
			}
			d.Bounty = e.Bounty
			s.ecs.GameState.Earn(e.Bounty)
			rep.Killed = append(rep.Killed, d)
			if e.Explosion != nil {
				s.explode(e)
			}
		}
		if !progressed {
			break
		}
	}
	for id := range processed {
		s.ecs.RemoveEnemy(id)
	}
	for _, p := range s.ecs.SortedProjectiles() {
		if !p.Alive {
			s.ecs.RemoveProjectile(p.ID)
		}
	}
	for _, a := range s.ecs.SortedAuras() {
		if !a.Alive {
			s.ecs.RemoveAura(a.ID)
		}
	}
	return rep
}

func (s *ReaperSystem) explode(e *component.Enemy) {
	ex := e.Explosion
	e.Explosion = nil
	for _, other := range s.ecs.EnemiesNear(e.Pos, ex.Radius) {
		other.TakeDamage(ex.Damage, 0, false)
		if ex.Effect != nil {
			inst := component.EffectInstance{ID: ex.Effect.ID, Duration: ex.Effect.Duration, Potency: ex.Effect.Potency}
			s.applier.Apply(&other.Body, inst, e.ExplosionSource, false)
		}
	}
}
