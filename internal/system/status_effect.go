// internal/system/status_effect.go
package system

import (
	"go-tower-director/internal/component"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/entity"
)

// StatusEffectSystem управляет эффектами башен и врагов и рассылает
// эффекты собственных аур (баферы, башни поддержки). Владелец ауры
// сам ее эффект не получает.
type StatusEffectSystem struct {
	ecs     *entity.ECS
	applier *Applier
}

func NewStatusEffectSystem(ecs *entity.ECS, applier *Applier) *StatusEffectSystem {
	return &StatusEffectSystem{ecs: ecs, applier: applier}
}

// UpdateTowers broadcasts tower-owned auras and advances tower effects.
func (s *StatusEffectSystem) UpdateTowers(dt float64) {
	towers := s.ecs.SortedTowers()
	for _, t := range towers {
		s.broadcast(&t.Body, component.KindTower)
	}
	for _, t := range towers {
		t.Effects.Update(dt, &t.Stats)
	}
}

// UpdateEnemies broadcasts enemy-owned auras, advances enemy effects and
// applies accumulated DoT as armor-ignoring damage.
func (s *StatusEffectSystem) UpdateEnemies(dt float64) {
	enemies := s.ecs.SortedEnemies()
	for _, e := range enemies {
		if e.Alive {
			s.broadcast(&e.Body, component.KindEnemy)
		}
	}
	for _, e := range enemies {
		if !e.Alive {
			continue
		}
		if dot := e.Effects.Update(dt, &e.Stats); dot > 0 {
			e.TakeDamage(dot, 0, true)
		}
	}
}

func (s *StatusEffectSystem) broadcast(owner *component.Body, ownerKind component.Kind) {
	for _, aura := range owner.Auras {
		switch aura.Target {
		case defs.AuraTargetTowers:
			friendly := ownerKind == component.KindTower
			for _, t := range s.ecs.TowersNear(owner.Pos, aura.Range) {
				if t.ID == owner.ID {
					continue
				}
				s.applyRefs(&t.Body, aura.Effects, owner, friendly)
			}
		default:
			friendly := ownerKind == component.KindEnemy
			for _, e := range s.ecs.EnemiesNear(owner.Pos, aura.Range) {
				if e.ID == owner.ID {
					continue
				}
				s.applyRefs(&e.Body, aura.Effects, owner, friendly)
			}
		}
	}
}

func (s *StatusEffectSystem) applyRefs(target *component.Body, refs defs.EffectList, owner *component.Body, friendly bool) {
	for _, ref := range refs {
		inst := component.EffectInstance{ID: ref.ID, Duration: ref.Duration, Potency: ref.Potency}
		s.applier.Apply(target, inst, owner.ID, friendly)
	}
}
