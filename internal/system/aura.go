// internal/system/aura.go
package system

import (
	"go-tower-director/internal/component"
	"go-tower-director/internal/entity"
)

// AuraSystem обрабатывает наземные и прикрепленные ауры башен.
type AuraSystem struct {
	ecs     *entity.ECS
	applier *Applier
}

func NewAuraSystem(ecs *entity.ECS, applier *Applier) *AuraSystem {
	return &AuraSystem{ecs: ecs, applier: applier}
}

// Update counts down the aura lifetimes and pulses every tick interval.
// An attached aura follows its target while the target is alive and then
// stays where the target fell.
func (s *AuraSystem) Update(dt float64) {
	for _, a := range s.ecs.SortedAuras() {
		if !a.Alive {
			continue
		}
		if a.Attached {
			if target, ok := s.ecs.Enemies[a.TargetID]; ok && target.Alive {
				a.Pos = target.Pos
				s.ecs.Index.Update(a)
			}
		}
		a.Remaining -= dt
		a.TickTimer -= dt
		for a.TickTimer <= 0 && a.TickInterval > 0 {
			s.pulse(a)
			a.TickTimer += a.TickInterval
		}
		if a.Remaining <= 0 {
			a.Kill()
		}
	}
}

// pulse бьет всех врагов в радиусе; броня только усиливает урон ауры.
func (s *AuraSystem) pulse(a *component.Aura) {
	for _, e := range s.ecs.EnemiesNear(a.Pos, a.Radius) {
		e.TakeDamage(a.DamagePerTick+e.Armor()*a.BonusVsArmor, 0, true)
		s.applier.ApplyAll(&e.Body, a.Payload.Effects, a.Payload.Source)
	}
}
