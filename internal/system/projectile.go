// internal/system/projectile.go
package system

import (
	"go-tower-director/internal/component"
	"go-tower-director/internal/config"
	"go-tower-director/internal/entity"
	"go-tower-director/internal/utils"
)

// ProjectileSystem управляет движением снарядов и нанесением урона
type ProjectileSystem struct {
	ecs     *entity.ECS
	applier *Applier
	rng     *utils.PRNGService
}

func NewProjectileSystem(ecs *entity.ECS, applier *Applier, rng *utils.PRNGService) *ProjectileSystem {
	return &ProjectileSystem{ecs: ecs, applier: applier, rng: rng}
}

func (s *ProjectileSystem) Update(dt float64) {
	for _, p := range s.ecs.SortedProjectiles() {
		if !p.Alive {
			continue
		}
		target := s.target(p)
		step := p.Speed * dt
		dist := p.Pos.Dist(p.LastKnown)
		if dist < step {
			p.Pos = p.LastKnown
			if target == nil {
				// цель пропала, снаряд долетел до последней точки
				p.Kill()
				continue
			}
			s.impact(p, target)
		} else if dist > 0 {
			p.Pos = p.Pos.Add(p.LastKnown.Sub(p.Pos).Scale(step / dist))
		}
		if p.Alive {
			s.ecs.Index.Update(p)
		}
	}
}

// target returns the live target, retargeting once the original died. nil
// means the projectile flies on to the last known point.
func (s *ProjectileSystem) target(p *component.Projectile) *component.Enemy {
	if e, ok := s.ecs.Enemies[p.TargetID]; ok && e.Alive {
		p.LastKnown = e.Pos
		return e
	}
	if p.TargetID == 0 {
		return nil
	}
	next := nearestUnhit(s.ecs.EnemiesNear(p.LastKnown, config.RetargetRadius), p.LastKnown, p)
	if next == nil {
		p.TargetID = 0
		return nil
	}
	p.TargetID = next.ID
	p.LastKnown = next.Pos
	return next
}

func (s *ProjectileSystem) impact(p *component.Projectile, victim *component.Enemy) {
	pl := &p.Payload

	dmg := pl.Damage + pl.OnApplyDamage + pl.BonusDamagePerDebuff*float64(victim.Effects.DebuffCount())
	if pl.Execute != nil && victim.HPFraction() <= pl.Execute.Percentage {
		dmg *= pl.Execute.DamageMultiplier
	}
	victim.TakeDamage(dmg, pl.ArmorShred, false)

	s.applier.ApplyAll(&victim.Body, pl.Effects, pl.Source)
	for _, c := range pl.Conditional {
		if victim.Effects.Has(c.IfTargetHas) && s.rng.Chance(c.Chance) {
			s.applier.ApplyRef(&victim.Body, c.Effect, pl)
		}
	}

	p.Hit[victim.ID] = struct{}{}
	if pl.DeathExplosion != nil {
		de := *pl.DeathExplosion
		victim.Explosion = &de
		victim.ExplosionSource = pl.Source
	}

	if pl.BlastRadius > 0 {
		for _, e := range s.ecs.EnemiesNear(victim.Pos, pl.BlastRadius) {
			if e.ID != victim.ID && !p.WasHit(e.ID) {
				e.TakeDamage(pl.Damage*pl.SplashRatio, pl.ArmorShred, false)
			}
			s.applier.ApplyAll(&e.Body, pl.BlastEffects, pl.Source)
		}
	}

	for _, area := range pl.AreaEffects {
		if !s.rng.Chance(area.Chance) {
			continue
		}
		for _, e := range s.ecs.EnemiesNear(victim.Pos, area.Radius) {
			if area.Damage > 0 {
				e.TakeDamage(area.Damage, pl.ArmorShred, false)
			}
			if area.Effect != nil {
				s.applier.ApplyRef(&e.Body, *area.Effect, pl)
			}
		}
	}

	if pl.Pierce <= 0 {
		p.Kill()
		return
	}
	pl.Pierce--
	next := nearestUnhit(s.ecs.EnemiesNear(victim.Pos, config.PierceSearchRadius), victim.Pos, p)
	if next == nil {
		p.Kill()
		return
	}
	p.TargetID = next.ID
	p.LastKnown = next.Pos
}
