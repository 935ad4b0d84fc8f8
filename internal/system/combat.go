// internal/system/combat.go
package system

import (
	"log"
	"math"

	"go-tower-director/internal/component"
	"go-tower-director/internal/config"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/effect"
	"go-tower-director/internal/entity"
	"go-tower-director/internal/targeting"
	"go-tower-director/internal/types"
)

const cooldownEps = 1e-9

// attackHandler создает снаряды или ауры для одного выстрела.
type attackHandler func(s *CombatSystem, t *component.Tower)

// CombatSystem управляет атакой башен
type CombatSystem struct {
	ecs       *entity.ECS
	targeting *targeting.Engine
	applier   *Applier
	handlers  map[defs.AttackType]attackHandler
	warned    map[defs.AttackType]bool
}

func NewCombatSystem(ecs *entity.ECS, engine *targeting.Engine, applier *Applier) *CombatSystem {
	return &CombatSystem{
		ecs:       ecs,
		targeting: engine,
		applier:   applier,
		handlers: map[defs.AttackType]attackHandler{
			defs.AttackStandardProjectile: (*CombatSystem).fireProjectiles,
			defs.AttackGroundAura:         (*CombatSystem).fireGroundAura,
			defs.AttackAttachedAura:       (*CombatSystem).fireAttachedAura,
		},
		warned: make(map[defs.AttackType]bool),
	}
}

// Update ticks cooldowns, refreshes target lists and fires ready towers.
func (s *CombatSystem) Update(dt float64) {
	for _, t := range s.ecs.SortedTowers() {
		if t.AttackType == defs.AttackUnknown {
			// башни поддержки не стреляют
			t.Targets = t.Targets[:0]
			continue
		}
		t.Cooldown -= dt
		candidates := s.ecs.EnemiesNear(t.Pos, t.Range())
		t.Targets = s.targeting.SelectTargets(candidates, t, s.ecs)
		if len(t.Targets) == 0 || t.Cooldown > cooldownEps {
			continue
		}
		handler, ok := s.handlers[t.AttackType]
		if !ok {
			if !s.warned[t.AttackType] {
				log.Printf("combat: tower %s has unsupported attack type %s", t.TypeID, t.AttackType)
				s.warned[t.AttackType] = true
			}
			continue
		}
		handler(s, t)
		t.ResetCooldown()
	}
}

func (s *CombatSystem) fireProjectiles(t *component.Tower) {
	n := t.Attack.ProjectilesPerShot
	if n < 1 {
		n = 1
	}
	primary := t.Targets[0]
	base := primary.Pos.Sub(t.Pos).Angle()
	spread := config.MultiShotSpreadDeg * 2 * math.Pi / 180
	for i := 0; i < n; i++ {
		target := t.Targets[i%len(t.Targets)]
		origin := t.Pos
		if n > 1 {
			angle := base + (float64(i)/float64(n-1)-0.5)*spread
			origin = origin.Add(types.FromAngle(angle, config.MultiShotOriginShift))
		}
		// эффекты бросаются на каждый снаряд отдельно
		payload := s.applier.BuildPayload(t)
		s.ecs.QueueProjectile(component.NewProjectile(s.ecs.NewEntity(), origin, target, payload))
	}
}

func (s *CombatSystem) fireGroundAura(t *component.Tower) {
	target := t.Targets[0]
	s.ecs.QueueAura(s.newAura(t, target.Pos, nil))
}

func (s *CombatSystem) fireAttachedAura(t *component.Tower) {
	target := t.Targets[0]
	s.ecs.QueueAura(s.newAura(t, target.Pos, target))
}

func (s *CombatSystem) newAura(t *component.Tower, pos types.Vec2, target *component.Enemy) *component.Aura {
	atk := &t.Attack
	radius := atk.Radius * t.Stats.Get(effect.StatAuraSize)
	payload := s.applier.BuildPayload(t)
	return component.NewAura(s.ecs.NewEntity(), pos, target, radius, atk.Duration, atk.TickRate, atk.DPS, atk.BonusVsArmor, payload)
}
