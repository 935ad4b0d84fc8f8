// internal/component/projectile.go
package component

import (
	"go-tower-director/internal/config"
	"go-tower-director/internal/types"
)

// Projectile представляет летящий снаряд.
type Projectile struct {
	Body
	TargetID  types.EntityID
	LastKnown types.Vec2 // последняя известная позиция цели
	Speed     float64
	Payload   Payload
	Hit       map[types.EntityID]struct{} // уже пораженные враги
}

func NewProjectile(id types.EntityID, origin types.Vec2, target *Enemy, p Payload) *Projectile {
	return &Projectile{
		Body: Body{
			ID:    id,
			Kind:  KindProjectile,
			Pos:   origin,
			HP:    1,
			MaxHP: 1,
			Alive: true,
		},
		TargetID:  target.ID,
		LastKnown: target.Pos,
		Speed:     config.ProjectileSpeed,
		Payload:   p,
		Hit:       make(map[types.EntityID]struct{}),
	}
}

func (p *Projectile) WasHit(id types.EntityID) bool {
	_, ok := p.Hit[id]
	return ok
}

// Aura — наземная или прикрепленная к врагу аура.
type Aura struct {
	Body
	Attached      bool
	TargetID      types.EntityID
	Radius        float64
	Remaining     float64
	TickInterval  float64
	TickTimer     float64
	DamagePerTick float64
	BonusVsArmor  float64
	Payload       Payload
}

// NewAura creates a ground aura at pos or, when target is non-nil, an aura
// attached to target.
func NewAura(id types.EntityID, pos types.Vec2, target *Enemy, radius, duration, tickRate, dps, bonusVsArmor float64, p Payload) *Aura {
	if tickRate <= 0 {
		tickRate = config.DefaultAuraTickRate
	}
	a := &Aura{
		Body: Body{
			ID:    id,
			Kind:  KindGroundAura,
			Pos:   pos,
			HP:    1,
			MaxHP: 1,
			Alive: true,
		},
		Radius:        radius,
		Remaining:     duration,
		TickInterval:  1 / tickRate,
		DamagePerTick: dps / tickRate,
		BonusVsArmor:  bonusVsArmor,
		Payload:       p,
	}
	if target != nil {
		a.Kind = KindAttachedAura
		a.Attached = true
		a.TargetID = target.ID
		a.Pos = target.Pos
	}
	return a
}
