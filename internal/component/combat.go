// internal/component/combat.go
package component

import (
	"go-tower-director/internal/defs"
	"go-tower-director/internal/effect"
	"go-tower-director/internal/types"
)

// Kind — тег варианта сущности
type Kind int

const (
	KindEnemy Kind = iota
	KindTower
	KindProjectile
	KindGroundAura
	KindAttachedAura
)

func (k Kind) String() string {
	switch k {
	case KindEnemy:
		return "enemy"
	case KindTower:
		return "tower"
	case KindProjectile:
		return "projectile"
	case KindGroundAura:
		return "ground_aura"
	case KindAttachedAura:
		return "attached_aura"
	}
	return "unknown"
}

// Body — общая часть всех сущностей: позиция, здоровье, эффекты.
type Body struct {
	ID    types.EntityID
	Kind  Kind
	Pos   types.Vec2
	HP    float64
	MaxHP float64
	Alive bool

	Effects effect.Engine
	Stats   effect.Stats
	Auras   []defs.AuraDef // собственные ауры (баферы, башни поддержки)
}

func (b *Body) EntityID() types.EntityID { return b.ID }
func (b *Body) Position() types.Vec2     { return b.Pos }
func (b *Body) IsAlive() bool            { return b.Alive }

// Kill помечает сущность мертвой; удаление делает reaper в конце тика.
func (b *Body) Kill() { b.Alive = false }

// HPFraction is HP/MaxHP, or 0 for a body without health.
func (b *Body) HPFraction() float64 {
	if b.MaxHP <= 0 {
		return 0
	}
	return b.HP / b.MaxHP
}

// EffectInstance — эффект, замороженный в момент выстрела.
type EffectInstance struct {
	ID       string
	Duration float64
	Potency  float64
}

// Payload is the frozen attack state a projectile or aura carries.
type Payload struct {
	Source types.EntityID

	Damage       float64
	Effects      []EffectInstance
	Pierce       int
	BlastRadius  float64
	SplashRatio  float64
	ArmorShred   float64
	BlastEffects []EffectInstance
	Conditional  []defs.ConditionalEffect
	AreaEffects  []defs.AreaEffect

	Execute              *defs.ExecuteThreshold
	OnApplyDamage        float64
	BonusDamagePerDebuff float64
	DeathExplosion       *defs.DeathExplosion

	// Множители эффектов на момент выстрела, для conditional/area эффектов.
	DurationMultiplier float64
	PotencyMultiplier  float64
}
