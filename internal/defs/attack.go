// internal/defs/attack.go
package defs

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// AttackType selects the attack handler a tower fires through.
type AttackType int

const (
	AttackUnknown AttackType = iota
	AttackStandardProjectile
	AttackGroundAura
	AttackAttachedAura
)

var attackTypeNames = map[string]AttackType{
	"standard_projectile":      AttackStandardProjectile,
	"persistent_ground_aura":   AttackGroundAura,
	"persistent_attached_aura": AttackAttachedAura,
}

func (t AttackType) String() string {
	for name, v := range attackTypeNames {
		if v == t {
			return name
		}
	}
	return "unknown"
}

// UnmarshalYAML keeps unknown names as AttackUnknown: such towers load but
// never fire.
func (t *AttackType) UnmarshalYAML(value *yaml.Node) error {
	*t = attackTypeNames[value.Value]
	return nil
}

// AttackDef is the attack descriptor of a tower type.
type AttackDef struct {
	Type AttackType `yaml:"type"`
	Data AttackData `yaml:"data"`
}

// ExecuteThreshold multiplies damage against low-health targets.
type ExecuteThreshold struct {
	Percentage       float64 `yaml:"percentage"`
	DamageMultiplier float64 `yaml:"damage_multiplier"`
}

// DeathExplosion is triggered when a marked enemy dies.
type DeathExplosion struct {
	Radius float64    `yaml:"radius"`
	Damage float64    `yaml:"damage"`
	Effect *EffectRef `yaml:"effect"`
}

// ConditionalEffect applies Effect when the victim already has IfTargetHas.
type ConditionalEffect struct {
	IfTargetHas string    `yaml:"if_target_has"`
	Chance      float64   `yaml:"chance"`
	Effect      EffectRef `yaml:"effect"`
}

// AreaEffect is a chance-gated burst around the impact point.
type AreaEffect struct {
	Chance float64    `yaml:"chance"`
	Radius float64    `yaml:"radius"`
	Damage float64    `yaml:"damage"`
	Effect *EffectRef `yaml:"effect"`
}

// AttackData is the mutable data block of an attack. Every tower owns a
// private copy made with Clone.
type AttackData struct {
	Damage      float64 `yaml:"damage"`
	Range       float64 `yaml:"range"`
	FireRate    float64 `yaml:"fire_rate"`
	BlastRadius float64 `yaml:"blast_radius"`

	ProjectilesPerShot       int     `yaml:"projectiles_per_shot"`
	Pierce                   int     `yaml:"pierce"`
	ArmorShred               float64 `yaml:"armor_shred"`
	SplashRatio              float64 `yaml:"splash_damage_ratio"`
	OnApplyDamage            float64 `yaml:"on_apply_damage"`
	BonusDamagePerDebuff     float64 `yaml:"bonus_damage_per_debuff"`
	EffectDurationMultiplier float64 `yaml:"effect_duration_multiplier"`
	EffectPotencyMultiplier  float64 `yaml:"effect_potency_multiplier"`

	Execute        *ExecuteThreshold   `yaml:"execute_threshold"`
	DeathExplosion *DeathExplosion     `yaml:"on_death_explosion"`
	Effects        EffectList          `yaml:"effects"`
	BlastEffects   EffectList          `yaml:"on_blast_effects"`
	Conditional    []ConditionalEffect `yaml:"conditional_effects"`
	AreaEffects    []AreaEffect        `yaml:"on_hit_area_effects"`

	// Ауры
	Radius       float64 `yaml:"radius"`
	Duration     float64 `yaml:"duration"`
	DPS          float64 `yaml:"dps"`
	TickRate     float64 `yaml:"tick_rate"`
	BonusVsArmor float64 `yaml:"bonus_damage_vs_armor_multiplier"`
}

// Clone returns a deep copy: no slice or pointer is shared with a.
func (a AttackData) Clone() AttackData {
	out := a
	out.Effects = append(EffectList(nil), a.Effects...)
	out.BlastEffects = append(EffectList(nil), a.BlastEffects...)
	out.Conditional = append([]ConditionalEffect(nil), a.Conditional...)
	out.AreaEffects = make([]AreaEffect, len(a.AreaEffects))
	for i, ae := range a.AreaEffects {
		out.AreaEffects[i] = ae
		if ae.Effect != nil {
			e := *ae.Effect
			out.AreaEffects[i].Effect = &e
		}
	}
	if a.Execute != nil {
		e := *a.Execute
		out.Execute = &e
	}
	if a.DeathExplosion != nil {
		de := *a.DeathExplosion
		if de.Effect != nil {
			e := *de.Effect
			de.Effect = &e
		}
		out.DeathExplosion = &de
	}
	return out
}

// PrimaryEffect is the first on-hit effect id, or "".
func (a *AttackData) PrimaryEffect() string {
	if len(a.Effects) == 0 {
		return ""
	}
	return a.Effects[0].ID
}

func (a *AttackData) applyDefaults(t AttackType, splash float64) {
	if a.ProjectilesPerShot <= 0 {
		a.ProjectilesPerShot = 1
	}
	if a.SplashRatio == 0 {
		a.SplashRatio = splash
	}
	if a.EffectDurationMultiplier == 0 {
		a.EffectDurationMultiplier = 1
	}
	if a.EffectPotencyMultiplier == 0 {
		a.EffectPotencyMultiplier = 1
	}
	if a.Range == 0 {
		a.Range = 100
	}
	for i := range a.Effects {
		a.Effects[i] = a.Effects[i].WithDefaults()
	}
	for i := range a.BlastEffects {
		a.BlastEffects[i] = a.BlastEffects[i].WithDefaults()
	}
	for i := range a.Conditional {
		if a.Conditional[i].Chance == 0 {
			a.Conditional[i].Chance = 1
		}
		a.Conditional[i].Effect = a.Conditional[i].Effect.WithDefaults()
	}
	for i := range a.AreaEffects {
		if a.AreaEffects[i].Chance == 0 {
			a.AreaEffects[i].Chance = 1
		}
		if a.AreaEffects[i].Effect != nil {
			e := a.AreaEffects[i].Effect.WithDefaults()
			a.AreaEffects[i].Effect = &e
		}
	}
	if t == AttackGroundAura || t == AttackAttachedAura {
		if a.Radius == 0 {
			a.Radius = 50
		}
		if a.Duration == 0 {
			a.Duration = 3.0
		}
		if a.TickRate == 0 {
			a.TickRate = 4
		}
	}
}

// Field names a numeric slot of AttackData that upgrades may mutate.
type Field int

const (
	FieldDamage Field = iota
	FieldRange
	FieldFireRate
	FieldBlastRadius
	FieldProjectilesPerShot
	FieldPierce
	FieldArmorShred
	FieldSplashRatio
	FieldOnApplyDamage
	FieldBonusDamagePerDebuff
	FieldEffectDuration
	FieldEffectPotency
	FieldRadius
	FieldDuration
	FieldDPS
	FieldTickRate
	FieldBonusVsArmor
	numFields
)

type fieldAccess struct {
	name string
	get  func(*AttackData) float64
	set  func(*AttackData, float64)
}

var fieldTable = [numFields]fieldAccess{
	FieldDamage: {"damage",
		func(a *AttackData) float64 { return a.Damage },
		func(a *AttackData, v float64) { a.Damage = v }},
	FieldRange: {"range",
		func(a *AttackData) float64 { return a.Range },
		func(a *AttackData, v float64) { a.Range = v }},
	FieldFireRate: {"fire_rate",
		func(a *AttackData) float64 { return a.FireRate },
		func(a *AttackData, v float64) { a.FireRate = v }},
	FieldBlastRadius: {"blast_radius",
		func(a *AttackData) float64 { return a.BlastRadius },
		func(a *AttackData, v float64) { a.BlastRadius = v }},
	FieldProjectilesPerShot: {"projectiles_per_shot",
		func(a *AttackData) float64 { return float64(a.ProjectilesPerShot) },
		func(a *AttackData, v float64) { a.ProjectilesPerShot = int(math.Round(v)) }},
	FieldPierce: {"pierce",
		func(a *AttackData) float64 { return float64(a.Pierce) },
		func(a *AttackData, v float64) { a.Pierce = int(math.Round(v)) }},
	FieldArmorShred: {"armor_shred",
		func(a *AttackData) float64 { return a.ArmorShred },
		func(a *AttackData, v float64) { a.ArmorShred = v }},
	FieldSplashRatio: {"splash_damage_ratio",
		func(a *AttackData) float64 { return a.SplashRatio },
		func(a *AttackData, v float64) { a.SplashRatio = v }},
	FieldOnApplyDamage: {"on_apply_damage",
		func(a *AttackData) float64 { return a.OnApplyDamage },
		func(a *AttackData, v float64) { a.OnApplyDamage = v }},
	FieldBonusDamagePerDebuff: {"bonus_damage_per_debuff",
		func(a *AttackData) float64 { return a.BonusDamagePerDebuff },
		func(a *AttackData, v float64) { a.BonusDamagePerDebuff = v }},
	FieldEffectDuration: {"effect_duration_multiplier",
		func(a *AttackData) float64 { return a.EffectDurationMultiplier },
		func(a *AttackData, v float64) { a.EffectDurationMultiplier = v }},
	FieldEffectPotency: {"effect_potency_multiplier",
		func(a *AttackData) float64 { return a.EffectPotencyMultiplier },
		func(a *AttackData, v float64) { a.EffectPotencyMultiplier = v }},
	FieldRadius: {"radius",
		func(a *AttackData) float64 { return a.Radius },
		func(a *AttackData, v float64) { a.Radius = v }},
	FieldDuration: {"duration",
		func(a *AttackData) float64 { return a.Duration },
		func(a *AttackData, v float64) { a.Duration = v }},
	FieldDPS: {"dps",
		func(a *AttackData) float64 { return a.DPS },
		func(a *AttackData, v float64) { a.DPS = v }},
	FieldTickRate: {"tick_rate",
		func(a *AttackData) float64 { return a.TickRate },
		func(a *AttackData, v float64) { a.TickRate = v }},
	FieldBonusVsArmor: {"bonus_damage_vs_armor_multiplier",
		func(a *AttackData) float64 { return a.BonusVsArmor },
		func(a *AttackData, v float64) { a.BonusVsArmor = v }},
}

// ParseField resolves a data key. `pierce_count` is accepted as an alias.
func ParseField(name string) (Field, bool) {
	if name == "pierce_count" {
		return FieldPierce, true
	}
	for f := Field(0); f < numFields; f++ {
		if fieldTable[f].name == name {
			return f, true
		}
	}
	return 0, false
}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldTable[f].name
}

// Op is a typed mutation on a Field.
type Op int

const (
	OpAdd Op = iota
	OpMultiply
	OpSet
)

func ParseOp(name string) (Op, bool) {
	switch name {
	case "add":
		return OpAdd, true
	case "multiply":
		return OpMultiply, true
	case "set":
		return OpSet, true
	}
	return 0, false
}

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpMultiply:
		return "multiply"
	case OpSet:
		return "set"
	}
	return "op?"
}

// Get reads a field.
func (a *AttackData) Get(f Field) float64 {
	if f < 0 || f >= numFields {
		return 0
	}
	return fieldTable[f].get(a)
}

// Mutate applies op to field f. It reports false for an invalid field or op.
func (a *AttackData) Mutate(f Field, op Op, amount float64) bool {
	if f < 0 || f >= numFields {
		return false
	}
	acc := fieldTable[f]
	cur := acc.get(a)
	switch op {
	case OpAdd:
		acc.set(a, cur+amount)
	case OpMultiply:
		acc.set(a, cur*amount)
	case OpSet:
		acc.set(a, amount)
	default:
		return false
	}
	return true
}
