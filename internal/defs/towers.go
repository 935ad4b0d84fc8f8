// internal/defs/towers.go
package defs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Path names of the two upgrade branches.
const (
	PathA = "path_a"
	PathB = "path_b"
)

// TowerDef holds all the static data for a specific type of tower.
type TowerDef struct {
	Name           string     `yaml:"name"`
	Description    string     `yaml:"description"`
	Cost           int        `yaml:"cost"`
	UnlockCost     int        `yaml:"unlock_cost"`
	Attack         AttackDef  `yaml:"attack"`
	Personas       []string   `yaml:"targeting_personas"`
	DefaultPersona string     `yaml:"default_persona"`
	Auras          []AuraDef  `yaml:"auras"`
	Color          [3]uint8   `yaml:"color"`
	Upgrades       UpgradeSet `yaml:"-"`
}

// AllowsPersona reports whether persona is eligible for this tower type.
// An empty list allows every persona.
func (t *TowerDef) AllowsPersona(persona string) bool {
	if len(t.Personas) == 0 {
		return true
	}
	for _, p := range t.Personas {
		if p == persona {
			return true
		}
	}
	return false
}

// UpgradeSet is the content of upgrades/<tower>.yaml.
type UpgradeSet struct {
	PathA UpgradePath `yaml:"path_a"`
	PathB UpgradePath `yaml:"path_b"`
}

// Path returns the named branch.
func (s *UpgradeSet) Path(name string) (*UpgradePath, bool) {
	switch name {
	case PathA:
		return &s.PathA, true
	case PathB:
		return &s.PathB, true
	}
	return nil, false
}

type UpgradePath struct {
	Name     string       `yaml:"name"`
	Upgrades []UpgradeDef `yaml:"upgrades"`
}

// UpgradeDef is a single tier of an upgrade path.
type UpgradeDef struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Cost        int            `yaml:"cost"`
	Description string         `yaml:"description"`
	Effects     UpgradeEffects `yaml:"effects"`
}

// UpgradeKind is the closed set of upgrade effect applicators.
type UpgradeKind int

const (
	UpgradeAddDamage UpgradeKind = iota
	UpgradeAddRange
	UpgradeMultiplyFireRate
	UpgradeSetProjectilesPerShot
	UpgradeSetPierce
	UpgradeAddArmorShred
	UpgradeAddEffect
	UpgradeAddExecuteThreshold
	UpgradeMultiplyBlastRadius
	UpgradeAddBlastEffect
	UpgradeMultiplyEffectDuration
	UpgradeMultiplyEffectPotency
	UpgradeAddOnApplyDamage
	UpgradeAddOnDeathExplosion
	UpgradeAddBonusDamagePerDebuff
	UpgradeAddConditionalEffect
	UpgradeAddAreaEffectOnHit
	UpgradeModifyAttackData
)

var upgradeKindNames = []string{
	UpgradeAddDamage:               "add_damage",
	UpgradeAddRange:                "add_range",
	UpgradeMultiplyFireRate:        "multiply_fire_rate",
	UpgradeSetProjectilesPerShot:   "set_projectiles_per_shot",
	UpgradeSetPierce:               "set_pierce",
	UpgradeAddArmorShred:           "add_armor_shred",
	UpgradeAddEffect:               "add_effect",
	UpgradeAddExecuteThreshold:     "add_execute_threshold",
	UpgradeMultiplyBlastRadius:     "multiply_blast_radius",
	UpgradeAddBlastEffect:          "add_blast_effect",
	UpgradeMultiplyEffectDuration:  "multiply_effect_duration",
	UpgradeMultiplyEffectPotency:   "multiply_effect_potency",
	UpgradeAddOnApplyDamage:        "add_on_apply_damage",
	UpgradeAddOnDeathExplosion:     "add_on_death_explosion",
	UpgradeAddBonusDamagePerDebuff: "add_bonus_damage_per_debuff",
	UpgradeAddConditionalEffect:    "add_conditional_effect",
	UpgradeAddAreaEffectOnHit:      "add_area_effect_on_hit",
	UpgradeModifyAttackData:        "modify_attack_data",
}

func ParseUpgradeKind(name string) (UpgradeKind, bool) {
	for i, n := range upgradeKindNames {
		if n == name {
			return UpgradeKind(i), true
		}
	}
	return 0, false
}

func (k UpgradeKind) String() string {
	if int(k) < 0 || int(k) >= len(upgradeKindNames) {
		return fmt.Sprintf("upgrade(%d)", int(k))
	}
	return upgradeKindNames[k]
}

// AttackDataChange is the payload of modify_attack_data.
type AttackDataChange struct {
	Key       string  `yaml:"key"`
	Operation string  `yaml:"operation"`
	Amount    float64 `yaml:"amount"`

	Field Field `yaml:"-"`
	Op    Op    `yaml:"-"`
}

// UpgradeEffect is one typed mutation. Only the payload matching Kind is set.
type UpgradeEffect struct {
	Kind   UpgradeKind
	Amount float64

	Effect      *EffectRef
	Conditional *ConditionalEffect
	Area        *AreaEffect
	Execute     *ExecuteThreshold
	Explosion   *DeathExplosion
	Change      *AttackDataChange
}

// UpgradeEffects decodes the mapping form `{add_damage: 5, add_effect: {...}}`
// in declaration order. Unknown keys fail the load.
type UpgradeEffects []UpgradeEffect

func (u *UpgradeEffects) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("upgrade effects: expected mapping at line %d", value.Line)
	}
	out := make(UpgradeEffects, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		kind, ok := ParseUpgradeKind(key.Value)
		if !ok {
			return fmt.Errorf("unknown upgrade effect %q at line %d", key.Value, key.Line)
		}
		eff := UpgradeEffect{Kind: kind}
		var err error
		switch kind {
		case UpgradeAddEffect, UpgradeAddBlastEffect:
			eff.Effect = new(EffectRef)
			err = val.Decode(eff.Effect)
			if err == nil {
				*eff.Effect = eff.Effect.WithDefaults()
			}
		case UpgradeAddConditionalEffect:
			eff.Conditional = new(ConditionalEffect)
			err = val.Decode(eff.Conditional)
			if err == nil {
				if eff.Conditional.Chance == 0 {
					eff.Conditional.Chance = 1
				}
				eff.Conditional.Effect = eff.Conditional.Effect.WithDefaults()
			}
		case UpgradeAddAreaEffectOnHit:
			eff.Area = new(AreaEffect)
			err = val.Decode(eff.Area)
			if err == nil && eff.Area.Chance == 0 {
				eff.Area.Chance = 1
			}
			if err == nil && eff.Area.Effect != nil {
				e := eff.Area.Effect.WithDefaults()
				eff.Area.Effect = &e
			}
		case UpgradeAddExecuteThreshold:
			eff.Execute = new(ExecuteThreshold)
			err = val.Decode(eff.Execute)
		case UpgradeAddOnDeathExplosion:
			eff.Explosion = new(DeathExplosion)
			err = val.Decode(eff.Explosion)
			if err == nil && eff.Explosion.Effect != nil {
				e := eff.Explosion.Effect.WithDefaults()
				eff.Explosion.Effect = &e
			}
		case UpgradeModifyAttackData:
			eff.Change = new(AttackDataChange)
			if err = val.Decode(eff.Change); err == nil {
				err = eff.Change.resolve()
			}
		default:
			err = val.Decode(&eff.Amount)
		}
		if err != nil {
			return fmt.Errorf("upgrade effect %s: %w", key.Value, err)
		}
		out = append(out, eff)
	}
	*u = out
	return nil
}

func (c *AttackDataChange) resolve() error {
	f, ok := ParseField(c.Key)
	if !ok {
		return fmt.Errorf("unknown attack data key %q", c.Key)
	}
	op, ok := ParseOp(c.Operation)
	if !ok {
		return fmt.Errorf("unknown operation %q", c.Operation)
	}
	c.Field, c.Op = f, op
	return nil
}
