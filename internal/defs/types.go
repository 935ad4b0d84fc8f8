// internal/defs/types.go
package defs

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// EffectKind is the mechanical category of a status effect.
type EffectKind string

const (
	KindStatModifier   EffectKind = "stat_modifier"
	KindStatDebuff     EffectKind = "stat_debuff"
	KindDamageOverTime EffectKind = "damage_over_time"
)

// Stacking decides what happens when an effect with the same id lands twice.
type Stacking string

const (
	StackRefresh   Stacking = "refresh"
	StackPotency   Stacking = "stack_potency"
	StackIntensity Stacking = "stack_intensity"
)

// StatusEffectDef is one entry of status_effects.
type StatusEffectDef struct {
	Name     string       `yaml:"name"`
	Type     EffectKind   `yaml:"type"`
	Stacking Stacking     `yaml:"stacking"`
	Stun     bool         `yaml:"stun"`
	Params   EffectParams `yaml:"params"`
}

// EffectParams holds the per-type parameters of an effect definition.
type EffectParams struct {
	Stat         string        `yaml:"stat"`
	TickInterval float64       `yaml:"tick_interval"`
	Modifiers    []ModifierDef `yaml:"modifiers"`
}

// ModifierDef is an explicit stat modifier carried by an effect in addition
// to its main stat.
type ModifierDef struct {
	Stat      string  `yaml:"stat"`
	Operation string  `yaml:"operation"`
	Value     float64 `yaml:"value"`
}

// EffectRef references a status effect with instance parameters.
type EffectRef struct {
	ID       string  `yaml:"id"`
	Duration float64 `yaml:"duration"`
	Potency  float64 `yaml:"potency"`
	Chance   float64 `yaml:"chance"`
}

func (r EffectRef) WithDefaults() EffectRef {
	if r.Duration == 0 {
		r.Duration = 1.0
	}
	if r.Potency == 0 {
		r.Potency = 1.0
	}
	if r.Chance == 0 {
		r.Chance = 1.0
	}
	return r
}

// EffectList keeps effect references in declaration order. It accepts both
// a sequence of refs and the mapping form `{slow: {duration: 2}}`.
type EffectList []EffectRef

func (l *EffectList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var refs []EffectRef
		if err := value.Decode(&refs); err != nil {
			return err
		}
		*l = refs
		return nil
	case yaml.MappingNode:
		refs := make([]EffectRef, 0, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			var ref EffectRef
			if err := value.Content[i+1].Decode(&ref); err != nil {
				return err
			}
			ref.ID = value.Content[i].Value
			refs = append(refs, ref)
		}
		*l = refs
		return nil
	}
	return fmt.Errorf("effects: unexpected yaml node kind %d at line %d", value.Kind, value.Line)
}

// IDs returns the effect ids in declaration order.
func (l EffectList) IDs() []string {
	ids := make([]string, len(l))
	for i, ref := range l {
		ids[i] = ref.ID
	}
	return ids
}

// Priority is the closed set of target orderings a persona can map to.
type Priority int

const (
	PriorityClosest Priority = iota
	PriorityFirst
	PriorityLast
	PriorityStrongest
	PriorityWeakest
	PriorityHighestArmor
	PriorityLowestArmor
	PriorityGroupDensity
	PriorityUnaffected
)

var priorityNames = map[string]Priority{
	"closest":       PriorityClosest,
	"first":         PriorityFirst,
	"last":          PriorityLast,
	"strongest":     PriorityStrongest,
	"weakest":       PriorityWeakest,
	"highest_armor": PriorityHighestArmor,
	"lowest_armor":  PriorityLowestArmor,
	"group_density": PriorityGroupDensity,
	"unaffected":    PriorityUnaffected,
}

// ParsePriority accepts both `closest` and `sort_by_closest`.
func ParsePriority(name string) (Priority, bool) {
	p, ok := priorityNames[strings.TrimPrefix(name, "sort_by_")]
	return p, ok
}

func (p Priority) String() string {
	for name, v := range priorityNames {
		if v == p {
			return name
		}
	}
	return fmt.Sprintf("priority(%d)", int(p))
}

func (p *Priority) UnmarshalYAML(value *yaml.Node) error {
	parsed, ok := ParsePriority(value.Value)
	if !ok {
		return fmt.Errorf("unknown priority function %q at line %d", value.Value, value.Line)
	}
	*p = parsed
	return nil
}

// PersonaDef is one entry of targeting_ai.
type PersonaDef struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Priority    Priority `yaml:"priority_function"`
}

// AuraDef is an aura owned by an entity (buffer enemies, support towers).
type AuraDef struct {
	ID      string     `yaml:"id"`
	Range   float64    `yaml:"range"`
	Target  AuraTarget `yaml:"target_type"`
	Effects EffectList `yaml:"effects"`
}

// AuraTarget is the category an owned aura affects.
type AuraTarget string

const (
	AuraTargetEnemies AuraTarget = "enemies"
	AuraTargetTowers  AuraTarget = "towers"
)

// GlobalUpgradeDef is a permanent upgrade bought with meta currency.
type GlobalUpgradeDef struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Cost        int            `yaml:"cost"`
	Effects     []GlobalEffect `yaml:"effects"`
}

// GlobalEffect is `modify_game_state` or `modify_tower_stat`.
type GlobalEffect struct {
	Type  string            `yaml:"type"`
	Value GlobalEffectValue `yaml:"value"`
}

type GlobalEffectValue struct {
	Stat    string  `yaml:"stat"`
	TowerID string  `yaml:"tower_id"`
	Amount  float64 `yaml:"amount"`
}

const (
	GlobalModifyGameState = "modify_game_state"
	GlobalModifyTowerStat = "modify_tower_stat"
)

// GameSettings is game_settings.
type GameSettings struct {
	TileSize            int     `yaml:"tile_size"`
	Difficulty          string  `yaml:"difficulty"`
	LevelPreset         string  `yaml:"level_preset"`
	StartingGold        int     `yaml:"starting_gold"`
	StartingBaseHP      int     `yaml:"starting_base_hp"`
	SalvageRefundRatio  float64 `yaml:"salvage_refund_ratio"`
	SpatialCellSize     float64 `yaml:"spatial_cell_size"`
	SplashDamageRatio   float64 `yaml:"splash_damage_ratio"`
	DefaultPersona      string  `yaml:"default_persona"`
	MetaCurrencyPerWave int     `yaml:"meta_currency_per_wave"`
	VictoryBonus        int     `yaml:"victory_bonus"`
}
