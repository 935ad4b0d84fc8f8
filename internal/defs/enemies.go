// internal/defs/enemies.go
package defs

// EnemyVariant отличает обычных врагов от боссов и баферов.
type EnemyVariant string

const (
	VariantNormal EnemyVariant = "normal"
	VariantBoss   EnemyVariant = "boss"
	VariantBuffer EnemyVariant = "buffer"
)

// BaseStats are level-1 numbers before scaling.
type BaseStats struct {
	HP     float64 `yaml:"hp"`
	Speed  float64 `yaml:"speed"`
	Armor  float64 `yaml:"armor"`
	Bounty int     `yaml:"bounty"`
	Damage int     `yaml:"damage"`
}

// Scaling holds per-level multipliers, applied as factor^(level-1).
type Scaling struct {
	HP     float64 `yaml:"hp"`
	Speed  float64 `yaml:"speed"`
	Bounty float64 `yaml:"bounty"`
}

// EnemyDef holds all the static data for a specific type of enemy.
// Buffers and bosses share the same shape.
type EnemyDef struct {
	Name          string       `yaml:"name"`
	Variant       EnemyVariant `yaml:"-"`
	BaseStats     BaseStats    `yaml:"base_stats"`
	Scaling       Scaling      `yaml:"scaling"`
	ThreatCost    int          `yaml:"threat_cost"`
	MinDifficulty int          `yaml:"min_difficulty"`
	Auras         []AuraDef    `yaml:"auras"`
	Color         [3]uint8     `yaml:"color"`
	Size          float64      `yaml:"size"`
}

// PhalanxGroup is count escorts of one type.
type PhalanxGroup struct {
	Type  string `yaml:"type"`
	Count int    `yaml:"count"`
}

// BossDef is one entry of boss_types.
type BossDef struct {
	EnemyDef `yaml:",inline"`

	// Type is the boss family matched against a level style's allowed_boss_types.
	Type            string         `yaml:"type"`
	BossDifficulty  int            `yaml:"boss_difficulty"`
	SpawnDifficulty int            `yaml:"spawn_difficulty"`
	Phalanx         []PhalanxGroup `yaml:"phalanx"`
}

func (e *EnemyDef) applyDefaults(v EnemyVariant) {
	e.Variant = v
	if e.Scaling.HP == 0 {
		e.Scaling.HP = 1
	}
	if e.Scaling.Speed == 0 {
		e.Scaling.Speed = 1
	}
	if e.Scaling.Bounty == 0 {
		e.Scaling.Bounty = 1
	}
	if e.ThreatCost <= 0 {
		e.ThreatCost = 10
	}
	if e.BaseStats.HP <= 0 {
		e.BaseStats.HP = 1
	}
	if e.Size == 0 {
		e.Size = 9
	}
	for i := range e.Auras {
		for j := range e.Auras[i].Effects {
			e.Auras[i].Effects[j] = e.Auras[i].Effects[j].WithDefaults()
		}
		if e.Auras[i].Target == "" {
			e.Auras[i].Target = AuraTargetEnemies
		}
	}
}
