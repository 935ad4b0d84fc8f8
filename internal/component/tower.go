// internal/component/tower.go
package component

import (
	"math"

	"go-tower-director/internal/defs"
	"go-tower-director/internal/effect"
	"go-tower-director/internal/types"
)

type Tower struct {
	Body
	TypeID          string
	Tile            Tile
	Cost            int
	TotalInvestment int // сумма всех трат на башню, база для возврата
	AttackType      defs.AttackType
	Attack          defs.AttackData // приватная копия, не делится между башнями
	TierA, TierB    int
	Persona         string
	Cooldown        float64
	Targets         []*Enemy
}

// NewTower places a tower of def on tile.
func NewTower(id types.EntityID, typeID string, def *defs.TowerDef, tile Tile, tileSize int, persona string) *Tower {
	attack := def.Attack.Data.Clone()
	return &Tower{
		Body: Body{
			ID:    id,
			Kind:  KindTower,
			Pos:   TileCenter(tile, tileSize),
			HP:    1,
			MaxHP: 1,
			Alive: true,
			Stats: effect.NewTowerStats(attack.Damage, attack.Range, attack.FireRate),
			Auras: def.Auras,
		},
		TypeID:          typeID,
		Tile:            tile,
		Cost:            def.Cost,
		TotalInvestment: def.Cost,
		AttackType:      def.Attack.Type,
		Attack:          attack,
		Persona:         persona,
	}
}

// SyncBaseStats copies the attack block numbers into the stat bases after
// an upgrade and recomputes current values.
func (t *Tower) SyncBaseStats() {
	t.Stats.SetBase(effect.StatDamage, t.Attack.Damage)
	t.Stats.SetBase(effect.StatRange, t.Attack.Range)
	t.Stats.SetBase(effect.StatFireRate, t.Attack.FireRate)
	t.Effects.Recompute(&t.Stats)
}

func (t *Tower) Damage() float64   { return t.Stats.Get(effect.StatDamage) }
func (t *Tower) Range() float64    { return t.Stats.Get(effect.StatRange) }
func (t *Tower) FireRate() float64 { return t.Stats.Get(effect.StatFireRate) }

// ResetCooldown sets 1/fire_rate, or +Inf when the tower cannot fire.
func (t *Tower) ResetCooldown() {
	fr := t.FireRate()
	if fr <= 0 {
		t.Cooldown = math.Inf(1)
		return
	}
	t.Cooldown = 1 / fr
}
