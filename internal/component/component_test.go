package component

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-tower-director/internal/defs"
	"go-tower-director/internal/types"
)

func testEnemy(hp, armor float64) *Enemy {
	def := &defs.EnemyDef{
		BaseStats: defs.BaseStats{HP: hp, Speed: 50, Armor: armor, Bounty: 5, Damage: 2},
		Scaling:   defs.Scaling{HP: 1, Speed: 1, Bounty: 1},
	}
	return NewEnemy(1, "grunt", def, 1, 0, []types.Vec2{{X: 0, Y: 0}, {X: 100, Y: 0}}, 1)
}

func TestTakeDamageMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		e := testEnemy(100, 0)
		for e.Alive {
			before := e.HP
			amount := float64(1 + rng.Intn(40))
			e.TakeDamage(amount, 0, false)
			require.Equal(t, math.Max(0, before-amount), e.HP)
			require.LessOrEqual(t, e.HP, before)
			require.GreaterOrEqual(t, e.HP, 0.0)
		}
		assert.Equal(t, 0.0, e.HP)
	}
}

func TestTakeDamageArmorAndShred(t *testing.T) {
	e := testEnemy(100, 5)
	e.TakeDamage(12, 0, false)
	assert.Equal(t, 93.0, e.HP)
	e.TakeDamage(12, 3, false)
	assert.Equal(t, 83.0, e.HP)
	// урон не меньше 1
	e.TakeDamage(2, 0, false)
	assert.Equal(t, 82.0, e.HP)
	e.TakeDamage(2.5, 0, true)
	assert.Equal(t, 79.5, e.HP)
	e.TakeDamage(0, 0, false)
	e.TakeDamage(-4, 0, false)
	assert.Equal(t, 79.5, e.HP)
}

func TestScaleStats(t *testing.T) {
	def := &defs.EnemyDef{
		BaseStats: defs.BaseStats{HP: 60, Speed: 60, Armor: 1, Bounty: 5, Damage: 3},
		Scaling:   defs.Scaling{HP: 1.25, Speed: 1.1, Bounty: 1.1},
	}
	st := ScaleStats(def, 3, 1.5)
	assert.Equal(t, math.Floor(60*1.25*1.25*1.5), st.HP)
	assert.InDelta(t, 60*1.1*1.1, st.Speed, 1e-9)
	assert.Equal(t, 6, st.Bounty)
	assert.Equal(t, 4, st.Damage)
	assert.Equal(t, 1.0, st.Armor)
}

func TestNewEnemyStartsAtFirstWaypoint(t *testing.T) {
	e := testEnemy(10, 0)
	assert.Equal(t, types.Vec2{}, e.Pos)
	assert.Equal(t, 1, e.Waypoint)
	idx, dist := e.Progress()
	assert.Equal(t, 1, idx)
	assert.Equal(t, 100.0, dist)
}

func TestGameStateSpendAndLatch(t *testing.T) {
	g := GameState{Gold: 50, BaseHP: 3}
	assert.False(t, g.Spend(60))
	assert.Equal(t, 50, g.Gold)
	assert.True(t, g.Spend(50))
	assert.Equal(t, 0, g.Gold)

	g.DamageBase(5)
	assert.True(t, g.GameOver)
	assert.Equal(t, 0, g.BaseHP)
}

func TestTowerCooldownInfiniteAtZeroRate(t *testing.T) {
	def := &defs.TowerDef{Cost: 10, Attack: defs.AttackDef{Type: defs.AttackStandardProjectile, Data: defs.AttackData{Damage: 1, Range: 50}}}
	tw := NewTower(2, "turret", def, Tile{X: 1, Y: 1}, 32, "closest")
	tw.ResetCooldown()
	assert.True(t, math.IsInf(tw.Cooldown, 1))
	assert.Equal(t, types.Vec2{X: 48, Y: 48}, tw.Pos)

	tw.Attack.FireRate = 4
	tw.SyncBaseStats()
	tw.ResetCooldown()
	assert.Equal(t, 0.25, tw.Cooldown)
}

func TestTowerAttackIsPrivateCopy(t *testing.T) {
	def := &defs.TowerDef{Attack: defs.AttackDef{Data: defs.AttackData{Effects: defs.EffectList{{ID: "slow", Potency: 0.5}}}}}
	a := NewTower(1, "x", def, Tile{}, 32, "closest")
	b := NewTower(2, "x", def, Tile{}, 32, "closest")
	a.Attack.Effects[0].Potency = 0.1
	a.Attack.Damage = 99
	assert.Equal(t, 0.5, b.Attack.Effects[0].Potency)
	assert.Equal(t, 0.5, def.Attack.Data.Effects[0].Potency)
	assert.Equal(t, 0.0, b.Attack.Damage)
}
