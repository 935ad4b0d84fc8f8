package effect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-tower-director/internal/defs"
)

var (
	slowDef   = defs.StatusEffectDef{Type: defs.KindStatModifier, Stacking: defs.StackRefresh, Params: defs.EffectParams{Stat: "speed"}}
	poisonDef = defs.StatusEffectDef{Type: defs.KindDamageOverTime, Stacking: defs.StackPotency, Params: defs.EffectParams{TickInterval: 1}}
	breakDef  = defs.StatusEffectDef{Type: defs.KindStatDebuff, Stacking: defs.StackIntensity, Params: defs.EffectParams{Stat: "armor"}}
	stunDef   = defs.StatusEffectDef{Type: defs.KindStatModifier, Stun: true, Params: defs.EffectParams{Stat: "speed"}}
)

func TestStackRefreshKeepsMax(t *testing.T) {
	var e Engine
	e.Apply(New("slow", &slowDef, 2, 0.5, 1))
	e.Apply(New("slow", &slowDef, 1, 0.7, 2))
	require.Equal(t, 1, e.Len())
	se, _ := e.Get("slow")
	assert.Equal(t, 0.7, se.Potency)
	assert.Equal(t, 2.0, se.Remaining)
}

func TestStackPotencySums(t *testing.T) {
	for _, def := range []defs.StatusEffectDef{poisonDef, breakDef} {
		var e Engine
		e.Apply(New("x", &def, 1, 2, 1))
		e.Apply(New("x", &def, 3, 3, 1))
		se, ok := e.Get("x")
		require.True(t, ok)
		assert.Equal(t, 5.0, se.Potency, def.Stacking)
		assert.Equal(t, 3.0, se.Remaining, def.Stacking)
	}
}

func TestDoTExactTickCount(t *testing.T) {
	for _, dt := range []float64{1.0 / 60, 1.0 / 30, 0.1, 0.7, 1.0, 1.3, 3.0, 5.0} {
		var e Engine
		stats := NewEnemyStats(50, 0)
		e.Apply(New("poison", &poisonDef, 3, 4, 1))
		total := 0.0
		for elapsed := 0.0; elapsed < 3.5; elapsed += dt {
			total += e.Update(dt, &stats)
		}
		assert.InDelta(t, 12.0, total, 1e-9, "dt=%v", dt)
		assert.Equal(t, 0, e.Len(), "dt=%v", dt)
	}
}

func TestUpdateZeroIsIdempotent(t *testing.T) {
	var e Engine
	stats := NewEnemyStats(80, 4)
	e.Apply(New("slow", &slowDef, 2, 0.5, 1))
	e.Apply(New("break", &breakDef, 2, 1.5, 1))

	e.Update(0, &stats)
	speed, armor := stats.Get(StatSpeed), stats.Get(StatArmor)
	e.Update(0, &stats)
	assert.Equal(t, speed, stats.Get(StatSpeed))
	assert.Equal(t, armor, stats.Get(StatArmor))
	assert.Equal(t, 40.0, speed)
	assert.Equal(t, 2.5, armor)
}

func TestSpeedFloorUnlessStunned(t *testing.T) {
	var e Engine
	stats := NewEnemyStats(20, 0)
	e.Apply(New("slow", &slowDef, 2, 0.01, 1))
	e.Update(0, &stats)
	assert.Equal(t, MinSpeed, stats.Get(StatSpeed))

	e.Apply(New("stun", &stunDef, 1, 0.0001, 1))
	e.Update(0, &stats)
	assert.Less(t, stats.Get(StatSpeed), MinSpeed)
	assert.True(t, e.Stunned())
}

func TestExtraModifiersReplayInOrder(t *testing.T) {
	def := defs.StatusEffectDef{
		Type:   defs.KindStatModifier,
		Params: defs.EffectParams{Stat: "armor", Modifiers: []defs.ModifierDef{{Stat: "armor", Operation: "add", Value: 1}}},
	}
	var e Engine
	stats := NewEnemyStats(50, 2)
	e.Apply(New("fortify", &def, 1, 3, 0))
	e.Update(0, &stats)
	// (2*3)+1
	assert.Equal(t, 7.0, stats.Get(StatArmor))
}

func TestExpiredEffectRestoresBase(t *testing.T) {
	var e Engine
	stats := NewEnemyStats(60, 0)
	e.Apply(New("slow", &slowDef, 0.5, 0.5, 1))
	e.Update(0.1, &stats)
	assert.Equal(t, 30.0, stats.Get(StatSpeed))
	e.Update(0.5, &stats)
	assert.Equal(t, 0, e.Len())
	assert.Equal(t, 60.0, stats.Get(StatSpeed))
}

func TestUntrackedStatIgnored(t *testing.T) {
	var e Engine
	stats := NewTowerStats(10, 100, 1)
	e.Apply(New("slow", &slowDef, 1, 0.5, 1))
	e.Update(0, &stats)
	assert.Equal(t, 0.0, stats.Get(StatSpeed))
	assert.Equal(t, 10.0, stats.Get(StatDamage))
}

func TestDebuffCountSkipsFriendly(t *testing.T) {
	var e Engine
	e.Apply(New("slow", &slowDef, 1, 0.5, 1))
	buff := New("fortify", &slowDef, 1, 2, 2)
	buff.Friendly = true
	e.Apply(buff)
	assert.Equal(t, 1, e.DebuffCount())
	assert.Equal(t, []string{"slow", "fortify"}, e.IDs())
}
