package upgrade

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-tower-director/internal/component"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/types"
)

func loadCatalog(t *testing.T) *defs.Catalog {
	t.Helper()
	cat, err := defs.Load("../../configs")
	require.NoError(t, err)
	return cat
}

func placeTurret(t *testing.T, cat *defs.Catalog, id int) *component.Tower {
	t.Helper()
	def, ok := cat.Tower("turret")
	require.True(t, ok)
	return component.NewTower(types.EntityID(id), "turret", def, component.Tile{X: 2, Y: 2}, 32, "closest")
}

func TestPathAdvancesInOrder(t *testing.T) {
	cat := loadCatalog(t)
	m := NewManager(cat)
	tw := placeTurret(t, cat, 1)

	next := m.Next(tw, defs.PathA)
	require.NotNil(t, next)
	assert.Equal(t, "turret_a1", next.ID)

	// прыгать через тир нельзя
	_, _, err := m.Resolve(tw, "turret_a2")
	assert.True(t, errors.Is(err, ErrNotFound))

	u, path, err := m.Resolve(tw, defs.PathA)
	require.NoError(t, err)
	m.Apply(tw, u, path)
	assert.Equal(t, 1, tw.TierA)
	assert.Equal(t, 15.0, tw.Damage())
	assert.Equal(t, 90, tw.TotalInvestment)

	u, path, err = m.Resolve(tw, "turret_a2")
	require.NoError(t, err)
	assert.Equal(t, defs.PathA, path)
	m.Apply(tw, u, path)
	assert.Equal(t, 3.0, tw.Attack.ArmorShred)
	require.NotNil(t, tw.Attack.Execute)
	assert.Equal(t, 2.0, tw.Attack.Execute.DamageMultiplier)
}

func TestPathBAndMaxedOut(t *testing.T) {
	cat := loadCatalog(t)
	m := NewManager(cat)
	tw := placeTurret(t, cat, 1)

	for i := 0; i < 3; i++ {
		u, path, err := m.Resolve(tw, defs.PathB)
		require.NoError(t, err)
		m.Apply(tw, u, path)
	}
	assert.InDelta(t, 2.5, tw.FireRate(), 1e-9)
	assert.Equal(t, 2, tw.Attack.ProjectilesPerShot)
	assert.Equal(t, 2, tw.Attack.Pierce)
	assert.Equal(t, 140.0, tw.Range())
	assert.Equal(t, 3, tw.TierB)

	_, _, err := m.Resolve(tw, defs.PathB)
	assert.True(t, errors.Is(err, ErrMaxed))
	assert.Nil(t, m.Next(tw, defs.PathB))
	assert.NotNil(t, m.Next(tw, defs.PathA))
}

func TestUpgradeDoesNotLeakToOtherTowers(t *testing.T) {
	cat := loadCatalog(t)
	m := NewManager(cat)
	a := placeTurret(t, cat, 1)
	b := placeTurret(t, cat, 2)

	u, path, err := m.Resolve(a, defs.PathA)
	require.NoError(t, err)
	m.Apply(a, u, path)

	assert.Equal(t, 15.0, a.Damage())
	assert.Equal(t, 10.0, b.Damage())
	def, _ := cat.Tower("turret")
	assert.Equal(t, 10.0, def.Attack.Data.Damage)
}

func TestApplyEffectKinds(t *testing.T) {
	a := defs.AttackData{Damage: 1, BlastRadius: 10, EffectDurationMultiplier: 1, EffectPotencyMultiplier: 1}
	slow := defs.EffectRef{ID: "slow", Duration: 1, Potency: 0.5, Chance: 1}
	explosion := &defs.DeathExplosion{Radius: 30, Damage: 5, Effect: &defs.EffectRef{ID: "burn"}}

	for _, eff := range []defs.UpgradeEffect{
		{Kind: defs.UpgradeAddEffect, Effect: &slow},
		{Kind: defs.UpgradeAddBlastEffect, Effect: &slow},
		{Kind: defs.UpgradeMultiplyBlastRadius, Amount: 1.5},
		{Kind: defs.UpgradeMultiplyEffectDuration, Amount: 2},
		{Kind: defs.UpgradeMultiplyEffectPotency, Amount: 0.5},
		{Kind: defs.UpgradeAddOnApplyDamage, Amount: 3},
		{Kind: defs.UpgradeAddBonusDamagePerDebuff, Amount: 2},
		{Kind: defs.UpgradeAddOnDeathExplosion, Explosion: explosion},
		{Kind: defs.UpgradeAddConditionalEffect, Conditional: &defs.ConditionalEffect{IfTargetHas: "slow", Chance: 1, Effect: slow}},
		{Kind: defs.UpgradeAddAreaEffectOnHit, Area: &defs.AreaEffect{Chance: 1, Radius: 20, Damage: 2}},
		{Kind: defs.UpgradeModifyAttackData, Change: &defs.AttackDataChange{Field: defs.FieldDamage, Op: defs.OpSet, Amount: 9}},
	} {
		ApplyEffect(&a, eff)
	}

	assert.Equal(t, []string{"slow"}, a.Effects.IDs())
	assert.Len(t, a.BlastEffects, 1)
	assert.Equal(t, 15.0, a.BlastRadius)
	assert.Equal(t, 2.0, a.EffectDurationMultiplier)
	assert.Equal(t, 0.5, a.EffectPotencyMultiplier)
	assert.Equal(t, 3.0, a.OnApplyDamage)
	assert.Equal(t, 2.0, a.BonusDamagePerDebuff)
	assert.Len(t, a.Conditional, 1)
	assert.Len(t, a.AreaEffects, 1)
	assert.Equal(t, 9.0, a.Damage)

	require.NotNil(t, a.DeathExplosion)
	explosion.Effect.ID = "poison"
	assert.Equal(t, "burn", a.DeathExplosion.Effect.ID)
}

func TestApplyTowerStat(t *testing.T) {
	cat := loadCatalog(t)
	tw := placeTurret(t, cat, 1)
	assert.True(t, ApplyTowerStat(tw, "damage", 2))
	assert.Equal(t, 12.0, tw.Damage())
	assert.False(t, ApplyTowerStat(tw, "charisma", 1))
}
