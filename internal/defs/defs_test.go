package defs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const configDir = "../../configs"

func TestLoadSampleCatalog(t *testing.T) {
	c, err := Load(configDir)
	require.NoError(t, err)

	turret, ok := c.Tower("turret")
	require.True(t, ok)
	assert.Equal(t, AttackStandardProjectile, turret.Attack.Type)
	assert.Equal(t, 10.0, turret.Attack.Data.Damage)
	assert.Equal(t, 1, turret.Attack.Data.ProjectilesPerShot)
	assert.Equal(t, 0.5, turret.Attack.Data.SplashRatio)
	assert.Len(t, turret.Upgrades.PathA.Upgrades, 3)
	assert.Equal(t, UpgradeAddDamage, turret.Upgrades.PathA.Upgrades[0].Effects[0].Kind)
	assert.Equal(t, 5.0, turret.Upgrades.PathA.Upgrades[0].Effects[0].Amount)

	shaman, ok := c.Enemy("shaman")
	require.True(t, ok)
	assert.Equal(t, VariantBuffer, shaman.Variant)
	require.Len(t, shaman.Auras, 1)
	assert.Equal(t, "fortify", shaman.Auras[0].Effects[0].ID)

	boss, ok := c.Enemy("warlord")
	require.True(t, ok)
	assert.Equal(t, VariantBoss, boss.Variant)

	p, ok := c.Persona("crowd")
	require.True(t, ok)
	assert.Equal(t, PriorityGroupDensity, p.Priority)

	d, id := c.Difficulty("missing")
	assert.Equal(t, "1", id)
	assert.Equal(t, 20, d.MaxWaves)

	poison, ok := c.Effect("poison")
	require.True(t, ok)
	assert.Equal(t, StackPotency, poison.Stacking)
	assert.Equal(t, 1.0, poison.Params.TickInterval)
}

func TestEffectListKeepsDeclarationOrder(t *testing.T) {
	var data struct {
		Effects EffectList `yaml:"effects"`
	}
	src := "effects:\n  slow: {duration: 2}\n  poison: {potency: 3}\n  burn: {}\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &data))
	assert.Equal(t, []string{"slow", "poison", "burn"}, data.Effects.IDs())
	assert.Equal(t, 2.0, data.Effects[0].Duration)

	src = "effects:\n  - {id: stun, duration: 1}\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &data))
	assert.Equal(t, []string{"stun"}, data.Effects.IDs())
}

func TestUnknownUpgradeKindFailsLoad(t *testing.T) {
	var set UpgradeSet
	src := "path_a:\n  upgrades:\n    - id: x\n      effects:\n        add_lasers: 3\n"
	err := yaml.Unmarshal([]byte(src), &set)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add_lasers")
}

func TestModifyAttackDataResolvesField(t *testing.T) {
	var set UpgradeSet
	src := "path_b:\n  upgrades:\n    - id: y\n      effects:\n        modify_attack_data: {key: pierce_count, operation: set, amount: 3}\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &set))
	ch := set.PathB.Upgrades[0].Effects[0].Change
	require.NotNil(t, ch)
	assert.Equal(t, FieldPierce, ch.Field)
	assert.Equal(t, OpSet, ch.Op)
}

func TestAttackDataCloneIsDeep(t *testing.T) {
	orig := AttackData{
		Damage:         5,
		Effects:        EffectList{{ID: "slow", Duration: 1, Potency: 0.5, Chance: 1}},
		Execute:        &ExecuteThreshold{Percentage: 0.1, DamageMultiplier: 2},
		DeathExplosion: &DeathExplosion{Radius: 10, Effect: &EffectRef{ID: "burn"}},
		AreaEffects:    []AreaEffect{{Chance: 1, Effect: &EffectRef{ID: "slow"}}},
	}
	cp := orig.Clone()
	cp.Effects[0].Potency = 9
	cp.Execute.Percentage = 0.9
	cp.DeathExplosion.Effect.ID = "poison"
	cp.AreaEffects[0].Effect.ID = "stun"
	cp.Effects = append(cp.Effects, EffectRef{ID: "poison"})

	assert.Equal(t, 0.5, orig.Effects[0].Potency)
	assert.Len(t, orig.Effects, 1)
	assert.Equal(t, 0.1, orig.Execute.Percentage)
	assert.Equal(t, "burn", orig.DeathExplosion.Effect.ID)
	assert.Equal(t, "slow", orig.AreaEffects[0].Effect.ID)
}

func TestMutateFieldTable(t *testing.T) {
	var a AttackData
	a.Damage = 10
	require.True(t, a.Mutate(FieldDamage, OpAdd, 5))
	require.True(t, a.Mutate(FieldDamage, OpMultiply, 2))
	assert.Equal(t, 30.0, a.Get(FieldDamage))
	require.True(t, a.Mutate(FieldProjectilesPerShot, OpSet, 3))
	assert.Equal(t, 3, a.ProjectilesPerShot)
	assert.False(t, a.Mutate(Field(99), OpAdd, 1))

	for f := Field(0); f < numFields; f++ {
		parsed, ok := ParseField(f.String())
		require.True(t, ok, f.String())
		assert.Equal(t, f, parsed)
	}
}

func TestLoadRejectsUnknownPersona(t *testing.T) {
	dir := copyConfigs(t)
	towers := "turret:\n  cost: 10\n  targeting_personas: [telepathy]\n  attack: {type: standard_projectile, data: {damage: 1}}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tower_types.yaml"), []byte(towers), 0o644))
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "upgrades")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "global_upgrades.yaml"), []byte("{}\n"), 0o644))

	_, err := Load(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownID))
}

func TestLoadMissingRequiredSection(t *testing.T) {
	dir := copyConfigs(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "tower_types.yaml")))
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tower_types")
}

func TestLoadAcceptsJSONSection(t *testing.T) {
	dir := copyConfigs(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "wave_scaling.yaml")))
	js := `{"enemy_count": {"base": 3, "per_wave": 1, "per_level_difficulty": 0}, "spawn_cooldown": {"base_seconds": 1, "minimum_seconds": 0.5}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wave_scaling.json"), []byte(js), 0o644))

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 3.0, c.WaveScaling.EnemyCount.Base)
	assert.Equal(t, 100.0, c.WaveScaling.Budget.Base)
}

func TestSpawnCooldownFloor(t *testing.T) {
	cd := SpawnCooldown{BaseSeconds: 1.2, ReductionPerWave: 0.1, ReductionPerLevelDifficulty: 0.1, MinimumSeconds: 0.3}
	assert.InDelta(t, 0.9, cd.At(2, 1), 1e-9)
	assert.Equal(t, 0.3, cd.At(50, 5))
}

func copyConfigs(t *testing.T) string {
	t.Helper()
	dst := t.TempDir()
	err := filepath.Walk(configDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(configDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	require.NoError(t, err)
	return dst
}
