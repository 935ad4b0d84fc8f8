package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-tower-director/internal/component"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/types"
)

func enemyAt(ecs *ECS, x, y float64) *component.Enemy {
	def := &defs.EnemyDef{BaseStats: defs.BaseStats{HP: 10, Speed: 10}, Scaling: defs.Scaling{HP: 1, Speed: 1, Bounty: 1}}
	e := component.NewEnemy(ecs.NewEntity(), "grunt", def, 1, 0, []types.Vec2{{X: x, Y: y}}, 1)
	ecs.AddEnemy(e)
	return e
}

func TestPendingRegisteredOnFlush(t *testing.T) {
	ecs := NewECS(64)
	target := enemyAt(ecs, 10, 10)
	p := component.NewProjectile(ecs.NewEntity(), types.Vec2{}, target, component.Payload{})
	ecs.QueueProjectile(p)

	assert.Empty(t, ecs.Projectiles)
	assert.False(t, ecs.Index.Contains(p.ID))
	assert.Equal(t, 1, ecs.PendingCount())

	ecs.FlushPending()
	assert.Len(t, ecs.Projectiles, 1)
	assert.True(t, ecs.Index.Contains(p.ID))
	assert.Equal(t, 0, ecs.PendingCount())
}

func TestEnemiesNearSkipsDeadAndOrdersByID(t *testing.T) {
	ecs := NewECS(64)
	c := enemyAt(ecs, 30, 0)
	a := enemyAt(ecs, 10, 0)
	b := enemyAt(ecs, 20, 0)
	b.Kill()

	near := ecs.EnemiesNear(types.Vec2{}, 50)
	require.Len(t, near, 2)
	assert.Equal(t, c.ID, near[0].ID)
	assert.Equal(t, a.ID, near[1].ID)
}

func TestRebuildIndexDropsDead(t *testing.T) {
	ecs := NewECS(64)
	a := enemyAt(ecs, 10, 0)
	b := enemyAt(ecs, 20, 0)
	a.Kill()
	ecs.RebuildIndex()
	assert.False(t, ecs.Index.Contains(a.ID))
	assert.True(t, ecs.Index.Contains(b.ID))

	ecs.RemoveEnemy(b.ID)
	assert.False(t, ecs.Index.Contains(b.ID))
	assert.Len(t, ecs.Enemies, 1)
	assert.Equal(t, 0, ecs.AliveEnemies())
}
