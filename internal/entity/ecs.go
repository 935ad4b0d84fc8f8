// internal/entity/ecs.go
package entity

import (
	"sort"

	"go-tower-director/internal/component"
	"go-tower-director/internal/spatial"
	"go-tower-director/internal/types"
)

// ECS хранит все сущности сессии по видам и владеет пространственным
// индексом. Снаряды и ауры, созданные во время тика, ждут в pending до
// шага регистрации.
type ECS struct {
	GameTime    float64
	NextID      types.EntityID
	Enemies     map[types.EntityID]*component.Enemy
	Towers      map[types.EntityID]*component.Tower
	Projectiles map[types.EntityID]*component.Projectile
	Auras       map[types.EntityID]*component.Aura
	GameState   *component.GameState
	Index       *spatial.Grid

	pendingProjectiles []*component.Projectile
	pendingAuras       []*component.Aura
}

func NewECS(cellSize float64) *ECS {
	return &ECS{
		NextID:      1,
		Enemies:     make(map[types.EntityID]*component.Enemy),
		Towers:      make(map[types.EntityID]*component.Tower),
		Projectiles: make(map[types.EntityID]*component.Projectile),
		Auras:       make(map[types.EntityID]*component.Aura),
		GameState:   &component.GameState{},
		Index:       spatial.NewGrid(cellSize),
	}
}

func (ecs *ECS) NewEntity() types.EntityID {
	id := ecs.NextID
	ecs.NextID++
	return id
}

// AddEnemy регистрирует врага сразу: спавн идет до перестройки индекса.
func (ecs *ECS) AddEnemy(e *component.Enemy) {
	ecs.Enemies[e.ID] = e
	ecs.Index.Register(e, spatial.Enemy)
}

func (ecs *ECS) AddTower(t *component.Tower) {
	ecs.Towers[t.ID] = t
	ecs.Index.Register(t, spatial.Tower)
}

// QueueProjectile defers registration until FlushPending.
func (ecs *ECS) QueueProjectile(p *component.Projectile) {
	ecs.pendingProjectiles = append(ecs.pendingProjectiles, p)
}

func (ecs *ECS) QueueAura(a *component.Aura) {
	ecs.pendingAuras = append(ecs.pendingAuras, a)
}

// PendingCount is the number of entities waiting for registration.
func (ecs *ECS) PendingCount() int {
	return len(ecs.pendingProjectiles) + len(ecs.pendingAuras)
}

// FlushPending moves entities created this tick into the maps and index.
func (ecs *ECS) FlushPending() {
	for i, p := range ecs.pendingProjectiles {
		ecs.Projectiles[p.ID] = p
		ecs.Index.Register(p, spatial.Projectile)
		ecs.pendingProjectiles[i] = nil
	}
	ecs.pendingProjectiles = ecs.pendingProjectiles[:0]
	for i, a := range ecs.pendingAuras {
		ecs.Auras[a.ID] = a
		ecs.Index.Register(a, spatial.Aura)
		ecs.pendingAuras[i] = nil
	}
	ecs.pendingAuras = ecs.pendingAuras[:0]
}

// RebuildIndex clears the grid and registers every alive entity again.
func (ecs *ECS) RebuildIndex() {
	ecs.Index.Clear()
	for _, e := range ecs.SortedEnemies() {
		if e.Alive {
			ecs.Index.Register(e, spatial.Enemy)
		}
	}
	for _, t := range ecs.SortedTowers() {
		ecs.Index.Register(t, spatial.Tower)
	}
	for _, p := range ecs.SortedProjectiles() {
		if p.Alive {
			ecs.Index.Register(p, spatial.Projectile)
		}
	}
	for _, a := range ecs.SortedAuras() {
		if a.Alive {
			ecs.Index.Register(a, spatial.Aura)
		}
	}
}

// RemoveEnemy drops an enemy from the map and the index.
func (ecs *ECS) RemoveEnemy(id types.EntityID) {
	if e, ok := ecs.Enemies[id]; ok {
		ecs.Index.Remove(e)
		delete(ecs.Enemies, id)
	}
}

func (ecs *ECS) RemoveTower(id types.EntityID) {
	if t, ok := ecs.Towers[id]; ok {
		ecs.Index.Remove(t)
		delete(ecs.Towers, id)
	}
}

func (ecs *ECS) RemoveProjectile(id types.EntityID) {
	if p, ok := ecs.Projectiles[id]; ok {
		ecs.Index.Remove(p)
		delete(ecs.Projectiles, id)
	}
}

func (ecs *ECS) RemoveAura(id types.EntityID) {
	if a, ok := ecs.Auras[id]; ok {
		ecs.Index.Remove(a)
		delete(ecs.Auras, id)
	}
}

// AliveEnemies считает живых врагов на карте.
func (ecs *ECS) AliveEnemies() int {
	n := 0
	for _, e := range ecs.Enemies {
		if e.Alive {
			n++
		}
	}
	return n
}

// EnemiesNear returns alive enemies within r of center, ordered by id.
func (ecs *ECS) EnemiesNear(center types.Vec2, r float64) []*component.Enemy {
	bodies := ecs.Index.QueryRadius(center, r, spatial.Enemy)
	out := make([]*component.Enemy, 0, len(bodies))
	for _, b := range bodies {
		if e, ok := b.(*component.Enemy); ok {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TowersNear returns towers within r of center, ordered by id.
func (ecs *ECS) TowersNear(center types.Vec2, r float64) []*component.Tower {
	bodies := ecs.Index.QueryRadius(center, r, spatial.Tower)
	out := make([]*component.Tower, 0, len(bodies))
	for _, b := range bodies {
		if t, ok := b.(*component.Tower); ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Порядок обхода по id делает тик воспроизводимым при одном сиде.

func (ecs *ECS) SortedEnemies() []*component.Enemy {
	return sortedValues(ecs.Enemies)
}

func (ecs *ECS) SortedTowers() []*component.Tower {
	return sortedValues(ecs.Towers)
}

func (ecs *ECS) SortedProjectiles() []*component.Projectile {
	return sortedValues(ecs.Projectiles)
}

func (ecs *ECS) SortedAuras() []*component.Aura {
	return sortedValues(ecs.Auras)
}

func sortedValues[T any](m map[types.EntityID]*T) []*T {
	keys := make([]types.EntityID, 0, len(m))
	for id := range m {
		keys = append(keys, id)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	out := make([]*T, len(keys))
	for i, id := range keys {
		out[i] = m[id]
	}
	return out
}
