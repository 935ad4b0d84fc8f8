// internal/app/tower_management.go
package app

import (
	"errors"
	"log"
	"math"
	"slices"

	"go-tower-director/internal/component"
	"go-tower-director/internal/event"
	"go-tower-director/internal/level"
	"go-tower-director/internal/types"
	"go-tower-director/internal/upgrade"
)

// PlaceTower attempts to place a tower of typeID on tile (x, y).
func (g *Game) PlaceTower(typeID string, x, y int) bool {
	if g.Over() {
		return false
	}
	if !slices.Contains(g.buildable, typeID) {
		log.Printf("app: tower %q is not buildable in this session", typeID)
		return false
	}
	def, ok := g.Catalog.Tower(typeID)
	if !ok {
		log.Printf("app: unknown tower type %q", typeID)
		return false
	}
	if !g.Level.Grid.IsBuildable(x, y) {
		log.Printf("app: tile (%d,%d) is %s, cannot build", x, y, g.Level.Grid.At(x, y))
		return false
	}
	if !g.ECS.GameState.Spend(def.Cost) {
		log.Printf("app: not enough gold for %s (%d < %d)", typeID, g.ECS.GameState.Gold, def.Cost)
		return false
	}

	tile := component.Tile{X: x, Y: y}
	t := component.NewTower(g.ECS.NewEntity(), typeID, def, tile, g.TileSize, def.DefaultPersona)
	for stat, amount := range g.towerMods[typeID] {
		upgrade.ApplyTowerStat(t, stat, amount)
	}
	g.Level.Grid.Set(x, y, level.TowerOccupied)
	g.ECS.AddTower(t)

	g.Events.Dispatch(event.Event{Type: event.TowerPlaced, Data: event.TowerData{ID: t.ID, TypeID: typeID, X: x, Y: y}})
	return true
}

// UpgradeTower applies the next tier named by ref, an upgrade id or a path
// name.
func (g *Game) UpgradeTower(id types.EntityID, ref string) bool {
	if g.Over() {
		return false
	}
	t, ok := g.ECS.Towers[id]
	if !ok {
		log.Printf("app: upgrade of unknown tower %d", id)
		return false
	}
	u, path, err := g.Upgrades.Resolve(t, ref)
	if err != nil {
		if !errors.Is(err, upgrade.ErrMaxed) {
			log.Printf("app: %v", err)
		} else {
			log.Printf("app: tower %d %s is maxed out", id, path)
		}
		return false
	}
	if !g.ECS.GameState.Spend(u.Cost) {
		log.Printf("app: not enough gold for %s (%d < %d)", u.ID, g.ECS.GameState.Gold, u.Cost)
		return false
	}
	g.Upgrades.Apply(t, u, path)

	g.Events.Dispatch(event.Event{Type: event.TowerUpgraded, Data: event.TowerData{ID: t.ID, TypeID: t.TypeID, X: t.Tile.X, Y: t.Tile.Y, Upgrade: u.ID}})
	return true
}

// SalvageTower removes a tower and refunds part of everything spent on it.
func (g *Game) SalvageTower(id types.EntityID) bool {
	if g.Over() {
		return false
	}
	t, ok := g.ECS.Towers[id]
	if !ok {
		log.Printf("app: salvage of unknown tower %d", id)
		return false
	}
	refund := int(math.Floor(float64(t.TotalInvestment) * g.Catalog.Settings.SalvageRefundRatio))
	g.ECS.GameState.Earn(refund)
	g.Level.Grid.Set(t.Tile.X, t.Tile.Y, level.Buildable)
	g.ECS.RemoveTower(id)

	g.Events.Dispatch(event.Event{Type: event.TowerSalvaged, Data: event.TowerData{ID: t.ID, TypeID: t.TypeID, X: t.Tile.X, Y: t.Tile.Y, Refund: refund}})
	return true
}

// SetPersona switches the targeting persona of a tower. The persona must
// exist and be eligible for the tower type.
func (g *Game) SetPersona(id types.EntityID, persona string) bool {
	t, ok := g.ECS.Towers[id]
	if !ok {
		log.Printf("app: persona change for unknown tower %d", id)
		return false
	}
	if _, ok := g.Catalog.Persona(persona); !ok {
		log.Printf("app: unknown persona %q", persona)
		return false
	}
	def, ok := g.Catalog.Tower(t.TypeID)
	if !ok || !def.AllowsPersona(persona) {
		log.Printf("app: persona %q is not allowed for %s", persona, t.TypeID)
		return false
	}
	t.Persona = persona
	return true
}

// TowerAt returns the tower on tile (x, y), if any.
func (g *Game) TowerAt(x, y int) *component.Tower {
	for _, t := range g.ECS.SortedTowers() {
		if t.Tile.X == x && t.Tile.Y == y {
			return t
		}
	}
	return nil
}

// CyclePersona switches the tower to the next persona it allows, in catalog
// order, and returns it.
func (g *Game) CyclePersona(id types.EntityID) (string, bool) {
	t, ok := g.ECS.Towers[id]
	if !ok {
		return "", false
	}
	def, ok := g.Catalog.Tower(t.TypeID)
	if !ok {
		return "", false
	}
	var eligible []string
	for _, p := range g.Catalog.PersonaIDs() {
		if def.AllowsPersona(p) {
			eligible = append(eligible, p)
		}
	}
	if len(eligible) == 0 {
		return "", false
	}
	next := eligible[(slices.Index(eligible, t.Persona)+1)%len(eligible)]
	return next, g.SetPersona(id, next)
}
