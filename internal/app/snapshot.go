// internal/app/snapshot.go
package app

import (
	"go-tower-director/internal/component"
	"go-tower-director/internal/event"
	"go-tower-director/internal/types"
)

// EntitySnapshot is the wire view of one entity.
type EntitySnapshot struct {
	ID      types.EntityID `json:"id" msgpack:"id"`
	Kind    string         `json:"kind" msgpack:"kind"`
	TypeID  string         `json:"type_id,omitempty" msgpack:"type_id,omitempty"`
	Pos     types.Vec2     `json:"pos" msgpack:"pos"`
	HP      float64        `json:"hp" msgpack:"hp"`
	MaxHP   float64        `json:"max_hp" msgpack:"max_hp"`
	Alive   bool           `json:"alive" msgpack:"alive"`
	Range   float64        `json:"range,omitempty" msgpack:"range,omitempty"`
	Variant string         `json:"variant,omitempty" msgpack:"variant,omitempty"`
	Persona string         `json:"persona,omitempty" msgpack:"persona,omitempty"`
	TierA   int            `json:"tier_a,omitempty" msgpack:"tier_a,omitempty"`
	TierB   int            `json:"tier_b,omitempty" msgpack:"tier_b,omitempty"`
	Effects []string       `json:"effects,omitempty" msgpack:"effects,omitempty"`
}

// StateSnapshot is the economy and wave view.
type StateSnapshot struct {
	Gold           int     `json:"gold" msgpack:"gold"`
	BaseHP         int     `json:"base_hp" msgpack:"base_hp"`
	Wave           int     `json:"wave" msgpack:"wave"`
	MaxWaves       int     `json:"max_waves" msgpack:"max_waves"`
	TimeToNextWave float64 `json:"time_to_next_wave" msgpack:"time_to_next_wave"`
	Phase          string  `json:"phase" msgpack:"phase"`
	Difficulty     int     `json:"difficulty" msgpack:"difficulty"`
	GameOver       bool    `json:"game_over" msgpack:"game_over"`
	Victory        bool    `json:"victory" msgpack:"victory"`
}

// Snapshot is one game tick as sent to clients.
type Snapshot struct {
	Time     float64          `json:"time" msgpack:"time"`
	State    StateSnapshot    `json:"state" msgpack:"state"`
	Entities []EntitySnapshot `json:"entities" msgpack:"entities"`
	Events   []event.Event    `json:"events,omitempty" msgpack:"events,omitempty"`
}

// TowerInfo описывает башню, доступную для постройки.
type TowerInfo struct {
	ID       string   `json:"id" msgpack:"id"`
	Name     string   `json:"name" msgpack:"name"`
	Cost     int      `json:"cost" msgpack:"cost"`
	Range    float64  `json:"range" msgpack:"range"`
	Personas []string `json:"personas" msgpack:"personas"`
	Color    [3]uint8 `json:"color" msgpack:"color"`
}

// PersonaInfo is one targeting persona.
type PersonaInfo struct {
	ID          string `json:"id" msgpack:"id"`
	Name        string `json:"name" msgpack:"name"`
	Description string `json:"description" msgpack:"description"`
}

// InitialState is sent once per connection.
type InitialState struct {
	Width    int                `json:"width" msgpack:"width"`
	Height   int                `json:"height" msgpack:"height"`
	TileSize int                `json:"tile_size" msgpack:"tile_size"`
	Tiles    [][]string         `json:"tiles" msgpack:"tiles"`
	Paths    [][]component.Tile `json:"paths" msgpack:"paths"`
	Towers   []TowerInfo        `json:"towers" msgpack:"towers"`
	Personas []PersonaInfo      `json:"personas" msgpack:"personas"`
	State    StateSnapshot      `json:"state" msgpack:"state"`
}

// StateSnapshot собирает экономику и состояние волн.
func (g *Game) StateSnapshot() StateSnapshot {
	gs := g.ECS.GameState
	ws := g.Waves.State()
	return StateSnapshot{
		Gold:           gs.Gold,
		BaseHP:         gs.BaseHP,
		Wave:           ws.Wave,
		MaxWaves:       g.Waves.MaxWaves(),
		TimeToNextWave: max(ws.TimeUntilNext, 0),
		Phase:          ws.Phase.String(),
		Difficulty:     ws.Difficulty,
		GameOver:       gs.GameOver,
		Victory:        gs.Victory,
	}
}

// Snapshot returns the current tick view and drains pending events into it.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{Time: g.gameTime, State: g.StateSnapshot(), Events: g.DrainEvents()}
	for _, t := range g.ECS.SortedTowers() {
		es := bodySnapshot(&t.Body)
		es.TypeID = t.TypeID
		es.Range = t.Range()
		es.Persona = t.Persona
		es.TierA, es.TierB = t.TierA, t.TierB
		s.Entities = append(s.Entities, es)
	}
	for _, e := range g.ECS.SortedEnemies() {
		es := bodySnapshot(&e.Body)
		es.TypeID = e.TypeID
		es.Variant = string(e.Variant)
		s.Entities = append(s.Entities, es)
	}
	for _, p := range g.ECS.SortedProjectiles() {
		s.Entities = append(s.Entities, bodySnapshot(&p.Body))
	}
	for _, a := range g.ECS.SortedAuras() {
		es := bodySnapshot(&a.Body)
		es.Range = a.Radius
		s.Entities = append(s.Entities, es)
	}
	return s
}

func bodySnapshot(b *component.Body) EntitySnapshot {
	return EntitySnapshot{
		ID:      b.ID,
		Kind:    b.Kind.String(),
		Pos:     b.Pos,
		HP:      b.HP,
		MaxHP:   b.MaxHP,
		Alive:   b.Alive,
		Effects: b.Effects.IDs(),
	}
}

// InitialState describes the map and the build menu.
func (g *Game) InitialState() InitialState {
	grid := g.Level.Grid
	is := InitialState{
		Width:    grid.Width,
		Height:   grid.Height,
		TileSize: g.TileSize,
		Tiles:    grid.RowNames(),
		Paths:    g.Level.Paths,
		State:    g.StateSnapshot(),
	}
	for _, id := range g.buildable {
		def, ok := g.Catalog.Tower(id)
		if !ok {
			continue
		}
		is.Towers = append(is.Towers, TowerInfo{
			ID:       id,
			Name:     def.Name,
			Cost:     def.Cost,
			Range:    def.Attack.Data.Range,
			Personas: def.Personas,
			Color:    def.Color,
		})
	}
	for _, id := range g.Catalog.PersonaIDs() {
		p, _ := g.Catalog.Persona(id)
		is.Personas = append(is.Personas, PersonaInfo{ID: id, Name: p.Name, Description: p.Description})
	}
	return is
}
