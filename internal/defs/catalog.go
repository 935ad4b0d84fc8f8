// internal/defs/catalog.go
package defs

import (
	"errors"
	"fmt"
	"log"
	"sort"
)

// ErrUnknownID is returned when a definition references an id that is not
// present in the catalog.
var ErrUnknownID = errors.New("defs: unknown id")

// Catalog is the immutable, process-scoped configuration set. It is built
// once by Load and then only read; every session holds a pointer to it.
type Catalog struct {
	Settings       GameSettings
	Effects        map[string]StatusEffectDef
	Enemies        map[string]EnemyDef
	Bosses         map[string]BossDef
	Towers         map[string]TowerDef
	Personas       map[string]PersonaDef
	WaveScaling    WaveScaling
	Difficulties   map[string]DifficultyDef
	Formations     map[string]FormationDef
	Director       DirectorDef
	LevelStyles    map[string]LevelStyle
	GlobalUpgrades map[string]GlobalUpgradeDef
}

// Tower returns the definition for id.
func (c *Catalog) Tower(id string) (*TowerDef, bool) {
	t, ok := c.Towers[id]
	if !ok {
		return nil, false
	}
	return &t, true
}

// Enemy looks up regular enemies, buffers and bosses.
func (c *Catalog) Enemy(id string) (*EnemyDef, bool) {
	if e, ok := c.Enemies[id]; ok {
		return &e, true
	}
	if b, ok := c.Bosses[id]; ok {
		return &b.EnemyDef, true
	}
	return nil, false
}

func (c *Catalog) Boss(id string) (*BossDef, bool) {
	b, ok := c.Bosses[id]
	if !ok {
		return nil, false
	}
	return &b, true
}

func (c *Catalog) Effect(id string) (*StatusEffectDef, bool) {
	e, ok := c.Effects[id]
	if !ok {
		return nil, false
	}
	return &e, true
}

func (c *Catalog) Persona(id string) (*PersonaDef, bool) {
	p, ok := c.Personas[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

// Difficulty returns the named setting, falling back to "1" and then to the
// first id in sorted order.
func (c *Catalog) Difficulty(id string) (DifficultyDef, string) {
	if d, ok := c.Difficulties[id]; ok {
		return d, id
	}
	if d, ok := c.Difficulties["1"]; ok {
		return d, "1"
	}
	ids := sortedKeys(c.Difficulties)
	if len(ids) == 0 {
		return DifficultyDef{Name: "default", MaxWaves: 20, TimeBetweenWaves: 10, StatModifier: 1}, ""
	}
	return c.Difficulties[ids[0]], ids[0]
}

// LevelStyle returns the preset by id, falling back to the first sorted one.
func (c *Catalog) LevelStyle(id string) (LevelStyle, bool) {
	if s, ok := c.LevelStyles[id]; ok {
		return s, true
	}
	ids := sortedKeys(c.LevelStyles)
	if len(ids) == 0 {
		return LevelStyle{}, false
	}
	return c.LevelStyles[ids[0]], false
}

// TowerIDs returns tower ids in sorted order.
func (c *Catalog) TowerIDs() []string { return sortedKeys(c.Towers) }

// EnemyIDs returns regular and buffer enemy ids in sorted order.
func (c *Catalog) EnemyIDs() []string { return sortedKeys(c.Enemies) }

func (c *Catalog) BossIDs() []string { return sortedKeys(c.Bosses) }

func (c *Catalog) PersonaIDs() []string { return sortedKeys(c.Personas) }

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// applyDefaults fills optional keys. It is called once by Load before the
// catalog is published.
func (c *Catalog) applyDefaults() {
	s := &c.Settings
	if s.TileSize <= 0 {
		s.TileSize = 32
	}
	if s.Difficulty == "" {
		s.Difficulty = "1"
	}
	if s.StartingGold == 0 {
		s.StartingGold = 150
	}
	if s.StartingBaseHP == 0 {
		s.StartingBaseHP = 20
	}
	if s.SalvageRefundRatio == 0 {
		s.SalvageRefundRatio = 0.5
	}
	if s.SpatialCellSize <= 0 {
		s.SpatialCellSize = 96
	}
	if s.SplashDamageRatio == 0 {
		s.SplashDamageRatio = 0.5
	}
	if s.DefaultPersona == "" {
		s.DefaultPersona = "closest"
	}
	if s.MetaCurrencyPerWave == 0 {
		s.MetaCurrencyPerWave = 1
	}

	if c.Personas == nil {
		c.Personas = map[string]PersonaDef{}
	}
	if _, ok := c.Personas[s.DefaultPersona]; !ok {
		c.Personas[s.DefaultPersona] = PersonaDef{Name: "Closest", Priority: PriorityClosest}
	}

	for id, e := range c.Effects {
		if e.Stacking == "" {
			e.Stacking = StackRefresh
		}
		if e.Type == KindDamageOverTime && e.Params.TickInterval <= 0 {
			e.Params.TickInterval = 1.0
		}
		c.Effects[id] = e
	}

	for id, e := range c.Enemies {
		v := e.Variant
		if v == "" {
			v = VariantNormal
		}
		e.applyDefaults(v)
		c.Enemies[id] = e
	}
	for id, b := range c.Bosses {
		b.applyDefaults(VariantBoss)
		c.Bosses[id] = b
	}

	for id, t := range c.Towers {
		t.Attack.Data.applyDefaults(t.Attack.Type, s.SplashDamageRatio)
		if t.DefaultPersona == "" {
			t.DefaultPersona = s.DefaultPersona
		}
		for i := range t.Auras {
			for j := range t.Auras[i].Effects {
				t.Auras[i].Effects[j] = t.Auras[i].Effects[j].WithDefaults()
			}
			if t.Auras[i].Target == "" {
				t.Auras[i].Target = AuraTargetTowers
			}
		}
		c.Towers[id] = t
	}

	w := &c.WaveScaling
	if w.Budget == (LinearFormula{}) {
		w.Budget = LinearFormula{Base: 100, PerWave: 20, PerLevelDifficulty: 10}
	}
	if w.SpawnCooldown == (SpawnCooldown{}) {
		w.SpawnCooldown = SpawnCooldown{BaseSeconds: 1.0, MinimumSeconds: 0.25}
	}

	for id, d := range c.Difficulties {
		if d.StatModifier == 0 {
			d.StatModifier = 1
		}
		if d.TimeBetweenWaves <= 0 {
			d.TimeBetweenWaves = 10
		}
		c.Difficulties[id] = d
	}

	dir := &c.Director
	if dir.LeakThreshold == 0 {
		dir.LeakThreshold = 0.10
	}
	if dir.MinSample == 0 {
		dir.MinSample = 5
	}
	if dir.ExploitShare == 0 {
		dir.ExploitShare = 0.5
	}
	if dir.FillerSquadSize <= 0 {
		dir.FillerSquadSize = 4
	}
	if dir.SampleStep <= 0 {
		dir.SampleStep = 2
	}

	for id, ls := range c.LevelStyles {
		if ls.Width <= 0 {
			ls.Width = 40
		}
		if ls.Height <= 0 {
			ls.Height = 22
		}
		if ls.GenerationAttempts <= 0 {
			ls.GenerationAttempts = 10
		}
		c.LevelStyles[id] = ls
	}
}

// validate checks cross references that would otherwise surface mid-game.
func (c *Catalog) validate() error {
	if len(c.Towers) == 0 {
		return fmt.Errorf("tower_types: no towers defined")
	}
	for id, t := range c.Towers {
		for _, p := range t.Personas {
			if _, ok := c.Personas[p]; !ok {
				return fmt.Errorf("tower %q persona %q: %w", id, p, ErrUnknownID)
			}
		}
		if _, ok := c.Personas[t.DefaultPersona]; !ok {
			return fmt.Errorf("tower %q default persona %q: %w", id, t.DefaultPersona, ErrUnknownID)
		}
		for _, ref := range t.Attack.Data.Effects {
			if _, ok := c.Effects[ref.ID]; !ok {
				log.Printf("defs: tower %q references unknown effect %q", id, ref.ID)
			}
		}
	}
	for id, b := range c.Bosses {
		for _, g := range b.Phalanx {
			if _, ok := c.Enemy(g.Type); !ok {
				return fmt.Errorf("boss %q phalanx %q: %w", id, g.Type, ErrUnknownID)
			}
		}
	}
	for id, g := range c.GlobalUpgrades {
		for _, e := range g.Effects {
			if e.Type == GlobalModifyTowerStat {
				if _, ok := c.Towers[e.Value.TowerID]; !ok {
					return fmt.Errorf("global upgrade %q tower %q: %w", id, e.Value.TowerID, ErrUnknownID)
				}
			}
		}
	}
	return nil
}
