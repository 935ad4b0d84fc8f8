// internal/app/game.go
package app

import (
	"fmt"
	"log"

	"go-tower-director/internal/component"
	"go-tower-director/internal/config"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/entity"
	"go-tower-director/internal/event"
	"go-tower-director/internal/level"
	"go-tower-director/internal/progression"
	"go-tower-director/internal/system"
	"go-tower-director/internal/targeting"
	"go-tower-director/internal/types"
	"go-tower-director/internal/upgrade"
	"go-tower-director/internal/utils"
	"go-tower-director/internal/wave"
)

// Options настраивают новую сессию. Пустые поля берутся из game_settings.
type Options struct {
	Seed       int64
	Difficulty string
	LevelStyle string
	// Level replaces procedural generation when set.
	Level       *level.Level
	Progression *progression.Manager
}

// Game holds the main game state and logic.
type Game struct {
	Catalog   *defs.Catalog
	ECS       *entity.ECS
	Level     *level.Level
	Rng       *utils.PRNGService
	Events    *event.Dispatcher
	Waves     *wave.Manager
	Upgrades  *upgrade.Manager
	Targeting *targeting.Engine

	StatusEffectSystem *system.StatusEffectSystem
	MovementSystem     *system.MovementSystem
	CombatSystem       *system.CombatSystem
	ProjectileSystem   *system.ProjectileSystem
	AuraSystem         *system.AuraSystem
	ReaperSystem       *system.ReaperSystem

	TileSize     int
	Paths        [][]types.Vec2
	DifficultyID string

	settings    defs.DifficultyDef
	buildable   []string
	towerMods   map[string]map[string]float64
	progression *progression.Manager
	recorder    *event.Recorder

	gameTime    float64
	clearedWave int
	ended       bool
}

// New builds a session: level, world, systems and the wave manager.
func New(cat *defs.Catalog, opts Options) (*Game, error) {
	s := cat.Settings
	rng := utils.NewPRNGService(opts.Seed)

	lvl := opts.Level
	var style defs.LevelStyle
	if lvl == nil {
		styleID := opts.LevelStyle
		if styleID == "" {
			styleID = s.LevelPreset
		}
		var ok bool
		if style, ok = cat.LevelStyle(styleID); !ok {
			log.Printf("app: level style %q not found, using %q", styleID, style.Name)
		}
		var err error
		if lvl, err = level.Build(style, rng); err != nil {
			return nil, fmt.Errorf("app: build level: %w", err)
		}
	} else {
		style = defs.LevelStyle{Name: lvl.Style}
	}
	if len(lvl.Paths) == 0 {
		return nil, fmt.Errorf("app: level has no paths: %w", level.ErrPathGeneration)
	}

	diffID := opts.Difficulty
	if diffID == "" {
		diffID = s.Difficulty
	}
	settings, diffID := cat.Difficulty(diffID)

	ecs := entity.NewECS(s.SpatialCellSize)
	ecs.GameState = &component.GameState{Gold: s.StartingGold, BaseHP: s.StartingBaseHP}

	g := &Game{
		Catalog:      cat,
		ECS:          ecs,
		Level:        lvl,
		Rng:          rng,
		Events:       event.NewDispatcher(),
		Upgrades:     upgrade.NewManager(cat),
		Targeting:    targeting.NewEngine(cat),
		TileSize:     s.TileSize,
		Paths:        lvl.PixelPaths(s.TileSize),
		DifficultyID: diffID,
		settings:     settings,
		towerMods:    map[string]map[string]float64{},
		progression:  opts.Progression,
		recorder:     &event.Recorder{},
	}
	g.Waves = wave.NewManager(cat, wave.Options{
		Difficulty:       diffID,
		LevelDifficulty:  style.LevelDifficulty,
		AllowedBossTypes: style.AllowedBossTypes,
		Paths:            g.Paths,
	}, rng)

	applier := system.NewApplier(cat, rng)
	g.StatusEffectSystem = system.NewStatusEffectSystem(ecs, applier)
	g.MovementSystem = system.NewMovementSystem(ecs)
	g.CombatSystem = system.NewCombatSystem(ecs, g.Targeting, applier)
	g.ProjectileSystem = system.NewProjectileSystem(ecs, applier, rng)
	g.AuraSystem = system.NewAuraSystem(ecs, applier)
	g.ReaperSystem = system.NewReaperSystem(ecs, applier)

	g.applyProgression()
	g.subscribe()
	log.Printf("app: session ready: level %q, difficulty %s, %d paths, gold %d, base hp %d",
		lvl.Style, diffID, len(g.Paths), ecs.GameState.Gold, ecs.GameState.BaseHP)
	return g, nil
}

// applyProgression открывает купленные башни и применяет глобальные улучшения.
func (g *Game) applyProgression() {
	if g.progression == nil {
		g.buildable = g.Catalog.TowerIDs()
		return
	}
	g.buildable = g.progression.UnlockedTowers()
	mods := g.progression.Modifiers()
	g.ECS.GameState.Gold += int(mods.Gold)
	g.ECS.GameState.BaseHP += int(mods.BaseHP)
	g.towerMods = mods.TowerStats
}

// subscribe wires telemetry and session bookkeeping to the dispatcher.
func (g *Game) subscribe() {
	director := g.Waves.Director()
	g.Events.Subscribe(event.EnemyKilled, event.ListenerFunc(func(e event.Event) {
		if d, ok := e.Data.(event.EnemyData); ok {
			director.RecordDeath(d.TypeID)
		}
	}))
	g.Events.Subscribe(event.EnemyLeaked, event.ListenerFunc(func(e event.Event) {
		if d, ok := e.Data.(event.EnemyData); ok {
			director.RecordLeak(d.TypeID)
		}
	}))
	if g.progression != nil {
		session := event.ListenerFunc(func(e event.Event) {
			if d, ok := e.Data.(event.WaveData); ok {
				g.progression.RecordSession(d.Wave, e.Type == event.Victory)
			}
		})
		g.Events.Subscribe(event.GameOver, session)
		g.Events.Subscribe(event.Victory, session)
	}
	g.Events.SubscribeAll(g.recorder)
}

// Buildable returns the tower ids the player may place this session.
func (g *Game) Buildable() []string { return g.buildable }

func (g *Game) GameTime() float64 { return g.gameTime }

// Over reports whether the session has ended.
func (g *Game) Over() bool { return g.ECS.GameState.Over() }

// DrainEvents returns the events dispatched since the last call.
func (g *Game) DrainEvents() []event.Event { return g.recorder.Drain() }

// Update progresses the game state by one tick.
func (g *Game) Update(deltaTime float64) {
	if g.ended {
		return
	}
	dt := min(deltaTime, config.MaxDeltaTime)
	g.gameTime += dt
	g.ECS.GameTime = g.gameTime

	ws := g.Waves.State()
	wasWave := ws.Wave
	for _, job := range g.Waves.Update(dt, g.ECS.AliveEnemies(), g.ECS.SortedTowers()) {
		g.spawn(job)
	}
	if ws.Wave != wasWave {
		g.Events.Dispatch(event.Event{Type: event.WaveStarted, Data: event.WaveData{Wave: ws.Wave}})
	}
	g.ECS.RebuildIndex()

	g.StatusEffectSystem.UpdateTowers(dt)
	g.CombatSystem.Update(dt)

	g.StatusEffectSystem.UpdateEnemies(dt)
	g.MovementSystem.Update(dt)

	g.ProjectileSystem.Update(dt)
	g.AuraSystem.Update(dt)

	g.ECS.FlushPending()

	rep := g.ReaperSystem.Reap()
	for _, d := range rep.Killed {
		g.Events.Dispatch(event.Event{Type: event.EnemyKilled, Data: enemyData(d)})
	}
	for _, d := range rep.Leaked {
		g.Events.Dispatch(event.Event{Type: event.EnemyLeaked, Data: enemyData(d)})
	}
	g.checkOutcome()
}

func (g *Game) checkOutcome() {
	ws := g.Waves.State()
	gs := g.ECS.GameState
	if ws.Wave > g.clearedWave && ws.Pending() == 0 && g.ECS.AliveEnemies() == 0 {
		g.clearedWave = ws.Wave
		g.Events.Dispatch(event.Event{Type: event.WaveCleared, Data: event.WaveData{Wave: ws.Wave}})
	}
	switch {
	case gs.GameOver:
		g.ended = true
		g.Waves.Stop()
		log.Printf("app: game over at wave %d", ws.Wave)
		g.Events.Dispatch(event.Event{Type: event.GameOver, Data: event.WaveData{Wave: ws.Wave}})
	case ws.Victory:
		g.ended = true
		gs.Victory = true
		log.Printf("app: victory after %d waves", ws.Wave)
		g.Events.Dispatch(event.Event{Type: event.Victory, Data: event.WaveData{Wave: ws.Wave}})
	}
}

// spawn создает врага по заданию волны на его линии.
func (g *Game) spawn(job wave.SpawnJob) *component.Enemy {
	def, ok := g.Catalog.Enemy(job.Type)
	if !ok {
		log.Printf("app: spawn of unknown enemy %q skipped", job.Type)
		return nil
	}
	if job.Path < 0 || job.Path >= len(g.Paths) {
		log.Printf("app: spawn of %s on missing path %d skipped", job.Type, job.Path)
		return nil
	}
	e := component.NewEnemy(g.ECS.NewEntity(), job.Type, def, job.Level, job.Path, g.Paths[job.Path], g.settings.StatModifier)
	g.ECS.AddEnemy(e)
	return e
}

func enemyData(d system.Death) event.EnemyData {
	return event.EnemyData{ID: d.ID, TypeID: d.TypeID, Path: d.PathIndex, Pos: d.Pos, Bounty: d.Bounty}
}
