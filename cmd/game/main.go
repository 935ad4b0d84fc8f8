// cmd/game/main.go
package main

import (
	"flag"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"go-tower-director/internal/app"
	"go-tower-director/internal/config"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/progression"
	"go-tower-director/internal/state"
)

type AppGame struct {
	stateMachine   *state.StateMachine
	lastUpdateTime time.Time
}

func (a *AppGame) Update() error {
	now := time.Now()
	deltaTime := now.Sub(a.lastUpdateTime).Seconds()
	if deltaTime > config.MaxDeltaTime {
		deltaTime = config.MaxDeltaTime
	}
	a.lastUpdateTime = now
	a.stateMachine.Update(deltaTime)
	return nil
}

func (a *AppGame) Draw(screen *ebiten.Image) {
	a.stateMachine.Draw(screen)
}

func (a *AppGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.ScreenWidth, config.ScreenHeight
}

func main() {
	configDir := flag.String("configs", "configs", "catalog directory")
	seed := flag.Int64("seed", 0, "session seed, 0 picks one from the clock")
	difficulty := flag.String("difficulty", "", "difficulty id")
	levelStyle := flag.String("level", "", "level style id")
	progressPath := flag.String("progress", "", "progression record file, empty keeps it in memory")
	flag.Parse()

	cat, err := defs.Load(*configDir)
	if err != nil {
		log.Fatalf("game: load catalog: %v", err)
	}
	var store progression.Store = &progression.MemoryStore{}
	if *progressPath != "" {
		store = &progression.FileStore{Path: *progressPath}
	}
	pm, err := progression.NewManager(cat, store)
	if err != nil {
		log.Fatalf("game: progression: %v", err)
	}

	newGame := func() (*app.Game, error) {
		s := *seed
		if s == 0 {
			s = time.Now().UnixNano()
		}
		return app.New(cat, app.Options{Seed: s, Difficulty: *difficulty, LevelStyle: *levelStyle, Progression: pm})
	}

	sm := state.NewStateMachine()
	gs, err := state.NewGameState(sm, newGame)
	if err != nil {
		log.Fatalf("game: %v", err)
	}
	sm.SetState(gs)

	a := &AppGame{stateMachine: sm, lastUpdateTime: time.Now()}
	ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
	ebiten.SetWindowTitle("Tower Director")
	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
