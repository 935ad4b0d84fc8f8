// internal/state/game_state.go
package state

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"go-tower-director/internal/app"
	"go-tower-director/internal/config"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/render"
)

// NewGameFunc starts a fresh session; GameOverState calls it again on restart.
type NewGameFunc func() (*app.Game, error)

var towerKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

// GameState — идущая сессия с вводом игрока
type GameState struct {
	sm       *StateMachine
	newGame  NewGameFunc
	game     *app.Game
	renderer *render.Renderer
	sel      render.Selection
}

func NewGameState(sm *StateMachine, newGame NewGameFunc) (*GameState, error) {
	g, err := newGame()
	if err != nil {
		return nil, err
	}
	gs := &GameState{
		sm:       sm,
		newGame:  newGame,
		game:     g,
		renderer: render.NewRenderer(g, config.ScreenWidth, config.ScreenHeight),
	}
	if b := g.Buildable(); len(b) > 0 {
		gs.sel.TowerType = b[0]
	}
	return gs, nil
}

func (g *GameState) Game() *app.Game { return g.game }

func (g *GameState) Enter() { g.sel.Paused = false }

func (g *GameState) Update(deltaTime float64) {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sm.SetState(NewPauseState(g.sm, g))
		return
	}

	buildable := g.game.Buildable()
	for i, key := range towerKeys {
		if i < len(buildable) && inpututil.IsKeyJustPressed(key) {
			g.sel.TowerType = buildable[i]
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.handleLeftClick(ebiten.CursorPosition())
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		x, y := g.renderer.ScreenToTile(ebiten.CursorPosition())
		if t := g.game.TowerAt(x, y); t != nil {
			g.game.SalvageTower(t.ID)
			g.sel.Tower = 0
		}
	}
	if g.sel.Tower != 0 {
		g.handleTowerKeys()
	}

	g.game.Update(deltaTime)
	g.game.DrainEvents()

	if g.game.Over() {
		g.sm.SetState(NewGameOverState(g.sm, g))
	}
}

// handleTowerKeys применяет клавиши к выбранной башне.
func (g *GameState) handleTowerKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyU) {
		g.game.UpgradeTower(g.sel.Tower, defs.PathA)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) {
		g.game.UpgradeTower(g.sel.Tower, defs.PathB)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if p, ok := g.game.CyclePersona(g.sel.Tower); ok {
			log.Printf("viewer: tower %d now targets %s", g.sel.Tower, p)
		}
	}
}

// handleLeftClick выбирает башню под курсором или строит выбранный тип.
func (g *GameState) handleLeftClick(sx, sy int) {
	x, y := g.renderer.ScreenToTile(sx, sy)
	if t := g.game.TowerAt(x, y); t != nil {
		g.sel.Tower = t.ID
		return
	}
	g.sel.Tower = 0
	if g.sel.TowerType != "" && g.game.PlaceTower(g.sel.TowerType, x, y) {
		if t := g.game.TowerAt(x, y); t != nil {
			g.sel.Tower = t.ID
		}
	}
}

func (g *GameState) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.game, g.sel)
}

func (g *GameState) Exit() {}
