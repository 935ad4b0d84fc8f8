// internal/state/game_over_state.go
package state

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// GameOverState показывает итог сессии; R начинает новую.
type GameOverState struct {
	sm       *StateMachine
	finished *GameState
}

func NewGameOverState(sm *StateMachine, finished *GameState) *GameOverState {
	return &GameOverState{sm: sm, finished: finished}
}

func (s *GameOverState) Enter() {
	st := s.finished.game.StateSnapshot()
	log.Printf("viewer: session over at wave %d (victory %v)", st.Wave, st.Victory)
}

func (s *GameOverState) Update(deltaTime float64) {
	if !inpututil.IsKeyJustPressed(ebiten.KeyR) {
		return
	}
	next, err := NewGameState(s.sm, s.finished.newGame)
	if err != nil {
		log.Printf("viewer: restart failed: %v", err)
		return
	}
	s.sm.SetState(next)
}

func (s *GameOverState) Draw(screen *ebiten.Image) {
	s.finished.Draw(screen)
}

func (s *GameOverState) Exit() {}
