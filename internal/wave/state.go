// internal/wave/state.go
package wave

import "go-tower-director/internal/config"

// Phase is the stage of the wave cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseComposing
	PhaseSpawning
	PhaseVictory
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseComposing:
		return "composing"
	case PhaseSpawning:
		return "spawning"
	case PhaseVictory:
		return "victory"
	}
	return "unknown"
}

// SpawnJob описывает одного врага, которого нужно выпустить.
type SpawnJob struct {
	Type  string `json:"type" msgpack:"type"`
	Level int    `json:"level" msgpack:"level"`
	Path  int    `json:"path_index" msgpack:"path_index"`
	Boss  bool   `json:"is_boss" msgpack:"is_boss"`
}

// Squad is a batch of jobs followed by a pause before the next squad.
type Squad struct {
	Jobs  []SpawnJob
	Delay float64
}

// State хранит все, что меняется по ходу волн.
type State struct {
	Wave          int
	TimeUntilNext float64
	Difficulty    int
	Squads        []Squad
	LaneCooldowns []float64
	SquadDelay    float64
	Phase         Phase
	Victory       bool
	GameOver      bool
}

func newState(difficulty, lanes int) State {
	return State{
		TimeUntilNext: config.InitialWaveDelay,
		Difficulty:    difficulty,
		LaneCooldowns: make([]float64, lanes),
	}
}

// advance bumps the wave number and restarts the inter-wave timer.
func (s *State) advance(timeBetween float64) {
	s.Wave++
	s.TimeUntilNext = timeBetween
}

// Pending returns how many jobs are still queued across all squads.
func (s *State) Pending() int {
	n := 0
	for _, sq := range s.Squads {
		n += len(sq.Jobs)
	}
	return n
}

// EnemyLevel is the level of regular enemies on wave.
func EnemyLevel(wave int) int {
	return 1 + wave/5
}
