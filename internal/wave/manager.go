// internal/wave/manager.go
package wave

import (
	"log"

	"go-tower-director/internal/component"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/types"
	"go-tower-director/internal/utils"
)

// Options выбирают сложность и уровень для менеджера волн.
type Options struct {
	Difficulty       string
	LevelDifficulty  int
	AllowedBossTypes []string
	// Paths are the pixel lanes, used for lane count and threat analysis.
	Paths [][]types.Vec2
}

// Manager ведет цикл волн: пауза, составление, выпуск по линиям.
type Manager struct {
	cat      *defs.Catalog
	settings defs.DifficultyDef
	paths    [][]types.Vec2
	state    State

	boss      *BossHandler
	director  *Director
	composer  *Composer
	generator *Generator
}

func NewManager(cat *defs.Catalog, opts Options, rng *utils.PRNGService) *Manager {
	settings, id := cat.Difficulty(opts.Difficulty)
	lanes := max(len(opts.Paths), 1)
	m := &Manager{
		cat:       cat,
		settings:  settings,
		paths:     opts.Paths,
		state:     newState(opts.LevelDifficulty, lanes),
		boss:      NewBossHandler(cat, opts.AllowedBossTypes, rng),
		director:  NewDirector(cat.Director, rng),
		composer:  NewComposer(cat, rng),
		generator: NewGenerator(cat.WaveScaling, rng),
	}
	log.Printf("wave: manager ready for difficulty %s (%s), %d waves", id, settings.Name, settings.MaxWaves)
	return m
}

func (m *Manager) State() *State                 { return &m.state }
func (m *Manager) Settings() defs.DifficultyDef { return m.settings }
func (m *Manager) Director() *Director          { return m.director }
func (m *Manager) MaxWaves() int                { return m.settings.MaxWaves }

// Stop latches game over; Update does nothing afterwards.
func (m *Manager) Stop() { m.state.GameOver = true }

func (m *Manager) lanes() int { return len(m.state.LaneCooldowns) }

// Update advances the wave cycle by dt and returns the jobs released this
// tick. towers are read only when a new wave is composed.
func (m *Manager) Update(dt float64, alive int, towers []*component.Tower) []SpawnJob {
	s := &m.state
	if s.GameOver || s.Victory {
		return nil
	}

	if len(s.Squads) == 0 && alive == 0 {
		if s.Wave >= m.settings.MaxWaves {
			s.Victory = true
			s.Phase = PhaseVictory
			log.Printf("wave: victory, all %d waves cleared", m.settings.MaxWaves)
			return nil
		}
		s.Phase = PhaseIdle
		s.TimeUntilNext -= dt
		if s.TimeUntilNext <= 0 {
			m.prepare(towers)
		}
		return nil
	}

	for i, cd := range s.LaneCooldowns {
		s.LaneCooldowns[i] = max(0, cd-dt)
	}
	if s.SquadDelay > 0 {
		s.SquadDelay -= dt
		if s.SquadDelay > 0 {
			return nil
		}
		s.SquadDelay = 0
	}
	if len(s.Squads) == 0 {
		return nil
	}
	return m.release()
}

// release lets each free lane spawn its earliest job of the current squad.
func (m *Manager) release() []SpawnJob {
	s := &m.state
	sq := &s.Squads[0]
	var out []SpawnJob
	used := make([]bool, m.lanes())
	kept := sq.Jobs[:0]
	for _, job := range sq.Jobs {
		lane := m.lane(job.Path)
		if used[lane] || s.LaneCooldowns[lane] > 0 {
			used[lane] = true
			kept = append(kept, job)
			continue
		}
		used[lane] = true
		job.Path = lane
		out = append(out, job)
		s.LaneCooldowns[lane] = m.cat.WaveScaling.SpawnCooldown.At(s.Wave, s.Difficulty)
	}
	sq.Jobs = kept
	if len(sq.Jobs) == 0 {
		s.SquadDelay = sq.Delay
		s.Squads = s.Squads[1:]
	}
	return out
}

func (m *Manager) lane(path int) int {
	n := m.lanes()
	if path < 0 || path >= n {
		log.Printf("wave: job path %d out of %d lanes", path, n)
		return ((path % n) + n) % n
	}
	return path
}

func (m *Manager) prepare(towers []*component.Tower) {
	s := &m.state
	s.Phase = PhaseComposing
	s.advance(m.settings.TimeBetweenWaves)
	m.updateDifficulty()
	log.Printf("wave: preparing wave %d/%d", s.Wave, m.settings.MaxWaves)

	if m.boss.IsBossWave(s.Wave) {
		s.Squads = m.boss.Generate(s.Wave, m.lanes())
	} else {
		pool := m.boss.Promote(s.Difficulty, m.composer.Pool(s.Difficulty))
		if m.cat.Director.Enabled {
			m.director.Analyze(towers, m.paths)
			s.Squads = m.composer.Compose(s.Wave, s.Difficulty, m.lanes(), m.director.Choose(), pool)
		} else {
			s.Squads = m.generator.Generate(s.Wave, s.Difficulty, m.lanes(), pool)
		}
	}
	s.SquadDelay = 0
	s.Phase = PhaseSpawning
}

func (m *Manager) updateDifficulty() {
	s := &m.state
	interval := m.settings.LevelDifficultyIncreaseInterval
	if interval > 0 && s.Wave > 1 && (s.Wave-1)%interval == 0 {
		s.Difficulty++
		log.Printf("wave: effective level difficulty is now %d", s.Difficulty)
	}
}
