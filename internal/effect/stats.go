// internal/effect/stats.go
package effect

import "fmt"

// Stat is a modifiable number on an entity.
type Stat int

const (
	StatDamage Stat = iota
	StatRange
	StatFireRate
	StatEffectPotency
	StatAuraSize
	StatSpeed
	StatArmor
	StatDamageTaken
	numStats
)

var statNames = [numStats]string{
	StatDamage:        "damage",
	StatRange:         "range",
	StatFireRate:      "fire_rate",
	StatEffectPotency: "effect_potency_multiplier",
	StatAuraSize:      "aura_size_multiplier",
	StatSpeed:         "speed",
	StatArmor:         "armor",
	StatDamageTaken:   "damage_taken_multiplier",
}

// ParseStat resolves a config stat name.
func ParseStat(name string) (Stat, bool) {
	for i, n := range statNames {
		if n == name {
			return Stat(i), true
		}
	}
	return 0, false
}

func (s Stat) String() string {
	if s < 0 || s >= numStats {
		return fmt.Sprintf("stat(%d)", int(s))
	}
	return statNames[s]
}

// Stats — таблица базовых и текущих значений. Эффекты пересчитывают только
// отслеживаемые статы, остальные для владельца не существуют.
type Stats struct {
	base    [numStats]float64
	value   [numStats]float64
	tracked [numStats]bool
}

// Track начинает отслеживать стат с базовым значением.
func (s *Stats) Track(stat Stat, base float64) {
	s.tracked[stat] = true
	s.base[stat] = base
	s.value[stat] = base
}

// SetBase меняет базу (например, после улучшения). Текущее значение
// обновится при следующем пересчете.
func (s *Stats) SetBase(stat Stat, base float64) {
	if !s.tracked[stat] {
		s.Track(stat, base)
		return
	}
	s.base[stat] = base
}

func (s *Stats) Base(stat Stat) float64 { return s.base[stat] }

// Get returns the current value, or 0 for an untracked stat.
func (s *Stats) Get(stat Stat) float64 { return s.value[stat] }

func (s *Stats) Tracked(stat Stat) bool { return s.tracked[stat] }

func (s *Stats) reset() {
	for i := range s.value {
		if s.tracked[i] {
			s.value[i] = s.base[i]
		}
	}
}

func (s *Stats) apply(m Modifier) {
	if m.Stat < 0 || m.Stat >= numStats || !s.tracked[m.Stat] {
		return
	}
	switch m.Op {
	case OpMultiply:
		s.value[m.Stat] *= m.Value
	case OpAdd:
		s.value[m.Stat] += m.Value
	}
}

// NewEnemyStats tracks speed, armor and the damage-taken multiplier.
func NewEnemyStats(speed, armor float64) Stats {
	var s Stats
	s.Track(StatSpeed, speed)
	s.Track(StatArmor, armor)
	s.Track(StatDamageTaken, 1)
	return s
}

// NewTowerStats tracks the numbers a tower's attack reads each shot.
func NewTowerStats(damage, rng, fireRate float64) Stats {
	var s Stats
	s.Track(StatDamage, damage)
	s.Track(StatRange, rng)
	s.Track(StatFireRate, fireRate)
	s.Track(StatEffectPotency, 1)
	s.Track(StatAuraSize, 1)
	return s
}
