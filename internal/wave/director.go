// internal/wave/director.go
package wave

import (
	"log"
	"math"
	"slices"
	"sort"

	"go-tower-director/internal/component"
	"go-tower-director/internal/defs"
	"go-tower-director/internal/types"
	"go-tower-director/internal/utils"
)

// StrategyKind selects how the composer spends a wave budget.
type StrategyKind int

const (
	StrategyBalanced StrategyKind = iota
	StrategyExploit
)

func (k StrategyKind) String() string {
	if k == StrategyExploit {
		return "exploit"
	}
	return "balanced"
}

// Strategy is the director's plan for the next wave.
type Strategy struct {
	Kind  StrategyKind
	Enemy string // тип с худшим процентом утечек
	Path  int    // самая слабая линия
}

// Performance считает исходы по одному типу врага.
type Performance struct {
	Leaked int
	Died   int
}

// Samples is leaked + died.
func (p Performance) Samples() int { return p.Leaked + p.Died }

// LeakRatio is leaked / samples, or 0 without samples.
func (p Performance) LeakRatio() float64 {
	if p.Samples() == 0 {
		return 0
	}
	return float64(p.Leaked) / float64(p.Samples())
}

// PathThreat is the defensive pressure measured along one path.
type PathThreat struct {
	Score    float64
	Coverage float64
}

// Director наблюдает за утечками и обороной и выбирает стратегию волны.
type Director struct {
	cfg    defs.DirectorDef
	rng    *utils.PRNGService
	stats  map[string]*Performance
	threat []PathThreat
}

func NewDirector(cfg defs.DirectorDef, rng *utils.PRNGService) *Director {
	return &Director{cfg: cfg, rng: rng, stats: map[string]*Performance{}}
}

func (d *Director) perf(typeID string) *Performance {
	p, ok := d.stats[typeID]
	if !ok {
		p = &Performance{}
		d.stats[typeID] = p
	}
	return p
}

// RecordDeath counts an enemy killed by the defense.
func (d *Director) RecordDeath(typeID string) { d.perf(typeID).Died++ }

// RecordLeak counts an enemy that reached the base.
func (d *Director) RecordLeak(typeID string) { d.perf(typeID).Leaked++ }

// Performance returns the counters for typeID.
func (d *Director) Performance(typeID string) Performance {
	if p, ok := d.stats[typeID]; ok {
		return *p
	}
	return Performance{}
}

// Threat returns the last analysis, one entry per path.
func (d *Director) Threat() []PathThreat { return slices.Clone(d.threat) }

// Analyze samples every SampleStep-th waypoint of each path and sums the
// weighted DPS of the towers covering it.
func (d *Director) Analyze(towers []*component.Tower, paths [][]types.Vec2) {
	step := max(d.cfg.SampleStep, 1)
	d.threat = make([]PathThreat, len(paths))
	for i, path := range paths {
		samples, covered := 0, 0
		score := 0.0
		for j := 0; j < len(path); j += step {
			samples++
			hit := false
			for _, t := range towers {
				if !t.Alive || t.Pos.Dist(path[j]) > t.Range() {
					continue
				}
				hit = true
				score += d.towerThreat(t)
			}
			if hit {
				covered++
			}
		}
		d.threat[i].Score = score
		if samples > 0 {
			d.threat[i].Coverage = float64(covered) / float64(samples)
		}
	}
}

// towerThreat is DPS scaled by blast, shred and crowd control.
func (d *Director) towerThreat(t *component.Tower) float64 {
	a := &t.Attack
	var dps float64
	switch t.AttackType {
	case defs.AttackStandardProjectile:
		dps = t.Damage() * t.FireRate() * float64(max(a.ProjectilesPerShot, 1))
	case defs.AttackGroundAura, defs.AttackAttachedAura:
		dps = a.DPS
	}
	w := 1.0
	if a.BlastRadius > 0 {
		w += d.cfg.BlastWeight
	}
	if a.ArmorShred > 0 {
		w += d.cfg.ShredWeight
	}
	if d.appliesCC(a) {
		w += d.cfg.CCWeight
	}
	return dps * w
}

func (d *Director) appliesCC(a *defs.AttackData) bool {
	for _, ids := range [][]string{a.Effects.IDs(), a.BlastEffects.IDs()} {
		for _, id := range ids {
			if slices.Contains(d.cfg.CCEffects, id) {
				return true
			}
		}
	}
	return false
}

// Choose returns exploit when some type leaks more than the threshold over
// enough samples and the exploit roll passes. Otherwise balanced.
func (d *Director) Choose() Strategy {
	worst, ratio := "", 0.0
	ids := make([]string, 0, len(d.stats))
	for id := range d.stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := d.stats[id]
		if p.Samples() < d.cfg.MinSample || p.LeakRatio() <= d.cfg.LeakThreshold {
			continue
		}
		if worst == "" || p.LeakRatio() > ratio {
			worst, ratio = id, p.LeakRatio()
		}
	}
	if worst == "" || len(d.threat) == 0 || !d.rng.Chance(d.cfg.ExploitProbability) {
		return Strategy{Kind: StrategyBalanced}
	}
	path, low := 0, math.Inf(1)
	for i, th := range d.threat {
		if th.Score < low {
			path, low = i, th.Score
		}
	}
	log.Printf("wave: director exploits %s (leak %.2f) on path %d", worst, ratio, path)
	return Strategy{Kind: StrategyExploit, Enemy: worst, Path: path}
}
