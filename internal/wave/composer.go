// internal/wave/composer.go
package wave

import (
	"log"
	"slices"

	"go-tower-director/internal/defs"
	"go-tower-director/internal/utils"
)

const fillerType = "grunt"

// Composer тратит бюджет волны на отряды по стратегии директора.
type Composer struct {
	cat *defs.Catalog
	rng *utils.PRNGService
}

func NewComposer(cat *defs.Catalog, rng *utils.PRNGService) *Composer {
	return &Composer{cat: cat, rng: rng}
}

// Budget is the threat budget of wave at difficulty.
func (c *Composer) Budget(wave, difficulty int) int {
	return int(c.cat.WaveScaling.Budget.Eval(wave, difficulty))
}

// Pool returns the regular and buffer enemy ids available at difficulty.
func (c *Composer) Pool(difficulty int) []string {
	var pool []string
	for _, id := range c.cat.EnemyIDs() {
		if c.cat.Enemies[id].MinDifficulty <= difficulty {
			pool = append(pool, id)
		}
	}
	return pool
}

// Compose builds the squads of one wave. An empty pool yields no squads.
func (c *Composer) Compose(wave, difficulty, numPaths int, strat Strategy, pool []string) []Squad {
	if len(pool) == 0 {
		log.Printf("wave: cannot compose wave %d, enemy pool is empty", wave)
		return nil
	}
	budget := c.Budget(wave, difficulty)
	level := EnemyLevel(wave)
	var squads []Squad
	if strat.Kind == StrategyExploit {
		var sq Squad
		sq, budget = c.exploit(strat, level, budget)
		if len(sq.Jobs) > 0 {
			squads = append(squads, sq)
		}
	}
	squads = append(squads, c.balanced(level, numPaths, budget, pool)...)
	log.Printf("wave: composed wave %d (%s) with %d squads", wave, strat.Kind, len(squads))
	return squads
}

// exploit spends exploit_share of the budget on the leaking type along the
// weakest path and returns what is left.
func (c *Composer) exploit(strat Strategy, level, budget int) (Squad, int) {
	cost := c.cost(strat.Enemy)
	if cost == 0 {
		log.Printf("wave: exploit target %q is unknown", strat.Enemy)
		return Squad{}, budget
	}
	share := int(float64(budget) * c.cat.Director.ExploitShare)
	n := share / cost
	sq := Squad{Delay: c.cat.WaveScaling.SquadDelay}
	for i := 0; i < n; i++ {
		sq.Jobs = append(sq.Jobs, SpawnJob{Type: strat.Enemy, Level: level, Path: strat.Path})
	}
	return sq, budget - n*cost
}

// balanced mixes formations and filler squads until nothing in pool is
// affordable.
func (c *Composer) balanced(level, numPaths, budget int, pool []string) []Squad {
	cheapest := 0
	for _, id := range pool {
		if cost := c.cost(id); cost > 0 && (cheapest == 0 || cost < cheapest) {
			cheapest = cost
		}
	}
	var squads []Squad
	for cheapest > 0 && budget >= cheapest {
		if c.rng.Chance(c.cat.Director.FormationChance) {
			if f, members, cost, ok := c.pickFormation(pool, budget); ok {
				path := c.rng.Intn(numPaths)
				sq := Squad{Delay: f.Delay}
				for _, m := range members {
					sq.Jobs = append(sq.Jobs, SpawnJob{Type: m, Level: level, Path: path})
				}
				squads = append(squads, sq)
				budget -= cost
				continue
			}
		}
		sq, spent := c.filler(level, numPaths, budget, pool)
		squads = append(squads, sq)
		budget -= spent
	}
	return squads
}

// filler is a squad of grunts, or of the cheapest pool member when grunts
// are unavailable or unaffordable.
func (c *Composer) filler(level, numPaths, budget int, pool []string) (Squad, int) {
	typ := fillerType
	if !slices.Contains(pool, typ) || c.cost(typ) > budget {
		typ = ""
		for _, id := range pool {
			if cost := c.cost(id); cost > 0 && (typ == "" || cost < c.cost(typ)) {
				typ = id
			}
		}
	}
	cost := c.cost(typ)
	path := c.rng.Intn(numPaths)
	sq := Squad{Delay: c.cat.WaveScaling.SquadDelay}
	spent := 0
	for len(sq.Jobs) < c.cat.Director.FillerSquadSize && spent+cost <= budget {
		sq.Jobs = append(sq.Jobs, SpawnJob{Type: typ, Level: level, Path: path})
		spent += cost
	}
	return sq, spent
}

// pickFormation chooses a random formation whose members are all in pool and
// fit budget. Members missing from the catalog are dropped.
func (c *Composer) pickFormation(pool []string, budget int) (defs.FormationDef, []string, int, bool) {
	type candidate struct {
		def     defs.FormationDef
		members []string
		cost    int
	}
	var eligible []candidate
	ids := make([]string, 0, len(c.cat.Formations))
	for id := range c.cat.Formations {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		f := c.cat.Formations[id]
		var members []string
		cost, ok := 0, true
		for _, m := range f.Members {
			if _, known := c.cat.Enemy(m); !known {
				log.Printf("wave: formation %q has unknown member %q, skipping it", id, m)
				continue
			}
			if !slices.Contains(pool, m) {
				ok = false
				break
			}
			members = append(members, m)
			cost += c.cost(m)
		}
		if ok && len(members) > 0 && cost <= budget {
			eligible = append(eligible, candidate{f, members, cost})
		}
	}
	if len(eligible) == 0 {
		return defs.FormationDef{}, nil, 0, false
	}
	pick := eligible[c.rng.Intn(len(eligible))]
	return pick.def, pick.members, pick.cost, true
}

func (c *Composer) cost(id string) int {
	def, ok := c.cat.Enemy(id)
	if !ok {
		return 0
	}
	return def.ThreatCost
}
