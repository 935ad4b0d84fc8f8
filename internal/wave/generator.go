// internal/wave/generator.go
package wave

import (
	"log"

	"go-tower-director/internal/defs"
	"go-tower-director/internal/utils"
)

// Generator собирает обычную случайную волну, когда директор выключен.
type Generator struct {
	scaling defs.WaveScaling
	rng     *utils.PRNGService
}

func NewGenerator(scaling defs.WaveScaling, rng *utils.PRNGService) *Generator {
	return &Generator{scaling: scaling, rng: rng}
}

// Generate picks enemy_count random enemies from pool on random paths.
func (g *Generator) Generate(wave, difficulty, numPaths int, pool []string) []Squad {
	if len(pool) == 0 {
		log.Printf("wave: cannot generate wave %d, enemy pool is empty", wave)
		return nil
	}
	total := int(g.scaling.EnemyCount.Eval(wave, difficulty))
	jobs := make([]SpawnJob, 0, total)
	for i := 0; i < total; i++ {
		jobs = append(jobs, SpawnJob{
			Type:  pool[g.rng.Intn(len(pool))],
			Level: EnemyLevel(wave),
			Path:  g.rng.Intn(numPaths),
		})
	}
	log.Printf("wave: standard wave %d with %d enemies", wave, len(jobs))
	return []Squad{{Jobs: jobs}}
}
