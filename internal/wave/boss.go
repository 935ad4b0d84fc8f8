// internal/wave/boss.go
package wave

import (
	"log"
	"slices"

	"go-tower-director/internal/defs"
	"go-tower-director/internal/utils"
)

// BossHandler расписывает боссовые волны и пускает боссов в общий пул.
type BossHandler struct {
	cat       *defs.Catalog
	rng       *utils.PRNGService
	scheduled map[int]string // номер волны -> id босса
}

// NewBossHandler schedules every boss whose type is allowed on the level.
func NewBossHandler(cat *defs.Catalog, allowed []string, rng *utils.PRNGService) *BossHandler {
	h := &BossHandler{cat: cat, rng: rng, scheduled: map[int]string{}}
	for _, id := range cat.BossIDs() {
		b := cat.Bosses[id]
		if !slices.Contains(allowed, b.Type) || b.BossDifficulty <= 0 {
			continue
		}
		if prev, ok := h.scheduled[b.BossDifficulty]; ok {
			log.Printf("wave: boss %q shares wave %d with %q, keeping %q", id, b.BossDifficulty, prev, prev)
			continue
		}
		h.scheduled[b.BossDifficulty] = id
	}
	log.Printf("wave: %d boss encounters scheduled", len(h.scheduled))
	return h
}

// IsBossWave reports whether wave has a scheduled boss.
func (h *BossHandler) IsBossWave(wave int) bool {
	_, ok := h.scheduled[wave]
	return ok
}

// Scheduled returns the boss id for wave.
func (h *BossHandler) Scheduled(wave int) (string, bool) {
	id, ok := h.scheduled[wave]
	return id, ok
}

// Generate builds the single squad of a boss wave: the boss and its phalanx
// on one random path, shuffled.
func (h *BossHandler) Generate(wave, numPaths int) []Squad {
	id, ok := h.scheduled[wave]
	if !ok {
		return nil
	}
	boss, ok := h.cat.Boss(id)
	if !ok {
		log.Printf("wave: scheduled boss %q vanished from catalog", id)
		return nil
	}
	path := h.rng.Intn(numPaths)
	jobs := []SpawnJob{{Type: id, Level: 1, Path: path, Boss: true}}
	for _, g := range boss.Phalanx {
		for i := 0; i < g.Count; i++ {
			jobs = append(jobs, SpawnJob{Type: g.Type, Level: EnemyLevel(wave), Path: path})
		}
	}
	h.rng.Shuffle(len(jobs), func(i, j int) { jobs[i], jobs[j] = jobs[j], jobs[i] })
	log.Printf("wave: boss wave %d featuring %s", wave, boss.Name)
	return []Squad{{Jobs: jobs}}
}

// Promote adds every scheduled boss whose spawn_difficulty is reached to
// pool. The result is sorted.
func (h *BossHandler) Promote(difficulty int, pool []string) []string {
	out := slices.Clone(pool)
	for _, id := range h.scheduledIDs() {
		b := h.cat.Bosses[id]
		if b.SpawnDifficulty <= 0 || difficulty < b.SpawnDifficulty || slices.Contains(out, id) {
			continue
		}
		log.Printf("wave: boss %s joins the regular pool", b.Name)
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (h *BossHandler) scheduledIDs() []string {
	ids := make([]string, 0, len(h.scheduled))
	for _, id := range h.scheduled {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
