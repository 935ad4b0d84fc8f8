// internal/progression/manager.go
package progression

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sort"
	"sync"

	"go-tower-director/internal/defs"
)

// TowerListing is one row of the unlock screen.
type TowerListing struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Cost        int    `json:"cost"`
	Unlocked    bool   `json:"unlocked"`
	Description string `json:"description"`
}

// Modifiers are the summed effects of all purchased global upgrades.
type Modifiers struct {
	Gold       float64
	BaseHP     float64
	TowerStats map[string]map[string]float64 // tower id -> stat -> amount
}

// Manager владеет записью прогресса. Безопасен для нескольких сессий.
type Manager struct {
	mu    sync.Mutex
	cat   *defs.Catalog
	store Store
	rec   Record
}

// NewManager loads the record from store. A missing or corrupt record is
// replaced by the default one and saved.
func NewManager(cat *defs.Catalog, store Store) (*Manager, error) {
	rec, found, err := store.Load()
	switch {
	case errors.Is(err, ErrCorruptRecord):
		log.Printf("progression: %v, starting a new record", err)
		found = false
	case err != nil:
		return nil, err
	}
	m := &Manager{cat: cat, store: store, rec: rec}
	if !found {
		m.rec = DefaultRecord()
		if err := m.store.Save(m.rec); err != nil {
			return nil, fmt.Errorf("progression: create record: %w", err)
		}
	}
	return m, nil
}

// Record returns a copy of the current record.
func (m *Manager) Record() Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec.clone()
}

func (m *Manager) IsUnlocked(towerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Contains(m.rec.UnlockedTowers, towerID)
}

// UnlockedTowers returns the unlocked ids that still exist in the catalog.
func (m *Manager) UnlockedTowers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, id := range m.cat.TowerIDs() {
		if slices.Contains(m.rec.UnlockedTowers, id) {
			out = append(out, id)
		}
	}
	return out
}

// UnlockableTowers lists every tower, locked ones first, cheapest first.
func (m *Manager) UnlockableTowers() []TowerListing {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []TowerListing
	for _, id := range m.cat.TowerIDs() {
		t := m.cat.Towers[id]
		out = append(out, TowerListing{
			ID:          id,
			Name:        t.Name,
			Cost:        t.UnlockCost,
			Unlocked:    slices.Contains(m.rec.UnlockedTowers, id),
			Description: t.Description,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Unlocked != out[j].Unlocked {
			return !out[i].Unlocked
		}
		return out[i].Cost < out[j].Cost
	})
	return out
}

// PurchaseTower unlocks towerID for its unlock cost.
func (m *Manager) PurchaseTower(towerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.cat.Towers[towerID]
	if !ok {
		log.Printf("progression: purchase of unknown tower %q", towerID)
		return false
	}
	if slices.Contains(m.rec.UnlockedTowers, towerID) || m.rec.MetaCurrency < t.UnlockCost {
		log.Printf("progression: cannot unlock %s, already owned or not enough currency", towerID)
		return false
	}
	next := m.rec.clone()
	next.MetaCurrency -= t.UnlockCost
	next.UnlockedTowers = append(next.UnlockedTowers, towerID)
	if !m.commit(next) {
		return false
	}
	log.Printf("progression: unlocked tower %s", towerID)
	return true
}

// PurchaseUpgrade buys a global upgrade once.
func (m *Manager) PurchaseUpgrade(upgradeID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.cat.GlobalUpgrades[upgradeID]
	if !ok {
		log.Printf("progression: purchase of unknown upgrade %q", upgradeID)
		return false
	}
	if slices.Contains(m.rec.PurchasedUpgrades, upgradeID) || m.rec.MetaCurrency < u.Cost {
		log.Printf("progression: cannot buy %s, already owned or not enough currency", upgradeID)
		return false
	}
	next := m.rec.clone()
	next.MetaCurrency -= u.Cost
	next.PurchasedUpgrades = append(next.PurchasedUpgrades, upgradeID)
	if !m.commit(next) {
		return false
	}
	log.Printf("progression: bought global upgrade %s", upgradeID)
	return true
}

// Modifiers sums the effects of the purchased global upgrades.
func (m *Manager) Modifiers() Modifiers {
	m.mu.Lock()
	defer m.mu.Unlock()
	mods := Modifiers{TowerStats: map[string]map[string]float64{}}
	for _, id := range m.rec.PurchasedUpgrades {
		u, ok := m.cat.GlobalUpgrades[id]
		if !ok {
			continue
		}
		for _, e := range u.Effects {
			switch e.Type {
			case defs.GlobalModifyGameState:
				switch e.Value.Stat {
				case "gold":
					mods.Gold += e.Value.Amount
				case "base_hp":
					mods.BaseHP += e.Value.Amount
				default:
					log.Printf("progression: upgrade %s modifies unknown game stat %q", id, e.Value.Stat)
				}
			case defs.GlobalModifyTowerStat:
				if e.Value.TowerID == "" || e.Value.Stat == "" {
					continue
				}
				if mods.TowerStats[e.Value.TowerID] == nil {
					mods.TowerStats[e.Value.TowerID] = map[string]float64{}
				}
				mods.TowerStats[e.Value.TowerID][e.Value.Stat] += e.Value.Amount
			}
		}
	}
	return mods
}

// RecordSession books a finished session and returns the meta currency
// earned: meta_currency_per_wave per reached wave plus the victory bonus.
func (m *Manager) RecordSession(wave int, victory bool) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.cat.Settings
	reward := wave * s.MetaCurrencyPerWave
	if victory {
		reward += s.VictoryBonus
	}
	next := m.rec.clone()
	next.MetaCurrency += reward
	next.HighestWaveReached = max(next.HighestWaveReached, wave)
	if !m.commit(next) {
		return 0
	}
	log.Printf("progression: session ended at wave %d (victory %v), +%d currency", wave, victory, reward)
	return reward
}

// commit saves next and only then makes it current.
func (m *Manager) commit(next Record) bool {
	if err := m.store.Save(next); err != nil {
		log.Printf("progression: %v", err)
		return false
	}
	next.normalize()
	m.rec = next
	return true
}
