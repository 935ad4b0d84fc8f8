// internal/progression/store.go
package progression

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// ErrCorruptRecord is returned when a save file exists but cannot be parsed.
var ErrCorruptRecord = errors.New("progression: corrupt record")

// Record is the persistent meta progression of one player.
type Record struct {
	MetaCurrency       int      `json:"meta_currency"`
	UnlockedTowers     []string `json:"unlocked_towers"`
	PurchasedUpgrades  []string `json:"purchased_upgrades"`
	HighestWaveReached int      `json:"highest_wave_reached"`
}

// DefaultRecord is the record of a fresh player.
func DefaultRecord() Record {
	return Record{UnlockedTowers: []string{"freezer", "turret"}, PurchasedUpgrades: []string{}}
}

func (r Record) clone() Record {
	out := r
	out.UnlockedTowers = slices.Clone(r.UnlockedTowers)
	out.PurchasedUpgrades = slices.Clone(r.PurchasedUpgrades)
	return out
}

// normalize сортирует и убирает дубли, чтобы файл был стабильным.
func (r *Record) normalize() {
	for _, s := range []*[]string{&r.UnlockedTowers, &r.PurchasedUpgrades} {
		if *s == nil {
			*s = []string{}
		}
		slices.Sort(*s)
		*s = slices.Compact(*s)
	}
}

// Store loads and saves a record.
type Store interface {
	Load() (Record, bool, error)
	Save(Record) error
}

// FileStore keeps the record as indented JSON at Path.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the record. A missing file reports found=false and no error.
func (s *FileStore) Load() (Record, bool, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("progression: read %s: %w", s.Path, err)
	}
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, true, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, s.Path, err)
	}
	r.normalize()
	return r, true, nil
}

// Save пишет во временный файл и переименовывает его поверх старого.
func (s *FileStore) Save(r Record) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("progression: save %s: %w", s.Path, err)
	}
	r.normalize()
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("progression: encode: %w", err)
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("progression: save %s: %w", s.Path, err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("progression: save %s: %w", s.Path, err)
	}
	return nil
}

// MemoryStore keeps the record in memory, for servers without a save dir.
type MemoryStore struct {
	mu    sync.Mutex
	rec   Record
	saved bool
}

func (s *MemoryStore) Load() (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rec.clone(), s.saved, nil
}

func (s *MemoryStore) Save(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rec = r.clone()
	s.rec.normalize()
	s.saved = true
	return nil
}
