package progression

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-tower-director/internal/defs"
)

func loadCatalog(t *testing.T) *defs.Catalog {
	t.Helper()
	cat, err := defs.Load("../../configs")
	require.NoError(t, err)
	return cat
}

func TestMissingFileCreatesDefaultRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save", "player.json")
	m, err := NewManager(loadCatalog(t), NewFileStore(path))
	require.NoError(t, err)

	assert.Equal(t, DefaultRecord(), m.Record())
	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, []string{"freezer", "turret"}, m.UnlockedTowers())
}

func TestCorruptFileIsReplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "player.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, _, err := NewFileStore(path).Load()
	assert.True(t, errors.Is(err, ErrCorruptRecord))

	m, err := NewManager(loadCatalog(t), NewFileStore(path))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Record().MetaCurrency)

	rec, found, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"freezer", "turret"}, rec.UnlockedTowers)
}

func TestFileStoreRoundTripIsSorted(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "p.json"))
	require.NoError(t, s.Save(Record{MetaCurrency: 7, UnlockedTowers: []string{"turret", "cannon", "turret"}}))

	rec, found, err := s.Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, Record{MetaCurrency: 7, UnlockedTowers: []string{"cannon", "turret"}, PurchasedUpgrades: []string{}}, rec)
}

func TestPurchaseTowerSpendsCurrency(t *testing.T) {
	store := &MemoryStore{}
	require.NoError(t, store.Save(Record{MetaCurrency: 45, UnlockedTowers: []string{"turret"}}))
	m, err := NewManager(loadCatalog(t), store)
	require.NoError(t, err)

	assert.False(t, m.PurchaseTower("dragon"))
	assert.False(t, m.PurchaseTower("turret"), "already unlocked")
	assert.False(t, m.PurchaseTower("beacon"), "too expensive")

	assert.True(t, m.PurchaseTower("cannon"))
	assert.Equal(t, 5, m.Record().MetaCurrency)
	assert.True(t, m.IsUnlocked("cannon"))

	saved, _, _ := store.Load()
	assert.Equal(t, []string{"cannon", "turret"}, saved.UnlockedTowers)
}

func TestUnlockableTowersOrder(t *testing.T) {
	m, err := NewManager(loadCatalog(t), &MemoryStore{})
	require.NoError(t, err)

	var ids []string
	for _, l := range m.UnlockableTowers() {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"venom", "cannon", "flame", "beacon", "freezer", "turret"}, ids)
}

func TestGlobalUpgradesSumIntoModifiers(t *testing.T) {
	store := &MemoryStore{}
	require.NoError(t, store.Save(Record{MetaCurrency: 100, UnlockedTowers: []string{"turret"}}))
	m, err := NewManager(loadCatalog(t), store)
	require.NoError(t, err)

	assert.True(t, m.PurchaseUpgrade("war_chest"))
	assert.False(t, m.PurchaseUpgrade("war_chest"), "bought once")
	assert.True(t, m.PurchaseUpgrade("sharpened_rounds"))
	assert.False(t, m.PurchaseUpgrade("nope"))
	assert.Equal(t, 55, m.Record().MetaCurrency)

	mods := m.Modifiers()
	assert.Equal(t, 50.0, mods.Gold)
	assert.Equal(t, 0.0, mods.BaseHP)
	assert.Equal(t, map[string]map[string]float64{"turret": {"damage": 2}}, mods.TowerStats)
}

func TestRecordSessionRewards(t *testing.T) {
	m, err := NewManager(loadCatalog(t), &MemoryStore{})
	require.NoError(t, err)

	// 2 за волну, 25 за победу
	assert.Equal(t, 14, m.RecordSession(7, false))
	assert.Equal(t, 65, m.RecordSession(20, true))
	assert.Equal(t, 2, m.RecordSession(1, false))

	rec := m.Record()
	assert.Equal(t, 81, rec.MetaCurrency)
	assert.Equal(t, 20, rec.HighestWaveReached)
}

type failingStore struct{ MemoryStore }

func (*failingStore) Save(Record) error { return errors.New("disk full") }

func TestFailedSaveKeepsRecord(t *testing.T) {
	fs := &failingStore{}
	require.NoError(t, fs.MemoryStore.Save(Record{MetaCurrency: 100}))
	m, err := NewManager(loadCatalog(t), fs)
	require.NoError(t, err)

	assert.False(t, m.PurchaseTower("cannon"))
	assert.Equal(t, 100, m.Record().MetaCurrency)
	assert.Equal(t, 0, m.RecordSession(3, false))
}
