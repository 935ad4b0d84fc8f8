// internal/event/types.go
package event

import "go-tower-director/internal/types"

const (
	EnemyKilled   EventType = "EnemyKilled"  // враг убит башнями
	EnemyLeaked   EventType = "EnemyLeaked"  // враг дошел до базы
	TowerPlaced   EventType = "TowerPlaced"  // Башня построена
	TowerUpgraded EventType = "TowerUpgraded"
	TowerSalvaged EventType = "TowerSalvaged"
	WaveStarted   EventType = "WaveStarted"
	WaveCleared   EventType = "WaveCleared" // очередь пуста и на карте никого
	GameOver      EventType = "GameOver"
	Victory       EventType = "Victory"
)

// EnemyData goes with EnemyKilled and EnemyLeaked.
type EnemyData struct {
	ID     types.EntityID `json:"id" msgpack:"id"`
	TypeID string         `json:"type_id" msgpack:"type_id"`
	Path   int            `json:"path_index" msgpack:"path_index"`
	Pos    types.Vec2     `json:"pos" msgpack:"pos"`
	Bounty int            `json:"bounty,omitempty" msgpack:"bounty,omitempty"`
}

// TowerData goes with the tower events.
type TowerData struct {
	ID      types.EntityID `json:"id" msgpack:"id"`
	TypeID  string         `json:"type_id" msgpack:"type_id"`
	X       int            `json:"x" msgpack:"x"`
	Y       int            `json:"y" msgpack:"y"`
	Upgrade string         `json:"upgrade,omitempty" msgpack:"upgrade,omitempty"`
	Refund  int            `json:"refund,omitempty" msgpack:"refund,omitempty"`
}

// WaveData goes with WaveStarted, WaveCleared, GameOver and Victory.
type WaveData struct {
	Wave int `json:"wave" msgpack:"wave"`
}
