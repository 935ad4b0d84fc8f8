// internal/component/enemy.go
package component

import (
	"math"

	"go-tower-director/internal/defs"
	"go-tower-director/internal/effect"
	"go-tower-director/internal/types"
)

// Enemy представляет вражескую сущность.
type Enemy struct {
	Body
	TypeID    string
	Variant   defs.EnemyVariant
	Level     int
	PathIndex int
	Waypoints []types.Vec2
	Waypoint  int // индекс следующей точки пути, начинается с 1
	Bounty    int
	Damage    int // урон базе при утечке
	Leaked    bool
	Size      float64

	// Метка взрыва при смерти, ставится попаданием снаряда.
	Explosion       *defs.DeathExplosion
	ExplosionSource types.EntityID
}

// EnemyStats are the scaled numbers of a spawned enemy.
type EnemyStats struct {
	HP     float64
	Speed  float64
	Armor  float64
	Bounty int
	Damage int
}

// ScaleStats applies level scaling and the difficulty modifier.
func ScaleStats(def *defs.EnemyDef, level int, modifier float64) EnemyStats {
	if level < 1 {
		level = 1
	}
	n := float64(level - 1)
	hp := math.Floor(def.BaseStats.HP * math.Pow(def.Scaling.HP, n) * modifier)
	if hp < 1 {
		hp = 1
	}
	return EnemyStats{
		HP:     hp,
		Speed:  def.BaseStats.Speed * math.Pow(def.Scaling.Speed, n),
		Armor:  def.BaseStats.Armor,
		Bounty: int(math.Floor(float64(def.BaseStats.Bounty) * math.Pow(def.Scaling.Bounty, n))),
		Damage: int(math.Floor(float64(def.BaseStats.Damage) * modifier)),
	}
}

// NewEnemy builds an enemy at the first waypoint of path.
func NewEnemy(id types.EntityID, typeID string, def *defs.EnemyDef, level, pathIndex int, waypoints []types.Vec2, modifier float64) *Enemy {
	st := ScaleStats(def, level, modifier)
	e := &Enemy{
		Body: Body{
			ID:    id,
			Kind:  KindEnemy,
			HP:    st.HP,
			MaxHP: st.HP,
			Alive: true,
			Stats: effect.NewEnemyStats(st.Speed, st.Armor),
			Auras: def.Auras,
		},
		TypeID:    typeID,
		Variant:   def.Variant,
		Level:     level,
		PathIndex: pathIndex,
		Waypoints: waypoints,
		Waypoint:  1,
		Bounty:    st.Bounty,
		Damage:    st.Damage,
		Size:      def.Size,
	}
	if len(waypoints) > 0 {
		e.Pos = waypoints[0]
	}
	return e
}

func (e *Enemy) Speed() float64 { return e.Stats.Get(effect.StatSpeed) }
func (e *Enemy) Armor() float64 { return e.Stats.Get(effect.StatArmor) }

// TakeDamage applies a hit and returns the health actually removed.
func (e *Enemy) TakeDamage(amount, shred float64, ignoreArmor bool) float64 {
	if !e.Alive || amount <= 0 {
		return 0
	}
	dmg := amount
	if !ignoreArmor {
		armor := math.Max(0, e.Armor()-shred)
		dmg = math.Max(1, amount-armor)
	}
	if mult := e.Stats.Get(effect.StatDamageTaken); e.Stats.Tracked(effect.StatDamageTaken) {
		dmg *= mult
	}
	before := e.HP
	e.HP = math.Max(0, e.HP-dmg)
	if e.HP <= 0 {
		e.Kill()
	}
	return before - e.HP
}

// Progress is the waypoint index and the distance to that waypoint; more
// waypoints passed and a smaller distance mean further along.
func (e *Enemy) Progress() (int, float64) {
	if e.Waypoint >= len(e.Waypoints) {
		return e.Waypoint, 0
	}
	return e.Waypoint, e.Pos.Dist(e.Waypoints[e.Waypoint])
}
