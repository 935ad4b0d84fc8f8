// internal/system/movement.go
package system

import (
	"go-tower-director/internal/entity"
)

// MovementSystem ведет врагов по пиксельным точкам пути.
type MovementSystem struct {
	ecs *entity.ECS
}

func NewMovementSystem(ecs *entity.ECS) *MovementSystem {
	return &MovementSystem{ecs: ecs}
}

// Update moves every alive enemy toward its next waypoint. An enemy that
// passes its last waypoint damages the base and is marked leaked; the
// reaper removes it at the end of the tick.
func (s *MovementSystem) Update(dt float64) {
	for _, e := range s.ecs.SortedEnemies() {
		if !e.Alive || e.Waypoint >= len(e.Waypoints) {
			continue
		}
		step := e.Speed() * dt
		if step <= 0 {
			continue
		}
		target := e.Waypoints[e.Waypoint]
		dist := e.Pos.Dist(target)
		if dist <= step {
			e.Pos = target
			e.Waypoint++
			if e.Waypoint >= len(e.Waypoints) {
				s.ecs.GameState.DamageBase(e.Damage)
				e.Leaked = true
				e.Kill()
				continue
			}
		} else {
			e.Pos = e.Pos.Add(target.Sub(e.Pos).Scale(step / dist))
		}
		s.ecs.Index.Update(e)
	}
}
