// internal/types/types.go
package types

import "math"

// EntityID — уникальный идентификатор сущности в мире
type EntityID uint64

// Vec2 — позиция или направление в пикселях
type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(k float64) Vec2 { return Vec2{v.X * k, v.Y * k} }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// DistSq — квадрат расстояния, для сравнений без sqrt
func (v Vec2) DistSq(o Vec2) float64 {
	dx, dy := v.X-o.X, v.Y-o.Y
	return dx*dx + dy*dy
}

func (v Vec2) Dist(o Vec2) float64 { return math.Sqrt(v.DistSq(o)) }

// Normalize возвращает единичный вектор; для нулевого — нулевой
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Angle — угол вектора в радианах
func (v Vec2) Angle() float64 { return math.Atan2(v.Y, v.X) }

// FromAngle строит вектор длины length под углом angle
func FromAngle(angle, length float64) Vec2 {
	return Vec2{math.Cos(angle) * length, math.Sin(angle) * length}
}
