// pkg/pathfind/pathfinding.go
package pathfind

import (
	"container/heap"
	"math"
)

// Point — клетка сетки
type Point struct {
	X, Y int
}

// Manhattan — эвристика для 4-связной сетки
func (p Point) Manhattan(o Point) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

// PassableFunc сообщает, можно ли войти в клетку.
type PassableFunc func(p Point) bool

// CostFunc is the price of entering p. Costs below 1 make the Manhattan
// heuristic inadmissible and are clamped to 1.
type CostFunc func(p Point) float64

// 4 направления, порядок фиксирован для воспроизводимости
var directions = [4]Point{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// AStar находит самый дешевый путь от start до goal на сетке w×h. Цель
// достижима, даже если passable ее запрещает. Нет пути — nil.
func AStar(w, h int, start, goal Point, passable PassableFunc, cost CostFunc) []Point {
	inside := func(p Point) bool { return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h }
	if !inside(start) || !inside(goal) {
		return nil
	}
	if start == goal {
		return []Point{start}
	}

	pq := &PriorityQueue{}
	heap.Init(pq)
	seq := 0
	heap.Push(pq, &Node{Point: start, Priority: float64(start.Manhattan(goal)), Seq: seq})
	costSoFar := map[Point]float64{start: 0}
	closed := make(map[Point]bool)

	for pq.Len() > 0 {
		current := heap.Pop(pq).(*Node)
		if closed[current.Point] {
			continue
		}
		if current.Point == goal {
			return reconstructPath(current)
		}
		closed[current.Point] = true
		for _, d := range directions {
			next := Point{current.Point.X + d.X, current.Point.Y + d.Y}
			if !inside(next) || closed[next] {
				continue
			}
			if next != goal && passable != nil && !passable(next) {
				continue
			}
			step := 1.0
			if cost != nil {
				step = math.Max(1, cost(next))
			}
			newCost := costSoFar[current.Point] + step
			if old, exists := costSoFar[next]; exists && newCost >= old {
				continue
			}
			costSoFar[next] = newCost
			seq++
			heap.Push(pq, &Node{
				Point:    next,
				Cost:     newCost,
				Priority: newCost + float64(next.Manhattan(goal)),
				Parent:   current,
				Seq:      seq,
			})
		}
	}
	return nil // Нет пути
}

// PathCost sums the entry cost of every step after the first point.
func PathCost(path []Point, cost CostFunc) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		step := 1.0
		if cost != nil {
			step = math.Max(1, cost(path[i]))
		}
		total += step
	}
	return total
}

// PriorityQueue для A*
type PriorityQueue []*Node

type Node struct {
	Point    Point
	Cost     float64
	Priority float64
	Parent   *Node
	Seq      int
}

func (pq PriorityQueue) Len() int { return len(pq) }
func (pq PriorityQueue) Less(i, j int) bool {
	if pq[i].Priority != pq[j].Priority {
		return pq[i].Priority < pq[j].Priority
	}
	return pq[i].Seq < pq[j].Seq
}
func (pq PriorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }
func (pq *PriorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*Node))
}
func (pq *PriorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[0 : n-1]
	return item
}

func reconstructPath(node *Node) []Point {
	n := 0
	for cur := node; cur != nil; cur = cur.Parent {
		n++
	}
	path := make([]Point, n)
	for cur := node; cur != nil; cur = cur.Parent {
		n--
		path[n] = cur.Point
	}
	return path
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
