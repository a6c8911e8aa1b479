// Package smell computes the flood-fill maps the move scorer reads: distance
// transforms ("smells") towards a class of cells, and the partition of open
// space by the first move that reaches it.
package smell

import "github.com/battlesnakeio/nol/board"

// Distance is a move count to the nearest source cell, or unreachable.
type Distance struct {
	steps   int
	reached bool
}

// Unreachable is the distance of a cell no source can reach.
var Unreachable = Distance{}

// Reached returns a reachable distance of n steps.
func Reached(n int) Distance { return Distance{steps: n, reached: true} }

// Steps unpacks the distance. ok is false for unreachable cells.
func (d Distance) Steps() (n int, ok bool) { return d.steps, d.reached }

// Reachable reports whether some source reaches the cell.
func (d Distance) Reachable() bool { return d.reached }

// DistanceMap is the result of a distance transform. It is parallel to the
// grid it was computed on and is never modified after Transform returns.
type DistanceMap struct {
	dist    []Distance
	max     int
	sources int
}

// At returns the raw distance of cell i.
func (m DistanceMap) At(i int) Distance { return m.dist[i] }

// Len is the number of cells in the map.
func (m DistanceMap) Len() int { return len(m.dist) }

// Max is the largest finite distance in the map. It is 0 both for a map whose
// only reachable cells are sources and for a map with no sources; use Empty
// to tell them apart.
func (m DistanceMap) Max() int { return m.max }

// Empty reports whether the search had no source cells, in which case every
// cell is unreachable.
func (m DistanceMap) Empty() bool { return m.sources == 0 }

// Normalized returns the distance of cell i divided by Max, in [0, 1].
func (m DistanceMap) Normalized(i int) (float64, bool) {
	n, ok := m.dist[i].Steps()
	if !ok {
		return 0, false
	}
	if m.max == 0 {
		return 0, true
	}
	return float64(n) / float64(m.max), true
}

// Raw returns the distances as ints with -1 for unreachable cells.
func (m DistanceMap) Raw() []int {
	raw := make([]int, len(m.dist))
	for i, d := range m.dist {
		if n, ok := d.Steps(); ok {
			raw[i] = n
		} else {
			raw[i] = -1
		}
	}
	return raw
}

type visit struct {
	index int
	steps int
}

// Transform runs a multi-source breadth-first search from every cell sel
// accepts. The first distance assigned to a cell is final: the queue is
// processed in non-decreasing distance order. A cell that blocks the search
// and is not a source stays unreachable and does not propagate.
func Transform(g *board.Grid, sel board.Selector) DistanceMap {
	m := DistanceMap{dist: make([]Distance, g.Len())}

	queue := make([]visit, 0, g.Len())
	for _, i := range g.Find(sel) {
		queue = append(queue, visit{index: i})
	}
	m.sources = len(queue)

	for head := 0; head < len(queue); head++ {
		v := queue[head]
		if m.dist[v.index].reached {
			continue
		}
		if board.Blocks(g.Cell(v.index), sel) {
			continue
		}
		m.dist[v.index] = Reached(v.steps)
		if v.steps > m.max {
			m.max = v.steps
		}
		for _, n := range g.Neighbors(v.index) {
			if !m.dist[n.Index].reached {
				queue = append(queue, visit{index: n.Index, steps: v.steps + 1})
			}
		}
	}
	return m
}
