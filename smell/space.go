package smell

import "github.com/battlesnakeio/nol/board"

// SpaceMap assigns each reachable open cell to the first move from the head
// whose flood reached it.
type SpaceMap struct {
	owner   []board.Move
	claimed []bool
	counts  [len(board.Moves)]int
	max     int
}

// At returns the move that claimed cell i. ok is false for unclaimed cells.
func (s SpaceMap) At(i int) (m board.Move, ok bool) { return s.owner[i], s.claimed[i] }

// Count is the number of cells claimed by m.
func (s SpaceMap) Count(m board.Move) int { return s.counts[m] }

// Max is the largest per-move count.
func (s SpaceMap) Max() int { return s.max }

// Normalized returns Count(m) / Max, 0 when nothing was claimed.
func (s SpaceMap) Normalized(m board.Move) float64 {
	if s.max == 0 {
		return 0
	}
	return float64(s.counts[m]) / float64(s.max)
}

// Counts returns the per-move counts for moves that claimed at least one cell.
func (s SpaceMap) Counts() map[board.Move]int {
	counts := map[board.Move]int{}
	for _, m := range board.Moves {
		if s.counts[m] > 0 {
			counts[m] = s.counts[m]
		}
	}
	return counts
}

// Partition floods outward from head. Every open neighbour of head seeds a
// branch labelled with the move that reaches it, in canonical move order.
// Branches expand together one layer at a time, so a cell at equal distance
// from two branches goes to the earlier move. Claimed cells are never
// reclaimed and opaque cells are never claimed.
func Partition(g *board.Grid, head int) SpaceMap {
	s := SpaceMap{
		owner:   make([]board.Move, g.Len()),
		claimed: make([]bool, g.Len()),
	}

	queue := make([]int, 0, g.Len())
	claim := func(i int, m board.Move) {
		s.owner[i] = m
		s.claimed[i] = true
		s.counts[m]++
		queue = append(queue, i)
	}

	for _, n := range g.Neighbors(head) {
		if g.Cell(n.Index).Opaque() {
			continue
		}
		claim(n.Index, n.Move)
	}

	for next := 0; next < len(queue); next++ {
		i := queue[next]
		for _, n := range g.Neighbors(i) {
			if s.claimed[n.Index] || g.Cell(n.Index).Opaque() {
				continue
			}
			claim(n.Index, s.owner[i])
		}
	}

	for _, c := range s.counts {
		if c > s.max {
			s.max = c
		}
	}
	return s
}
