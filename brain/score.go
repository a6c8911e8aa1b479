package brain

import (
	"github.com/battlesnakeio/nol/board"
	"github.com/battlesnakeio/nol/smell"
	"gonum.org/v1/gonum/floats"
)

// Score is the breakdown of one candidate move.
type Score struct {
	Move board.Move `json:"move" csv:"move"`
	// Valid is false when the destination is off the board or opaque.
	Valid  bool    `json:"valid" csv:"valid"`
	Danger bool    `json:"danger" csv:"danger"`
	Enemy  float64 `json:"enemy" csv:"enemy"`
	Food   float64 `json:"food" csv:"food"`
	Space  float64 `json:"space" csv:"space"`
	Total  float64 `json:"total" csv:"total"`
}

type scorer struct {
	weights Weights
	grid    *board.Grid
	food    smell.DistanceMap
	enemy   smell.DistanceMap
	space   smell.SpaceMap
}

// nearestFood is the number of moves from the head to the closest reachable
// food, going through a valid first move. ok is false when no food can be
// reached.
func (s *scorer) nearestFood() (n int, ok bool) {
	for _, nb := range s.grid.Neighbors(s.grid.Head()) {
		if s.grid.Cell(nb.Index).Opaque() {
			continue
		}
		if f, reached := s.food.At(nb.Index).Steps(); reached && (!ok || f+1 < n) {
			n, ok = f+1, true
		}
	}
	return n, ok
}

func (s *scorer) enemyTerm(dest int) (float64, bool) {
	d, ok := s.enemy.At(dest).Steps()
	if !ok {
		// No opponent can get here.
		return s.weights.EnemyWeight, false
	}
	if d <= 1 {
		return -s.weights.DangerPenalty, true
	}
	n, _ := s.enemy.Normalized(dest)
	return s.weights.EnemyWeight * n, false
}

func (s *scorer) foodTerm(dest int, multiplier float64) float64 {
	n, ok := s.food.Normalized(dest)
	if !ok {
		return 0
	}
	return s.weights.FoodWeight * multiplier * (1 - n)
}

// score rates all four moves in canonical order.
func (s *scorer) score(hungry bool) []Score {
	multiplier := 1.0
	if hungry {
		multiplier = s.weights.HungerMultiplier
	}

	scores := make([]Score, len(board.Moves))
	for i, m := range board.Moves {
		scores[i].Move = m
	}
	for _, nb := range s.grid.Neighbors(s.grid.Head()) {
		if s.grid.Cell(nb.Index).Opaque() {
			continue
		}
		sc := &scores[nb.Move]
		sc.Valid = true
		sc.Enemy, sc.Danger = s.enemyTerm(nb.Index)
		sc.Food = s.foodTerm(nb.Index, multiplier)
		sc.Space = s.weights.SpaceWeight * s.space.Normalized(nb.Move)
		sc.Total = sc.Enemy + sc.Food + sc.Space
	}
	return scores
}

// best picks the valid move with the strictly greatest total, the earliest
// canonical move on ties. ok is false when no move is valid.
func best(scores []Score) (m board.Move, ok bool) {
	var (
		totals []float64
		moves  []board.Move
	)
	for _, sc := range scores {
		if sc.Valid {
			totals = append(totals, sc.Total)
			moves = append(moves, sc.Move)
		}
	}
	if len(totals) == 0 {
		return board.FallbackMove, false
	}
	return moves[floats.MaxIdx(totals)], true
}
