// Package brain decides the snake's next move. Every decision is a pure
// function of a snapshot: the board is rebuilt, flooded and scored from
// scratch and nothing is kept between calls.
package brain

import (
	"time"

	"github.com/battlesnakeio/nol/board"
	"github.com/battlesnakeio/nol/smell"
)

// Decision is the outcome of one evaluation with everything that went into
// it.
type Decision struct {
	Move   board.Move `json:"move"`
	Scores []Score    `json:"scores"`
	// Fallback is set when no move was legal and Move is board.FallbackMove.
	Fallback          bool `json:"fallback"`
	Hungry            bool `json:"hungry"`
	NearestFood       int  `json:"nearest_food"`
	TurnsUntilStarved int  `json:"turns_until_starved"`

	Grid  *board.Grid       `json:"-"`
	Food  smell.DistanceMap `json:"-"`
	Enemy smell.DistanceMap `json:"-"`
	Self  smell.DistanceMap `json:"-"`
	Space smell.SpaceMap    `json:"-"`
}

// Score returns the score of move m.
func (d *Decision) Score(m board.Move) Score { return d.Scores[m] }

// Engine turns snapshots into moves. It is safe for concurrent use as long as
// its observer is.
type Engine struct {
	weights  Weights
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver reports every decision to o.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New returns an engine scoring with w.
func New(w Weights, opts ...Option) *Engine {
	e := &Engine{weights: w, observer: nopObserver{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Weights returns the weights the engine scores with.
func (e *Engine) Weights() Weights { return e.weights }

var defaultEngine = New(DefaultWeights())

// Decide picks a move for s with the default weights.
func Decide(s board.Snapshot) (board.Move, error) { return defaultEngine.Decide(s) }

// Decide picks a move for s. It fails only with board.ErrMalformedSnapshot;
// a snake with no legal move gets board.FallbackMove.
func (e *Engine) Decide(s board.Snapshot) (board.Move, error) {
	d, err := e.Evaluate(s)
	if err != nil {
		return board.FallbackMove, err
	}
	return d.Move, nil
}

// Evaluate runs a full decision for s and returns its breakdown.
func (e *Engine) Evaluate(s board.Snapshot) (*Decision, error) {
	start := time.Now()
	g, err := board.FromSnapshot(s)
	if err != nil {
		return nil, err
	}
	self, err := s.Self()
	if err != nil {
		return nil, err
	}
	d := e.evaluate(g, self.TurnsUntilStarved)
	e.observer.ObserveDecision(d, time.Since(start))
	return d, nil
}

// EvaluateGrid runs a decision on an already built grid, for boards that
// come from the text format rather than a snapshot.
func (e *Engine) EvaluateGrid(g *board.Grid, turnsUntilStarved int) *Decision {
	start := time.Now()
	d := e.evaluate(g, turnsUntilStarved)
	e.observer.ObserveDecision(d, time.Since(start))
	return d
}

func (e *Engine) evaluate(g *board.Grid, ttl int) *Decision {
	s := &scorer{
		weights: e.weights,
		grid:    g,
		food:    smell.Transform(g, board.FoodCells),
		enemy:   smell.Transform(g, board.EnemyCells),
		space:   smell.Partition(g, g.Head()),
	}

	d := &Decision{
		Grid:              g,
		Food:              s.food,
		Enemy:             s.enemy,
		Self:              smell.Transform(g, board.SelfCells),
		Space:             s.space,
		TurnsUntilStarved: ttl,
		NearestFood:       -1,
	}
	if n, ok := s.nearestFood(); ok {
		d.NearestFood = n
		d.Hungry = ttl < n+e.weights.HungerBuffer
	}

	d.Scores = s.score(d.Hungry)
	move, ok := best(d.Scores)
	d.Move = move
	d.Fallback = !ok
	return d
}
