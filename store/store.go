// Package store records the decisions made during a game so they can be
// inspected, replayed and exported after the fact.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/battlesnakeio/nol/board"
	"github.com/battlesnakeio/nol/brain"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a game is not found.
	ErrNotFound = errors.New("store: game not found")
)

// Turn is one recorded decision.
type Turn struct {
	GameID string `json:"game_id"`
	Turn   int    `json:"turn"`
	// Board is the grid in the text board format.
	Board             string        `json:"board"`
	Move              board.Move    `json:"move"`
	Scores            []brain.Score `json:"scores"`
	TurnsUntilStarved int           `json:"turns_until_starved"`
	Hungry            bool          `json:"hungry"`
	Fallback          bool          `json:"fallback"`
	ElapsedMicros     int64         `json:"elapsed_micros"`
}

// NewTurn builds the record for a decision.
func NewTurn(gameID string, turn int, d *brain.Decision, elapsedMicros int64) *Turn {
	return &Turn{
		GameID:            gameID,
		Turn:              turn,
		Board:             d.Grid.String(),
		Move:              d.Move,
		Scores:            d.Scores,
		TurnsUntilStarved: d.TurnsUntilStarved,
		Hungry:            d.Hungry,
		Fallback:          d.Fallback,
		ElapsedMicros:     elapsedMicros,
	}
}

// Game summarizes a recorded game.
type Game struct {
	ID    string `json:"id"`
	Turns int    `json:"turns"`
	// LastTurn is the highest recorded turn number, -1 before any turn.
	LastTurn int  `json:"last_turn"`
	Ended    bool `json:"ended"`
}

// Store is the interface to the backend store.
type Store interface {
	// CreateGame registers a game. Creating a game that exists is a no-op.
	CreateGame(ctx context.Context, gameID string) error
	// PushTurn records a turn, creating the game if needed. A turn with the
	// same number replaces the earlier record.
	PushTurn(ctx context.Context, gameID string, t *Turn) error
	// ListTurns lists turns in turn order by an offset and limit. A negative
	// offset counts back from the last turn and lists in reverse order, so
	// offset -1 starts at the latest turn.
	ListTurns(ctx context.Context, gameID string, limit, offset int) ([]*Turn, error)
	// EndGame marks a game as over.
	EndGame(ctx context.Context, gameID string) error
	// GetGame returns the summary of a game.
	GetGame(ctx context.Context, gameID string) (*Game, error)
}

// InMemStore returns an in memory implementation of the Store interface.
func InMemStore() Store {
	return &inmem{
		games: map[string]*inmemGame{},
	}
}

type inmemGame struct {
	ended bool
	turns []*Turn // sorted by turn number
}

type inmem struct {
	games map[string]*inmemGame
	lock  sync.Mutex
}

func (in *inmem) game(id string) *inmemGame {
	g, ok := in.games[id]
	if !ok {
		g = &inmemGame{}
		in.games[id] = g
	}
	return g
}

func (in *inmem) CreateGame(ctx context.Context, id string) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	in.game(id)
	return nil
}

func (in *inmem) PushTurn(ctx context.Context, id string, t *Turn) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	g := in.game(id)
	i := sort.Search(len(g.turns), func(i int) bool { return g.turns[i].Turn >= t.Turn })
	if i < len(g.turns) && g.turns[i].Turn == t.Turn {
		g.turns[i] = t
		return nil
	}
	g.turns = append(g.turns, nil)
	copy(g.turns[i+1:], g.turns[i:])
	g.turns[i] = t
	return nil
}

func (in *inmem) ListTurns(ctx context.Context, id string, limit, offset int) ([]*Turn, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return window(g.turns, limit, offset), nil
}

func (in *inmem) EndGame(ctx context.Context, id string) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return ErrNotFound
	}
	g.ended = true
	return nil
}

func (in *inmem) GetGame(ctx context.Context, id string) (*Game, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	g, ok := in.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	last := -1
	if len(g.turns) > 0 {
		last = g.turns[len(g.turns)-1].Turn
	}
	return &Game{ID: id, Turns: len(g.turns), LastTurn: last, Ended: g.ended}, nil
}

// window applies limit and offset to turns sorted by turn number.
func window(turns []*Turn, limit, offset int) []*Turn {
	if limit <= 0 {
		return nil
	}
	var out []*Turn
	if offset >= 0 {
		for i := offset; i < len(turns) && len(out) < limit; i++ {
			out = append(out, turns[i])
		}
		return out
	}
	for i := len(turns) + offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, turns[i])
	}
	return out
}
