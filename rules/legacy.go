package rules

import (
	"github.com/battlesnakeio/nol/board"
	"github.com/pkg/errors"
)

// StarvationTurns is how long a snake survives without eating under the
// legacy rules.
const StarvationTurns = 100

// LegacyRequest is the pre-2018 move payload. Snakes are identified by name,
// positions are [x, y] pairs and hunger is derived from the turn a snake last
// ate. When Board is set its dimensions take precedence over Width and Height.
type LegacyRequest struct {
	GameID string        `json:"game_id"`
	Turn   int           `json:"turn"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Board  [][]any       `json:"board,omitempty"`
	Food   [][2]int      `json:"food"`
	Snakes []LegacySnake `json:"snakes"`
}

// LegacySnake is a snake in a LegacyRequest. LastEaten is nil when the server
// did not report it.
type LegacySnake struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Coords    [][2]int `json:"coords"`
	LastEaten *int     `json:"last_eaten,omitempty"`
}

// TurnsUntilStarved derives the remaining turns from the last turn the snake
// ate. Without a last eaten turn the snake is assumed half starved.
func (s LegacySnake) TurnsUntilStarved(turn int) int {
	if s.LastEaten == nil {
		return StarvationTurns / 2
	}
	return StarvationTurns - (turn - *s.LastEaten)
}

// Snapshot converts the legacy payload, taking the snake called name as self.
func (req LegacyRequest) Snapshot(name string) (board.Snapshot, error) {
	width, height := req.Width, req.Height
	if len(req.Board) > 0 {
		height = len(req.Board)
		width = len(req.Board[0])
	}

	s := board.Snapshot{
		Width:  width,
		Height: height,
	}
	for _, f := range req.Food {
		s.Food = append(s.Food, board.Point{X: f[0], Y: f[1]})
	}

	for i, snake := range req.Snakes {
		id := snake.ID
		if id == "" {
			id = snake.Name
		}
		if snake.Name == name {
			if s.You != "" {
				return board.Snapshot{}, errors.Wrapf(board.ErrMalformedSnapshot, "more than one snake named %q", name)
			}
			s.You = id
		}
		state := board.SnakeState{
			ID:                id,
			TurnsUntilStarved: snake.TurnsUntilStarved(req.Turn),
		}
		for _, c := range snake.Coords {
			state.Body = append(state.Body, board.Point{X: c[0], Y: c[1]})
		}
		if id == "" {
			return board.Snapshot{}, errors.Wrapf(board.ErrMalformedSnapshot, "snake %d has no id or name", i)
		}
		s.Snakes = append(s.Snakes, state)
	}
	if s.You == "" {
		return board.Snapshot{}, errors.Wrapf(board.ErrMalformedSnapshot, "no snake named %q", name)
	}
	return s, nil
}
