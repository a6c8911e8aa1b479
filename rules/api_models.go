package rules

import (
	"github.com/battlesnakeio/nol/board"
	"github.com/pkg/errors"
)

// MaxHealth is the health a snake has right after eating. Health drops by one
// each turn, so it is also the number of turns until starvation.
const MaxHealth = 100

// MoveResponse the message format of the move response from a Snake API call
type MoveResponse struct {
	Move  string `json:"move"`
	Shout string `json:"shout,omitempty"`
}

// StartResponse is the format for /start responses
type StartResponse struct {
	Name     string `json:"name,omitempty"`
	Color    string `json:"color"`
	HeadType string `json:"headType"`
	TailType string `json:"tailType"`
	Taunt    string `json:"taunt,omitempty"`
}

// InfoResponse is the format for GET / responses
type InfoResponse struct {
	APIVersion string `json:"apiversion"`
	Author     string `json:"author,omitempty"`
	Color      string `json:"color"`
	Head       string `json:"head"`
	Tail       string `json:"tail"`
	Version    string `json:"version,omitempty"`
}

// SnakeRequest the message send for all snake api calls
type SnakeRequest struct {
	Game  Game  `json:"game"`
	Turn  int32 `json:"turn"`
	Board Board `json:"board"`
	You   Snake `json:"you"`
}

// Game represents the current game state
type Game struct {
	ID string `json:"id"`
}

// Board provides information about the game board
type Board struct {
	Height  int32    `json:"height"`
	Width   int32    `json:"width"`
	Food    []Coords `json:"food"`
	Hazards []Coords `json:"hazards,omitempty"`
	Snakes  []Snake  `json:"snakes"`
}

// Snake represents information about a snake in the game
type Snake struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Health int32    `json:"health"`
	Body   []Coords `json:"body"`
}

// Coords represents a point on the board
type Coords struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// Snapshot converts a request into the engine's view of the game. Hazards are
// treated as walls. If the board's snake list does not include the requesting
// snake it is added from the you field.
func (req SnakeRequest) Snapshot() (board.Snapshot, error) {
	if req.You.ID == "" {
		return board.Snapshot{}, errors.Wrap(board.ErrMalformedSnapshot, "request has no you.id")
	}

	s := board.Snapshot{
		Width:  int(req.Board.Width),
		Height: int(req.Board.Height),
		Food:   convertPoints(req.Board.Food),
		Walls:  convertPoints(req.Board.Hazards),
		You:    req.You.ID,
	}

	foundSelf := false
	for _, snake := range req.Board.Snakes {
		if snake.ID == req.You.ID {
			foundSelf = true
		}
		s.Snakes = append(s.Snakes, convertSnake(snake))
	}
	if !foundSelf {
		s.Snakes = append([]board.SnakeState{convertSnake(req.You)}, s.Snakes...)
	}
	return s, nil
}

func convertPoints(coords []Coords) []board.Point {
	points := make([]board.Point, 0, len(coords))
	for _, c := range coords {
		points = append(points, board.Point{X: int(c.X), Y: int(c.Y)})
	}
	return points
}

func convertSnake(snake Snake) board.SnakeState {
	return board.SnakeState{
		ID:                snake.ID,
		Body:              convertPoints(snake.Body),
		TurnsUntilStarved: int(snake.Health),
	}
}
