package rules

import (
	"encoding/json"
	"testing"

	"github.com/battlesnakeio/nol/board"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSnakeRequestSnapshot(t *testing.T) {
	req := SnakeRequest{
		Game: Game{ID: "game_123"},
		Turn: 4,
		Board: Board{
			Width:  5,
			Height: 4,
			Food:   []Coords{{X: 2, Y: 1}},
			Snakes: []Snake{
				{ID: "enemy", Health: 80, Body: []Coords{{X: 4, Y: 2}, {X: 4, Y: 3}}},
				{ID: "snake_123", Health: 42, Body: []Coords{{X: 1, Y: 1}, {X: 1, Y: 2}}},
			},
		},
		You: Snake{ID: "snake_123", Health: 42, Body: []Coords{{X: 1, Y: 1}, {X: 1, Y: 2}}},
	}

	s, err := req.Snapshot()
	require.NoError(t, err)
	require.Equal(t, 5, s.Width)
	require.Equal(t, 4, s.Height)
	require.Equal(t, "snake_123", s.You)
	require.Equal(t, []board.Point{{X: 2, Y: 1}}, s.Food)
	require.Len(t, s.Snakes, 2)

	self, err := s.Self()
	require.NoError(t, err)
	require.Equal(t, 42, self.TurnsUntilStarved)

	g, err := board.FromSnapshot(s)
	require.NoError(t, err)
	require.Equal(t, "     \n A*  \n a  B\n    b\n", g.String())
}

func TestSnakeRequestSnapshotAddsYou(t *testing.T) {
	req := SnakeRequest{
		Board: Board{Width: 3, Height: 1},
		You:   Snake{ID: "me", Health: 10, Body: []Coords{{X: 0, Y: 0}}},
	}

	s, err := req.Snapshot()
	require.NoError(t, err)
	require.Len(t, s.Snakes, 1)
	require.Equal(t, "me", s.Snakes[0].ID)
}

func TestSnakeRequestSnapshotHazardsAreWalls(t *testing.T) {
	req := SnakeRequest{
		Board: Board{
			Width:   3,
			Height:  1,
			Hazards: []Coords{{X: 2, Y: 0}},
		},
		You: Snake{ID: "me", Health: 10, Body: []Coords{{X: 0, Y: 0}}},
	}

	s, err := req.Snapshot()
	require.NoError(t, err)
	g, err := board.FromSnapshot(s)
	require.NoError(t, err)
	require.Equal(t, "A #\n", g.String())
}

func TestSnakeRequestSnapshotNoYou(t *testing.T) {
	_, err := SnakeRequest{Board: Board{Width: 3, Height: 3}}.Snapshot()
	require.Error(t, err)
	require.Equal(t, board.ErrMalformedSnapshot, errors.Cause(err))
}

func TestSnakeRequestJSON(t *testing.T) {
	data := []byte(`{
		"game": {"id": "g1"},
		"turn": 7,
		"board": {
			"height": 11,
			"width": 11,
			"food": [{"x": 5, "y": 5}],
			"snakes": [{"id": "s1", "name": "nol", "health": 90, "body": [{"x": 1, "y": 1}]}]
		},
		"you": {"id": "s1", "name": "nol", "health": 90, "body": [{"x": 1, "y": 1}]}
	}`)

	req := SnakeRequest{}
	require.NoError(t, json.Unmarshal(data, &req))
	require.Equal(t, "g1", req.Game.ID)
	require.Equal(t, int32(7), req.Turn)
	require.Equal(t, []Coords{{X: 5, Y: 5}}, req.Board.Food)
	require.Equal(t, int32(90), req.You.Health)
}

func TestMoveResponseJSON(t *testing.T) {
	data, err := json.Marshal(MoveResponse{Move: "up"})
	require.NoError(t, err)
	require.JSONEq(t, `{"move":"up"}`, string(data))
}
