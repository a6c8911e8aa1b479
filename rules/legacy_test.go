package rules

import (
	"encoding/json"
	"testing"

	"github.com/battlesnakeio/nol/board"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestLegacySnakeTurnsUntilStarved(t *testing.T) {
	tests := []struct {
		name      string
		lastEaten *int
		turn      int
		want      int
	}{
		{"just ate", intPtr(10), 10, 100},
		{"some time ago", intPtr(10), 40, 70},
		{"about to starve", intPtr(0), 99, 1},
		{"unknown", nil, 40, 50},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := LegacySnake{LastEaten: test.lastEaten}
			require.Equal(t, test.want, s.TurnsUntilStarved(test.turn))
		})
	}
}

func TestLegacyRequestSnapshot(t *testing.T) {
	data := []byte(`{
		"turn": 30,
		"board": [[{}, {}, {}, {}], [{}, {}, {}, {}], [{}, {}, {}, {}]],
		"food": [[3, 0]],
		"snakes": [
			{"id": "x", "name": "other", "coords": [[0, 0], [0, 1]], "last_eaten": 25},
			{"id": "y", "name": "Nöl", "coords": [[2, 2], [1, 2]], "last_eaten": 20}
		]
	}`)

	req := LegacyRequest{}
	require.NoError(t, json.Unmarshal(data, &req))

	s, err := req.Snapshot("Nöl")
	require.NoError(t, err)
	require.Equal(t, 4, s.Width)
	require.Equal(t, 3, s.Height)
	require.Equal(t, "y", s.You)

	self, err := s.Self()
	require.NoError(t, err)
	require.Equal(t, 90, self.TurnsUntilStarved)

	g, err := board.FromSnapshot(s)
	require.NoError(t, err)
	require.Equal(t, "B  *\nb   \n aA \n", g.String())
}

func TestLegacyRequestSnapshotErrors(t *testing.T) {
	tests := []struct {
		name string
		req  LegacyRequest
	}{
		{
			"missing self",
			LegacyRequest{Width: 2, Height: 2, Snakes: []LegacySnake{{Name: "other", Coords: [][2]int{{0, 0}}}}},
		},
		{
			"duplicate self",
			LegacyRequest{Width: 2, Height: 2, Snakes: []LegacySnake{
				{ID: "a", Name: "me", Coords: [][2]int{{0, 0}}},
				{ID: "b", Name: "me", Coords: [][2]int{{1, 1}}},
			}},
		},
		{
			"anonymous snake",
			LegacyRequest{Width: 2, Height: 2, Snakes: []LegacySnake{
				{ID: "a", Name: "me", Coords: [][2]int{{0, 0}}},
				{Coords: [][2]int{{1, 1}}},
			}},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := test.req.Snapshot("me")
			require.Error(t, err)
			require.Equal(t, board.ErrMalformedSnapshot, errors.Cause(err))
		})
	}
}
