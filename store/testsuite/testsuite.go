package testsuite

import (
	"context"
	"sync"
	"testing"

	"github.com/battlesnakeio/nol/board"
	"github.com/battlesnakeio/nol/brain"
	"github.com/battlesnakeio/nol/store"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/require"
)

func testTurn(id string, turn int, m board.Move) *store.Turn {
	return &store.Turn{
		GameID: id,
		Turn:   turn,
		Board:  " A*\n a \n",
		Move:   m,
		Scores: []brain.Score{
			{Move: board.Left, Valid: true, Enemy: 1, Food: 0.5, Space: 1, Total: 2.5},
			{Move: board.Up, Valid: false},
			{Move: board.Right, Valid: true, Enemy: 1, Food: 1, Space: 0.5, Total: 2.5},
			{Move: board.Down, Valid: false},
		},
		TurnsUntilStarved: 90 - turn,
		ElapsedMicros:     120,
	}
}

func turnNumbers(turns []*store.Turn) []int {
	var out []int
	for _, t := range turns {
		out = append(out, t.Turn)
	}
	return out
}

func testStoreGames(t *testing.T, s store.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	// Create and fetch a game.
	err := s.CreateGame(ctx, key)
	require.Nil(t, err)
	g, err := s.GetGame(ctx, key)
	require.Nil(t, err)
	require.Equal(t, &store.Game{ID: key, LastTurn: -1}, g)

	// Creating again is a no-op.
	require.Nil(t, s.CreateGame(ctx, key))

	// NotFound error thrown.
	_, err = s.GetGame(ctx, key+"-missing")
	require.Equal(t, store.ErrNotFound, err)
}

func testStoreEndGame(t *testing.T, s store.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	require.Equal(t, store.ErrNotFound, s.EndGame(ctx, key))

	require.Nil(t, s.CreateGame(ctx, key))
	require.Nil(t, s.EndGame(ctx, key))

	g, err := s.GetGame(ctx, key)
	require.Nil(t, err)
	require.True(t, g.Ended)
}

func testStoreTurns(t *testing.T, s store.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	// Read turns of a game that doesn't exist.
	turns, err := s.ListTurns(ctx, key, 10, 0)
	require.Equal(t, store.ErrNotFound, err)
	require.Equal(t, 0, len(turns))

	// Pushing creates the game.
	want := testTurn(key, 0, board.Right)
	require.Nil(t, s.PushTurn(ctx, key, want))
	turns, err = s.ListTurns(ctx, key, 10, 0)
	require.Nil(t, err)
	require.Equal(t, []*store.Turn{want}, turns)

	// Turns arriving out of order are listed in turn order.
	require.Nil(t, s.PushTurn(ctx, key, testTurn(key, 2, board.Up)))
	require.Nil(t, s.PushTurn(ctx, key, testTurn(key, 1, board.Left)))
	turns, err = s.ListTurns(ctx, key, 10, 0)
	require.Nil(t, err)
	require.Equal(t, []int{0, 1, 2}, turnNumbers(turns))

	// A turn with the same number replaces the earlier one.
	require.Nil(t, s.PushTurn(ctx, key, testTurn(key, 1, board.Down)))
	turns, err = s.ListTurns(ctx, key, 10, 0)
	require.Nil(t, err)
	require.Len(t, turns, 3)
	require.Equal(t, board.Down, turns[1].Move)

	g, err := s.GetGame(ctx, key)
	require.Nil(t, err)
	require.Equal(t, 3, g.Turns)
	require.Equal(t, 2, g.LastTurn)
	require.False(t, g.Ended)
}

func testStoreListTurns(t *testing.T, s store.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	require.Nil(t, s.CreateGame(ctx, key))

	// No turns yet.
	turns, err := s.ListTurns(ctx, key, 10, 0)
	require.Nil(t, err)
	require.Equal(t, 0, len(turns))

	for i := 0; i < 5; i++ {
		require.Nil(t, s.PushTurn(ctx, key, testTurn(key, i, board.Left)))
	}

	tests := []struct {
		name          string
		limit, offset int
		want          []int
	}{
		{"all", 10, 0, []int{0, 1, 2, 3, 4}},
		{"limit", 2, 0, []int{0, 1}},
		{"offset", 2, 1, []int{1, 2}},
		{"too high offset", 10, 100, nil},
		{"latest", 1, -1, []int{4}},
		{"from the end", 3, -2, []int{3, 2, 1}},
		{"too low offset", 10, -100, nil},
	}

	for _, test := range tests {
		turns, err := s.ListTurns(ctx, key, test.limit, test.offset)
		require.Nil(t, err, test.name)
		require.Equal(t, test.want, turnNumbers(turns), test.name)
	}
}

func testStoreConcurrentWriters(t *testing.T, s store.Store) {
	key := uuid.NewV4().String()
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(20)

	for i := 0; i < 20; i++ {
		go func(turn int) {
			defer wg.Done()
			if err := s.PushTurn(ctx, key, testTurn(key, turn, board.Up)); err != nil {
				t.Error(err)
			}
		}(i)
	}

	wg.Wait()

	g, err := s.GetGame(ctx, key)
	require.Nil(t, err)
	require.Equal(t, 20, g.Turns)
	require.Equal(t, 19, g.LastTurn)
}

// Suite will execute the store testsuite.
func Suite(t *testing.T, s store.Store, pretest func()) {
	s = store.InstrumentStore(s)
	t.Run("Games", func(t *testing.T) { pretest(); testStoreGames(t, s) })
	t.Run("EndGame", func(t *testing.T) { pretest(); testStoreEndGame(t, s) })
	t.Run("Turns", func(t *testing.T) { pretest(); testStoreTurns(t, s) })
	t.Run("ListTurns", func(t *testing.T) { pretest(); testStoreListTurns(t, s) })
	t.Run("ConcurrentWriters", func(t *testing.T) { pretest(); testStoreConcurrentWriters(t, s) })
}
