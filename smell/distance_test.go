package smell

import (
	"testing"

	"github.com/battlesnakeio/nol/board"
	"github.com/stretchr/testify/require"
)

const U = -1

func mustParse(t *testing.T, lines ...string) *board.Grid {
	g, err := board.ParseLines(lines...)
	require.NoError(t, err)
	return g
}

func TestTransformFood(t *testing.T) {
	g := mustParse(t,
		"    # ",
		" A*   ",
		" a  Bb",
		"      ",
	)

	food := Transform(g, board.FoodCells)
	require.Equal(t, []int{
		3, 2, 1, 2, U, 4,
		4, U, 0, 1, 2, 3,
		5, U, 1, 2, U, U,
		4, 3, 2, 3, 4, 5,
	}, food.Raw())
	require.Equal(t, 5, food.Max())
	require.False(t, food.Empty())

	n, ok := food.Normalized(g.Len() - 1)
	require.True(t, ok)
	require.Equal(t, 1.0, n)

	n, ok = food.Normalized(8)
	require.True(t, ok)
	require.Equal(t, 0.0, n)

	_, ok = food.Normalized(g.Head())
	require.False(t, ok)
}

func TestTransformEnemy(t *testing.T) {
	g := mustParse(t,
		"    # ",
		" A*   ",
		" a  Bb",
		"      ",
	)

	enemy := Transform(g, board.EnemyCells)
	require.Equal(t, []int{
		6, 5, 4, 3, U, 2,
		7, U, 3, 2, 1, 1,
		6, U, 2, 1, 0, 0,
		5, 4, 3, 2, 1, 1,
	}, enemy.Raw())
	require.Equal(t, 7, enemy.Max())
}

func TestTransformSelf(t *testing.T) {
	g := mustParse(t,
		"A a",
		"#  ",
	)

	self := Transform(g, board.SelfCells)
	require.Equal(t, []int{
		0, 1, 0,
		U, 2, 1,
	}, self.Raw())
}

func TestTransformNoSources(t *testing.T) {
	g := mustParse(t,
		"A   ",
		"    ",
	)

	food := Transform(g, board.FoodCells)
	require.True(t, food.Empty())
	require.Equal(t, 0, food.Max())
	for i := 0; i < food.Len(); i++ {
		require.False(t, food.At(i).Reachable(), "cell %d", i)
	}
}

func TestTransformSingleSourceMax(t *testing.T) {
	g := mustParse(t, "A*a")

	food := Transform(g, board.FoodCells)
	require.False(t, food.Empty())
	require.Equal(t, 0, food.Max())
	n, ok := food.Normalized(1)
	require.True(t, ok)
	require.Equal(t, 0.0, n)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// A corner head never lies on a required shortest path, so every other cell
// of an open grid sits at its Manhattan distance from a single food.
func TestTransformManhattan(t *testing.T) {
	sizes := []board.Point{{X: 1, Y: 5}, {X: 6, Y: 4}, {X: 7, Y: 7}, {X: 11, Y: 3}}

	for _, size := range sizes {
		n := size.X * size.Y
		for food := 1; food < n; food++ {
			cells := make([]board.Cell, n)
			cells[0] = board.Cell{Class: board.SelfHead}
			cells[food] = board.Cell{Class: board.Food}
			g, err := board.New(size.X, size.Y, cells)
			require.NoError(t, err)

			m := Transform(g, board.FoodCells)
			src := g.Coords(food)
			for i := 1; i < n; i++ {
				p := g.Coords(i)
				want := abs(p.X-src.X) + abs(p.Y-src.Y)
				got, ok := m.At(i).Steps()
				require.True(t, ok, "%v food=%v cell=%v", size, src, p)
				require.Equal(t, want, got, "%v food=%v cell=%v", size, src, p)
			}
			require.False(t, m.At(0).Reachable())
		}
	}
}

func TestDistance(t *testing.T) {
	_, ok := Unreachable.Steps()
	require.False(t, ok)

	n, ok := Reached(3).Steps()
	require.True(t, ok)
	require.Equal(t, 3, n)

	n, ok = Reached(0).Steps()
	require.True(t, ok)
	require.Equal(t, 0, n)
}
