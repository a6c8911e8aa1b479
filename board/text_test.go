package board

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestParseRoundTrip(t *testing.T) {
	boards := []string{
		"    # \n A*   \n a  Bb\n      \n",
		" *  # \n    BA\n      \n      \n",
		"          \n    # C   \n    # c   \n  A ####  \n  a    bbb\n  a  * b b\n  a    b b\n  aaa  b b\n  ##   B b\n  *   bbbb\n",
		"A\n",
	}

	for _, text := range boards {
		g, err := Parse(text)
		require.NoError(t, err)
		require.Equal(t, text, g.String())

		again, err := Parse(g.String())
		require.NoError(t, err)
		require.Equal(t, g.String(), again.String())
	}
}

func TestParseLines(t *testing.T) {
	g, err := ParseLines(
		"  # * ",
		"A ##  ",
		"a*   B",
	)
	require.NoError(t, err)
	require.Equal(t, 6, g.Width())
	require.Equal(t, 3, g.Height())
	require.Equal(t, "  # * \nA ##  \na*   B\n", g.String())
	require.Equal(t, []string{"  # * ", "A ##  ", "a*   B"}, g.Lines())

	head, _ := g.Index(Point{X: 0, Y: 1})
	require.Equal(t, head, g.Head())
	require.Equal(t, Cell{Class: EnemyHead, Owner: 1}, g.Cell(17))
	require.Equal(t, []int{4, 13}, g.Find(FoodCells))
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"A",
		"A \n  \n ",
		"A  \n  \n",
		"A?\n",
		"  \n  \n",
		"AA\n",
	}
	for _, text := range tests {
		_, err := Parse(text)
		require.Error(t, err, "%q", text)
		require.Equal(t, ErrMalformedSnapshot, errors.Cause(err), "%q", text)
	}
}

func TestFrame(t *testing.T) {
	g, err := ParseLines(" *  #*", "    BA")
	require.NoError(t, err)
	require.Equal(t, "| *  #*|\n|    BA|\n", Frame(g))
}

func TestCellRunes(t *testing.T) {
	for _, r := range " *#AaBbZz" {
		c, err := ParseCell(r)
		require.NoError(t, err)
		require.Equal(t, r, c.Rune())
	}
	c, err := ParseCell('D')
	require.NoError(t, err)
	require.Equal(t, Cell{Class: EnemyHead, Owner: 3}, c)
}
