package board

import (
	"strings"

	"github.com/pkg/errors"
)

// Parse reads a grid in the text format: equal-width rows, each terminated
// by '\n', one character per cell.
func Parse(s string) (*Grid, error) {
	if !strings.HasSuffix(s, "\n") {
		return nil, errors.Wrap(ErrMalformedSnapshot, "board text must end with a newline")
	}
	return ParseLines(strings.Split(strings.TrimSuffix(s, "\n"), "\n")...)
}

// ParseLines reads a grid from unterminated rows.
func ParseLines(lines ...string) (*Grid, error) {
	if len(lines) == 0 || len(lines[0]) == 0 {
		return nil, errors.Wrap(ErrMalformedSnapshot, "empty board")
	}

	width := len([]rune(lines[0]))
	cells := make([]Cell, 0, width*len(lines))
	for y, line := range lines {
		row := []rune(line)
		if len(row) != width {
			return nil, errors.Wrapf(ErrMalformedSnapshot, "row %d is %d wide, expected %d", y, len(row), width)
		}
		for x, r := range row {
			c, err := ParseCell(r)
			if err != nil {
				return nil, errors.Wrapf(ErrMalformedSnapshot, "(%d, %d): %v", x, y, err)
			}
			cells = append(cells, c)
		}
	}
	return New(width, len(lines), cells)
}

// String serializes the grid in the text format accepted by Parse.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.width + 1) * g.height)
	for i, c := range g.cells {
		b.WriteRune(c.Rune())
		if (i+1)%g.width == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Lines returns the grid rows without terminators.
func (g *Grid) Lines() []string {
	return strings.Split(strings.TrimSuffix(g.String(), "\n"), "\n")
}

// Frame renders the grid with '|' borders on every row, which keeps trailing
// blanks visible in logs.
func Frame(g *Grid) string {
	var b strings.Builder
	for _, line := range g.Lines() {
		b.WriteByte('|')
		b.WriteString(line)
		b.WriteString("|\n")
	}
	return b.String()
}
