package board

import "github.com/pkg/errors"

// Move is one of the four cardinal moves a snake can make.
type Move int

// The declaration order is the canonical enumeration order. It is used for
// neighbour lists, space partition seeding and as the final tie-break when
// two moves score the same.
const (
	Left Move = iota
	Up
	Right
	Down
)

// Moves lists every move in canonical order.
var Moves = [...]Move{Left, Up, Right, Down}

// FallbackMove is returned when no move is legal.
const FallbackMove = Left

var moveNames = [...]string{"left", "up", "right", "down"}

var moveOffsets = [...]Point{
	{X: -1, Y: 0},
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
}

func (m Move) String() string {
	if m < Left || m > Down {
		return "unknown"
	}
	return moveNames[m]
}

// Offset returns the (dx, dy) a move applies to a point. An invalid move has
// no offset.
func (m Move) Offset() Point {
	if m < Left || m > Down {
		return Point{}
	}
	return moveOffsets[m]
}

// MarshalText implements encoding.TextMarshaler so moves serialize as their
// lowercase names.
func (m Move) MarshalText() ([]byte, error) {
	if m < Left || m > Down {
		return nil, errors.Errorf("board: invalid move %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Move) UnmarshalText(text []byte) error {
	parsed, err := ParseMove(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMove converts a move label ("up", "down", "left", "right") to a Move.
func ParseMove(s string) (Move, error) {
	for i, name := range moveNames {
		if name == s {
			return Move(i), nil
		}
	}
	return FallbackMove, errors.Errorf("board: unknown move %q", s)
}

// Point is an (x, y) coordinate, origin at the top left.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the point moved by the given move.
func (p Point) Add(m Move) Point {
	o := m.Offset()
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}
