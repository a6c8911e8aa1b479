package board

import "github.com/pkg/errors"

// Class is the classification of a single grid cell.
type Class uint8

// Cell classes. Every cell has exactly one.
const (
	Empty Class = iota
	Food
	Wall
	SelfHead
	SelfBody
	EnemyHead
	EnemyBody
)

var classNames = [...]string{"empty", "food", "wall", "self-head", "self-body", "enemy-head", "enemy-body"}

func (c Class) String() string {
	if int(c) >= len(classNames) {
		return "unknown"
	}
	return classNames[c]
}

// MaxEnemies is the number of opponents the text format can represent, one
// letter each after the self snake's 'A'.
const MaxEnemies = 25

// Cell is a classified grid position. Owner is 0 for the self snake and
// 1..MaxEnemies for opponents, in the order they were encountered. It is 0 for
// cells that are not snake cells.
type Cell struct {
	Class Class
	Owner int
}

// Snake reports whether the cell is occupied by any snake.
func (c Cell) Snake() bool {
	switch c.Class {
	case SelfHead, SelfBody, EnemyHead, EnemyBody:
		return true
	}
	return false
}

// valid reports whether the owner fits the class: 0 for everything but
// opponents, 1..MaxEnemies for opponents.
func (c Cell) valid() bool {
	switch {
	case int(c.Class) >= len(classNames):
		return false
	case c.Enemy():
		return c.Owner >= 1 && c.Owner <= MaxEnemies
	}
	return c.Owner == 0
}

// Enemy reports whether the cell is occupied by an opponent.
func (c Cell) Enemy() bool { return c.Class == EnemyHead || c.Class == EnemyBody }

// Opaque reports whether the cell stops movement and flood propagation. Walls
// and snakes are opaque, food and empty cells are not.
func (c Cell) Opaque() bool { return c.Class == Wall || c.Snake() }

// Selector picks the cells a search is looking for.
type Selector func(Cell) bool

// Blocks reports whether c stops a search for sel. A cell blocks a search
// when it is opaque and not itself one of the searched-for cells.
func Blocks(c Cell, sel Selector) bool { return c.Opaque() && !sel(c) }

// Selectors used by the engine and its diagnostics.
var (
	FoodCells  Selector = func(c Cell) bool { return c.Class == Food }
	EnemyCells Selector = func(c Cell) bool { return c.Enemy() }
	EnemyHeads Selector = func(c Cell) bool { return c.Class == EnemyHead }
	SelfCells  Selector = func(c Cell) bool { return c.Class == SelfHead || c.Class == SelfBody }
)

// Text format characters.
const (
	runeEmpty = ' '
	runeFood  = '*'
	runeWall  = '#'
)

// Rune returns the text format character for the cell.
func (c Cell) Rune() rune {
	switch c.Class {
	case Food:
		return runeFood
	case Wall:
		return runeWall
	case SelfHead, EnemyHead:
		return rune('A' + c.Owner)
	case SelfBody, EnemyBody:
		return rune('a' + c.Owner)
	}
	return runeEmpty
}

// ParseCell converts a text format character to a cell.
func ParseCell(r rune) (Cell, error) {
	switch {
	case r == runeEmpty:
		return Cell{Class: Empty}, nil
	case r == runeFood:
		return Cell{Class: Food}, nil
	case r == runeWall:
		return Cell{Class: Wall}, nil
	case r == 'A':
		return Cell{Class: SelfHead}, nil
	case r == 'a':
		return Cell{Class: SelfBody}, nil
	case r > 'A' && r <= 'Z':
		return Cell{Class: EnemyHead, Owner: int(r - 'A')}, nil
	case r > 'a' && r <= 'z':
		return Cell{Class: EnemyBody, Owner: int(r - 'a')}, nil
	}
	return Cell{}, errors.Errorf("board: unknown cell character %q", r)
}
