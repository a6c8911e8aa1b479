package board

import "github.com/pkg/errors"

// SnakeState is one snake in a snapshot.
type SnakeState struct {
	ID                string
	Body              []Point // head first
	TurnsUntilStarved int
}

// Head returns the first body segment.
func (s SnakeState) Head() (Point, bool) {
	if len(s.Body) == 0 {
		return Point{}, false
	}
	return s.Body[0], true
}

// Snapshot is the game state a decision is made from. You is the ID of the
// snake the decision is for.
type Snapshot struct {
	Width  int
	Height int
	Food   []Point
	Walls  []Point
	Snakes []SnakeState
	You    string
}

// Self returns the snake the decision is for.
func (s Snapshot) Self() (SnakeState, error) {
	var (
		self  SnakeState
		found bool
	)
	for _, snake := range s.Snakes {
		if snake.ID != s.You {
			continue
		}
		if found {
			return SnakeState{}, errors.Wrapf(ErrMalformedSnapshot, "snake %q appears more than once", s.You)
		}
		self, found = snake, true
	}
	if !found {
		return SnakeState{}, errors.Wrapf(ErrMalformedSnapshot, "no snake with id %q", s.You)
	}
	if len(self.Body) == 0 {
		return SnakeState{}, errors.Wrapf(ErrMalformedSnapshot, "snake %q has no body", s.You)
	}
	return self, nil
}

// FromSnapshot builds the grid for a snapshot. Walls are placed first, then
// food on empty cells, then the self snake, then opponents in the order they
// appear. A snake segment never replaces an earlier snake segment, which
// handles the stacked segments snakes start the game with.
func FromSnapshot(s Snapshot) (*Grid, error) {
	if s.Width <= 0 || s.Height <= 0 {
		return nil, errors.Wrapf(ErrMalformedSnapshot, "invalid dimensions %dx%d", s.Width, s.Height)
	}
	self, err := s.Self()
	if err != nil {
		return nil, err
	}

	cells := make([]Cell, s.Width*s.Height)
	index := func(p Point, what string) (int, error) {
		if p.X < 0 || p.X >= s.Width || p.Y < 0 || p.Y >= s.Height {
			return 0, errors.Wrapf(ErrMalformedSnapshot, "%s at (%d, %d) is outside %dx%d", what, p.X, p.Y, s.Width, s.Height)
		}
		return p.Y*s.Width + p.X, nil
	}

	for _, p := range s.Walls {
		i, err := index(p, "wall")
		if err != nil {
			return nil, err
		}
		cells[i] = Cell{Class: Wall}
	}
	for _, p := range s.Food {
		i, err := index(p, "food")
		if err != nil {
			return nil, err
		}
		if cells[i].Class == Empty {
			cells[i] = Cell{Class: Food}
		}
	}

	place := func(snake SnakeState, head, body Class, owner int) error {
		for n, p := range snake.Body {
			i, err := index(p, "snake "+snake.ID)
			if err != nil {
				return err
			}
			if cells[i].Snake() {
				continue
			}
			class := body
			if n == 0 {
				class = head
			}
			cells[i] = Cell{Class: class, Owner: owner}
		}
		return nil
	}

	if err := place(self, SelfHead, SelfBody, 0); err != nil {
		return nil, err
	}
	owner := 0
	for _, snake := range s.Snakes {
		if snake.ID == s.You || len(snake.Body) == 0 {
			continue
		}
		owner++
		if owner > MaxEnemies {
			return nil, errors.Wrapf(ErrMalformedSnapshot, "more than %d opponents", MaxEnemies)
		}
		if err := place(snake, EnemyHead, EnemyBody, owner); err != nil {
			return nil, err
		}
	}

	return New(s.Width, s.Height, cells)
}
