// Package board models the game grid a decision is made on: classified
// cells, coordinate conversion and the 4-connected adjacency table. A Grid is
// built once per decision and never changes afterwards.
package board

import "github.com/pkg/errors"

// ErrMalformedSnapshot is returned when a snapshot or cell array cannot form a
// valid grid. It is wrapped with detail; compare against errors.Cause(err).
var ErrMalformedSnapshot = errors.New("board: malformed snapshot")

// Neighbor is an adjacent cell and the move that reaches it.
type Neighbor struct {
	Index int
	Move  Move
}

// Grid is a rectangular board of classified cells.
type Grid struct {
	width  int
	height int
	cells  []Cell
	adj    [][]Neighbor
	head   int
}

// New builds a grid from a row-major cell slice. The slice is copied. It
// fails with ErrMalformedSnapshot if the dimensions do not match the cells,
// if a cell's owner does not fit its class or if there is not exactly one
// self head.
func New(width, height int, cells []Cell) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrMalformedSnapshot, "invalid dimensions %dx%d", width, height)
	}
	if width*height != len(cells) {
		return nil, errors.Wrapf(ErrMalformedSnapshot,
			"%dx%d grid needs %d cells, got %d", width, height, width*height, len(cells))
	}

	head := -1
	for i, c := range cells {
		if !c.valid() {
			return nil, errors.Wrapf(ErrMalformedSnapshot, "invalid %s cell with owner %d at %d", c.Class, c.Owner, i)
		}
		if c.Class != SelfHead {
			continue
		}
		if head >= 0 {
			return nil, errors.Wrap(ErrMalformedSnapshot, "more than one self head")
		}
		head = i
	}
	if head < 0 {
		return nil, errors.Wrap(ErrMalformedSnapshot, "no self head")
	}

	g := &Grid{
		width:  width,
		height: height,
		cells:  append([]Cell(nil), cells...),
		head:   head,
	}
	g.adj = g.adjacency()
	return g, nil
}

func (g *Grid) adjacency() [][]Neighbor {
	adj := make([][]Neighbor, len(g.cells))
	for i := range g.cells {
		p := g.Coords(i)
		list := make([]Neighbor, 0, len(Moves))
		for _, m := range Moves {
			if n := p.Add(m); g.InBounds(n) {
				list = append(list, Neighbor{Index: g.index(n), Move: m})
			}
		}
		adj[i] = list
	}
	return adj
}

// Width of the grid in cells.
func (g *Grid) Width() int { return g.width }

// Height of the grid in cells.
func (g *Grid) Height() int { return g.height }

// Len is the number of cells, width*height.
func (g *Grid) Len() int { return len(g.cells) }

// Head is the index of the self head.
func (g *Grid) Head() int { return g.head }

// Cell returns the cell at index i.
func (g *Grid) Cell(i int) Cell { return g.cells[i] }

// Class returns the classification of the cell at index i.
func (g *Grid) Class(i int) Class { return g.cells[i].Class }

// Neighbors returns the precomputed adjacency list for index i in canonical
// move order. The returned slice must not be modified.
func (g *Grid) Neighbors(i int) []Neighbor { return g.adj[i] }

// InBounds reports whether p lies on the grid.
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// Index converts a point to a cell index.
func (g *Grid) Index(p Point) (int, error) {
	if !g.InBounds(p) {
		return 0, errors.Errorf("board: (%d, %d) is outside %dx%d", p.X, p.Y, g.width, g.height)
	}
	return g.index(p), nil
}

func (g *Grid) index(p Point) int { return p.Y*g.width + p.X }

// Coords converts a cell index to a point.
func (g *Grid) Coords(i int) Point { return Point{X: i % g.width, Y: i / g.width} }

// Find returns the indexes of every cell matching sel, in index order.
func (g *Grid) Find(sel Selector) []int {
	var found []int
	for i, c := range g.cells {
		if sel(c) {
			found = append(found, i)
		}
	}
	return found
}
