package core

import (
	"errors"
	"fmt"
	"iter"
)

// ErrInvalidDimensions is returned when a grid is created with a
// non-positive width or height.
var ErrInvalidDimensions = errors.New("invalid grid dimensions")

// Grid owns a W×H arrangement of cells and a reverse index from position
// to occupant. Cells are stored in row-major order: index = y*W + x.
type Grid struct {
	w, h   int
	cells  []Cell
	index  map[Position]*Element
	nextID int
}

// NewGrid creates a grid with every cell empty and available.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	g := &Grid{
		w:     width,
		h:     height,
		cells: make([]Cell, width*height),
		index: make(map[Position]*Element, width*height),
	}
	for y := range height {
		for x := range width {
			g.cells[y*width+x] = Cell{pos: P(x, y), available: true}
		}
	}
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.w
}

// Height returns the number of rows.
func (g *Grid) Height() int {
	return g.h
}

// Size returns the total number of cells.
func (g *Grid) Size() int {
	return g.w * g.h
}

func (g *Grid) idx(p Position) int {
	return p.Y*g.w + p.X
}

// IsValidPosition reports whether p is inside the grid bounds.
func (g *Grid) IsValidPosition(p Position) bool {
	return p.X >= 0 && p.X < g.w && p.Y >= 0 && p.Y < g.h
}

// IsAvailable reports whether p is in bounds and playable.
func (g *Grid) IsAvailable(p Position) bool {
	return g.IsValidPosition(p) && g.cells[g.idx(p)].available
}

// CellAt returns the cell at p, or false when p is out of bounds.
func (g *Grid) CellAt(p Position) (*Cell, bool) {
	if !g.IsValidPosition(p) {
		return nil, false
	}
	return &g.cells[g.idx(p)], true
}

// ElementAt returns the element at p using the reverse index.
func (g *Grid) ElementAt(p Position) (*Element, bool) {
	e, ok := g.index[p]
	return e, ok
}

// TypeAt returns the element type at p, or false when p holds nothing.
func (g *Grid) TypeAt(p Position) (ElementType, bool) {
	e, ok := g.index[p]
	if !ok {
		return 0, false
	}
	return e.Type, true
}

// SetAvailable marks a cell playable or blocked. Blocking a cell drops its
// occupant.
func (g *Grid) SetAvailable(p Position, available bool) {
	c, ok := g.CellAt(p)
	if !ok {
		return
	}
	if !available {
		g.Remove(p)
	}
	c.available = available
}

// SetRole sets the role tag of a cell.
func (g *Grid) SetRole(p Position, role CellRole) {
	if c, ok := g.CellAt(p); ok {
		c.role = role
	}
}

// Neighbors returns the in-bounds, available orthogonal neighbours of p
// in up, down, left, right order.
func (g *Grid) Neighbors(p Position) []*Cell {
	if !g.IsValidPosition(p) {
		return nil
	}
	out := make([]*Cell, 0, 4)
	for _, d := range Dirs {
		n := p.Step(d)
		if g.IsAvailable(n) {
			out = append(out, &g.cells[g.idx(n)])
		}
	}
	return out
}

// NewElement allocates an element with a fresh ID. It is not placed.
func (g *Grid) NewElement(t ElementType) *Element {
	g.nextID++
	return &Element{ID: g.nextID, Type: t, Pos: P(-1, -1)}
}

// Place sets the occupant of the cell at p and records it in the index.
// Any previous occupant reference is overwritten, not destroyed. An element
// still held by another cell leaves that cell, so it is never in two cells.
// Placing on an out-of-bounds or blocked cell is a no-op.
func (g *Grid) Place(e *Element, p Position) {
	if e == nil || !g.IsAvailable(p) {
		return
	}
	if old := e.Pos; old != p && g.IsValidPosition(old) && g.index[old] == e {
		g.Remove(old)
	}
	g.cells[g.idx(p)].occupant = Occupied(e)
	g.index[p] = e
	e.Pos = p
}

// Remove clears the cell at p. Removing an empty cell is a no-op.
func (g *Grid) Remove(p Position) {
	if !g.IsValidPosition(p) {
		return
	}
	g.cells[g.idx(p)].occupant = Empty()
	delete(g.index, p)
}

// Swap exchanges the occupants of a and b together with their position
// bookkeeping. If one side is empty the other is simply relocated.
// Out-of-bounds or blocked positions make it a no-op.
func (g *Grid) Swap(a, b Position) {
	if !g.IsAvailable(a) || !g.IsAvailable(b) || a == b {
		return
	}
	ca := &g.cells[g.idx(a)]
	cb := &g.cells[g.idx(b)]
	ca.occupant, cb.occupant = cb.occupant, ca.occupant
	g.reindex(a, ca.occupant)
	g.reindex(b, cb.occupant)
}

func (g *Grid) reindex(p Position, o Occupant) {
	if e, ok := o.Element(); ok {
		g.index[p] = e
		e.Pos = p
		return
	}
	delete(g.index, p)
}

// Move relocates the occupant at from into the cell at to, overwriting
// whatever reference to held.
func (g *Grid) Move(from, to Position) {
	if from == to || !g.IsAvailable(to) {
		return
	}
	e, ok := g.ElementAt(from)
	if !ok {
		return
	}
	g.Remove(from)
	g.Place(e, to)
}

// Clear empties every cell. Availability and roles are kept.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i].occupant = Empty()
	}
	clear(g.index)
}

// AllCells yields every cell row by row, starting at row 0, columns
// ascending.
func (g *Grid) AllCells() iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		for i := range g.cells {
			if !yield(&g.cells[i]) {
				return
			}
		}
	}
}

// AllOccupants yields every placed element in AllCells order.
func (g *Grid) AllOccupants() iter.Seq[*Element] {
	return func(yield func(*Element) bool) {
		for i := range g.cells {
			if e, ok := g.cells[i].occupant.Element(); ok {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// OccupiedCount returns the number of occupied cells.
func (g *Grid) OccupiedCount() int {
	return len(g.index)
}

// EmptyCount returns the number of available cells without an occupant.
func (g *Grid) EmptyCount() int {
	n := 0
	for i := range g.cells {
		if g.cells[i].available && g.cells[i].occupant.IsEmpty() {
			n++
		}
	}
	return n
}
