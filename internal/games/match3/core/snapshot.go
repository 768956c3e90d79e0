package core

import (
	"fmt"
	"strings"
)

// Slot is the value state of one cell in a Snapshot.
type Slot struct {
	Available bool
	Occupied  bool
	Type      ElementType
}

// Rune returns the board notation for the slot: the element rune,
// '.' for an empty cell and '#' for a blocked one.
func (s Slot) Rune() rune {
	switch {
	case !s.Available:
		return '#'
	case !s.Occupied:
		return '.'
	default:
		return s.Type.Rune()
	}
}

// Snapshot is a value copy of a grid's occupancy, row-major from row 0.
type Snapshot struct {
	W, H  int
	Slots []Slot
}

// Snapshot captures the current occupancy of the grid.
func (g *Grid) Snapshot() Snapshot {
	s := Snapshot{W: g.w, H: g.h, Slots: make([]Slot, len(g.cells))}
	for i := range g.cells {
		c := &g.cells[i]
		slot := Slot{Available: c.available}
		if e, ok := c.occupant.Element(); ok {
			slot.Occupied = true
			slot.Type = e.Type
		}
		s.Slots[i] = slot
	}
	return s
}

// At returns the slot at p. Out-of-bounds positions read as blocked.
func (s Snapshot) At(p Position) Slot {
	if p.X < 0 || p.X >= s.W || p.Y < 0 || p.Y >= s.H {
		return Slot{}
	}
	return s.Slots[p.Y*s.W+p.X]
}

// Equal reports whether two snapshots hold the same board.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.W != other.W || s.H != other.H || len(s.Slots) != len(other.Slots) {
		return false
	}
	for i := range s.Slots {
		if s.Slots[i] != other.Slots[i] {
			return false
		}
	}
	return true
}

// Rows renders the board as text rows, top row first.
func (s Snapshot) Rows() []string {
	rows := make([]string, 0, s.H)
	for y := s.H - 1; y >= 0; y-- {
		var sb strings.Builder
		for x := range s.W {
			sb.WriteRune(s.At(P(x, y)).Rune())
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func (s Snapshot) String() string {
	return strings.Join(s.Rows(), "\n")
}

// ParseGrid builds a grid from text rows listed top row first, the same
// notation Snapshot.Rows produces: element runes (R O Y G B P *), '.'
// for an empty cell and '#' for a blocked cell.
func ParseGrid(rows ...string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidDimensions)
	}
	width := len([]rune(rows[0]))
	g, err := NewGrid(width, len(rows))
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("row %d has width %d, want %d", i, len(runes), width)
		}
		y := len(rows) - 1 - i
		for x, r := range runes {
			p := P(x, y)
			switch r {
			case '.':
			case '#':
				g.SetAvailable(p, false)
			default:
				t, ok := elementTypeFromRune(r)
				if !ok {
					return nil, fmt.Errorf("row %d: unknown cell %q", i, r)
				}
				g.Place(g.NewElement(t), p)
			}
		}
	}
	return g, nil
}

// MustParseGrid is ParseGrid that panics on malformed input.
func MustParseGrid(rows ...string) *Grid {
	g, err := ParseGrid(rows...)
	if err != nil {
		panic(err)
	}
	return g
}
