package core

import (
	"errors"
	"testing"
)

func TestNewGridInvalidDimensions(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"zero width", 0, 5},
		{"zero height", 5, 0},
		{"negative width", -1, 3},
		{"both negative", -2, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.w, tt.h)
			if !errors.Is(err, ErrInvalidDimensions) {
				t.Fatalf("NewGrid(%d, %d) error = %v, want ErrInvalidDimensions", tt.w, tt.h, err)
			}
			if g != nil {
				t.Error("expected nil grid on error")
			}
		})
	}
}

func TestNewGridCellsStartEmptyAndAvailable(t *testing.T) {
	g, err := NewGrid(3, 2)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	for y := range 2 {
		for x := range 3 {
			c, ok := g.CellAt(P(x, y))
			if !ok {
				t.Fatalf("CellAt(%d,%d) not found", x, y)
			}
			if c.Pos() != P(x, y) {
				t.Errorf("cell at (%d,%d) reports position %v", x, y, c.Pos())
			}
			if !c.IsEmpty() || !c.Available() {
				t.Errorf("cell %v should start empty and available", c.Pos())
			}
			if c.Role() != RoleNormal {
				t.Errorf("cell %v role = %v, want normal", c.Pos(), c.Role())
			}
		}
	}

	if g.EmptyCount() != 6 {
		t.Errorf("EmptyCount() = %d, want 6", g.EmptyCount())
	}
}

func TestCellAtOutOfBounds(t *testing.T) {
	g, _ := NewGrid(3, 3)

	for _, p := range []Position{P(-1, 0), P(0, -1), P(3, 0), P(0, 3), P(10, 10)} {
		if c, ok := g.CellAt(p); ok || c != nil {
			t.Errorf("CellAt(%v) should be absent", p)
		}
		if g.IsValidPosition(p) {
			t.Errorf("IsValidPosition(%v) = true", p)
		}
		if g.IsAvailable(p) {
			t.Errorf("IsAvailable(%v) = true", p)
		}
	}
}

func TestNeighborsFiltersBoundsAndAvailability(t *testing.T) {
	g, _ := NewGrid(3, 3)
	g.SetAvailable(P(1, 2), false)

	tests := []struct {
		name string
		pos  Position
		want []Position
	}{
		{"center with blocked top", P(1, 1), []Position{P(1, 0), P(0, 1), P(2, 1)}},
		{"bottom-left corner", P(0, 0), []Position{P(0, 1), P(1, 0)}},
		{"top-right corner", P(2, 2), []Position{P(2, 1)}},
		{"out of bounds", P(5, 5), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Neighbors(tt.pos)
			if len(got) != len(tt.want) {
				t.Fatalf("Neighbors(%v) returned %d cells, want %d", tt.pos, len(got), len(tt.want))
			}
			for i, c := range got {
				if c.Pos() != tt.want[i] {
					t.Errorf("neighbor %d = %v, want %v", i, c.Pos(), tt.want[i])
				}
			}
		})
	}
}

func TestPlaceAndRemove(t *testing.T) {
	g, _ := NewGrid(2, 2)
	e := g.NewElement(Green)

	g.Place(e, P(1, 0))
	got, ok := g.ElementAt(P(1, 0))
	if !ok || got != e {
		t.Fatal("ElementAt should return the placed element")
	}
	if e.Pos != P(1, 0) {
		t.Errorf("element position = %v, want (1,0)", e.Pos)
	}
	c, _ := g.CellAt(P(1, 0))
	if ce, ok := c.Element(); !ok || ce != e {
		t.Error("cell occupant should be the placed element")
	}

	g.Remove(P(1, 0))
	if _, ok := g.ElementAt(P(1, 0)); ok {
		t.Error("element should be gone from the index after Remove")
	}
	if !c.IsEmpty() {
		t.Error("cell should be empty after Remove")
	}

	// Idempotent
	g.Remove(P(1, 0))
	g.Remove(P(9, 9))
	if g.OccupiedCount() != 0 {
		t.Errorf("OccupiedCount() = %d, want 0", g.OccupiedCount())
	}
}

func TestPlaceKeepsElementInOneCell(t *testing.T) {
	g, _ := NewGrid(3, 1)
	e := g.NewElement(Red)
	other := g.NewElement(Blue)

	g.Place(e, P(0, 0))
	g.Place(other, P(2, 0))
	g.Place(e, P(2, 0))

	if _, ok := g.ElementAt(P(0, 0)); ok {
		t.Error("old cell should be empty after placing the element elsewhere")
	}
	if c, _ := g.CellAt(P(0, 0)); !c.IsEmpty() {
		t.Error("old cell occupant should be cleared")
	}
	if got, _ := g.ElementAt(P(2, 0)); got != e || e.Pos != P(2, 0) {
		t.Errorf("ElementAt(2,0) = %v at %v, want the placed element", got, e.Pos)
	}
	if g.OccupiedCount() != 1 {
		t.Errorf("OccupiedCount() = %d, want 1", g.OccupiedCount())
	}
	// The overwritten element is not destroyed.
	if other.Pos != P(2, 0) || other.Type != Blue {
		t.Errorf("overwritten element changed: %+v", other)
	}
}

func TestPlaceOnBlockedCellIsNoop(t *testing.T) {
	g, _ := NewGrid(2, 1)
	g.SetAvailable(P(0, 0), false)

	g.Place(g.NewElement(Red), P(0, 0))
	if _, ok := g.ElementAt(P(0, 0)); ok {
		t.Error("blocked cell must not receive an occupant")
	}
}

func TestSetAvailableDropsOccupant(t *testing.T) {
	g := MustParseGrid("RG")
	g.SetAvailable(P(1, 0), false)

	if _, ok := g.ElementAt(P(1, 0)); ok {
		t.Error("blocking a cell should drop its occupant")
	}
	if g.OccupiedCount() != 1 {
		t.Errorf("OccupiedCount() = %d, want 1", g.OccupiedCount())
	}
}

func TestSwapIsItsOwnInverse(t *testing.T) {
	g := MustParseGrid(
		"RGB",
		"YOP",
	)
	before := g.Snapshot()

	g.Swap(P(0, 0), P(1, 1))
	if g.Snapshot().Equal(before) {
		t.Fatal("swap of different types should change the board")
	}
	g.Swap(P(0, 0), P(1, 1))

	if !g.Snapshot().Equal(before) {
		t.Errorf("double swap should restore the board\nbefore:\n%s\nafter:\n%s", before, g.Snapshot())
	}
	for e := range g.AllOccupants() {
		if got, _ := g.ElementAt(e.Pos); got != e {
			t.Errorf("index out of sync for element %d at %v", e.ID, e.Pos)
		}
	}
}

func TestSwapWithEmptyRelocates(t *testing.T) {
	g := MustParseGrid("R.")
	e, _ := g.ElementAt(P(0, 0))

	g.Swap(P(0, 0), P(1, 0))

	if _, ok := g.ElementAt(P(0, 0)); ok {
		t.Error("source cell should be empty")
	}
	got, ok := g.ElementAt(P(1, 0))
	if !ok || got != e {
		t.Fatal("element should have moved to (1,0)")
	}
	if e.Pos != P(1, 0) {
		t.Errorf("element position = %v, want (1,0)", e.Pos)
	}
}

func TestSwapOutOfBoundsIsNoop(t *testing.T) {
	g := MustParseGrid("RG")
	before := g.Snapshot()

	g.Swap(P(1, 0), P(2, 0))
	g.Swap(P(-1, 0), P(0, 0))

	if !g.Snapshot().Equal(before) {
		t.Error("out-of-bounds swap should not change the board")
	}
}

func TestMoveRelocatesElement(t *testing.T) {
	g := MustParseGrid(
		"B",
		".",
	)
	e, _ := g.ElementAt(P(0, 1))

	g.Move(P(0, 1), P(0, 0))

	if got, ok := g.ElementAt(P(0, 0)); !ok || got != e {
		t.Fatal("element should be at (0,0)")
	}
	if _, ok := g.ElementAt(P(0, 1)); ok {
		t.Error("(0,1) should be empty")
	}
}

func TestAllCellsRowMajorFromBottom(t *testing.T) {
	g, _ := NewGrid(3, 2)

	want := []Position{P(0, 0), P(1, 0), P(2, 0), P(0, 1), P(1, 1), P(2, 1)}
	i := 0
	for c := range g.AllCells() {
		if i >= len(want) {
			t.Fatal("too many cells")
		}
		if c.Pos() != want[i] {
			t.Errorf("cell %d = %v, want %v", i, c.Pos(), want[i])
		}
		i++
	}
	if i != len(want) {
		t.Errorf("visited %d cells, want %d", i, len(want))
	}
}

func TestAllOccupantsSkipsEmpty(t *testing.T) {
	g := MustParseGrid(
		"R.G",
		".B.",
	)

	var types []ElementType
	for e := range g.AllOccupants() {
		types = append(types, e.Type)
	}

	want := []ElementType{Blue, Red, Green}
	if len(types) != len(want) {
		t.Fatalf("got %d occupants, want %d", len(types), len(want))
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("occupant %d = %v, want %v", i, types[i], want[i])
		}
	}
}

func TestClearEmptiesEveryCell(t *testing.T) {
	g := MustParseGrid(
		"RG#",
		"BYO",
	)

	g.Clear()

	if g.OccupiedCount() != 0 {
		t.Errorf("OccupiedCount() = %d after Clear", g.OccupiedCount())
	}
	if g.EmptyCount() != 5 {
		t.Errorf("EmptyCount() = %d, want 5", g.EmptyCount())
	}
	if g.IsAvailable(P(2, 1)) {
		t.Error("Clear must keep blocked cells blocked")
	}
}

func TestParseGridOrientation(t *testing.T) {
	g := MustParseGrid(
		"R..",
		"GBY",
	)

	tests := []struct {
		pos  Position
		want ElementType
	}{
		{P(0, 1), Red},
		{P(0, 0), Green},
		{P(1, 0), Blue},
		{P(2, 0), Yellow},
	}
	for _, tt := range tests {
		got, ok := g.TypeAt(tt.pos)
		if !ok || got != tt.want {
			t.Errorf("TypeAt(%v) = %v, %v; want %v", tt.pos, got, ok, tt.want)
		}
	}

	rows := g.Snapshot().Rows()
	if rows[0] != "R.." || rows[1] != "GBY" {
		t.Errorf("Rows() = %q, want the parsed input back", rows)
	}
}

func TestParseGridRejectsRaggedRows(t *testing.T) {
	if _, err := ParseGrid("RG", "B"); err == nil {
		t.Error("expected error for ragged rows")
	}
	if _, err := ParseGrid("RX"); err == nil {
		t.Error("expected error for unknown cell rune")
	}
	if _, err := ParseGrid(); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("ParseGrid() error = %v, want ErrInvalidDimensions", err)
	}
}
