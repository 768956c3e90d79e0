package core

import "testing"

func TestRectEdges(t *testing.T) {
	r := Rect{X: 5, Y: 10, W: 20, H: 15}

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}

	cx, cy := r.Center()
	if cx != 15 || cy != 17 {
		t.Errorf("Center() = (%d, %d), expected (15, 17)", cx, cy)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},   // within range
		{-5, 0, 10, 0},  // below min
		{15, 0, 10, 10}, // above max
		{7, 0, 7, 7},    // cursor on the last column
		{-1, 0, 0, 0},   // one-cell board
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.lo, tc.hi)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.lo, tc.hi, result, tc.expected)
		}
	}
}

func TestInputFrame(t *testing.T) {
	f := FrameOf(ActionLeft, ActionSelect)

	if !f.Has(ActionLeft) || !f.Has(ActionSelect) {
		t.Error("FrameOf should set every given action")
	}
	if f.Has(ActionHint) {
		t.Error("unset action reported as set")
	}

	f.Clear()
	if !f.Empty() {
		t.Error("Clear should empty the frame")
	}

	var zero InputFrame
	if zero.Has(ActionUp) || !zero.Empty() {
		t.Error("zero frame should be empty")
	}
	zero.Set(ActionShuffle)
	if !zero.Has(ActionShuffle) {
		t.Error("Set on a zero frame should allocate")
	}
	if ActionShuffle.String() != "Shuffle" || Action(999).String() != "Unknown" {
		t.Error("unexpected action names")
	}
}
