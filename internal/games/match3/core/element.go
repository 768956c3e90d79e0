package core

import (
	"fmt"
	"strings"
)

// ElementType is the matchable kind of an element.
type ElementType uint8

const (
	Red ElementType = iota
	Orange
	Yellow
	Green
	Blue
	Purple
	// ColorBomb is a wildcard kind. It never comes out of random generation
	// and otherwise only matches other ColorBombs.
	ColorBomb
)

var elementNames = [...]string{
	Red:       "red",
	Orange:    "orange",
	Yellow:    "yellow",
	Green:     "green",
	Blue:      "blue",
	Purple:    "purple",
	ColorBomb: "colorbomb",
}

var elementRunes = [...]rune{
	Red:       'R',
	Orange:    'O',
	Yellow:    'Y',
	Green:     'G',
	Blue:      'B',
	Purple:    'P',
	ColorBomb: '*',
}

// BasicTypes returns every non-wildcard element type.
func BasicTypes() []ElementType {
	return []ElementType{Red, Orange, Yellow, Green, Blue, Purple}
}

// AllTypes returns every element type including the wildcard.
func AllTypes() []ElementType {
	return append(BasicTypes(), ColorBomb)
}

// Valid reports whether t is a known element type.
func (t ElementType) Valid() bool {
	return int(t) < len(elementNames)
}

// IsWildcard reports whether t is excluded from random generation.
func (t ElementType) IsWildcard() bool {
	return t == ColorBomb
}

func (t ElementType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("element(%d)", uint8(t))
	}
	return elementNames[t]
}

// Rune returns the single-character board notation for t.
func (t ElementType) Rune() rune {
	if !t.Valid() {
		return '?'
	}
	return elementRunes[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t ElementType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("unknown element type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *ElementType) UnmarshalText(text []byte) error {
	parsed, err := ParseElementType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseElementType parses a lowercase name ("red") or a board rune ("R").
func ParseElementType(s string) (ElementType, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range elementNames {
		if n == name {
			return ElementType(i), nil
		}
	}
	if r := []rune(strings.TrimSpace(s)); len(r) == 1 {
		if t, ok := elementTypeFromRune(r[0]); ok {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown element type %q", s)
}

func elementTypeFromRune(r rune) (ElementType, bool) {
	for i, er := range elementRunes {
		if er == r {
			return ElementType(i), true
		}
	}
	return 0, false
}

// Element is a board occupant. Its identity is the pointer; ID is stable
// for the element's lifetime and unique within its grid.
type Element struct {
	ID   int
	Type ElementType
	Pos  Position
}
