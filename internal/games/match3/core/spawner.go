package core

import "math/rand"

// maxFillAttempts bounds the re-rolls per cell when generating a board
// without initial matches.
const maxFillAttempts = 16

// Spawner chooses the type of a newly generated element.
type Spawner interface {
	Next(at Position) ElementType
}

// RandomSpawner picks uniformly among a fixed set of non-wildcard types.
type RandomSpawner struct {
	rng   *rand.Rand
	types []ElementType
}

// NewRandomSpawner creates a spawner over allowed. Wildcard types are
// dropped; an empty result falls back to BasicTypes.
func NewRandomSpawner(rng *rand.Rand, allowed []ElementType) *RandomSpawner {
	return &RandomSpawner{rng: rng, types: generatable(allowed)}
}

// Next returns a uniformly random allowed type.
func (s *RandomSpawner) Next(Position) ElementType {
	return s.types[s.rng.Intn(len(s.types))]
}

// Types returns the types the spawner draws from.
func (s *RandomSpawner) Types() []ElementType {
	return append([]ElementType(nil), s.types...)
}

func generatable(allowed []ElementType) []ElementType {
	out := make([]ElementType, 0, len(allowed))
	seen := make(map[ElementType]bool, len(allowed))
	for _, t := range allowed {
		if t.IsWildcard() || !t.Valid() || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return BasicTypes()
	}
	return out
}

// Spawn records a generated element.
type Spawn struct {
	At   Position    `json:"at"`
	Type ElementType `json:"type"`
	ID   int         `json:"id"`
}

// Fall records an element moved down by collapse.
type Fall struct {
	From Position `json:"from"`
	To   Position `json:"to"`
	ID   int      `json:"id"`
}

// Refill places a new element in every empty available cell, in AllCells
// order.
func Refill(g *Grid, sp Spawner) []Spawn {
	var spawns []Spawn
	for c := range g.AllCells() {
		if !c.available || !c.IsEmpty() {
			continue
		}
		e := g.NewElement(sp.Next(c.pos))
		g.Place(e, c.pos)
		spawns = append(spawns, Spawn{At: c.pos, Type: e.Type, ID: e.ID})
	}
	return spawns
}

// Fill populates every empty available cell. With preventMatches set, each
// cell is re-rolled until its component stays below the matcher's minimum;
// after maxFillAttempts the last roll is kept.
func Fill(g *Grid, sp Spawner, m *Matcher, preventMatches bool) []Spawn {
	if !preventMatches || m == nil {
		return Refill(g, sp)
	}

	var spawns []Spawn
	for c := range g.AllCells() {
		if !c.available || !c.IsEmpty() {
			continue
		}
		e := g.NewElement(sp.Next(c.pos))
		g.Place(e, c.pos)
		for attempt := 1; attempt < maxFillAttempts; attempt++ {
			if len(m.ComponentAt(c.pos)) < m.MinMatch() {
				break
			}
			e.Type = sp.Next(c.pos)
		}
		spawns = append(spawns, Spawn{At: c.pos, Type: e.Type, ID: e.ID})
	}
	return spawns
}

// Collapse compacts every column toward row 0 in a single pass. Each
// element drops by the number of gaps beneath it; blocked cells neither
// hold nor stop elements. Relative vertical order is preserved.
func Collapse(g *Grid) []Fall {
	var falls []Fall
	rows := make([]int, 0, g.h)

	for x := range g.w {
		rows = rows[:0]
		for y := range g.h {
			if g.IsAvailable(P(x, y)) {
				rows = append(rows, y)
			}
		}

		// Write pointer into rows, from the bottom.
		wp := 0
		for _, y := range rows {
			from := P(x, y)
			e, ok := g.ElementAt(from)
			if !ok {
				continue
			}
			to := P(x, rows[wp])
			if to != from {
				g.Move(from, to)
				falls = append(falls, Fall{From: from, To: to, ID: e.ID})
			}
			wp++
		}
	}
	return falls
}
