package core

// DefaultMinMatch is the smallest component size that counts as a match.
const DefaultMinMatch = 3

// Match is a 4-connected group of same-type elements whose size reached
// the minimum match length.
type Match struct {
	Type  ElementType
	Cells []Position
}

// Size returns the number of cells in the match.
func (m Match) Size() int {
	return len(m.Cells)
}

// SwapMove is a pair of adjacent positions to exchange.
type SwapMove struct {
	A Position `json:"a" yaml:"a"`
	B Position `json:"b" yaml:"b"`
}

// Matcher finds connected components of same-type elements on a grid.
// Visit marks use an epoch counter so they never need clearing.
type Matcher struct {
	grid     *Grid
	minMatch int

	mark  []int
	epoch int
	queue []Position
}

// NewMatcher creates a matcher over grid. A minMatch below 1 falls back
// to DefaultMinMatch.
func NewMatcher(grid *Grid, minMatch int) *Matcher {
	if minMatch < 1 {
		minMatch = DefaultMinMatch
	}
	return &Matcher{
		grid:     grid,
		minMatch: minMatch,
		mark:     make([]int, grid.Size()),
		queue:    make([]Position, 0, grid.Size()),
	}
}

// MinMatch returns the minimum match length in use.
func (m *Matcher) MinMatch() int {
	return m.minMatch
}

func (m *Matcher) nextEpoch() int {
	m.epoch++
	if m.epoch < 0 {
		m.epoch = 1
		clear(m.mark)
	}
	return m.epoch
}

// flood runs a breadth-first fill from start over same-type neighbours and
// returns the component. Every cell it reaches is marked with epoch.
func (m *Matcher) flood(start Position, t ElementType, epoch int) []Position {
	g := m.grid
	m.queue = m.queue[:0]
	m.queue = append(m.queue, start)
	m.mark[g.idx(start)] = epoch

	for head := 0; head < len(m.queue); head++ {
		cur := m.queue[head]
		for _, n := range g.Neighbors(cur) {
			e, ok := n.Element()
			if !ok || e.Type != t {
				continue
			}
			i := g.idx(n.pos)
			if m.mark[i] == epoch {
				continue
			}
			m.mark[i] = epoch
			m.queue = append(m.queue, n.pos)
		}
	}

	out := make([]Position, len(m.queue))
	copy(out, m.queue)
	return out
}

// FindAll returns every qualifying match on the grid. Each occupied cell is
// visited exactly once; components below the minimum are discarded and
// never retried.
func (m *Matcher) FindAll() []Match {
	epoch := m.nextEpoch()
	var matches []Match

	for c := range m.grid.AllCells() {
		e, ok := c.Element()
		if !ok || !c.available || m.mark[m.grid.idx(c.pos)] == epoch {
			continue
		}
		comp := m.flood(c.pos, e.Type, epoch)
		if len(comp) >= m.minMatch {
			matches = append(matches, Match{Type: e.Type, Cells: comp})
		}
	}
	return matches
}

// ComponentAt returns the component containing p, or nil when p is empty.
func (m *Matcher) ComponentAt(p Position) []Position {
	e, ok := m.grid.ElementAt(p)
	if !ok || !m.grid.IsAvailable(p) {
		return nil
	}
	return m.flood(p, e.Type, m.nextEpoch())
}

// MatchesAt reports whether a qualifying component touches a or b on the
// current board. Only components reachable from the two cells are
// inspected.
func (m *Matcher) MatchesAt(a, b Position) bool {
	if len(m.ComponentAt(a)) >= m.minMatch {
		return true
	}
	return len(m.ComponentAt(b)) >= m.minMatch
}

// WouldCreateMatch swaps a and b, checks the components touching either
// cell and swaps back. The grid is left exactly as it was.
func (m *Matcher) WouldCreateMatch(a, b Position) bool {
	if !m.grid.IsAvailable(a) || !m.grid.IsAvailable(b) || a == b {
		return false
	}
	m.grid.Swap(a, b)
	ok := m.MatchesAt(a, b)
	m.grid.Swap(a, b)
	return ok
}

// FindLegalMove returns the first swap in traversal order that creates a
// match.
func (m *Matcher) FindLegalMove() (SwapMove, bool) {
	for c := range m.grid.AllCells() {
		if c.IsEmpty() || !c.available {
			continue
		}
		// Right and up cover every adjacent pair once.
		for _, d := range [2]Dir{DirRight, DirUp} {
			n := c.pos.Step(d)
			if !m.grid.IsAvailable(n) {
				continue
			}
			if _, ok := m.grid.ElementAt(n); !ok {
				continue
			}
			if m.WouldCreateMatch(c.pos, n) {
				return SwapMove{A: c.pos, B: n}, true
			}
		}
	}
	return SwapMove{}, false
}

// HasAnyLegalMove reports whether any swap of two occupied neighbours
// creates a match. It stops at the first one found.
func (m *Matcher) HasAnyLegalMove() bool {
	_, ok := m.FindLegalMove()
	return ok
}

// LegalMoves returns every swap that creates a match, in traversal order.
func (m *Matcher) LegalMoves() []SwapMove {
	var moves []SwapMove
	for c := range m.grid.AllCells() {
		if c.IsEmpty() || !c.available {
			continue
		}
		for _, d := range [2]Dir{DirRight, DirUp} {
			n := c.pos.Step(d)
			if _, ok := m.grid.ElementAt(n); !ok || !m.grid.IsAvailable(n) {
				continue
			}
			if m.WouldCreateMatch(c.pos, n) {
				moves = append(moves, SwapMove{A: c.pos, B: n})
			}
		}
	}
	return moves
}
