// Package sim plays levels with a bot to measure how hard they are.
package sim

import (
	m3 "github.com/vovakirdan/match3-arcade/internal/games/match3/core"
)

// Bot picks the legal swap that removes the most cells right away. Ties
// go to the first move in traversal order. Cascades are not looked ahead.
type Bot struct{}

// Choose returns the bot's move for the engine's current board.
func (Bot) Choose(e *m3.Engine) (m3.SwapMove, bool) {
	grid := e.Grid()
	matcher := e.Matcher()

	var best m3.SwapMove
	bestGain := 0
	for _, mv := range matcher.LegalMoves() {
		if gain := immediateRemoval(grid, matcher, mv); gain > bestGain {
			best, bestGain = mv, gain
		}
	}
	return best, bestGain > 0
}

// immediateRemoval counts the cells the swap would match before any
// cascade. The grid is restored before returning.
func immediateRemoval(grid *m3.Grid, matcher *m3.Matcher, mv m3.SwapMove) int {
	grid.Swap(mv.A, mv.B)
	defer grid.Swap(mv.A, mv.B)

	minMatch := matcher.MinMatch()
	ca := matcher.ComponentAt(mv.A)
	n := 0
	if len(ca) >= minMatch {
		n += len(ca)
	}
	// Same-type neighbours share one component.
	for _, p := range ca {
		if p == mv.B {
			return n
		}
	}
	if cb := matcher.ComponentAt(mv.B); len(cb) >= minMatch {
		n += len(cb)
	}
	return n
}
