package match3

import (
	"errors"

	"github.com/vovakirdan/match3-arcade/internal/core"
	m3 "github.com/vovakirdan/match3-arcade/internal/games/match3/core"
)

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	// Handle window size check
	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	// Handle pause
	if in.Has(core.ActionPause) && !g.gameOver && !g.won {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	// Handle level cleared pause
	if g.levelCleared {
		g.levelClearTicks++
		if g.levelClearTicks >= g.cfg.Presentation.LevelClearTicks {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	// Restart is handled by the platform
	if g.gameOver || g.won {
		return core.StepResult{State: g.State()}
	}

	if g.hintTicks > 0 {
		g.hintTicks--
	}
	if g.flashTicks > 0 {
		g.flashTicks--
	}

	// Input is ignored while a cascade is on screen.
	if g.presenting() {
		g.stepTicks++
		if g.stepTicks >= g.cfg.Presentation.StepTicks {
			g.steps = g.steps[1:]
			g.stepTicks = 0
		}
		if g.presenting() || !g.pendingState.IsTerminal() {
			return core.StepResult{State: g.State()}
		}
		res := g.endLevel(g.pendingState)
		return core.StepResult{State: g.State(), Finished: res}
	}

	// The opening board can end the level under the fail policy.
	if st := g.engine.State(); st.IsTerminal() {
		res := g.endLevel(st)
		return core.StepResult{State: g.State(), Finished: res}
	}

	g.handleInput(in)

	// Without presentation ticks the turn ends right away.
	if !g.presenting() && g.pendingState.IsTerminal() {
		res := g.endLevel(g.pendingState)
		return core.StepResult{State: g.State(), Finished: res}
	}
	return core.StepResult{State: g.State()}
}

// presenting reports whether cascade steps are still being shown.
func (g *Game) presenting() bool {
	return len(g.steps) > 0
}

// handleInput moves the cursor and turns selections into swaps.
func (g *Game) handleInput(in core.InputFrame) {
	grid := g.engine.Grid()

	switch {
	case in.Has(core.ActionUp):
		g.cursor.Y = core.Clamp(g.cursor.Y+1, 0, grid.Height()-1)
	case in.Has(core.ActionDown):
		g.cursor.Y = core.Clamp(g.cursor.Y-1, 0, grid.Height()-1)
	case in.Has(core.ActionLeft):
		g.cursor.X = core.Clamp(g.cursor.X-1, 0, grid.Width()-1)
	case in.Has(core.ActionRight):
		g.cursor.X = core.Clamp(g.cursor.X+1, 0, grid.Width()-1)
	}

	switch {
	case in.Has(core.ActionSelect):
		g.selectAt(g.cursor)
	case in.Has(core.ActionHint):
		g.showHint()
	case in.Has(core.ActionShuffle):
		g.shuffle()
	}
}

// selectAt selects a tile, clears the selection or swaps with it.
func (g *Game) selectAt(p m3.Position) {
	grid := g.engine.Grid()
	_, occupied := grid.ElementAt(p)

	switch {
	case !g.hasSel:
		if occupied {
			g.selected = p
			g.hasSel = true
		}
	case g.selected == p:
		g.hasSel = false
	case g.selected.Adjacent(p):
		g.trySwap(g.selected, p)
	case occupied:
		g.selected = p
	}
}

// trySwap plays one turn and queues its cascade steps for display.
func (g *Game) trySwap(a, b m3.Position) {
	g.hasSel = false
	g.hintTicks = 0
	g.status = ""

	out := g.engine.AttemptSwap(a, b)
	switch out.Kind {
	case m3.OutcomeRejected:
		g.status = "Can't swap: " + out.Reason.String()
		return
	case m3.OutcomeInvalidSwap:
		g.rec.AddSwap(a, b)
		g.flash = out.Move
		g.flashTicks = g.cfg.Presentation.SwapTicks
		if g.status == "" {
			g.status = "No match"
		}
		return
	}

	g.rec.AddSwap(a, b)
	g.cascades += out.CascadeCount
	g.pendingState = out.State
	if g.cfg.Presentation.StepTicks > 0 {
		g.steps = out.Steps
		g.stepTicks = 0
	}
}

// showHint highlights a legal swap if the difficulty allows it.
func (g *Game) showHint() {
	if !g.cfg.Difficulty.HintsAllowed() {
		g.status = "Hints are off on hard"
		return
	}
	mv, ok := g.engine.Hint()
	if !ok {
		g.status = "No moves left - press X to shuffle"
		return
	}
	g.hint = mv
	g.hintTicks = g.cfg.Presentation.HintTicks
}

// shuffle rearranges a board that has no legal move left.
func (g *Game) shuffle() {
	if g.engine.Matcher().HasAnyLegalMove() {
		g.status = "There is still a move"
		return
	}
	switch err := g.engine.Shuffle(); {
	case errors.Is(err, m3.ErrNotIdle):
		g.status = "Wait for the board to settle"
		return
	case err != nil:
		g.status = "No playable board found"
		return
	}
	g.rec.AddShuffle()
	g.hasSel = false
}

// endLevel records the result of a finished level.
func (g *Game) endLevel(st m3.State) *core.LevelResult {
	g.pendingState = m3.StateIdle
	g.steps = nil
	g.hasSel = false

	score := g.engine.Score()
	g.rec.Finish(score, st)

	ecfg := g.engine.Config()
	res := &core.LevelResult{
		LevelID:   g.level.ID,
		Won:       st == m3.StateLevelComplete,
		Score:     score,
		MovesUsed: ecfg.Moves - g.engine.MovesLeft(),
		Cascades:  g.cascades,
		Seed:      ecfg.Seed,
	}
	g.finished = res

	if res.Won {
		g.levelCleared = true
		g.levelClearTicks = 0
	} else {
		g.gameOver = true
	}
	return res
}

// advanceLevel banks the score and moves to the next level.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.levelClearTicks = 0

	if g.mode == ModeCampaign && g.levelIndex >= len(g.campaign)-1 {
		// Completed all levels
		g.won = true
		return
	}

	g.bankedScore += g.engine.Score()
	g.cascades = 0
	if g.mode == ModeEndless {
		g.stage++
	} else {
		g.levelIndex++
	}
	g.loadLevel()
	g.checkScreenSize()
}

// LastResult returns the most recently finished level, if any.
func (g *Game) LastResult() *core.LevelResult {
	return g.finished
}
