package match3

import (
	"fmt"

	"github.com/vovakirdan/match3-arcade/internal/core"
	m3 "github.com/vovakirdan/match3-arcade/internal/games/match3/core"
)

const (
	cellWidth = 3 // columns per board cell
	hudHeight = 3
)

var elementColors = map[m3.ElementType]core.Color{
	m3.Red:       core.ColorRed,
	m3.Orange:    core.ColorOrange,
	m3.Yellow:    core.ColorYellow,
	m3.Green:     core.ColorGreen,
	m3.Blue:      core.ColorBlue,
	m3.Purple:    core.ColorMagenta,
	m3.ColorBomb: core.ColorBrightWhite,
}

// boardSize returns the on-screen size of a board including its border.
func boardSize(w, h int) (int, int) {
	return w*cellWidth + 2, h + 2
}

// boardRect returns where the board is drawn for the current screen.
func (g *Game) boardRect() core.Rect {
	grid := g.engine.Grid()
	w, h := boardSize(grid.Width(), grid.Height())
	return core.Rect{X: (g.screenW - w) / 2, Y: hudHeight + 1, W: w, H: h}
}

// cellOrigin returns the screen column and row of the left edge of cell p.
// Row 0 of the grid is drawn at the bottom.
func (g *Game) cellOrigin(p m3.Position) (int, int) {
	r := g.boardRect()
	h := g.engine.Grid().Height()
	return r.X + 1 + p.X*cellWidth, r.Y + 1 + (h - 1 - p.Y)
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	board := g.boardRect()
	g.renderHUD(dst, board)
	g.renderBoard(dst, board)

	if g.status != "" {
		dst.DrawTextCenteredColored(board.Bottom()+1, g.status, core.ColorYellow)
	}

	g.renderOverlays(dst, board)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// renderHUD draws the level, score and moves.
func (g *Game) renderHUD(dst *core.Screen, board core.Rect) {
	dst.DrawTextCenteredColored(0, g.level.Name, core.ColorBrightWhite)

	scoreStr := fmt.Sprintf("Score: %d/%d", g.engine.Score(), g.engine.Target())
	dst.DrawText(board.X, 1, scoreStr)

	movesStr := fmt.Sprintf("Moves: %d", g.engine.MovesLeft())
	movesX := max(board.Right()-len(movesStr), board.X)
	dst.DrawText(movesX, 1, movesStr)

	var info string
	if g.mode == ModeEndless {
		info = fmt.Sprintf("Endless stage %d  Total: %d", g.stage, g.Score())
	} else {
		info = fmt.Sprintf("Level %d/%d  Total: %d", g.levelIndex+1, len(g.campaign), g.Score())
	}
	if g.presenting() {
		info += fmt.Sprintf("  Cascade x%d", g.steps[0].Index+1)
	}
	dst.DrawTextCenteredColored(2, info, core.ColorGray)
}

// renderBoard draws the border, the cells and the cursor decorations.
func (g *Game) renderBoard(dst *core.Screen, board core.Rect) {
	dst.DrawBoxColored(board, core.ColorGray)

	snap, removed := g.displayed()
	for y := range snap.H {
		for x := range snap.W {
			p := m3.P(x, y)
			g.drawCell(dst, p, snap.At(p), removed[p])
		}
	}

	if g.presenting() {
		return
	}

	if g.hintTicks > 0 {
		g.markCell(dst, g.hint.A, core.AttrUnderline)
		g.markCell(dst, g.hint.B, core.AttrUnderline)
	}
	if g.flashTicks > 0 {
		g.bracketCell(dst, g.flash.A, '!', '!', core.ColorRed)
		g.bracketCell(dst, g.flash.B, '!', '!', core.ColorRed)
	}
	if g.hasSel {
		g.bracketCell(dst, g.selected, '[', ']', core.ColorBrightWhite)
		g.markCell(dst, g.selected, core.AttrBold)
	}
	if !g.gameOver && !g.won && !g.levelCleared {
		g.markCell(dst, g.cursor, core.AttrReverse)
	}
}

// displayed returns the board to draw. While a cascade is presented the
// first half of a step shows the matched cells, the second half the board
// after collapse and refill.
func (g *Game) displayed() (m3.Snapshot, map[m3.Position]bool) {
	if !g.presenting() {
		return g.engine.Grid().Snapshot(), nil
	}

	step := g.steps[0]
	if g.stepTicks*2 >= g.cfg.Presentation.StepTicks {
		return step.After, nil
	}
	removed := make(map[m3.Position]bool, len(step.Removed))
	for _, p := range step.Removed {
		removed[p] = true
	}
	return step.Before, removed
}

func (g *Game) drawCell(dst *core.Screen, p m3.Position, slot m3.Slot, removed bool) {
	x, y := g.cellOrigin(p)

	switch {
	case !slot.Available:
		dst.DrawTextColored(x, y, "###", core.ColorGray)
		dst.AddAttr(x, y, cellWidth, core.AttrFaint)
	case !slot.Occupied:
		dst.SetColored(x+1, y, '.', core.ColorGray)
	case removed:
		dst.DrawTextColored(x, y, "*"+string(slot.Type.Rune())+"*", core.ColorBrightYellow)
		dst.AddAttr(x, y, cellWidth, core.AttrBold)
	default:
		dst.SetColored(x+1, y, slot.Type.Rune(), elementColors[slot.Type])
	}
}

func (g *Game) markCell(dst *core.Screen, p m3.Position, a core.Attr) {
	x, y := g.cellOrigin(p)
	dst.AddAttr(x, y, cellWidth, a)
}

func (g *Game) bracketCell(dst *core.Screen, p m3.Position, left, right rune, c core.Color) {
	x, y := g.cellOrigin(p)
	dst.SetColored(x, y, left, c)
	dst.SetColored(x+cellWidth-1, y, right, c)
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, board core.Rect) {
	centerX, centerY := board.Center()

	if g.paused {
		g.drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
		return
	}

	if g.levelCleared {
		scoreStr := fmt.Sprintf("Score %d reached!", g.engine.Score())
		switch {
		case g.mode == ModeEndless:
			g.drawOverlay(dst, centerX, centerY, scoreStr, fmt.Sprintf("Next: stage %d", g.stage+1))
		case g.levelIndex >= len(g.campaign)-1:
			g.drawOverlay(dst, centerX, centerY, scoreStr, "Final level complete!")
		default:
			next := g.campaign[g.levelIndex+1]
			g.drawOverlay(dst, centerX, centerY, scoreStr, "Next: "+next.Name)
		}
		return
	}

	if g.won {
		g.drawOverlay(dst, centerX, centerY, "CAMPAIGN COMPLETE!",
			fmt.Sprintf("Total score: %d", g.Score()), "Press R to restart")
		return
	}

	if g.gameOver {
		reason := "Out of moves"
		if g.engine.MovesLeft() > 0 {
			reason = "No moves left"
		}
		g.drawOverlay(dst, centerX, centerY, "GAME OVER", reason,
			fmt.Sprintf("Total score: %d", g.Score()), "Press R to restart")
	}
}

// drawOverlay draws a centered text overlay.
func (g *Game) drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.Rect{W: maxLen + 4, H: len(lines) + 2}
	box.X = centerX - box.W/2
	box.Y = centerY - box.H/2

	// Clear area behind overlay
	dst.DrawRect(box, ' ')
	dst.DrawBoxColored(box, core.ColorBrightWhite)

	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows/WASD: Move | Space: Select/Swap | H: Hint | X: Shuffle | P: Pause | R: Restart | Q: Quit"
}
