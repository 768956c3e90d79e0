// Package tui runs the match-3 game in a terminal with Bubble Tea: the
// tick loop, key mapping, the mode and level menu, the scoreboard and the
// SSH server that serves all of it to remote players.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/match3-arcade/internal/core"
)

// TickMsg advances the game by one step. Cascade presentation is paced in
// these ticks.
type TickMsg time.Time

func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	return tea.Tick(time.Second/time.Duration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
