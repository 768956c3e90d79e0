package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/match3-arcade/internal/core"
	"github.com/vovakirdan/match3-arcade/internal/games/match3"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/levels"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

var titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))

// MenuItem is one entry of the main menu.
type MenuItem struct {
	Label  string
	GameID string
}

const (
	itemCampaign = iota
	itemEndless
	itemSelectLevel
	itemScores
)

// MenuModel is the Bubble Tea model for the main menu and level picker.
type MenuModel struct {
	items         []MenuItem
	levels        []levels.Level
	bests         map[string]storage.LevelBest
	cursor        int
	levelCursor   int
	inLevelSelect bool
	width         int
	height        int
	config        core.RuntimeConfig
	keyMapper     *KeyMapper
	quitting      bool
	result        MenuResult
	done          bool
}

// NewMenuModel creates a new menu model. Best results are looked up in
// store when it is not nil.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, lvls []levels.Level) MenuModel {
	items := []MenuItem{
		{Label: fmt.Sprintf("Campaign (%d levels)", len(lvls)), GameID: match3.IDCampaign},
		{Label: "Endless", GameID: match3.IDEndless},
		{Label: "Select level..."},
		{Label: "High scores"},
	}

	var bests map[string]storage.LevelBest
	if store != nil {
		// A missing table only hides the best column.
		bests, _ = store.LevelBests()
	}

	return MenuModel{
		items:     items,
		levels:    lvls,
		bests:     bests,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		action := m.keyMapper.MapKeyToMenuAction(msg)
		if m.inLevelSelect {
			return m.handleLevelKey(action)
		}
		return m.handleKey(action)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for the main entries.
func (m MenuModel) handleKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		switch m.cursor {
		case itemCampaign, itemEndless:
			return m.finish(MenuResult{GameID: m.items[m.cursor].GameID})
		case itemSelectLevel:
			if len(m.levels) > 0 {
				m.inLevelSelect = true
				m.levelCursor = 0
			}
		case itemScores:
			return m.finish(MenuResult{WantsScoreboard: true})
		}

	case MenuActionScoreboard:
		return m.finish(MenuResult{WantsScoreboard: true})
	}

	return m, nil
}

func (m MenuModel) handleLevelKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.levelCursor > 0 {
			m.levelCursor--
		}
	case MenuActionDown:
		if m.levelCursor < len(m.levels)-1 {
			m.levelCursor++
		}
	case MenuActionSelect:
		return m.finish(MenuResult{
			GameID:  match3.IDCampaign,
			LevelID: m.levels[m.levelCursor].ID,
		})
	case MenuActionBack:
		m.inLevelSelect = false
	}

	return m, nil
}

func (m MenuModel) finish(r MenuResult) (tea.Model, tea.Cmd) {
	m.result = r
	m.done = true
	return m, tea.Quit
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerStyled(titleStyle.Render("M A T C H - 3"), m.width))
	b.WriteString("\n\n")

	if m.inLevelSelect {
		m.viewLevels(&b)
	} else {
		m.viewItems(&b)
	}
	return b.String()
}

func (m MenuModel) viewItems(b *strings.Builder) {
	b.WriteString(centerText("Select a mode", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+item.Label, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Up/Down: Navigate  |  Enter: Select  |  Tab: Scores  |  Q: Quit", m.width))
	b.WriteString("\n")
}

func (m MenuModel) viewLevels(b *strings.Builder) {
	b.WriteString(centerText("Select a level", m.width))
	b.WriteString("\n\n")

	for i, l := range m.levels {
		cursor := "  "
		if i == m.levelCursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-4s %-22s %2dx%-2d %2d moves", cursor, l.ID, l.Name, l.Width, l.Height, l.Moves)
		if best, ok := m.bests[l.ID]; ok {
			mark := " "
			if best.Cleared {
				mark = "*"
			}
			line += fmt.Sprintf("  best %d%s", best.BestScore, mark)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Play  |  Esc: Back  |  Q: Quit", m.width))
	b.WriteString("\n")
}

// Selected returns the chosen game ID and start level. The level ID is
// empty when the game starts from its beginning.
func (m MenuModel) Selected() (gameID, levelID string, ok bool) {
	if !m.done || m.result.GameID == "" {
		return "", "", false
	}
	return m.result.GameID, m.result.LevelID, true
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.done && m.result.WantsScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// centerStyled centers text that carries ANSI styling.
func centerStyled(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	LevelID         string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, lvls []levels.Level) (MenuResult, error) {
	model := NewMenuModel(store, cfg, lvls)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}

	result := MenuResult{
		Config: m.Config(),
	}

	if m.WantsScoreboard() {
		result.WantsScoreboard = true
		return result, nil
	}

	gameID, levelID, ok := m.Selected()
	if !ok {
		result.Quit = true
		return result, nil
	}
	result.GameID = gameID
	result.LevelID = levelID
	return result, nil
}
