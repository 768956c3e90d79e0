// Package match3 implements the match-3 puzzle game with campaign and
// endless modes on top of the cascade engine in match3/core.
package match3

import (
	"sync"

	"github.com/vovakirdan/match3-arcade/internal/config"
	"github.com/vovakirdan/match3-arcade/internal/core"
	m3 "github.com/vovakirdan/match3-arcade/internal/games/match3/core"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/levels"
	"github.com/vovakirdan/match3-arcade/internal/registry"
	"github.com/vovakirdan/match3-arcade/internal/replay"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// Game IDs as registered with the platform.
const (
	IDCampaign = "match3"
	IDEndless  = "match3_endless"
)

// Game implements registry.Game for match-3.
type Game struct {
	mode Mode
	cfg  config.Match3Config
	seed int64
	tick uint64

	campaign   []levels.Level
	levelIndex int // campaign index
	startID    string
	stage      int // endless stage, 1-based
	level      levels.Level
	engine     *m3.Engine
	unsub      func()
	rec        *replay.Recording

	// Score banked from finished levels.
	bankedScore int
	cascades    int

	cursor     m3.Position
	selected   m3.Position
	hasSel     bool
	hint       m3.SwapMove
	hintTicks  int
	flash      m3.SwapMove
	flashTicks int
	status     string

	// Cascade presentation
	steps        []m3.CascadeStep
	stepTicks    int
	pendingState m3.State

	screenW int
	screenH int

	gameOver        bool
	levelCleared    bool
	won             bool
	paused          bool
	tooSmall        bool
	levelClearTicks int
	finished        *core.LevelResult
	loadErr         error
}

// Package-level settings applied on the next Reset, set by the platform
// before a game starts.
var (
	settingsMu sync.Mutex
	gameConfig = config.DefaultMatch3Config()
)

// SetConfig sets the configuration used by games reset from now on.
func SetConfig(cfg config.Match3Config) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	gameConfig = cfg
}

// CurrentConfig returns the configuration games will use.
func CurrentConfig() config.Match3Config {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	return gameConfig
}

// New creates a new campaign mode game.
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewEndless creates a new endless mode game.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

func init() {
	registry.Register(IDCampaign, func() registry.Game {
		return New()
	})
	registry.Register(IDEndless, func() registry.Game {
		return NewEndless()
	})
}

var (
	_ registry.Game          = (*Game)(nil)
	_ registry.Controller    = (*Game)(nil)
	_ registry.Resizer       = (*Game)(nil)
	_ registry.LevelSelector = (*Game)(nil)
)

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return IDEndless
	}
	return IDCampaign
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Match-3 (Endless)"
	}
	return "Match-3"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.cfg = CurrentConfig()
	g.seed = cfg.Seed
	g.tick = 0
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.bankedScore = 0
	g.cascades = 0
	g.gameOver = false
	g.levelCleared = false
	g.won = false
	g.paused = false
	g.levelClearTicks = 0
	g.finished = nil
	g.loadErr = nil

	g.levelIndex = 0
	g.stage = 1
	if g.mode == ModeCampaign {
		lvls, err := levels.All(g.cfg.Levels.Dir)
		if err != nil {
			g.loadErr = err
			lvls = levels.MustCampaign()
		}
		g.campaign = lvls
		for i, l := range g.campaign {
			if l.ID == g.startID {
				g.levelIndex = i
			}
		}
	}

	g.loadLevel()
	g.checkScreenSize()
}

// StartAt selects the campaign level the next Reset starts on. An empty
// ID starts from the beginning. Restarts keep the selection.
func (g *Game) StartAt(levelID string) {
	g.startID = levelID
}

// Resize updates the screen size without restarting the level.
func (g *Game) Resize(w, h int) {
	g.screenW, g.screenH = w, h
	if g.engine != nil {
		g.checkScreenSize()
	}
}

// loadLevel builds a fresh engine for the current level.
func (g *Game) loadLevel() {
	if g.unsub != nil {
		g.unsub()
		g.unsub = nil
	}

	if g.mode == ModeEndless {
		g.level = levels.Endless(g.stage)
	} else {
		g.level = g.campaign[g.levelIndex]
	}

	// Each level gets its own seed so restarting a level replays it.
	seed := g.seed + int64(g.levelIndex)*7919 + int64(g.stage)*104729
	ecfg := g.cfg.LevelConfig(g.level, seed)

	grid, err := g.level.NewGrid()
	if err == nil {
		g.engine, err = m3.New(grid, ecfg)
	}
	if err != nil {
		// Levels are validated on load; fall back to the stock board.
		g.loadErr = err
		grid, _ = m3.NewGrid(m3.DefaultWidth, m3.DefaultHeight)
		ecfg = m3.DefaultConfig()
		ecfg.Seed = seed
		g.engine, _ = m3.New(grid, ecfg)
	}

	g.unsub = g.engine.Subscribe(g.onEvent)
	g.rec = replay.New(g.level.ID, ecfg, g.level.Mask)
	g.status = ""
	g.engine.Start()

	grid = g.engine.Grid()
	g.cursor = m3.P(grid.Width()/2, grid.Height()/2)
	g.hasSel = false
	g.hintTicks = 0
	g.flashTicks = 0
	g.steps = nil
	g.pendingState = m3.StateIdle
}

func (g *Game) onEvent(ev m3.Event) {
	switch e := ev.(type) {
	case m3.DeadlockEvent:
		switch e.Policy {
		case m3.DeadlockReport:
			g.status = "No moves left - press X to shuffle"
		case m3.DeadlockFail:
			g.status = "No moves left"
		}
	case m3.ReshuffledEvent:
		g.status = "Board reshuffled"
	case m3.LevelFailedEvent:
		g.status = e.Reason
	}
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	grid := g.engine.Grid()
	w, h := boardSize(grid.Width(), grid.Height())
	g.tooSmall = g.screenW < w+2 || g.screenH < h+hudHeight+3
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.Score(),
		GameOver: g.gameOver || g.won,
		Paused:   g.paused || g.tooSmall || g.levelCleared,
	}
}

// Score returns the total across finished levels plus the current one.
func (g *Game) Score() int {
	if g.engine == nil {
		return g.bankedScore
	}
	return g.bankedScore + g.engine.Score()
}

// Engine returns the engine of the current level.
func (g *Game) Engine() *m3.Engine {
	return g.engine
}

// Level returns the current level definition.
func (g *Game) Level() levels.Level {
	return g.level
}

// Recording returns the replay of the current level so far.
func (g *Game) Recording() *replay.Recording {
	return g.rec
}

// LoadError reports a problem loading levels or configuration. The game
// still runs on fallbacks.
func (g *Game) LoadError() error {
	return g.loadErr
}
