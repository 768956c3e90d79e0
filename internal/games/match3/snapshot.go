package match3

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StateCascading    GameStateType = "cascading"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePausedSmall  GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Mode      string // "campaign" or "endless"
	LevelID   string
	Stage     int // endless stage, 0 in campaign
	Score     int // total across levels
	Level     int // score of the current level
	MovesLeft int
	Board     []string // rows, top first
	Cursor    [2]int
	Swaps     int // recorded player inputs this level
	State     GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	case g.presenting():
		state = StateCascading
	}

	stage := 0
	if g.mode == ModeEndless {
		stage = g.stage
	}

	return Snapshot{
		Tick:      g.tick,
		Mode:      string(g.mode),
		LevelID:   g.level.ID,
		Stage:     stage,
		Score:     g.Score(),
		Level:     g.engine.Score(),
		MovesLeft: g.engine.MovesLeft(),
		Board:     g.engine.Grid().Snapshot().Rows(),
		Cursor:    [2]int{g.cursor.X, g.cursor.Y},
		Swaps:     len(g.rec.Swaps),
		State:     state,
	}
}
