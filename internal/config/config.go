// Package config provides YAML-based configuration loading and difficulty
// presets for the match-3 arcade.
package config

import (
	"fmt"

	"github.com/vovakirdan/match3-arcade/internal/games/match3/core"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/levels"
)

// Match3Config contains all configuration for the match-3 game.
type Match3Config struct {
	Engine       EngineConfig       `yaml:"engine"`
	Presentation PresentationConfig `yaml:"presentation"`
	Difficulty   DifficultyConfig   `yaml:"difficulty"`
	Levels       LevelsConfig       `yaml:"levels"`
}

// EngineConfig holds engine defaults used where a level leaves a field
// unset.
type EngineConfig struct {
	MinMatch              int    `yaml:"min_match"`
	ScorePerCell          int    `yaml:"score_per_cell"`
	Deadlock              string `yaml:"deadlock"` // "report", "ignore", "reshuffle" or "fail"
	PreventInitialMatches bool   `yaml:"prevent_initial_matches"`
}

// PresentationConfig defines how long the game shows each phase, in ticks.
type PresentationConfig struct {
	StepTicks       int `yaml:"step_ticks"`        // per cascade step
	SwapTicks       int `yaml:"swap_ticks"`        // invalid swap flash
	LevelClearTicks int `yaml:"level_clear_ticks"` // pause before the next level
	HintTicks       int `yaml:"hint_ticks"`        // how long a hint stays highlighted
}

// DifficultyConfig defines how presets adjust a level's move budget.
type DifficultyConfig struct {
	Preset         DifficultyPreset `yaml:"preset"`
	EasyExtraMoves int              `yaml:"easy_extra_moves"`
	HardMoveFactor float64          `yaml:"hard_move_factor"` // fraction of moves kept on hard
	MinMoves       int              `yaml:"min_moves"`
	HintsOnHard    bool             `yaml:"hints_on_hard"`
}

// LevelsConfig points at extra level files.
type LevelsConfig struct {
	Dir string `yaml:"dir"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset parses a preset name. Empty input yields normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q", s)
	}
}

// Base returns the engine configuration levels are layered over.
func (c EngineConfig) Base() core.Config {
	base := core.DefaultConfig()
	if c.MinMatch > 0 {
		base.MinMatch = c.MinMatch
	}
	if c.ScorePerCell > 0 {
		base.ScorePerCell = c.ScorePerCell
	}
	if p, err := core.ParseDeadlockPolicy(c.Deadlock); err == nil {
		base.Deadlock = p
	}
	base.PreventInitialMatches = c.PreventInitialMatches
	return base
}

// LevelConfig returns the effective engine configuration for a level: the
// level over the engine defaults, with the difficulty preset applied to
// the move budget.
func (c Match3Config) LevelConfig(l levels.Level, seed int64) core.Config {
	cfg := l.ConfigWith(c.Engine.Base())
	cfg.Moves = c.Difficulty.Moves(cfg.Moves)
	cfg.Seed = seed
	return cfg
}

// Validate reports configuration values that cannot work.
func (c Match3Config) Validate() error {
	if _, err := core.ParseDeadlockPolicy(c.Engine.Deadlock); err != nil {
		return fmt.Errorf("config: engine: %w", err)
	}
	if c.Engine.MinMatch == 1 || c.Engine.MinMatch < 0 {
		return fmt.Errorf("config: engine: min_match must be at least 2")
	}
	if c.Presentation.StepTicks < 0 || c.Presentation.LevelClearTicks < 0 {
		return fmt.Errorf("config: presentation: negative tick count")
	}
	if _, err := ParsePreset(string(c.Difficulty.Preset)); err != nil {
		return err
	}
	if c.Difficulty.HardMoveFactor < 0 || c.Difficulty.HardMoveFactor > 1 {
		return fmt.Errorf("config: difficulty: hard_move_factor must be within [0, 1]")
	}
	return nil
}
