package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig is returned when an engine is built from a config that
// cannot produce a playable level.
var ErrInvalidConfig = errors.New("invalid engine config")

// Default level parameters.
const (
	DefaultWidth        = 8
	DefaultHeight       = 8
	DefaultMoves        = 30
	DefaultTargetScore  = 1000
	DefaultScorePerCell = 10
)

// DeadlockPolicy decides what the engine does when the board has no legal
// move left while the level is still running.
type DeadlockPolicy string

const (
	// DeadlockReport emits a DeadlockEvent and flags the outcome, nothing
	// else. It is the zero value.
	DeadlockReport DeadlockPolicy = "report"
	// DeadlockIgnore skips detection entirely.
	DeadlockIgnore DeadlockPolicy = "ignore"
	// DeadlockReshuffle rearranges the board until a legal move exists.
	DeadlockReshuffle DeadlockPolicy = "reshuffle"
	// DeadlockFail ends the level as failed.
	DeadlockFail DeadlockPolicy = "fail"
)

// ParseDeadlockPolicy parses a policy name. Empty input yields
// DeadlockReport.
func ParseDeadlockPolicy(s string) (DeadlockPolicy, error) {
	switch p := DeadlockPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DeadlockReport, nil
	case DeadlockReport, DeadlockIgnore, DeadlockReshuffle, DeadlockFail:
		return p, nil
	default:
		return "", fmt.Errorf("unknown deadlock policy %q", s)
	}
}

// Config holds the per-level parameters of an engine.
type Config struct {
	Width                 int            `yaml:"width" json:"width"`
	Height                int            `yaml:"height" json:"height"`
	Moves                 int            `yaml:"moves" json:"moves"`
	TargetScore           int            `yaml:"target_score" json:"target_score"`
	MinMatch              int            `yaml:"min_match" json:"min_match"`
	ScorePerCell          int            `yaml:"score_per_cell" json:"score_per_cell"`
	Allowed               []ElementType  `yaml:"allowed,flow" json:"allowed"`
	Deadlock              DeadlockPolicy `yaml:"deadlock" json:"deadlock"`
	PreventInitialMatches bool           `yaml:"prevent_initial_matches" json:"prevent_initial_matches"`
	Seed                  int64          `yaml:"seed" json:"seed"`
}

// DefaultConfig returns the stock 8x8 level: 30 moves, target 1000.
func DefaultConfig() Config {
	return Config{
		Width:                 DefaultWidth,
		Height:                DefaultHeight,
		Moves:                 DefaultMoves,
		TargetScore:           DefaultTargetScore,
		MinMatch:              DefaultMinMatch,
		ScorePerCell:          DefaultScorePerCell,
		Allowed:               BasicTypes(),
		Deadlock:              DeadlockReport,
		PreventInitialMatches: true,
	}
}

// WithDefaults fills zero-valued optional fields.
func (c Config) WithDefaults() Config {
	if c.MinMatch == 0 {
		c.MinMatch = DefaultMinMatch
	}
	if c.ScorePerCell == 0 {
		c.ScorePerCell = DefaultScorePerCell
	}
	if len(c.Allowed) == 0 {
		c.Allowed = BasicTypes()
	}
	if c.Deadlock == "" {
		c.Deadlock = DeadlockReport
	}
	return c
}

// Validate checks the config for values that cannot produce a playable
// level.
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidConfig, c.Width, c.Height)
	}
	if c.Moves <= 0 {
		return fmt.Errorf("%w: moves must be positive, got %d", ErrInvalidConfig, c.Moves)
	}
	if c.TargetScore < 0 {
		return fmt.Errorf("%w: negative target score %d", ErrInvalidConfig, c.TargetScore)
	}
	if c.MinMatch < 2 {
		return fmt.Errorf("%w: min match must be at least 2, got %d", ErrInvalidConfig, c.MinMatch)
	}
	if c.ScorePerCell < 0 {
		return fmt.Errorf("%w: negative score per cell %d", ErrInvalidConfig, c.ScorePerCell)
	}
	if _, err := ParseDeadlockPolicy(string(c.Deadlock)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	basic := 0
	for _, t := range c.Allowed {
		if !t.Valid() {
			return fmt.Errorf("%w: unknown element type %d", ErrInvalidConfig, uint8(t))
		}
		if !t.IsWildcard() {
			basic++
		}
	}
	// A single generatable type would match forever.
	if len(c.Allowed) > 0 && len(generatable(c.Allowed)) < 2 {
		return fmt.Errorf("%w: need at least 2 non-wildcard element types, got %d", ErrInvalidConfig, basic)
	}
	return nil
}
