package config

import (
	_ "embed"
)

//go:embed defaults/match3.yaml
var defaultMatch3YAML []byte

// DefaultMatch3Config returns the hardcoded match-3 configuration.
func DefaultMatch3Config() Match3Config {
	return Match3Config{
		Engine: EngineConfig{
			MinMatch:              3,
			ScorePerCell:          10,
			Deadlock:              "reshuffle",
			PreventInitialMatches: true,
		},
		Presentation: PresentationConfig{
			StepTicks:       12, // 200ms at 60fps
			SwapTicks:       10,
			LevelClearTicks: 120, // 2 seconds at 60fps
			HintTicks:       90,
		},
		Difficulty: DifficultyConfig{
			Preset:         DifficultyNormal,
			EasyExtraMoves: 10,
			HardMoveFactor: 0.75,
			MinMoves:       5,
			HintsOnHard:    false,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultMatch3YAML
}
