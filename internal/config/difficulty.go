package config

import "math"

// Moves returns the move budget for a level under the configured preset.
// Easy adds a flat bonus, hard keeps a fraction with a floor, normal leaves
// the level alone.
func (d DifficultyConfig) Moves(base int) int {
	switch d.Preset {
	case DifficultyEasy:
		return base + d.EasyExtraMoves
	case DifficultyHard:
		factor := d.HardMoveFactor
		if factor <= 0 {
			factor = 1
		}
		moves := int(math.Floor(float64(base) * factor))
		floor := d.MinMoves
		if floor <= 0 {
			floor = 1
		}
		// Never raise a level above its own budget.
		return min(base, max(moves, floor))
	default:
		return base
	}
}

// HintsAllowed reports whether the hint key works under the preset.
func (d DifficultyConfig) HintsAllowed() bool {
	return d.Preset != DifficultyHard || d.HintsOnHard
}

// WithPreset returns a copy with the preset replaced.
func (d DifficultyConfig) WithPreset(p DifficultyPreset) DifficultyConfig {
	d.Preset = p
	return d
}
