// Package formats provides pluggable level file format parsers.
package formats

import (
	"fmt"

	"github.com/vovakirdan/match3-arcade/internal/games/match3/core"
	"gopkg.in/yaml.v3"
)

// YAMLLevel represents the YAML structure for a level file.
type YAMLLevel struct {
	ID                    string            `yaml:"id"`
	Name                  string            `yaml:"name"`
	Size                  YAMLSize          `yaml:"size"`
	Moves                 int               `yaml:"moves"`
	Target                int               `yaml:"target"`
	MinMatch              int               `yaml:"min_match,omitempty"`
	ScorePerCell          int               `yaml:"score_per_cell,omitempty"`
	Elements              []string          `yaml:"elements,omitempty"`
	Deadlock              string            `yaml:"deadlock,omitempty"`
	PreventInitialMatches *bool             `yaml:"prevent_initial_matches,omitempty"`
	Mask                  []string          `yaml:"mask,omitempty"` // top row first, '#' blocked
	Metadata              map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Level represents a parsed level ready for use.
type Level struct {
	ID                    string
	Name                  string
	Width                 int
	Height                int
	Moves                 int
	Target                int
	MinMatch              int
	ScorePerCell          int
	Elements              []core.ElementType
	Deadlock              core.DeadlockPolicy
	PreventInitialMatches bool
	Mask                  []string
	Metadata              map[string]string
}

// ParseYAML parses a YAML level file.
func ParseYAML(data []byte) (Level, error) {
	var yl YAMLLevel
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Level{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return Level{}, fmt.Errorf("missing id")
	}

	// An unset policy stays empty so configured defaults can fill it.
	var policy core.DeadlockPolicy
	if yl.Deadlock != "" {
		p, err := core.ParseDeadlockPolicy(yl.Deadlock)
		if err != nil {
			return Level{}, err
		}
		policy = p
	}

	prevent := true
	if yl.PreventInitialMatches != nil {
		prevent = *yl.PreventInitialMatches
	}

	level := Level{
		ID:                    yl.ID,
		Name:                  yl.Name,
		Width:                 yl.Size.W,
		Height:                yl.Size.H,
		Moves:                 yl.Moves,
		Target:                yl.Target,
		MinMatch:              yl.MinMatch,
		ScorePerCell:          yl.ScorePerCell,
		Deadlock:              policy,
		PreventInitialMatches: prevent,
		Mask:                  yl.Mask,
		Metadata:              yl.Metadata,
	}
	if level.Name == "" {
		level.Name = level.ID
	}

	for _, name := range yl.Elements {
		t, err := core.ParseElementType(name)
		if err != nil {
			return Level{}, err
		}
		level.Elements = append(level.Elements, t)
	}

	return level, nil
}

// MarshalYAML encodes a level back into the file format.
func MarshalYAML(l Level) ([]byte, error) {
	prevent := l.PreventInitialMatches
	yl := YAMLLevel{
		ID:                    l.ID,
		Name:                  l.Name,
		Size:                  YAMLSize{W: l.Width, H: l.Height},
		Moves:                 l.Moves,
		Target:                l.Target,
		MinMatch:              l.MinMatch,
		ScorePerCell:          l.ScorePerCell,
		Deadlock:              string(l.Deadlock),
		PreventInitialMatches: &prevent,
		Mask:                  l.Mask,
		Metadata:              l.Metadata,
	}
	for _, t := range l.Elements {
		yl.Elements = append(yl.Elements, t.String())
	}
	return yaml.Marshal(yl)
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
