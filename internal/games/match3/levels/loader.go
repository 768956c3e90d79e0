// Package levels provides level definitions and loading for match-3.
// This package depends on core but core does not depend on levels.
package levels

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vovakirdan/match3-arcade/internal/games/match3/core"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/levels/formats"
)

// ErrNotFound is returned when no level has the requested ID.
var ErrNotFound = errors.New("levels: level not found")

// Level represents a complete level definition.
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
	Mask                  []string // top row first, '#' blocked
	Metadata              map[string]string
	FilePath              string
}

func fromFormat(parsed formats.Level, path string) Level {
	return Level{
		ID:                    parsed.ID,
		Name:                  parsed.Name,
		Width:                 parsed.Width,
		Height:                parsed.Height,
		Moves:                 parsed.Moves,
		Target:                parsed.Target,
		MinMatch:              parsed.MinMatch,
		ScorePerCell:          parsed.ScorePerCell,
		Elements:              parsed.Elements,
		Deadlock:              parsed.Deadlock,
		PreventInitialMatches: parsed.PreventInitialMatches,
		Mask:                  parsed.Mask,
		Metadata:              parsed.Metadata,
		FilePath:              path,
	}
}

// Config builds the engine configuration for this level over the stock
// defaults. The seed is left for the caller.
func (l *Level) Config() core.Config {
	return l.ConfigWith(core.DefaultConfig())
}

// ConfigWith builds the engine configuration for this level. Fields the
// level leaves unset come from base; initial-match prevention is on only
// when both ask for it.
func (l *Level) ConfigWith(base core.Config) core.Config {
	cfg := base
	cfg.Width = l.Width
	cfg.Height = l.Height
	cfg.Moves = l.Moves
	cfg.TargetScore = l.Target
	if l.MinMatch != 0 {
		cfg.MinMatch = l.MinMatch
	}
	if l.ScorePerCell != 0 {
		cfg.ScorePerCell = l.ScorePerCell
	}
	if len(l.Elements) > 0 {
		cfg.Allowed = append([]core.ElementType(nil), l.Elements...)
	}
	if l.Deadlock != "" {
		cfg.Deadlock = l.Deadlock
	}
	cfg.PreventInitialMatches = base.PreventInitialMatches && l.PreventInitialMatches
	return cfg.WithDefaults()
}

// NewGrid creates an empty grid with the level's mask applied. Mask rows
// are listed top row first: '#' blocks a cell, 'S' and 'E' tag spawner and
// exit cells, anything else is a normal cell.
func (l *Level) NewGrid() (*core.Grid, error) {
	if err := l.validateMask(); err != nil {
		return nil, err
	}
	g, err := core.NewGrid(l.Width, l.Height)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", l.ID, err)
	}
	for i, row := range l.Mask {
		y := l.Height - 1 - i
		for x, r := range []rune(row) {
			p := core.P(x, y)
			switch r {
			case '#':
				g.SetAvailable(p, false)
			case 'S':
				g.SetRole(p, core.RoleSpawner)
			case 'E':
				g.SetRole(p, core.RoleExit)
			}
		}
	}
	return g, nil
}

// NewEngine builds a started engine for this level with the stock
// defaults.
func (l *Level) NewEngine(seed int64, opts ...core.Option) (*core.Engine, error) {
	cfg := l.Config()
	cfg.Seed = seed
	return l.NewEngineWith(cfg, opts...)
}

// NewEngineWith builds a started engine for this level's mask with an
// explicit configuration.
func (l *Level) NewEngineWith(cfg core.Config, opts ...core.Option) (*core.Engine, error) {
	g, err := l.NewGrid()
	if err != nil {
		return nil, err
	}
	e, err := core.New(g, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("levels: %s: %w", l.ID, err)
	}
	e.Start()
	return e, nil
}

// Validate checks the level for values the engine would refuse.
func (l *Level) Validate() error {
	if err := l.Config().Validate(); err != nil {
		return fmt.Errorf("levels: %s: %w", l.ID, err)
	}
	return l.validateMask()
}

func (l *Level) validateMask() error {
	if len(l.Mask) == 0 {
		return nil
	}
	if len(l.Mask) != l.Height {
		return fmt.Errorf("levels: %s: mask has %d rows, want %d", l.ID, len(l.Mask), l.Height)
	}
	for i, row := range l.Mask {
		if n := len([]rune(row)); n != l.Width {
			return fmt.Errorf("levels: %s: mask row %d has %d cells, want %d", l.ID, i, n, l.Width)
		}
	}
	return nil
}

// Marshal encodes the level in the YAML file format.
func (l *Level) Marshal() ([]byte, error) {
	return formats.MarshalYAML(formats.Level{
		ID:                    l.ID,
		Name:                  l.Name,
		Width:                 l.Width,
		Height:                l.Height,
		Moves:                 l.Moves,
		Target:                l.Target,
		MinMatch:              l.MinMatch,
		ScorePerCell:          l.ScorePerCell,
		Elements:              l.Elements,
		Deadlock:              l.Deadlock,
		PreventInitialMatches: l.PreventInitialMatches,
		Mask:                  l.Mask,
		Metadata:              l.Metadata,
	})
}

// Loader handles loading levels from a directory tree.
type Loader struct {
	Root string

	fsys fs.FS
	walk string // root inside fsys
	disk bool   // paths are reported relative to Root
}

// NewLoader creates a loader over a directory on disk.
func NewLoader(root string) *Loader {
	return &Loader{Root: root, fsys: os.DirFS(root), walk: ".", disk: true}
}

// NewFSLoader creates a loader over the dir subtree of fsys.
func NewFSLoader(fsys fs.FS, dir string) *Loader {
	return &Loader{Root: dir, fsys: fsys, walk: dir}
}

// LoadAll recursively scans and loads all level files.
// Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	var levels []Level

	err := fs.WalkDir(l.fsys, l.walk, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if !isSupportedExtension(ext) {
			return nil
		}

		level, err := l.loadPath(path)
		if err != nil {
			// Skip invalid files
			return nil
		}

		levels = append(levels, level)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("levels: walking %s: %w", l.Root, err)
	}

	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})

	return levels, nil
}

// LoadFile loads a single level file from disk.
func LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("levels: reading %s: %w", path, err)
	}
	return parse(data, path)
}

func (l *Loader) loadPath(path string) (Level, error) {
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return Level{}, fmt.Errorf("levels: reading %s: %w", path, err)
	}
	display := path
	if l.disk {
		display = filepath.Join(l.Root, path)
	}
	return parse(data, display)
}

func parse(data []byte, path string) (Level, error) {
	ext := strings.ToLower(filepath.Ext(path))
	parsed, err := parseByExtension(data, ext)
	if err != nil {
		return Level{}, fmt.Errorf("levels: parsing %s: %w", path, err)
	}

	level := fromFormat(parsed, path)
	if err := level.Validate(); err != nil {
		return Level{}, err
	}
	return level, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	return Find(levels, id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// Find returns the level with the given ID.
func Find(levels []Level, id string) (Level, error) {
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
