// Package replay records played levels as a seed plus the player's inputs
// and re-runs them to verify that the engine reproduces the result.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/match3-arcade/internal/games/match3/core"
)

// Version is the recording format version written by this package.
const Version = 1

// Extension is the file extension of saved recordings.
const Extension = ".m3r.zst"

var (
	// ErrVersion is returned when loading a recording of another format.
	ErrVersion = errors.New("replay: unsupported recording version")
	// ErrMismatch is returned when a re-run diverges from the recording.
	ErrMismatch = errors.New("replay: result mismatch")
)

// Move is one recorded player input: a swap, or a requested shuffle.
type Move struct {
	A       core.Position `yaml:"a"`
	B       core.Position `yaml:"b"`
	Shuffle bool          `yaml:"shuffle,omitempty"`
}

// Recording captures everything needed to replay one level.
type Recording struct {
	Version    int         `yaml:"version"`
	LevelID    string      `yaml:"level_id"`
	Seed       int64       `yaml:"seed"`
	Config     core.Config `yaml:"config"`
	Mask       []string    `yaml:"mask,omitempty"`
	Swaps      []Move      `yaml:"swaps"`
	FinalScore int         `yaml:"final_score"`
	FinalState core.State  `yaml:"final_state"`
	RecordedAt time.Time   `yaml:"recorded_at"`
}

// New starts a recording for a level. cfg must be the exact engine
// configuration, seed included.
func New(levelID string, cfg core.Config, mask []string) *Recording {
	return &Recording{
		Version:    Version,
		LevelID:    levelID,
		Seed:       cfg.Seed,
		Config:     cfg,
		Mask:       append([]string(nil), mask...),
		RecordedAt: time.Now().UTC(),
	}
}

// AddSwap appends a swap attempt.
func (r *Recording) AddSwap(a, b core.Position) {
	r.Swaps = append(r.Swaps, Move{A: a, B: b})
}

// AddShuffle appends a player shuffle.
func (r *Recording) AddShuffle() {
	r.Swaps = append(r.Swaps, Move{Shuffle: true})
}

// Finish stores the observed result.
func (r *Recording) Finish(score int, state core.State) {
	r.FinalScore = score
	r.FinalState = state
}

// NewGrid builds the empty masked grid the recording was played on.
func (r *Recording) NewGrid() (*core.Grid, error) {
	g, err := core.NewGrid(r.Config.Width, r.Config.Height)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	for i, row := range r.Mask {
		y := r.Config.Height - 1 - i
		for x, c := range []rune(row) {
			if c == '#' {
				g.SetAvailable(core.P(x, y), false)
			}
		}
	}
	return g, nil
}

// Run plays the recording on a fresh engine and returns it.
func (r *Recording) Run(opts ...core.Option) (*core.Engine, error) {
	g, err := r.NewGrid()
	if err != nil {
		return nil, err
	}
	cfg := r.Config
	cfg.Seed = r.Seed
	e, err := core.New(g, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	e.Start()

	for i, mv := range r.Swaps {
		if e.State().IsTerminal() {
			break
		}
		if mv.Shuffle {
			if err := e.Shuffle(); err != nil {
				return nil, fmt.Errorf("%w: move %d: shuffle: %v", ErrMismatch, i, err)
			}
			continue
		}
		e.AttemptSwap(mv.A, mv.B)
	}
	return e, nil
}

// Result is the outcome of Verify.
type Result struct {
	Score int
	State core.State
	Moves int
}

// Verify re-runs the recording and compares score and final state.
func (r *Recording) Verify() (Result, error) {
	e, err := r.Run()
	if err != nil {
		return Result{}, err
	}
	res := Result{Score: e.Score(), State: e.State(), Moves: e.MovesLeft()}
	if res.Score != r.FinalScore || res.State != r.FinalState {
		return res, fmt.Errorf("%w: recorded %d/%s, replayed %d/%s",
			ErrMismatch, r.FinalScore, r.FinalState, res.Score, res.State)
	}
	return res, nil
}

// Encode writes the recording as zstd-compressed YAML.
func Encode(w io.Writer, r *Recording) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("replay: marshal: %w", err)
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("replay: create zstd writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		_ = zw.Close()
		return fmt.Errorf("replay: write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("replay: close zstd writer: %w", err)
	}
	return nil
}

// Decode reads a recording written by Encode.
func Decode(rd io.Reader) (*Recording, error) {
	zr, err := zstd.NewReader(rd)
	if err != nil {
		return nil, fmt.Errorf("replay: create zstd reader: %w", err)
	}
	defer zr.Close()

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("replay: decompress: %w", err)
	}

	var r Recording
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("replay: unmarshal: %w", err)
	}
	if r.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, r.Version)
	}
	return &r, nil
}

// Save writes the recording to path, creating parent directories.
func Save(path string, r *Recording) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("replay: mkdir: %w", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, r); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("replay: write %s: %w", path, err)
	}
	return nil
}

// Load reads a recording from path.
func Load(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f)
}

// FileName returns a default file name for a recording.
func FileName(r *Recording) string {
	return fmt.Sprintf("%s-%s%s", r.LevelID, r.RecordedAt.Format("20060102-150405"), Extension)
}
