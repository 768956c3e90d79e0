package replay

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/match3-arcade/internal/games/match3/core"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/levels"
)

// record plays the first legal move each turn and records it.
func record(t *testing.T, lvl levels.Level, seed int64, turns int) *Recording {
	t.Helper()

	cfg := lvl.Config()
	cfg.Seed = seed
	e, err := lvl.NewEngineWith(cfg)
	if err != nil {
		t.Fatalf("NewEngineWith failed: %v", err)
	}

	rec := New(lvl.ID, cfg, lvl.Mask)
	for range turns {
		if e.State().IsTerminal() {
			break
		}
		mv, ok := e.Matcher().FindLegalMove()
		if !ok {
			if e.Shuffle() != nil {
				break
			}
			rec.AddShuffle()
			continue
		}
		rec.AddSwap(mv.A, mv.B)
		e.AttemptSwap(mv.A, mv.B)
	}
	rec.Finish(e.Score(), e.State())
	return rec
}

func TestVerifyReproducesScore(t *testing.T) {
	for _, lvl := range levels.MustCampaign()[:4] {
		t.Run(lvl.ID, func(t *testing.T) {
			rec := record(t, lvl, 11, 40)
			if rec.FinalScore == 0 {
				t.Fatal("recorded game scored nothing")
			}

			res, err := rec.Verify()
			if err != nil {
				t.Fatalf("Verify failed: %v", err)
			}
			if res.Score != rec.FinalScore || res.State != rec.FinalState {
				t.Errorf("Verify = %+v, recorded %d/%s", res, rec.FinalScore, rec.FinalState)
			}
		})
	}
}

func TestVerifyDetectsTampering(t *testing.T) {
	rec := record(t, levels.MustCampaign()[0], 3, 10)
	rec.FinalScore += 10

	if _, err := rec.Verify(); !errors.Is(err, ErrMismatch) {
		t.Errorf("Verify error = %v, want ErrMismatch", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	lvl := levels.MustCampaign()[3] // masked level
	rec := record(t, lvl, 5, 15)

	path := filepath.Join(t.TempDir(), "nested", FileName(rec))
	if err := Save(path, rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.LevelID != rec.LevelID || got.Seed != rec.Seed || len(got.Swaps) != len(rec.Swaps) {
		t.Errorf("loaded %+v, saved %+v", got, rec)
	}
	if got.Config.Deadlock != rec.Config.Deadlock || len(got.Config.Allowed) != len(rec.Config.Allowed) {
		t.Errorf("config lost in round trip: %+v", got.Config)
	}
	if len(got.Mask) != lvl.Height {
		t.Errorf("mask has %d rows, want %d", len(got.Mask), lvl.Height)
	}
	if _, err := got.Verify(); err != nil {
		t.Errorf("loaded recording does not verify: %v", err)
	}
}

func TestDecodeRejectsOtherVersions(t *testing.T) {
	rec := New("x", core.DefaultConfig(), nil)
	rec.Version = 99

	var buf bytes.Buffer
	if err := Encode(&buf, rec); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(&buf); !errors.Is(err, ErrVersion) {
		t.Errorf("Decode error = %v, want ErrVersion", err)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(bytes.NewReader([]byte("not zstd at all"))); err == nil {
		t.Error("expected an error for non-zstd input")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.m3r.zst")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestNewGridAppliesMask(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Width, cfg.Height = 3, 2
	rec := New("m", cfg, []string{"#..", "..#"})

	g, err := rec.NewGrid()
	if err != nil {
		t.Fatal(err)
	}
	if g.IsAvailable(core.P(0, 1)) || g.IsAvailable(core.P(2, 0)) {
		t.Error("mask cells should be blocked")
	}
	if !g.IsAvailable(core.P(0, 0)) {
		t.Error("(0,0) should be available")
	}
}
