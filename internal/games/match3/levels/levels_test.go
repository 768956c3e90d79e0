package levels

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/match3-arcade/internal/games/match3/core"
)

func writeLevel(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const smallLevel = `
id: "zz-small"
name: Small
size: {w: 4, h: 3}
moves: 5
target: 100
elements: [red, green, blue]
mask:
  - "#.S."
  - "E..."
  - "...#"
`

func TestCampaignLoads(t *testing.T) {
	lvls, err := Campaign()
	if err != nil {
		t.Fatalf("Campaign() failed: %v", err)
	}
	if len(lvls) != 10 {
		t.Fatalf("campaign has %d levels, want 10", len(lvls))
	}

	for i, l := range lvls {
		if i > 0 && lvls[i-1].ID >= l.ID {
			t.Errorf("levels not sorted: %s before %s", lvls[i-1].ID, l.ID)
		}
		if err := l.Validate(); err != nil {
			t.Errorf("level %s invalid: %v", l.ID, err)
		}
	}
}

func TestCampaignLevelsArePlayable(t *testing.T) {
	for _, l := range MustCampaign() {
		t.Run(l.ID, func(t *testing.T) {
			e, err := l.NewEngine(1)
			if err != nil {
				t.Fatalf("NewEngine failed: %v", err)
			}
			if n := len(e.Matcher().FindAll()); n != 0 {
				t.Errorf("opening board has %d matches", n)
			}
			if e.Grid().EmptyCount() != 0 {
				t.Error("opening board has holes")
			}
			if e.State() != core.StateIdle {
				t.Errorf("state = %v, want idle", e.State())
			}
		})
	}
}

func TestCampaignReturnsCopy(t *testing.T) {
	a := MustCampaign()
	a[0].Name = "changed"
	if MustCampaign()[0].Name == "changed" {
		t.Error("Campaign() should return a fresh slice")
	}
}

func TestParseDefaults(t *testing.T) {
	lvl, err := parse([]byte(`
id: x
size: {w: 5, h: 5}
moves: 10
target: 50
`), "x.yaml")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if lvl.Name != "x" {
		t.Errorf("Name = %q, want the ID as fallback", lvl.Name)
	}
	if !lvl.PreventInitialMatches {
		t.Error("prevent_initial_matches should default to true")
	}
	cfg := lvl.Config()
	if cfg.MinMatch != core.DefaultMinMatch || cfg.ScorePerCell != core.DefaultScorePerCell {
		t.Errorf("config defaults = %d/%d", cfg.MinMatch, cfg.ScorePerCell)
	}
	if cfg.Deadlock != core.DeadlockReport {
		t.Errorf("Deadlock = %q, want report", cfg.Deadlock)
	}
	if len(cfg.Allowed) != len(core.BasicTypes()) {
		t.Errorf("Allowed = %v, want the basic types", cfg.Allowed)
	}
}

func TestParseRejectsBadLevels(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing id", "size: {w: 3, h: 3}\nmoves: 5\n"},
		{"unknown element", "id: a\nsize: {w: 3, h: 3}\nmoves: 5\nelements: [red, pink]\n"},
		{"unknown policy", "id: a\nsize: {w: 3, h: 3}\nmoves: 5\ndeadlock: maybe\n"},
		{"zero moves", "id: a\nsize: {w: 3, h: 3}\nmoves: 0\n"},
		{"zero size", "id: a\nsize: {w: 0, h: 3}\nmoves: 5\n"},
		{"short mask", "id: a\nsize: {w: 3, h: 2}\nmoves: 5\nmask: [\"...\"]\n"},
		{"ragged mask", "id: a\nsize: {w: 3, h: 2}\nmoves: 5\nmask: [\"...\", \"..\"]\n"},
		{"not yaml", "id: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parse([]byte(tt.yaml), "bad.yaml"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestNewGridAppliesMaskTopRowFirst(t *testing.T) {
	lvl, err := parse([]byte(smallLevel), "small.yaml")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	g, err := lvl.NewGrid()
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	if g.IsAvailable(core.P(0, 2)) {
		t.Error("(0,2) is '#' in the top mask row and should be blocked")
	}
	if g.IsAvailable(core.P(3, 0)) {
		t.Error("(3,0) is '#' in the bottom mask row and should be blocked")
	}
	if !g.IsAvailable(core.P(0, 0)) || !g.IsAvailable(core.P(3, 2)) {
		t.Error("unmasked corners should stay available")
	}

	roles := map[core.Position]core.CellRole{
		core.P(2, 2): core.RoleSpawner,
		core.P(0, 1): core.RoleExit,
		core.P(1, 1): core.RoleNormal,
	}
	for p, want := range roles {
		c, _ := g.CellAt(p)
		if c.Role() != want || !c.Available() {
			t.Errorf("cell %v: role %v, available %v; want %v", p, c.Role(), c.Available(), want)
		}
	}
}

func TestLoaderSkipsInvalidAndSortsByID(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "b.yaml", "id: b\nsize: {w: 4, h: 4}\nmoves: 5\ntarget: 10\n")
	writeLevel(t, dir, "nested/a.yml", "id: a\nsize: {w: 4, h: 4}\nmoves: 5\ntarget: 10\n")
	writeLevel(t, dir, "broken.yaml", "id: [\n")
	writeLevel(t, dir, "notes.txt", "not a level")

	lvls, err := NewLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(lvls) != 2 {
		t.Fatalf("loaded %d levels, want 2", len(lvls))
	}
	if lvls[0].ID != "a" || lvls[1].ID != "b" {
		t.Errorf("order = %s, %s; want a, b", lvls[0].ID, lvls[1].ID)
	}
	if lvls[0].FilePath != filepath.Join(dir, "nested", "a.yml") {
		t.Errorf("FilePath = %q", lvls[0].FilePath)
	}

	ids, err := NewLoader(dir).ListIDs()
	if err != nil || len(ids) != 2 {
		t.Errorf("ListIDs() = %v, %v", ids, err)
	}
}

func TestLoadByIDNotFound(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "small.yaml", smallLevel)

	if _, err := NewLoader(dir).LoadByID("zz-small"); err != nil {
		t.Errorf("LoadByID(zz-small) failed: %v", err)
	}
	if _, err := NewLoader(dir).LoadByID("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LoadByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestResolveAndAll(t *testing.T) {
	dir := t.TempDir()
	writeLevel(t, dir, "small.yaml", smallLevel)
	writeLevel(t, dir, "override.yaml", "id: \"01\"\nname: Custom One\nsize: {w: 5, h: 5}\nmoves: 5\ntarget: 10\n")

	lvl, err := Resolve(dir, "01")
	if err != nil || lvl.Name != "Custom One" {
		t.Errorf("Resolve(01) = %q, %v; directory level should shadow the campaign", lvl.Name, err)
	}
	if lvl, err := Resolve("", "03"); err != nil || lvl.Name != "Five Colors" {
		t.Errorf("Resolve(03) = %q, %v", lvl.Name, err)
	}
	if lvl, err := Resolve("", "endless-004"); err != nil || lvl.ID != "endless-004" {
		t.Errorf("Resolve(endless-004) = %q, %v", lvl.ID, err)
	}
	if lvl, err := Resolve("", filepath.Join(dir, "small.yaml")); err != nil || lvl.ID != "zz-small" {
		t.Errorf("Resolve(path) = %q, %v", lvl.ID, err)
	}
	if _, err := Resolve("", "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve(nope) error = %v, want ErrNotFound", err)
	}

	all, err := All(dir)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(all) != 11 {
		t.Errorf("All() returned %d levels, want 10 campaign + 1 extra", len(all))
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	lvl, err := parse([]byte(smallLevel), "small.yaml")
	if err != nil {
		t.Fatal(err)
	}

	data, err := lvl.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	back, err := parse(data, "small.yaml")
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if back.ID != lvl.ID || back.Width != lvl.Width || len(back.Mask) != len(lvl.Mask) || len(back.Elements) != 3 {
		t.Errorf("round trip lost data: %+v", back)
	}
}

func TestEndlessScalesMonotonically(t *testing.T) {
	prev := Endless(1)
	for stage := 2; stage <= 40; stage++ {
		cur := Endless(stage)
		if err := cur.Validate(); err != nil {
			t.Fatalf("stage %d invalid: %v", stage, err)
		}
		if cur.Target <= prev.Target {
			t.Errorf("stage %d target %d not above %d", stage, cur.Target, prev.Target)
		}
		if cur.Moves > prev.Moves {
			t.Errorf("stage %d moves %d above %d", stage, cur.Moves, prev.Moves)
		}
		if len(cur.Elements) < len(prev.Elements) || cur.Width < prev.Width {
			t.Errorf("stage %d got easier", stage)
		}
		prev = cur
	}
}

func TestEndlessIDs(t *testing.T) {
	if got := EndlessID(7); got != "endless-007" {
		t.Errorf("EndlessID(7) = %q", got)
	}
	for _, tt := range []struct {
		id    string
		stage int
		ok    bool
	}{
		{"endless-007", 7, true},
		{"endless-12", 12, true},
		{"endless-0", 0, false},
		{"endless-x", 0, false},
		{"07", 0, false},
	} {
		stage, ok := ParseEndlessID(tt.id)
		if stage != tt.stage || ok != tt.ok {
			t.Errorf("ParseEndlessID(%q) = %d, %v", tt.id, stage, ok)
		}
	}
	if Endless(0).ID != "endless-001" {
		t.Error("stage below 1 should clamp to 1")
	}
}
