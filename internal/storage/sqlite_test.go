package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/match3-arcade/internal/core"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openStore(t)

	for _, score := range []int{100, 50, 200} {
		if _, err := store.SaveScore("match3", score); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("match3_endless", 500); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("match3", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}
	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be parsed")
	}

	endless, err := store.TopScores("match3_endless", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(endless) != 1 {
		t.Errorf("Expected 1 endless score, got %d", len(endless))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openStore(t)

	for i := range 5 {
		store.SaveScore("test", (i+1)*100)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}

}

func TestStoreLevelResults(t *testing.T) {
	store := openStore(t)

	results := []core.LevelResult{
		{LevelID: "01", Won: false, Score: 420, MovesUsed: 25, Cascades: 31, Seed: 1},
		{LevelID: "01", Won: true, Score: 640, MovesUsed: 19, Cascades: 27, Seed: 2},
		{LevelID: "02", Won: false, Score: 300, MovesUsed: 25, Cascades: 20, Seed: 3},
	}
	var lastID int64
	for _, r := range results {
		id, err := store.SaveLevelResult("match3", r, "")
		if err != nil {
			t.Fatalf("SaveLevelResult() failed: %v", err)
		}
		lastID = id
	}

	got, err := store.LevelResults("01", 10)
	if err != nil {
		t.Fatalf("LevelResults() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 results for level 01, got %d", len(got))
	}
	if got[0].Score != 640 || !got[0].Won || got[0].Seed != 2 || got[0].MovesUsed != 19 {
		t.Errorf("best result = %+v", got[0])
	}
	if got[1].Won {
		t.Error("second result should be a loss")
	}

	one, err := store.LevelResult(lastID)
	if err != nil || one == nil || one.LevelID != "02" {
		t.Errorf("LevelResult(%d) = %+v, %v", lastID, one, err)
	}
	missing, err := store.LevelResult(lastID + 100)
	if err != nil || missing != nil {
		t.Errorf("LevelResult of a missing ID = %+v, %v", missing, err)
	}

	bests, err := store.LevelBests()
	if err != nil {
		t.Fatalf("LevelBests() failed: %v", err)
	}
	if b := bests["01"]; b.BestScore != 640 || b.Attempts != 2 || !b.Cleared {
		t.Errorf("level 01 best = %+v", b)
	}
	if b := bests["02"]; b.Cleared || b.Attempts != 1 {
		t.Errorf("level 02 best = %+v", b)
	}
}

func TestStoreReplayPath(t *testing.T) {
	store := openStore(t)

	id, err := store.SaveLevelResult("match3", core.LevelResult{LevelID: "03", Score: 10}, "/tmp/03.m3r.zst")
	if err != nil {
		t.Fatalf("SaveLevelResult() failed: %v", err)
	}
	r, err := store.LevelResult(id)
	if err != nil {
		t.Fatalf("LevelResult() failed: %v", err)
	}
	if r.Replay != "/tmp/03.m3r.zst" {
		t.Errorf("replay path = %q", r.Replay)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openStore(t)

	store.SaveScore("match3", 100)
	store.SaveScore("match3", 200)
	store.SaveScore("match3_endless", 300)
	store.SaveLevelResult("match3", core.LevelResult{LevelID: "01", Score: 100}, "")

	if err := store.ClearScores("match3"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("match3", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if results, _ := store.LevelResults("01", 10); len(results) != 0 {
		t.Errorf("Expected 0 level results after clear, got %d", len(results))
	}
	if scores, _ := store.TopScores("match3_endless", 10); len(scores) != 1 {
		t.Error("Endless scores should not be affected by clearing campaign")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openStore(t)

	store.SaveScore("match3", 100)
	store.SaveScore("match3", 300)

	stats, err := store.GetGameStats("match3")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.AvgScore != 200 || stats.TotalScore != 400 {
		t.Errorf("stats = %+v", stats)
	}

	empty, err := store.GetGameStats("nothing")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}
}
