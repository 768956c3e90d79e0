package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/vovakirdan/match3-arcade/internal/games/match3/levels"
	"github.com/vovakirdan/match3-arcade/internal/replay"
)

type testSession struct {
	ID        string   `json:"id"`
	Level     string   `json:"level"`
	Seed      int64    `json:"seed"`
	State     string   `json:"state"`
	Score     int      `json:"score"`
	Target    int      `json:"target"`
	MovesLeft int      `json:"moves_left"`
	Board     []string `json:"board"`
}

type testSwap struct {
	Outcome  string      `json:"outcome"`
	Reason   string      `json:"reason"`
	Cascades int         `json:"cascades"`
	Steps    []stepView  `json:"steps"`
	Session  testSession `json:"session"`
}

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.Config.Engine.MinMatch == 0 {
		opts.Config = DefaultOptions().Config
	}
	ts := httptest.NewServer(New(opts).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func createSession(t *testing.T, ts *httptest.Server, level string, seed int64) testSession {
	t.Helper()
	var sess testSession
	code := do(t, http.MethodPost, ts.URL+"/v1/sessions", map[string]any{"level": level, "seed": seed}, &sess)
	if code != http.StatusCreated {
		t.Fatalf("create session: status %d", code)
	}
	return sess
}

func TestLevels(t *testing.T) {
	ts := newTestServer(t, Options{})

	var got []levelView
	if code := do(t, http.MethodGet, ts.URL+"/v1/levels", nil, &got); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	campaign := levels.MustCampaign()
	if len(got) != len(campaign) {
		t.Fatalf("got %d levels, want %d", len(got), len(campaign))
	}
	if got[0].ID != campaign[0].ID || got[0].Width != campaign[0].Width || len(got[0].Elements) == 0 {
		t.Errorf("first level = %+v", got[0])
	}
}

func TestCreateSession(t *testing.T) {
	ts := newTestServer(t, Options{})
	level := levels.MustCampaign()[0]

	sess := createSession(t, ts, level.ID, 42)
	if sess.ID == "" || sess.Level != level.ID || sess.Seed != 42 {
		t.Errorf("session = %+v", sess)
	}
	if sess.State != "idle" || sess.Score != 0 || sess.MovesLeft != level.Moves {
		t.Errorf("fresh session = %+v", sess)
	}
	if len(sess.Board) != level.Height || len(sess.Board[0]) != level.Width {
		t.Errorf("board is %dx%d", len(sess.Board[0]), len(sess.Board))
	}

	var again testSession
	if code := do(t, http.MethodGet, ts.URL+"/v1/sessions/"+sess.ID, nil, &again); code != http.StatusOK {
		t.Fatalf("get status = %d", code)
	}
	if !slices.Equal(again.Board, sess.Board) {
		t.Error("get should return the same board")
	}
}

func TestCreateSessionErrors(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		name string
		body any
		want int
	}{
		{"unknown level", map[string]any{"level": "nope"}, http.StatusNotFound},
		{"missing level", map[string]any{"seed": 1}, http.StatusBadRequest},
		{"unknown field", map[string]any{"level": "01", "colour": "red"}, http.StatusBadRequest},
		{"endless stage", map[string]any{"level": levels.EndlessID(3), "seed": 1}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := do(t, http.MethodPost, ts.URL+"/v1/sessions", tt.body, nil); code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestSwapNonAdjacentIsRejected(t *testing.T) {
	ts := newTestServer(t, Options{})
	sess := createSession(t, ts, levels.MustCampaign()[0].ID, 7)

	var got testSwap
	body := map[string]any{"a": map[string]int{"x": 0, "y": 0}, "b": map[string]int{"x": 2, "y": 0}}
	if code := do(t, http.MethodPost, ts.URL+"/v1/sessions/"+sess.ID+"/swap", body, &got); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if got.Outcome != "rejected" || got.Reason != "not_adjacent" {
		t.Errorf("outcome = %q (%q)", got.Outcome, got.Reason)
	}
	if !slices.Equal(got.Session.Board, sess.Board) || got.Session.MovesLeft != sess.MovesLeft {
		t.Error("rejected swap must not change the board or the moves")
	}
}

func TestSwapHintResolves(t *testing.T) {
	ts := newTestServer(t, Options{})
	sess := createSession(t, ts, levels.MustCampaign()[0].ID, 11)

	var hint hintResponse
	if code := do(t, http.MethodGet, ts.URL+"/v1/sessions/"+sess.ID+"/hint", nil, &hint); code != http.StatusOK {
		t.Fatalf("hint status = %d", code)
	}
	if !hint.Found || hint.Move == nil {
		t.Fatal("a fresh campaign board should have a legal move")
	}

	var got testSwap
	code := do(t, http.MethodPost, ts.URL+"/v1/sessions/"+sess.ID+"/swap", swapRequest{A: hint.Move.A, B: hint.Move.B}, &got)
	if code != http.StatusOK {
		t.Fatalf("swap status = %d", code)
	}
	if got.Outcome != "resolved" || got.Cascades < 1 || len(got.Steps) != got.Cascades {
		t.Fatalf("swap = %+v", got)
	}
	if got.Session.Score <= 0 || got.Session.MovesLeft != sess.MovesLeft-1 {
		t.Errorf("session after swap = %+v", got.Session)
	}
	last := got.Steps[len(got.Steps)-1]
	if !slices.Equal(last.Board, got.Session.Board) {
		t.Error("last step should end on the current board")
	}

	// The recorded replay reproduces the session.
	resp, err := http.Get(ts.URL + "/v1/sessions/" + sess.ID + "/replay")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	rec, err := replay.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decode replay: %v", err)
	}
	if len(rec.Swaps) != 1 || rec.Seed != 11 {
		t.Errorf("recording = %+v", rec)
	}
	e, err := rec.Run()
	if err != nil {
		t.Fatalf("replay run: %v", err)
	}
	if e.Score() != got.Session.Score {
		t.Errorf("replayed score %d, want %d", e.Score(), got.Session.Score)
	}
}

func TestShuffleRefusedWithMovesLeft(t *testing.T) {
	ts := newTestServer(t, Options{})
	sess := createSession(t, ts, levels.MustCampaign()[0].ID, 3)

	if code := do(t, http.MethodPost, ts.URL+"/v1/sessions/"+sess.ID+"/shuffle", nil, nil); code != http.StatusConflict {
		t.Errorf("status = %d, want %d", code, http.StatusConflict)
	}
}

func TestDeleteSession(t *testing.T) {
	ts := newTestServer(t, Options{})
	sess := createSession(t, ts, levels.MustCampaign()[0].ID, 5)
	url := ts.URL + "/v1/sessions/" + sess.ID

	if code := do(t, http.MethodDelete, url, nil, nil); code != http.StatusNoContent {
		t.Fatalf("delete status = %d", code)
	}
	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		var e errorResponse
		if code := do(t, method, url, nil, &e); code != http.StatusNotFound || e.Error == "" {
			t.Errorf("%s after delete: status %d, error %q", method, code, e.Error)
		}
	}
}

func TestSessionLimit(t *testing.T) {
	ts := newTestServer(t, Options{MaxSessions: 1})
	createSession(t, ts, "01", 1)

	code := do(t, http.MethodPost, ts.URL+"/v1/sessions", map[string]any{"level": "01", "seed": 2}, nil)
	if code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", code, http.StatusTooManyRequests)
	}
}

func TestCompression(t *testing.T) {
	ts := newTestServer(t, Options{})

	tests := []struct {
		encoding string
		reader   func(io.Reader) (io.Reader, error)
	}{
		{"gzip", func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) }},
		{"zstd", func(r io.Reader) (io.Reader, error) { return zstd.NewReader(r) }},
	}

	for _, tt := range tests {
		t.Run(tt.encoding, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/levels", nil)
			req.Header.Set("Accept-Encoding", tt.encoding)
			// A custom transport keeps Go from decoding gzip itself.
			client := &http.Client{Transport: &http.Transport{DisableCompression: true}}
			resp, err := client.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if got := resp.Header.Get("Content-Encoding"); got != tt.encoding {
				t.Fatalf("Content-Encoding = %q", got)
			}
			rd, err := tt.reader(resp.Body)
			if err != nil {
				t.Fatal(err)
			}
			var lvls []levelView
			if err := json.NewDecoder(rd).Decode(&lvls); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(lvls) == 0 {
				t.Error("no levels in compressed response")
			}
		})
	}
}

func TestJSONContentType(t *testing.T) {
	ts := newTestServer(t, Options{})

	resp, err := http.Get(ts.URL + "/v1/levels")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		t.Errorf("Content-Type = %q", resp.Header.Get("Content-Type"))
	}
}

func TestSweepIdleSessions(t *testing.T) {
	store := newSessionStore(0)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	level := levels.MustCampaign()[0]
	e, err := level.NewEngine(1)
	if err != nil {
		t.Fatal(err)
	}
	old, _ := store.add(level, e, nil)
	now = now.Add(20 * time.Minute)
	fresh, _ := store.add(level, e, nil)
	now = now.Add(15 * time.Minute)

	if n := store.sweep(30 * time.Minute); n != 1 {
		t.Fatalf("swept %d sessions, want 1", n)
	}
	if _, err := store.acquire(old.id); err == nil {
		t.Error("idle session should be gone")
	}
	sess, err := store.acquire(fresh.id)
	if err != nil {
		t.Fatal("recent session should survive")
	}
	sess.mu.Unlock()
}
