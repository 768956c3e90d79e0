package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	m3 "github.com/vovakirdan/match3-arcade/internal/games/match3/core"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/levels"
	"github.com/vovakirdan/match3-arcade/internal/replay"
)

// ErrBadRequest marks a request body or parameter the API cannot use.
var ErrBadRequest = errors.New("httpapi: bad request")

const maxBodyBytes = 1 << 16

type levelView struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Width    int      `json:"width"`
	Height   int      `json:"height"`
	Moves    int      `json:"moves"`
	Target   int      `json:"target"`
	Elements []string `json:"elements"`
}

type sessionView struct {
	ID        string    `json:"id"`
	Level     string    `json:"level"`
	Seed      int64     `json:"seed"`
	State     m3.State  `json:"state"`
	Score     int       `json:"score"`
	Target    int       `json:"target"`
	MovesLeft int       `json:"moves_left"`
	Board     []string  `json:"board"`
	Created   time.Time `json:"created_at"`
}

type stepView struct {
	Index      int           `json:"index"`
	Removed    []m3.Position `json:"removed"`
	Falls      []m3.Fall     `json:"falls"`
	Spawns     []m3.Spawn    `json:"spawns"`
	ScoreDelta int           `json:"score_delta"`
	Board      []string      `json:"board"`
}

type swapRequest struct {
	A m3.Position `json:"a"`
	B m3.Position `json:"b"`
}

type swapResponse struct {
	Outcome    m3.OutcomeKind  `json:"outcome"`
	Reason     m3.RejectReason `json:"reason,omitempty"`
	ScoreDelta int             `json:"score_delta"`
	Cascades   int             `json:"cascades"`
	Steps      []stepView      `json:"steps,omitempty"`
	Deadlocked bool            `json:"deadlocked,omitempty"`
	Reshuffled bool            `json:"reshuffled,omitempty"`
	Session    sessionView     `json:"session"`
}

type hintResponse struct {
	Found bool         `json:"found"`
	Move  *m3.SwapMove `json:"move,omitempty"`
}

type createRequest struct {
	Level string `json:"level"`
	Seed  int64  `json:"seed"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func viewLevel(l levels.Level) levelView {
	elems := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		elems[i] = e.String()
	}
	return levelView{
		ID:       l.ID,
		Name:     l.Name,
		Width:    l.Width,
		Height:   l.Height,
		Moves:    l.Moves,
		Target:   l.Target,
		Elements: elems,
	}
}

func viewSession(s *session) sessionView {
	e := s.engine
	return sessionView{
		ID:        s.id,
		Level:     s.level.ID,
		Seed:      e.Config().Seed,
		State:     e.State(),
		Score:     e.Score(),
		Target:    e.Target(),
		MovesLeft: e.MovesLeft(),
		Board:     e.Grid().Snapshot().Rows(),
		Created:   s.created,
	}
}

func (s *Server) handleLevels(w http.ResponseWriter, _ *http.Request) {
	out := make([]levelView, len(s.levels))
	for i, l := range s.levels {
		out[i] = viewLevel(l)
	}
	writeJSON(w, http.StatusOK, out)
}

// findLevel resolves a loaded level or an endless stage ID.
func (s *Server) findLevel(id string) (levels.Level, error) {
	if l, err := levels.Find(s.levels, id); err == nil {
		return l, nil
	}
	if stage, ok := levels.ParseEndlessID(id); ok {
		return levels.Endless(stage), nil
	}
	return levels.Level{}, fmt.Errorf("%w: %q", levels.ErrNotFound, id)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Level == "" {
		writeError(w, fmt.Errorf("%w: level is required", ErrBadRequest))
		return
	}

	level, err := s.findLevel(req.Level)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}

	cfg := s.opts.Config.LevelConfig(level, req.Seed)
	var opts []m3.Option
	if s.logger != nil {
		opts = append(opts, m3.WithLogger(s.logger.With("level", level.ID)))
	}
	engine, err := level.NewEngineWith(cfg, opts...)
	if err != nil {
		writeError(w, err)
		return
	}

	sess, err := s.sessions.add(level, engine, replay.New(level.ID, engine.Config(), level.Mask))
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/v1/sessions/"+sess.id)
	writeJSON(w, http.StatusCreated, viewSession(sess))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.acquire(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer sess.mu.Unlock()

	writeJSON(w, http.StatusOK, viewSession(sess))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.remove(chi.URLParam(r, "id")) {
		writeError(w, ErrSessionNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	var req swapRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	sess, err := s.sessions.acquire(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer sess.mu.Unlock()

	out := sess.engine.AttemptSwap(req.A, req.B)
	if out.Kind != m3.OutcomeRejected {
		sess.rec.AddSwap(req.A, req.B)
	}
	if out.State.IsTerminal() {
		sess.rec.Finish(sess.engine.Score(), out.State)
	}

	resp := swapResponse{
		Outcome:    out.Kind,
		Reason:     out.Reason,
		ScoreDelta: out.ScoreDelta,
		Cascades:   out.CascadeCount,
		Deadlocked: out.Deadlocked,
		Reshuffled: out.Reshuffled,
		Session:    viewSession(sess),
	}
	for _, step := range out.Steps {
		resp.Steps = append(resp.Steps, stepView{
			Index:      step.Index,
			Removed:    step.Removed,
			Falls:      step.Falls,
			Spawns:     step.Spawns,
			ScoreDelta: step.ScoreDelta,
			Board:      step.After.Rows(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleShuffle reshuffles a board with no legal move left.
func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.acquire(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer sess.mu.Unlock()

	if sess.engine.Matcher().HasAnyLegalMove() {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "board still has a legal move"})
		return
	}
	if err := sess.engine.Shuffle(); err != nil {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "board cannot be shuffled: " + err.Error()})
		return
	}
	sess.rec.AddShuffle()
	writeJSON(w, http.StatusOK, viewSession(sess))
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.acquire(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer sess.mu.Unlock()

	mv, ok := sess.engine.Hint()
	resp := hintResponse{Found: ok}
	if ok {
		resp.Move = &mv
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleReplay returns the session's recording in the replay file format.
func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.acquire(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	defer sess.mu.Unlock()

	w.Header().Set("Content-Type", "application/zstd")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", replay.FileName(sess.rec)))
	if err := replay.Encode(w, sess.rec); err != nil && s.logger != nil {
		s.logger.Warn("could not write replay", "session", sess.id, "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusOf maps an error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, levels.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrTooManySessions):
		return http.StatusTooManyRequests
	case errors.Is(err, m3.ErrInvalidConfig), errors.Is(err, m3.ErrInvalidDimensions):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), errorResponse{Error: err.Error()})
}
