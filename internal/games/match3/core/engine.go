package core

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"
)

var (
	// ErrNotIdle is returned by Shuffle while a turn runs or after the
	// level ended.
	ErrNotIdle = errors.New("engine is not idle")
	// ErrUnplayable is returned when no playable board could be reached.
	ErrUnplayable = errors.New("no playable board found")
)

// Engine drives one level: it validates swaps, resolves cascades until the
// board is stable and tracks score, moves and terminal state. It is single
// threaded; a swap arriving while a turn is in progress is rejected.
type Engine struct {
	grid    *Grid
	matcher *Matcher
	spawner Spawner
	rng     *rand.Rand
	cfg     Config
	logger  *log.Logger

	state  State
	score  int
	moves  int
	inTurn bool

	subs    []subscription
	nextSub int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger traces state transitions at debug level.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithSpawner replaces the default random spawner.
func WithSpawner(s Spawner) Option {
	return func(e *Engine) {
		e.spawner = s
	}
}

// New creates an engine over grid. The grid must have the configured
// dimensions; its current occupancy is kept.
func New(grid *Grid, cfg Config, opts ...Option) (*Engine, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if grid == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrInvalidConfig)
	}
	if grid.Width() != cfg.Width || grid.Height() != cfg.Height {
		return nil, fmt.Errorf("%w: grid is %dx%d, config wants %dx%d",
			ErrInvalidConfig, grid.Width(), grid.Height(), cfg.Width, cfg.Height)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	e := &Engine{
		grid:    grid,
		matcher: NewMatcher(grid, cfg.MinMatch),
		rng:     rng,
		cfg:     cfg,
		state:   StateIdle,
		moves:   cfg.Moves,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.spawner == nil {
		e.spawner = NewRandomSpawner(rng, cfg.Allowed)
	}
	return e, nil
}

// Start fills every empty cell, clears any matches the fill produced
// without scoring them, and applies the deadlock policy to the opening
// board.
func (e *Engine) Start() {
	Fill(e.grid, e.spawner, e.matcher, e.cfg.PreventInitialMatches)
	if !e.settle() {
		e.regenerate()
	}

	e.emit(MovesChangedEvent{Remaining: e.moves})
	e.emit(ScoreChangedEvent{Total: e.score})

	if e.cfg.Deadlock == DeadlockIgnore || e.matcher.HasAnyLegalMove() {
		return
	}
	var out Outcome
	e.handleDeadlock(&out)
}

// settle resolves matches silently: no score, no events, no steps. It
// gives up after one pass per cell and reports whether the board is stable.
func (e *Engine) settle() bool {
	for range e.grid.Size() {
		matches := e.matcher.FindAll()
		if len(matches) == 0 {
			return true
		}
		for _, m := range matches {
			for _, p := range m.Cells {
				e.grid.Remove(p)
			}
		}
		Collapse(e.grid)
		Refill(e.grid, e.spawner)
	}
	return len(e.matcher.FindAll()) == 0
}

// regenerate rebuilds the board from the spawner with initial matches
// prevented. It reports whether a board without standing matches was
// reached.
func (e *Engine) regenerate() bool {
	for range maxReshuffleAttempts {
		e.grid.Clear()
		Fill(e.grid, e.spawner, e.matcher, true)
		if e.settle() {
			e.emit(ReshuffledEvent{Regenerated: true})
			return true
		}
	}
	if e.logger != nil {
		e.logger.Warn("could not regenerate a stable board")
	}
	return false
}

// AttemptSwap runs one turn. It rejects without side effects when the
// engine is busy or finished, when either position is unplayable or empty,
// or when the positions are not adjacent. A swap that creates no match is
// reverted and costs no move.
func (e *Engine) AttemptSwap(a, b Position) Outcome {
	out := Outcome{Move: SwapMove{A: a, B: b}, State: e.state}

	switch {
	case e.inTurn || e.state != StateIdle:
		return e.reject(out, ReasonBusy)
	case !e.grid.IsAvailable(a) || !e.grid.IsAvailable(b):
		return e.reject(out, ReasonOutOfBounds)
	}
	if _, ok := e.grid.ElementAt(a); !ok {
		return e.reject(out, ReasonEmptyCell)
	}
	if _, ok := e.grid.ElementAt(b); !ok {
		return e.reject(out, ReasonEmptyCell)
	}
	if !a.Adjacent(b) {
		return e.reject(out, ReasonNotAdjacent)
	}

	e.inTurn = true
	defer func() { e.inTurn = false }()

	e.setState(StateSwapAnimating)
	e.grid.Swap(a, b)
	e.setState(StateValidating)

	if !e.matcher.MatchesAt(a, b) {
		e.setState(StateInvalidSwap)
		e.grid.Swap(a, b)
		e.setState(StateIdle)
		out.Kind = OutcomeInvalidSwap
		out.State = e.state
		return out
	}

	e.moves--
	e.emit(MovesChangedEvent{Remaining: e.moves})

	out.Kind = OutcomeResolved
	steps, stable := e.resolve()
	out.Steps = steps
	if !stable {
		if e.logger != nil {
			e.logger.Warn("cascade did not settle, regenerating board", "passes", len(steps))
		}
		out.Reshuffled = e.regenerate()
	}
	out.CascadeCount = len(out.Steps)
	for _, s := range out.Steps {
		out.ScoreDelta += s.ScoreDelta
		out.MatchesFound += len(s.Matches)
	}

	e.finishTurn(&out)
	out.State = e.state
	return out
}

func (e *Engine) reject(out Outcome, reason RejectReason) Outcome {
	out.Kind = OutcomeRejected
	out.Reason = reason
	if e.logger != nil {
		e.logger.Debug("swap rejected", "a", out.Move.A, "b", out.Move.B, "reason", reason)
	}
	return out
}

// resolve loops match check, destroy, collapse and refill until a check
// finds nothing, for at most one pass per cell. It reports whether the
// board ended stable.
func (e *Engine) resolve() ([]CascadeStep, bool) {
	var steps []CascadeStep
	for range e.grid.Size() {
		e.setState(StateMatchChecking)
		matches := e.matcher.FindAll()
		if len(matches) == 0 {
			return steps, true
		}

		step := CascadeStep{
			Index:   len(steps),
			Matches: matches,
			Before:  e.grid.Snapshot(),
		}

		e.setState(StateDestroying)
		for _, m := range matches {
			step.ScoreDelta += m.Size() * e.cfg.ScorePerCell
			for _, p := range m.Cells {
				e.grid.Remove(p)
				step.Removed = append(step.Removed, p)
			}
		}
		e.score += step.ScoreDelta
		e.emit(ScoreChangedEvent{Total: e.score, Delta: step.ScoreDelta})

		e.setState(StateFalling)
		step.Falls = Collapse(e.grid)

		e.setState(StateSpawning)
		step.Spawns = Refill(e.grid, e.spawner)

		step.After = e.grid.Snapshot()
		steps = append(steps, step)

		if e.logger != nil {
			e.logger.Debug("cascade step", "index", step.Index, "matches", len(matches), "score", step.ScoreDelta)
		}
	}
	e.setState(StateMatchChecking)
	return steps, len(e.matcher.FindAll()) == 0
}

// finishTurn applies the terminal checks in priority order: out of moves,
// target reached, otherwise idle with deadlock handling.
func (e *Engine) finishTurn(out *Outcome) {
	switch {
	case e.moves <= 0:
		e.fail("out of moves")
	case e.score >= e.cfg.TargetScore:
		e.setState(StateLevelComplete)
		e.emit(LevelCompleteEvent{Score: e.score})
	default:
		e.setState(StateIdle)
		if e.cfg.Deadlock != DeadlockIgnore && !e.matcher.HasAnyLegalMove() {
			e.handleDeadlock(out)
		}
	}
}

func (e *Engine) fail(reason string) {
	e.setState(StateLevelFailed)
	e.emit(LevelFailedEvent{Score: e.score, Reason: reason})
}

func (e *Engine) handleDeadlock(out *Outcome) {
	out.Deadlocked = true
	if e.logger != nil {
		e.logger.Debug("deadlock detected", "policy", e.cfg.Deadlock)
	}
	e.emit(DeadlockEvent{Policy: e.cfg.Deadlock})

	switch e.cfg.Deadlock {
	case DeadlockReshuffle:
		out.Reshuffled = e.reshuffle()
	case DeadlockFail:
		e.fail("no legal moves")
	}
}

// Shuffle rearranges the board on request. It returns ErrNotIdle unless
// the engine is idle and ErrUnplayable when no playable board was found.
func (e *Engine) Shuffle() error {
	if e.inTurn || e.state != StateIdle {
		return ErrNotIdle
	}
	if !e.reshuffle() {
		return ErrUnplayable
	}
	return nil
}

func (e *Engine) setState(s State) {
	if s == e.state {
		return
	}
	from := e.state
	e.state = s
	if e.logger != nil {
		e.logger.Debug("state", "from", from, "to", s)
	}
	e.emit(StateChangedEvent{From: from, To: s})
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// Score returns the accumulated score.
func (e *Engine) Score() int {
	return e.score
}

// MovesLeft returns the remaining move count.
func (e *Engine) MovesLeft() int {
	return e.moves
}

// Target returns the score needed to complete the level.
func (e *Engine) Target() int {
	return e.cfg.TargetScore
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Grid returns the board the engine mutates.
func (e *Engine) Grid() *Grid {
	return e.grid
}

// Matcher returns the engine's matcher.
func (e *Engine) Matcher() *Matcher {
	return e.matcher
}

// Hint returns a legal swap while the engine is idle.
func (e *Engine) Hint() (SwapMove, bool) {
	if e.state != StateIdle {
		return SwapMove{}, false
	}
	return e.matcher.FindLegalMove()
}
