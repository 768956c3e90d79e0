package core

import "fmt"

// State is a state of the cascade engine.
type State uint8

const (
	StateIdle State = iota
	StateSwapAnimating
	StateValidating
	StateInvalidSwap
	StateMatchChecking
	StateDestroying
	StateFalling
	StateSpawning
	StateLevelComplete
	StateLevelFailed
)

var stateNames = [...]string{
	StateIdle:          "idle",
	StateSwapAnimating: "swap_animating",
	StateValidating:    "validating",
	StateInvalidSwap:   "invalid_swap",
	StateMatchChecking: "match_checking",
	StateDestroying:    "destroying",
	StateFalling:       "falling",
	StateSpawning:      "spawning",
	StateLevelComplete: "level_complete",
	StateLevelFailed:   "level_failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(text []byte) error {
	for i, name := range stateNames {
		if name == string(text) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// IsTerminal reports whether the level has ended.
func (s State) IsTerminal() bool {
	return s == StateLevelComplete || s == StateLevelFailed
}

// OutcomeKind classifies the result of AttemptSwap.
type OutcomeKind uint8

const (
	// OutcomeRejected means the swap was refused before touching the board.
	OutcomeRejected OutcomeKind = iota
	// OutcomeInvalidSwap means the swap created no match and was reverted.
	OutcomeInvalidSwap
	// OutcomeResolved means the swap matched and the board was resolved.
	OutcomeResolved
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRejected:
		return "rejected"
	case OutcomeInvalidSwap:
		return "invalid_swap"
	case OutcomeResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// RejectReason explains an OutcomeRejected.
type RejectReason uint8

const (
	ReasonNone RejectReason = iota
	ReasonBusy
	ReasonOutOfBounds
	ReasonEmptyCell
	ReasonNotAdjacent
)

func (r RejectReason) String() string {
	switch r {
	case ReasonBusy:
		return "busy"
	case ReasonOutOfBounds:
		return "out_of_bounds"
	case ReasonEmptyCell:
		return "empty_cell"
	case ReasonNotAdjacent:
		return "not_adjacent"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r RejectReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// CascadeStep is one destroy, collapse and refill iteration captured as
// values so presentation can animate it after the fact.
type CascadeStep struct {
	Index      int
	Matches    []Match
	Removed    []Position
	Falls      []Fall
	Spawns     []Spawn
	ScoreDelta int
	Before     Snapshot
	After      Snapshot
}

// Outcome is the result of AttemptSwap.
type Outcome struct {
	Kind         OutcomeKind
	Reason       RejectReason
	Move         SwapMove
	ScoreDelta   int
	MatchesFound int
	CascadeCount int
	Steps        []CascadeStep
	State        State
	Deadlocked   bool
	Reshuffled   bool
}
