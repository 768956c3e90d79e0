package core

// Event is a notification emitted by the Engine. Events are delivered in
// the order the underlying transitions happened.
type Event interface {
	isEvent()
}

// Handler receives engine events. It runs synchronously on the goroutine
// that drives the engine.
type Handler func(Event)

// StateChangedEvent reports a state machine transition.
type StateChangedEvent struct {
	From State
	To   State
}

// ScoreChangedEvent reports a new score total.
type ScoreChangedEvent struct {
	Total int
	Delta int
}

// MovesChangedEvent reports the remaining move count.
type MovesChangedEvent struct {
	Remaining int
}

// LevelCompleteEvent is emitted when the target score is reached.
type LevelCompleteEvent struct {
	Score int
}

// LevelFailedEvent is emitted when the level ends without reaching the
// target.
type LevelFailedEvent struct {
	Score  int
	Reason string
}

// DeadlockEvent is emitted when the board has no legal move left.
type DeadlockEvent struct {
	Policy DeadlockPolicy
}

// ReshuffledEvent is emitted after the board was rearranged.
type ReshuffledEvent struct {
	Regenerated bool
}

func (StateChangedEvent) isEvent()  {}
func (ScoreChangedEvent) isEvent()  {}
func (MovesChangedEvent) isEvent()  {}
func (LevelCompleteEvent) isEvent() {}
func (LevelFailedEvent) isEvent()   {}
func (DeadlockEvent) isEvent()      {}
func (ReshuffledEvent) isEvent()    {}

type subscription struct {
	id int
	h  Handler
}

// Subscribe registers h for every future event and returns a function
// that removes it.
func (e *Engine) Subscribe(h Handler) (unsubscribe func()) {
	e.nextSub++
	id := e.nextSub
	e.subs = append(e.subs, subscription{id: id, h: h})
	return func() {
		for i, s := range e.subs {
			if s.id == id {
				e.subs = append(e.subs[:i:i], e.subs[i+1:]...)
				return
			}
		}
	}
}

func (e *Engine) emit(ev Event) {
	if len(e.subs) == 0 {
		return
	}
	subs := append([]subscription(nil), e.subs...)
	for _, s := range subs {
		s.h(ev)
	}
}
