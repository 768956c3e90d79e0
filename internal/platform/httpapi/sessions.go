package httpapi

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	m3 "github.com/vovakirdan/match3-arcade/internal/games/match3/core"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/levels"
	"github.com/vovakirdan/match3-arcade/internal/replay"
)

var (
	// ErrSessionNotFound is returned for unknown or expired session IDs.
	ErrSessionNotFound = errors.New("httpapi: session not found")
	// ErrTooManySessions is returned when the session limit is reached.
	ErrTooManySessions = errors.New("httpapi: too many sessions")
)

// session is one level being played over the API. The engine is single
// writer, so every access holds mu.
type session struct {
	mu       sync.Mutex
	id       string
	level    levels.Level
	engine   *m3.Engine
	rec      *replay.Recording
	created  time.Time
	lastUsed time.Time
}

// sessionStore holds live sessions by ID.
type sessionStore struct {
	mu    sync.RWMutex
	byID  map[string]*session
	limit int
	now   func() time.Time
}

func newSessionStore(limit int) *sessionStore {
	return &sessionStore{
		byID:  make(map[string]*session),
		limit: limit,
		now:   time.Now,
	}
}

func (s *sessionStore) add(level levels.Level, engine *m3.Engine, rec *replay.Recording) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limit > 0 && len(s.byID) >= s.limit {
		return nil, ErrTooManySessions
	}

	now := s.now()
	sess := &session{
		id:       uuid.NewString(),
		level:    level,
		engine:   engine,
		rec:      rec,
		created:  now,
		lastUsed: now,
	}
	s.byID[sess.id] = sess
	return sess, nil
}

// acquire returns the session locked. The caller must unlock it.
func (s *sessionStore) acquire(id string) (*session, error) {
	s.mu.RLock()
	sess, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	sess.mu.Lock()
	sess.lastUsed = s.now()
	return sess, nil
}

func (s *sessionStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	return true
}

func (s *sessionStore) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// sweep drops sessions idle for longer than ttl and returns how many.
func (s *sessionStore) sweep(ttl time.Duration) int {
	cutoff := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.byID {
		// Busy sessions are in use and therefore not idle.
		if !sess.mu.TryLock() {
			continue
		}
		if sess.lastUsed.Before(cutoff) {
			delete(s.byID, id)
			n++
		}
		sess.mu.Unlock()
	}
	return n
}
