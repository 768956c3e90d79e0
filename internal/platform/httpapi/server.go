// Package httpapi serves match-3 levels over a JSON HTTP API. Each
// session owns one engine; requests to the same session are serialized.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/match3-arcade/internal/config"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/levels"
)

// Options configures a Server.
type Options struct {
	Addr   string
	Levels []levels.Level
	Config config.Match3Config
	Logger *log.Logger

	// MaxSessions caps live sessions; zero means no cap.
	MaxSessions int
	// IdleTTL expires sessions nobody touched for this long; zero keeps
	// them until deleted.
	IdleTTL time.Duration
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Addr:        ":8088",
		Config:      config.DefaultMatch3Config(),
		MaxSessions: 1000,
		IdleTTL:     30 * time.Minute,
	}
}

// Server is the HTTP API.
type Server struct {
	opts     Options
	levels   []levels.Level
	sessions *sessionStore
	logger   *log.Logger
	router   chi.Router
}

// New builds a server. Without levels it serves the embedded campaign.
func New(opts Options) *Server {
	lvls := opts.Levels
	if len(lvls) == 0 {
		lvls = levels.MustCampaign()
	}

	s := &Server{
		opts:     opts,
		levels:   lvls,
		sessions: newSessionStore(opts.MaxSessions),
		logger:   opts.Logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(accessLog(s.logger))
	r.Use(chimid.Recoverer)
	r.Use(compress)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/levels", s.handleLevels)
		r.Post("/sessions", s.handleCreate)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/swap", s.handleSwap)
			r.Post("/shuffle", s.handleShuffle)
			r.Get("/hint", s.handleHint)
			r.Get("/replay", s.handleReplay)
		})
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Sessions returns the number of live sessions.
func (s *Server) Sessions() int {
	return s.sessions.len()
}

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if s.opts.IdleTTL > 0 {
		go s.sweepLoop(ctx)
	}

	errc := make(chan error, 1)
	go func() {
		s.logInfo("starting HTTP API", "address", s.opts.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("httpapi: %w", err)
	case <-ctx.Done():
	}

	s.logInfo("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(max(s.opts.IdleTTL/4, time.Second))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.sweep(s.opts.IdleTTL); n > 0 {
				s.logInfo("expired idle sessions", "count", n)
			}
		}
	}
}

func (s *Server) logInfo(msg string, kv ...any) {
	if s.logger != nil {
		s.logger.Info(msg, kv...)
	}
}
