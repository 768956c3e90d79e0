package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3-arcade/internal/platform/httpapi"
)

var (
	flagHTTPAddr    string
	flagMaxSessions int
	flagSessionTTL  time.Duration
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the JSON HTTP API",
	Long: `Serve levels and game sessions over HTTP.

Endpoints:
  GET    /v1/levels
  POST   /v1/sessions                {"level": "01", "seed": 42}
  GET    /v1/sessions/{id}
  DELETE /v1/sessions/{id}
  POST   /v1/sessions/{id}/swap      {"a": {"x": 0, "y": 0}, "b": {"x": 1, "y": 0}}
  POST   /v1/sessions/{id}/shuffle
  GET    /v1/sessions/{id}/hint
  GET    /v1/sessions/{id}/replay

Examples:
  match3 api
  match3 api --http :9000 --max-sessions 100`,
	Run: runAPI,
}

func init() {
	defaults := httpapi.DefaultOptions()
	apiCmd.Flags().StringVar(&flagHTTPAddr, "http", defaults.Addr, "HTTP listen address (host:port)")
	apiCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", defaults.MaxSessions, "Maximum live sessions (0 = unlimited)")
	apiCmd.Flags().DurationVar(&flagSessionTTL, "session-ttl", defaults.IdleTTL, "Drop sessions idle for this long (0 = never)")
}

func runAPI(_ *cobra.Command, _ []string) {
	gameCfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}
	lvls, err := loadLevels(gameCfg)
	if err != nil {
		fatalf("loading levels: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := httpapi.New(httpapi.Options{
		Addr:        flagHTTPAddr,
		Levels:      lvls,
		Config:      gameCfg,
		Logger:      newLogger("match3-api"),
		MaxSessions: flagMaxSessions,
		IdleTTL:     flagSessionTTL,
	})
	if err := server.ListenAndServe(ctx); err != nil {
		fatalf("server: %v", err)
	}
}
