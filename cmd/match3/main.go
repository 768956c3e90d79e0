// match3 is a terminal match-3 puzzle game with campaign and endless modes.
//
// Usage:
//
//	match3 list              - List campaign levels
//	match3 play [level]      - Play the campaign, optionally from a level
//	match3 menu              - Start menu to pick a mode or level
//	match3 scores            - Show high scores and level bests
//	match3 serve             - Start SSH server for remote play
//	match3 api               - Start the JSON HTTP API
//	match3 sim <level>       - Measure a level's difficulty with a bot
//	match3 replay <file>     - Re-run a recorded level and verify it
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.match3/scores.db)
//	--config <path>       - Load a custom match3.yaml
//	--difficulty <preset> - easy, normal or hard
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/match3-arcade/internal/config"
	"github.com/vovakirdan/match3-arcade/internal/core"
	"github.com/vovakirdan/match3-arcade/internal/games/match3"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/levels"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagReplayDir  string
	flagDebug      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "match3",
	Short: "Match-3 - Swap, match and cascade in your terminal",
	Long: `Match-3 is a terminal puzzle game. Swap two neighbouring gems to
form a group of three or more of the same colour; groups clear, the
board collapses and refills, and chain reactions score again.

Available commands:
  list     - Show the campaign levels
  play     - Play the campaign directly
  menu     - Interactive mode and level picker
  scores   - View high scores and level bests
  serve    - Start SSH server for remote play
  api      - Start the JSON HTTP API
  sim      - Estimate a level's difficulty with a bot
  replay   - Verify a recorded level

Examples:
  match3 list
  match3 play 03
  match3 menu --difficulty easy
  match3 serve --ssh :2222
  match3 sim 05 --runs 500`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.match3/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom match3 config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagReplayDir, "replays", "", "Directory for level replays (default: ~/.match3/replays)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log engine events to stderr")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(replayCmd)
}

// loadConfig reads the configuration, applies --difficulty and hands it to
// the game package.
func loadConfig() (config.Match3Config, error) {
	cfg, err := config.LoadMatch3(flagConfig)
	if err != nil {
		return config.Match3Config{}, err
	}
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return config.Match3Config{}, err
	}
	if flagDifficulty != "" {
		config.ApplyPreset(&cfg, preset)
	}
	match3.SetConfig(cfg)
	return cfg, nil
}

// loadLevels returns the campaign plus the configured level directory.
func loadLevels(cfg config.Match3Config) ([]levels.Level, error) {
	return levels.All(cfg.Levels.Dir)
}

func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagDebug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func replayDir() string {
	if flagReplayDir != "" {
		return flagReplayDir
	}
	if dir := config.UserDataDir(); dir != "" {
		return filepath.Join(dir, "replays")
	}
	return ""
}

// runtimeConfig sizes the screen to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
