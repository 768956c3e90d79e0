package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3-arcade/internal/games/match3"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/levels"
	"github.com/vovakirdan/match3-arcade/internal/platform/tui"
	"github.com/vovakirdan/match3-arcade/internal/registry"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

var flagEndless bool

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play the campaign",
	Long: `Start playing the campaign, from the first level or from the given
level ID. With --endless, play endless stages instead.

Controls:
  Arrows/WASD  - Move cursor
  Enter/Space  - Select, then select a neighbour to swap
  H            - Show a hint
  X            - Shuffle a board with no moves left
  P/Esc        - Pause
  R            - Restart (after game over)
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Extra moves on every level
  normal - Moves as designed
  hard   - Fewer moves, no hints

Examples:
  match3 play
  match3 play 04
  match3 play --endless
  match3 play 02 --difficulty hard
  match3 play --config ./my-match3.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagEndless, "endless", false, "Play endless stages instead of the campaign")
}

func runPlay(_ *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}

	gameID := match3.IDCampaign
	if flagEndless {
		gameID = match3.IDEndless
	}

	levelID := ""
	if len(args) == 1 {
		if flagEndless {
			fatalf("a start level only applies to the campaign")
		}
		lvls, err := loadLevels(cfg)
		if err != nil {
			fatalf("loading levels: %v", err)
		}
		if _, err := levels.Find(lvls, args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fmt.Fprintln(os.Stderr, "Run 'match3 list' to see available levels.")
			os.Exit(1)
		}
		levelID = args[0]
	}

	if !registry.Exists(gameID) {
		fatalf("mode %q is not registered", gameID)
	}

	// Create game instance
	game, err := registry.Create(gameID)
	if err != nil {
		fatalf("creating game: %v", err)
	}
	if sel, ok := game.(registry.LevelSelector); ok && levelID != "" {
		sel.StartAt(levelID)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	opts := tui.Options{ReplayDir: replayDir()}
	if flagDebug {
		opts.Logger = newLogger("match3")
	}

	// Run the game
	runErr := tui.Run(game, store, runtimeConfig(), opts)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fatalf("running game: %v", runErr)
	}
}
