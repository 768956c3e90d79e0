package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3-arcade/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Re-run a recorded level and verify its result",
	Long: `Load a replay saved at the end of a level, play its recorded moves on
a fresh engine and check that the score and final state match.

Replays are written to ~/.match3/replays unless --replays says
otherwise.

Examples:
  match3 replay ~/.match3/replays/03-20260101-120000.m3r.zst`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(_ *cobra.Command, args []string) {
	rec, err := replay.Load(args[0])
	if err != nil {
		fatalf("%v", err)
	}

	fmt.Printf("Level:    %s\n", rec.LevelID)
	fmt.Printf("Seed:     %d\n", rec.Seed)
	fmt.Printf("Recorded: %s\n", rec.RecordedAt.Format("2006-01-02 15:04"))
	fmt.Printf("Moves:    %d\n", len(rec.Swaps))
	fmt.Printf("Result:   %d (%s)\n", rec.FinalScore, rec.FinalState)
	fmt.Println()

	res, err := rec.Verify()
	if errors.Is(err, replay.ErrMismatch) {
		fmt.Fprintf(os.Stderr, "MISMATCH: %v\n", err)
		os.Exit(2)
	}
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("OK: replay reproduces score %d (%s)\n", res.Score, res.State)
}
