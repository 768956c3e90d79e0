package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	m3 "github.com/vovakirdan/match3-arcade/internal/games/match3/core"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/levels"
	"github.com/vovakirdan/match3-arcade/internal/sim"
)

var (
	flagSimRuns    int
	flagSimWorkers int
	flagSimQuiet   bool
)

var simCmd = &cobra.Command{
	Use:   "sim <level>",
	Short: "Estimate a level's difficulty with a bot",
	Long: `Play a level many times with a greedy bot and report its win rate and
score distribution. The bot always takes the swap that clears the most
gems right away. Runs are seeded from --seed, so a report can be
reproduced.

Examples:
  match3 sim 01
  match3 sim 07 --runs 2000 --workers 8
  match3 sim endless-012 --difficulty hard`,
	Args: cobra.ExactArgs(1),
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimRuns, "runs", 200, "Number of games to play")
	simCmd.Flags().IntVar(&flagSimWorkers, "workers", runtime.NumCPU(), "Parallel workers")
	simCmd.Flags().BoolVar(&flagSimQuiet, "quiet", false, "Hide the progress bar")
}

func runSim(_ *cobra.Command, args []string) {
	gameCfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}
	level, err := levels.Resolve(gameCfg.Levels.Dir, args[0])
	if err != nil {
		fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := sim.Options{
		Runs:    flagSimRuns,
		Workers: flagSimWorkers,
		Seed:    seed,
		EngineConfig: func(l levels.Level, runSeed int64) m3.Config {
			return gameCfg.LevelConfig(l, runSeed)
		},
	}
	if !flagSimQuiet {
		opts.Progress = os.Stderr
	}

	report, err := sim.Run(ctx, level, opts)
	if err != nil {
		fatalf("simulation: %v", err)
	}
	if _, err := report.WriteTo(os.Stdout); err != nil {
		fatalf("%v", err)
	}
}
