package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"

	m3 "github.com/vovakirdan/match3-arcade/internal/games/match3/core"
	"github.com/vovakirdan/match3-arcade/internal/games/match3/levels"
)

// maxShuffles bounds player shuffles in one run; a board that stays
// stuck after that many is given up.
const maxShuffles = 50

// ErrInvalidOptions is returned for unusable run counts.
var ErrInvalidOptions = errors.New("sim: invalid options")

// Options configures a simulation.
type Options struct {
	Runs    int
	Workers int
	Seed    int64
	// Progress receives a progress bar when set.
	Progress io.Writer
	// EngineConfig builds the engine configuration for one run. The
	// level's own configuration is used when nil.
	EngineConfig func(l levels.Level, seed int64) m3.Config
}

// RunResult is the outcome of one played level.
type RunResult struct {
	Seed      int64
	Won       bool
	Stuck     bool // no legal move and no shuffle could fix it
	Score     int
	MovesUsed int
	Cascades  int
	Deadlocks int
	Shuffles  int
}

// Run plays the level opts.Runs times across opts.Workers goroutines.
// Run i always uses the same derived seed, so the report does not depend
// on the worker count.
func Run(ctx context.Context, level levels.Level, opts Options) (*Report, error) {
	if opts.Runs < 1 {
		return nil, fmt.Errorf("%w: runs must be positive", ErrInvalidOptions)
	}
	workers := max(opts.Workers, 1)
	workers = min(workers, opts.Runs)
	cfgFor := opts.EngineConfig
	if cfgFor == nil {
		cfgFor = func(l levels.Level, seed int64) m3.Config {
			cfg := l.Config()
			cfg.Seed = seed
			return cfg
		}
	}

	bar := pb.New(opts.Runs)
	if opts.Progress != nil {
		bar.SetWriter(opts.Progress)
	} else {
		bar.SetWriter(io.Discard)
	}
	bar.Start()

	results := make([]RunResult, opts.Runs)
	jobs := make(chan int)
	errc := make(chan error, workers)
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for i := range jobs {
				seed := deriveSeed(opts.Seed, i)
				res, err := Play(level, cfgFor(level, seed))
				if err != nil {
					errc <- err
					return
				}
				results[i] = res
				bar.Increment()
			}
		}()
	}

	var runErr error
feed:
	for i := range opts.Runs {
		select {
		case jobs <- i:
		case err := <-errc:
			runErr = err
			break feed
		case <-ctx.Done():
			runErr = ctx.Err()
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	bar.Finish()

	if runErr == nil {
		select {
		case runErr = <-errc:
		default:
		}
	}
	if runErr != nil {
		return nil, runErr
	}
	return newReport(level, results, time.Since(start)), nil
}

// Play runs one level to its end with the greedy bot.
func Play(level levels.Level, cfg m3.Config) (RunResult, error) {
	res := RunResult{Seed: cfg.Seed}

	e, err := level.NewEngineWith(cfg)
	if err != nil {
		return res, err
	}
	unsub := e.Subscribe(func(ev m3.Event) {
		if _, ok := ev.(m3.DeadlockEvent); ok {
			res.Deadlocks++
		}
	})
	defer unsub()

	var bot Bot
	for e.State() == m3.StateIdle {
		mv, ok := bot.Choose(e)
		if !ok {
			if res.Shuffles >= maxShuffles || e.Shuffle() != nil {
				res.Stuck = true
				break
			}
			res.Shuffles++
			continue
		}

		out := e.AttemptSwap(mv.A, mv.B)
		if out.Kind != m3.OutcomeResolved {
			return res, fmt.Errorf("sim: level %s: legal move %v was not resolved: %s", level.ID, mv, out.Kind)
		}
		res.Cascades += out.CascadeCount
	}

	res.Won = e.State() == m3.StateLevelComplete
	res.Score = e.Score()
	res.MovesUsed = e.Config().Moves - e.MovesLeft()
	return res, nil
}

const mask63 = uint64(1<<63) - 1

// deriveSeed spreads consecutive run indexes over the seed space.
func deriveSeed(base int64, i int) int64 {
	x := (uint64(base) + uint64(i)*0x9E3779B97F4A7C15) & mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return int64(x & mask63)
}
