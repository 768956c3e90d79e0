package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3-arcade/internal/games/match3"
	"github.com/vovakirdan/match3-arcade/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show high scores",
	Long: `Display the top campaign and endless scores with a summary of every
played level. With a level ID, list the latest attempts at that level.

Examples:
  match3 scores
  match3 scores 03 --limit 20
  match3 scores --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of entries to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all scores and level results")
}

func runScores(_ *cobra.Command, args []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fatalf("opening scores database: %v", err)
	}
	defer store.Close()

	if flagScoresClear {
		for _, id := range []string{match3.IDCampaign, match3.IDEndless} {
			if err := store.ClearScores(id); err != nil {
				fatalf("clearing scores: %v", err)
			}
		}
		fmt.Println("Scores cleared.")
		return
	}

	if len(args) == 1 {
		if err := printLevelResults(store, args[0]); err != nil {
			fatalf("retrieving results: %v", err)
		}
		return
	}

	for _, mode := range []struct{ id, title string }{
		{match3.IDCampaign, "Campaign"},
		{match3.IDEndless, "Endless"},
	} {
		if err := printTopScores(store, mode.id, mode.title); err != nil {
			fatalf("retrieving scores: %v", err)
		}
		fmt.Println()
	}

	if err := printLevelBests(store); err != nil {
		fatalf("retrieving level bests: %v", err)
	}
}

func printTopScores(store *storage.Store, gameID, title string) error {
	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("  No scores recorded yet.")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")

	// Print scores
	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, dateStr)
	}

	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("  Games: %d  Best: %d  Average: %.0f  Last played: %s\n",
		stats.GamesCount, stats.HighScore, stats.AvgScore, stats.LastPlayed.Format("2006-01-02 15:04"))
	return nil
}

func printLevelBests(store *storage.Store) error {
	bests, err := store.LevelBests()
	if err != nil {
		return err
	}

	fmt.Println("Levels")
	fmt.Println()
	if len(bests) == 0 {
		fmt.Println("  No levels played yet.")
		return nil
	}

	ids := make([]string, 0, len(bests))
	for id := range bests {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	fmt.Printf("  %-12s  %-10s  %-8s  %s\n", "Level", "Best", "Attempts", "Cleared")
	fmt.Printf("  %-12s  %-10s  %-8s  %s\n", "-----", "----", "--------", "-------")
	for _, id := range ids {
		b := bests[id]
		cleared := "no"
		if b.Cleared {
			cleared = "yes"
		}
		fmt.Printf("  %-12s  %-10d  %-8d  %s\n", b.LevelID, b.BestScore, b.Attempts, cleared)
	}
	return nil
}

func printLevelResults(store *storage.Store, levelID string) error {
	results, err := store.LevelResults(levelID, flagScoresLimit)
	if err != nil {
		return err
	}

	fmt.Printf("Attempts - level %s\n", levelID)
	fmt.Println()
	if len(results) == 0 {
		fmt.Println("No attempts recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'match3 play %s' to set the first score!\n", levelID)
		return nil
	}

	fmt.Printf("  %-16s  %-6s  %-8s  %-5s  %-8s  %s\n", "Date", "Result", "Score", "Moves", "Cascades", "Replay")
	fmt.Printf("  %-16s  %-6s  %-8s  %-5s  %-8s  %s\n", "----", "------", "-----", "-----", "--------", "------")
	for _, r := range results {
		result := "failed"
		if r.Won {
			result = "won"
		}
		fmt.Printf("  %-16s  %-6s  %-8d  %-5d  %-8d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), result, r.Score, r.MovesUsed, r.Cascades, r.Replay)
	}
	return nil
}
