package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/match3-arcade/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the campaign levels",
	Long: `Shows every level the campaign will play, including levels from the
configured level directory.`,
	Run: runList,
}

func runList(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fatalf("%v", err)
	}
	lvls, err := loadLevels(cfg)
	if err != nil {
		fatalf("loading levels: %v", err)
	}

	if len(lvls) == 0 {
		fmt.Println("No levels available.")
		return
	}

	fmt.Println("Modes:")
	fmt.Println()
	for _, g := range registry.List() {
		fmt.Printf("  %-16s  %s\n", g.ID, g.Title)
	}
	fmt.Println()

	fmt.Println("Campaign levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxNameLen := 2, 4 // "ID", "Name" headers
	for _, l := range lvls {
		maxIDLen = max(maxIDLen, len(l.ID))
		maxNameLen = max(maxNameLen, len(l.Name))
	}

	// Print header
	fmt.Printf("  %-*s  %-*s  %-5s  %-5s  %s\n", maxIDLen, "ID", maxNameLen, "Name", "Size", "Moves", "Target")
	fmt.Printf("  %-*s  %-*s  %-5s  %-5s  %s\n", maxIDLen, "--", maxNameLen, "----", "----", "-----", "------")

	// Print levels
	for _, l := range lvls {
		moves := cfg.Difficulty.Moves(l.Moves)
		size := fmt.Sprintf("%dx%d", l.Width, l.Height)
		fmt.Printf("  %-*s  %-*s  %-5s  %-5d  %d\n", maxIDLen, l.ID, maxNameLen, l.Name, size, moves, l.Target)
	}

	fmt.Println()
	fmt.Println("Run 'match3 play <id>' to start at a level, or 'match3 play --endless'.")
}
