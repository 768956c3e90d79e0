package levels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/match3-arcade/internal/games/match3/core"
)

const endlessPrefix = "endless-"

// Endless builds the procedurally scaled level for a stage (1-based).
// Targets rise every stage, the move budget shrinks slowly and more
// element types join as the stages go on.
func Endless(stage int) Level {
	if stage < 1 {
		stage = 1
	}

	size := min(7+stage/4, 9)
	types := min(4+stage/3, len(core.BasicTypes()))
	moves := max(30-stage, 15)

	return Level{
		ID:                    EndlessID(stage),
		Name:                  fmt.Sprintf("Endless %d", stage),
		Width:                 size,
		Height:                size,
		Moves:                 moves,
		Target:                500 + 250*stage,
		MinMatch:              core.DefaultMinMatch,
		ScorePerCell:          core.DefaultScorePerCell,
		Elements:              core.BasicTypes()[:types],
		Deadlock:              core.DeadlockReshuffle,
		PreventInitialMatches: true,
	}
}

// EndlessID returns the level ID of an endless stage.
func EndlessID(stage int) string {
	return fmt.Sprintf("%s%03d", endlessPrefix, stage)
}

// ParseEndlessID extracts the stage from an endless level ID.
func ParseEndlessID(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, endlessPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
