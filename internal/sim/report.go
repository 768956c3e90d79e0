package sim

import (
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"

	"github.com/vovakirdan/match3-arcade/internal/games/match3/levels"
)

var lang = language.English

// Report summarizes a simulation.
type Report struct {
	LevelID      string
	LevelName    string
	Target       int
	Runs         int
	Wins         int
	Stuck        int
	Deadlocks    int
	Shuffles     int
	MeanScore    float64
	StdScore     float64
	MinScore     int
	MaxScore     int
	MeanCascades float64
	MeanMoves    float64
	Elapsed      time.Duration
	Results      []RunResult
}

func newReport(level levels.Level, results []RunResult, elapsed time.Duration) *Report {
	r := &Report{
		LevelID:   level.ID,
		LevelName: level.Name,
		Target:    level.Target,
		Runs:      len(results),
		Elapsed:   elapsed,
		Results:   results,
	}

	scores := make([]float64, len(results))
	cascades := make([]float64, len(results))
	moves := make([]float64, len(results))
	for i, res := range results {
		scores[i] = float64(res.Score)
		cascades[i] = float64(res.Cascades)
		moves[i] = float64(res.MovesUsed)

		if res.Won {
			r.Wins++
		}
		if res.Stuck {
			r.Stuck++
		}
		r.Deadlocks += res.Deadlocks
		r.Shuffles += res.Shuffles
		if i == 0 || res.Score < r.MinScore {
			r.MinScore = res.Score
		}
		if res.Score > r.MaxScore {
			r.MaxScore = res.Score
		}
	}

	r.MeanScore, r.StdScore = stat.MeanStdDev(scores, nil)
	if len(results) < 2 {
		r.StdScore = 0
	}
	r.MeanCascades = stat.Mean(cascades, nil)
	r.MeanMoves = stat.Mean(moves, nil)
	return r
}

// WinRate returns the fraction of runs that reached the target.
func (r *Report) WinRate() float64 {
	if r.Runs == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Runs)
}

// WriteTo prints the report as an aligned table.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	p := message.NewPrinter(lang)
	keys := []string{
		"Level", "Target", "Runs", "Win rate", "Score mean", "Score std",
		"Score range", "Cascades/run", "Moves/run", "Deadlocks", "Shuffles", "Stuck", "Elapsed",
	}
	vals := map[string]string{
		"Level":        p.Sprintf("%s (%s)", r.LevelID, r.LevelName),
		"Target":       p.Sprintf("%d", r.Target),
		"Runs":         p.Sprintf("%d", r.Runs),
		"Win rate":     p.Sprintf("%.2f %%", 100*r.WinRate()),
		"Score mean":   p.Sprintf("%.1f", r.MeanScore),
		"Score std":    p.Sprintf("%.1f", r.StdScore),
		"Score range":  p.Sprintf("[%d, %d]", r.MinScore, r.MaxScore),
		"Cascades/run": p.Sprintf("%.2f", r.MeanCascades),
		"Moves/run":    p.Sprintf("%.2f", r.MeanMoves),
		"Deadlocks":    p.Sprintf("%d", r.Deadlocks),
		"Shuffles":     p.Sprintf("%d", r.Shuffles),
		"Stuck":        p.Sprintf("%d", r.Stuck),
		"Elapsed":      r.Elapsed.Round(time.Millisecond).String(),
	}

	n, err := io.WriteString(w, fmtTable("Simulation", keys, vals))
	return int64(n), err
}

func fmtTable(title string, keys []string, vals map[string]string) string {
	keyW, valW := 0, 0
	for _, k := range keys {
		keyW = max(keyW, runewidth.StringWidth(k))
		valW = max(valW, runewidth.StringWidth(vals[k]))
	}
	keyW += 2
	valW += 2

	inner := keyW + valW + 1
	titleW := runewidth.StringWidth(title)
	if titleW > inner {
		valW += titleW - inner
		inner = titleW
	}
	left := (inner - titleW) / 2

	var b strings.Builder
	top := "+" + strings.Repeat("-", inner) + "+\n"
	divider := "+" + strings.Repeat("-", keyW) + "+" + strings.Repeat("-", valW) + "+\n"

	b.WriteString(top)
	b.WriteString("|" + blank(left) + title + blank(inner-titleW-left) + "|\n")
	b.WriteString(divider)
	for _, k := range keys {
		v := vals[k]
		b.WriteString("| " + k + blank(keyW-2-runewidth.StringWidth(k)) +
			" | " + v + blank(valW-2-runewidth.StringWidth(v)) + " |\n")
	}
	b.WriteString(divider)
	return b.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
