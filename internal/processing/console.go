package processing

import (
	"fmt"

	"cr_war_stats/internal/domain/warstats"

	"github.com/fatih/color"
)

var (
	headerColor    = color.New(color.Bold, color.FgCyan)
	doneColor      = color.New(color.FgGreen)
	truncatedColor = color.New(color.FgYellow)
)

// printConsole writes the clan summary line followed by every player's live
// progress, most battles first
func (p *WarDayProcessor) printConsole(result *RunResult) {
	if p.out == nil {
		return
	}

	headerColor.Fprintln(p.out, result.Summary.String())

	for _, stats := range warstats.Ranked(result.Stats) {
		line := warstats.ProgressLine(stats)
		switch {
		case stats.Truncated:
			truncatedColor.Fprintln(p.out, line)
		case stats.BattlesPlayed >= float64(p.limits.DecksPerPlayerPerDay):
			doneColor.Fprintln(p.out, line)
		default:
			fmt.Fprintln(p.out, line)
		}
	}
}
