package processing

import (
	"fmt"
	"strings"
	"time"

	"cr_war_stats/internal/app"
	"cr_war_stats/internal/config"
	"cr_war_stats/internal/domain/report"
	"cr_war_stats/internal/domain/warday"
	"cr_war_stats/internal/domain/warstats"
)

// Reminder is a composed notification and the Discord ids it should mention
type Reminder struct {
	Message string
	Targets []string
}

// ComposeReminder lists every member still owing decks on the war day, with
// the clan total and participation as a header. Targets are the distinct
// Discord ids of the listed players.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func ComposeReminder(day time.Time, dayStats []app.DayPlayerStats, incomplete []app.IncompletePlayer, live map[string]*app.PlayerWarStats, limits config.Limits) Reminder {
	var played float64
	for _, s := range dayStats {
		played += s.DecksUsed
	}

	var b strings.Builder
	fmt.Fprintf(&b, "War day %s: %s decks used (%s participation)\n",
		warday.Format(day),
		report.FormatNumber(played),
		participationOrZero(played, limits.MaxClanDecksPerDay))
	fmt.Fprintf(&b, "%d members still have decks to play:", len(incomplete))

	targets := make([]string, 0, len(incomplete))
	seen := make(map[string]bool)

	for _, player := range warstats.SortIncomplete(incomplete) {
		line := fmt.Sprintf("%s: %s/%d", player.Name, report.FormatNumber(player.DecksUsed), limits.DecksPerPlayerPerDay)
		if player.IsMini {
			line += " (mini)"
		}
		if stats, ok := live[app.NormalizeTag(player.Tag)]; ok && stats.Truncated {
			line += " (log truncated)"
		}
		b.WriteString("\n" + line)

		if player.DiscordID != "" && !seen[player.DiscordID] {
			seen[player.DiscordID] = true
			targets = append(targets, player.DiscordID)
		}
	}

	return Reminder{Message: b.String(), Targets: targets}
}

func participationOrZero(played float64, maxDecks int) string {
	if played == 0 {
		return "0.0%"
	}
	return report.Participation(played, maxDecks)
}
