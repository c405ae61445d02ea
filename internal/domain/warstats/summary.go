package warstats

import (
	"fmt"
	"math"
	"sort"

	"cr_war_stats/internal/app"
)

// TruncatedCaveat is appended to a player's progress line when the log window was too short
const TruncatedCaveat = "25+ games since war start"

// ClanSummary holds the clan-wide live totals for the open war day
type ClanSummary struct {
	Name         string
	Played       float64
	Won          float64
	WinRate      float64
	Participants int
}

// Summarize totals the live counters of every player.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func Summarize(clanName string, stats map[string]*app.PlayerWarStats) ClanSummary {
	summary := ClanSummary{Name: clanName}
	for _, s := range stats {
		summary.Played += s.BattlesPlayed
		summary.Won += s.BattlesWon
		if s.BattlesPlayed > 0 {
			summary.Participants++
		}
	}
	summary.WinRate = WinRate(summary.Won, summary.Played)
	return summary
}

// WinRate returns won/played as a percentage rounded to two decimals, 0 when nothing was played
func WinRate(won, played float64) float64 {
	if played <= 0 {
		return 0
	}
	return math.Round(10000*won/played) / 100
}

func (s ClanSummary) String() string {
	return fmt.Sprintf("%s: %s war battles played, %s won (%s%% win rate), %d members participated",
		s.Name, FormatCount(s.Played), FormatCount(s.Won), FormatCount(s.WinRate), s.Participants)
}

// Ranked returns the players ordered by battles played, most first, ties by tag
func Ranked(stats map[string]*app.PlayerWarStats) []*app.PlayerWarStats {
	ranked := make([]*app.PlayerWarStats, 0, len(stats))
	for _, s := range stats {
		ranked = append(ranked, s)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].BattlesPlayed != ranked[j].BattlesPlayed {
			return ranked[i].BattlesPlayed > ranked[j].BattlesPlayed
		}
		return ranked[i].Tag < ranked[j].Tag
	})

	return ranked
}

// ProgressLine renders one player's live progress
func ProgressLine(s *app.PlayerWarStats) string {
	line := fmt.Sprintf("%s: %d", s.Name, int(s.BattlesPlayed))
	if s.Truncated {
		line += " " + TruncatedCaveat
	}
	return line
}

// FormatCount renders a possibly fractional count without trailing zeros
func FormatCount(v float64) string {
	return fmt.Sprintf("%g", v)
}

// SortIncomplete orders players still owing decks by decks used, fewest first, ties by name
func SortIncomplete(players []app.IncompletePlayer) []app.IncompletePlayer {
	sorted := make([]app.IncompletePlayer, len(players))
	copy(sorted, players)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].DecksUsed != sorted[j].DecksUsed {
			return sorted[i].DecksUsed < sorted[j].DecksUsed
		}
		return sorted[i].Name < sorted[j].Name
	})

	return sorted
}
