package warstats

import (
	"time"

	"cr_war_stats/internal/app"
	"cr_war_stats/internal/domain/battle"
	"cr_war_stats/internal/domain/warday"
)

// FoldResult is what one player's battle log contributes to a run
type FoldResult struct {
	// Rows holds one row per war-relevant battle, keyed by its own war day,
	// whether or not it belongs to the open war day.
	Rows []app.WarBattleRow
	// Live counts the battles that were folded into the live counters
	Live int
}

// Fold classifies every battle in a player's log and applies it to stats.
// Battles at or after warStart update the live counters; every war-relevant
// battle produces a row for persistence. The log order does not matter.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func Fold(stats *app.PlayerWarStats, battles []app.Battle, clanTag string, warStart time.Time, playerID int64) FoldResult {
	var result FoldResult

	if IsTruncated(battles, warStart) {
		stats.Truncated = true
	}

	for _, b := range battles {
		outcome, ok := battle.Classify(b, clanTag)
		if !ok {
			continue
		}

		ts := b.Time()
		if ts.IsZero() {
			// Without a timestamp there is neither a war day nor a dedup key
			continue
		}
		result.Rows = append(result.Rows, app.WarBattleRow{
			PlayerID:  playerID,
			Timestamp: ts,
			WarDay:    warday.Day(ts),
			DecksUsed: outcome.SubBattles,
			DecksWon:  outcome.DecksWon(),
		})

		if !warday.InOpenDay(ts, warStart) {
			continue
		}
		applyLive(stats, outcome)
		result.Live++
	}

	return result
}

// IsTruncated reports whether the oldest battle in the log is newer than
// warStart, meaning the log window may not reach back to the start of the open
// war day. A log whose oldest battle is exactly at warStart covers the whole
// day. An empty log is never truncated.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func IsTruncated(battles []app.Battle, warStart time.Time) bool {
	oldest, ok := OldestBattleTime(battles)
	if !ok {
		return false
	}
	return oldest.After(warStart)
}

// OldestBattleTime returns the earliest parseable timestamp in the log
func OldestBattleTime(battles []app.Battle) (time.Time, bool) {
	var oldest time.Time
	found := false
	for _, b := range battles {
		ts := b.Time()
		if ts.IsZero() {
			continue
		}
		if !found || ts.Before(oldest) {
			oldest = ts
			found = true
		}
	}
	return oldest, found
}

func applyLive(stats *app.PlayerWarStats, outcome battle.Outcome) {
	stats.BattlesPlayed += outcome.SubBattles
	stats.BattlesWon += outcome.DecksWon()
	if outcome.Category == battle.BoatAssist {
		stats.BoatAttacks++
	}
}
