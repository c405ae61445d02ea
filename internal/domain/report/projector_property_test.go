package report

import (
	"testing"

	"cr_war_stats/internal/app"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genReportRow() gopter.Gen {
	return gopter.CombineGens(
		gen.Int64Range(1, 8),
		gen.Bool(),
		gen.IntRange(-1, 9),
		gen.IntRange(0, 4),
	).Map(func(values []interface{}) app.ReportRow {
		id := values[0].(int64)
		offset := values[2].(int)
		used := float64(values[3].(int))
		row := app.ReportRow{
			PlayerID: id,
			Name:     "p",
			// Membership belongs to the player, not the row
			IsInClan:  id%2 == 0,
			DecksUsed: used,
			DecksWon:  used / 2,
		}
		if offset >= 0 {
			row.WarDay = day(offset)
		}
		return row
	})
}

// TestProjectorProperties uses property-based testing to verify table invariants
func TestProjectorProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	window := Window{Cutout: cutout, OpenDay: cutout.AddDate(0, 0, 6)}

	properties.Property("table is rectangular", prop.ForAll(
		func(rows []app.ReportRow) bool {
			table := Project(rows, window, clanDecks, generated)
			for _, r := range table {
				if len(r) != len(table[0]) {
					return false
				}
			}
			return len(table) >= FirstDataRow
		},
		gen.SliceOf(genReportRow()),
	))

	properties.Property("one table row per listed player", prop.ForAll(
		func(rows []app.ReportRow) bool {
			listed := make(map[int64]bool)
			for _, r := range rows {
				if r.IsInClan || r.WarDay != nil {
					listed[r.PlayerID] = true
				}
			}
			return len(Project(rows, window, clanDecks, generated)) == FirstDataRow+len(listed)
		},
		gen.SliceOf(genReportRow()),
	))

	properties.Property("members are listed before leavers", prop.ForAll(
		func(rows []app.ReportRow) bool {
			table := Project(rows, window, clanDecks, generated)
			seenLeaver := false
			for _, r := range table[FirstDataRow:] {
				leaver := len(r[0]) > len(LeaverSuffix) && r[0][len(r[0])-len(LeaverSuffix):] == LeaverSuffix
				if leaver {
					seenLeaver = true
				} else if seenLeaver {
					return false
				}
			}
			return true
		},
		gen.SliceOf(genReportRow()),
	))

	properties.TestingRun(t)
}
