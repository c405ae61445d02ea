package report

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"cr_war_stats/internal/app"
	"cr_war_stats/internal/domain/warday"
)

// Fixed layout of the report table
const (
	HeaderRow    = 0
	SubHeaderRow = 1
	TotalRow     = 2
	FirstDataRow = 3
	FirstDayCol  = 1

	PlayerLabel   = "Player"
	PlayedLabel   = "played"
	WonLabel      = "won"
	TotalLabel    = "TOTAL"
	LeaverSuffix  = " (left)"
	GeneratedTime = "2006-01-02 15:04 UTC"
)

// Window is the range of war days a report covers
type Window struct {
	Cutout  time.Time
	OpenDay time.Time
}

// DayColumn returns the "played" column for a war day; "won" is the next column.
// Days before the cutout return a negative column.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func DayColumn(cutout, day time.Time) int {
	return FirstDayCol + 2*warday.DaysBetween(cutout, day)
}

// Project pivots per-(player, war day) rows into the report table.
// Players appear if they are in the clan or have at least one row in the
// window; clan members come first, then player id, and each player's days are
// laid out left to right. Cells without data stay blank. The TOTAL row reports
// each day's decks played against maxClanDecks.
//
// Pure function: No I/O operations, fully testable with direct inputs.
func Project(rows []app.ReportRow, window Window, maxClanDecks int, generated time.Time) [][]string {
	grid := NewGrid()
	days := dayCount(rows, window)

	grid.Set(HeaderRow, 0, generated.UTC().Format(GeneratedTime))
	grid.Set(SubHeaderRow, 0, PlayerLabel)
	grid.Set(TotalRow, 0, TotalLabel)

	played := make([]float64, days)
	won := make([]float64, days)

	for i := 0; i < days; i++ {
		day := window.Cutout.AddDate(0, 0, i)
		col := DayColumn(window.Cutout, day)
		grid.Set(HeaderRow, col, warday.Format(day))
		grid.Set(HeaderRow, col+1, "")
		grid.Set(SubHeaderRow, col, PlayedLabel)
		grid.Set(SubHeaderRow, col+1, WonLabel)
	}

	playerRow := make(map[int64]int)
	next := FirstDataRow

	for _, r := range orderRows(rows) {
		if r.WarDay == nil && !r.IsInClan {
			continue
		}

		row, seen := playerRow[r.PlayerID]
		if !seen {
			row = next
			next++
			playerRow[r.PlayerID] = row
			grid.Set(row, 0, displayName(r))
		}

		if r.WarDay == nil {
			continue
		}
		offset := warday.DaysBetween(window.Cutout, *r.WarDay)
		if offset < 0 || offset >= days {
			continue
		}

		col := DayColumn(window.Cutout, *r.WarDay)
		grid.Set(row, col, FormatNumber(r.DecksUsed))
		grid.Set(row, col+1, FormatNumber(r.DecksWon))
		played[offset] += r.DecksUsed
		won[offset] += r.DecksWon
	}

	for i := 0; i < days; i++ {
		if played[i] == 0 {
			continue
		}
		col := FirstDayCol + 2*i
		grid.Set(TotalRow, col, Participation(played[i], maxClanDecks))
		grid.Set(TotalRow, col+1, Percent(won[i], played[i]))
	}

	return grid.Dense()
}

// Participation renders decks played as a share of the daily clan cap
func Participation(played float64, maxDecks int) string {
	return Percent(played, float64(maxDecks))
}

// Percent renders part/whole with one decimal, e.g. "75.0%"
func Percent(part, whole float64) string {
	if whole <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f%%", 100*part/whole)
}

// FormatNumber renders a deck count without trailing zeros
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func displayName(r app.ReportRow) string {
	if r.IsInClan {
		return r.Name
	}
	return r.Name + LeaverSuffix
}

// dayCount spans cutout to the open day, extended to the latest row if later
func dayCount(rows []app.ReportRow, window Window) int {
	last := window.OpenDay
	for _, r := range rows {
		if r.WarDay != nil && r.WarDay.After(last) {
			last = *r.WarDay
		}
	}
	days := warday.DaysBetween(window.Cutout, last) + 1
	if days < 1 {
		return 1
	}
	return days
}

func orderRows(rows []app.ReportRow) []app.ReportRow {
	sorted := make([]app.ReportRow, len(rows))
	copy(sorted, rows)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.IsInClan != b.IsInClan {
			return a.IsInClan
		}
		if a.PlayerID != b.PlayerID {
			return a.PlayerID < b.PlayerID
		}
		switch {
		case a.WarDay == nil:
			return b.WarDay != nil
		case b.WarDay == nil:
			return false
		default:
			return a.WarDay.Before(*b.WarDay)
		}
	})

	return sorted
}
