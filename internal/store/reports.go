package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cr_war_stats/internal/app"
	"cr_war_stats/internal/domain/warday"
)

// FetchReportRows returns one row per (player, war day) from cutout onward,
// plus one row with a nil WarDay for every player without battles in the
// window. Rows are ordered clan members first, then by player id and day.
func (s *Store) FetchReportRows(ctx context.Context, cutout time.Time) ([]app.ReportRow, error) {
	if !s.Enabled() {
		return nil, nil
	}

	query := `
		SELECT p.id, p.name, p.is_in_clan, b.war_day, SUM(b.decks_used), SUM(b.decks_won)
		FROM player p
		LEFT JOIN war_battle b ON b.player_id = p.id AND b.war_day >= $1
		GROUP BY p.id, p.name, p.is_in_clan, b.war_day
		ORDER BY p.is_in_clan DESC, p.id, b.war_day
	`

	rows, err := s.db.QueryContext(ctx, query, warday.Format(cutout))
	if err != nil {
		return nil, fmt.Errorf("failed to query report rows: %w", err)
	}
	defer rows.Close()

	var result []app.ReportRow
	for rows.Next() {
		var (
			r    app.ReportRow
			day  sql.NullString
			used sql.NullFloat64
			won  sql.NullFloat64
		)
		if err := rows.Scan(&r.PlayerID, &r.Name, &r.IsInClan, &day, &used, &won); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}

		if day.Valid {
			parsed, err := warday.Parse(day.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse war day %q: %w", day.String, err)
			}
			r.WarDay = &parsed
		}
		r.DecksUsed = used.Float64
		r.DecksWon = won.Float64

		result = append(result, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read report rows: %w", err)
	}

	return result, nil
}

// FetchOpenWarDayStats returns per-player totals for the given war day,
// for players with at least one battle that day
func (s *Store) FetchOpenWarDayStats(ctx context.Context, day time.Time) ([]app.DayPlayerStats, error) {
	if !s.Enabled() {
		return nil, nil
	}

	query := `
		SELECT p.id, p.name, SUM(b.decks_used), SUM(b.decks_won)
		FROM war_battle b
		JOIN player p ON p.id = b.player_id
		WHERE b.war_day = $1
		GROUP BY p.id, p.name
		ORDER BY SUM(b.decks_used) DESC, p.name
	`

	rows, err := s.db.QueryContext(ctx, query, warday.Format(day))
	if err != nil {
		return nil, fmt.Errorf("failed to query war day stats: %w", err)
	}
	defer rows.Close()

	var result []app.DayPlayerStats
	for rows.Next() {
		var st app.DayPlayerStats
		if err := rows.Scan(&st.PlayerID, &st.Name, &st.DecksUsed, &st.DecksWon); err != nil {
			return nil, fmt.Errorf("failed to scan war day stats: %w", err)
		}
		result = append(result, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read war day stats: %w", err)
	}

	return result, nil
}

// FetchIncompletePlayers returns current clan members who used fewer than
// maxDecks decks on the given war day. Members without rows count as zero.
func (s *Store) FetchIncompletePlayers(ctx context.Context, day time.Time, maxDecks int) ([]app.IncompletePlayer, error) {
	if !s.Enabled() {
		return nil, nil
	}

	query := `
		SELECT p.id, p.tag, p.name, COALESCE(SUM(b.decks_used), 0), COALESCE(p.discord_id, ''), p.is_mini
		FROM player p
		LEFT JOIN war_battle b ON b.player_id = p.id AND b.war_day = $1
		WHERE p.is_in_clan = TRUE
		GROUP BY p.id, p.tag, p.name, p.discord_id, p.is_mini
		HAVING COALESCE(SUM(b.decks_used), 0) < $2
		ORDER BY p.name
	`

	rows, err := s.db.QueryContext(ctx, query, warday.Format(day), maxDecks)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomplete players: %w", err)
	}
	defer rows.Close()

	var result []app.IncompletePlayer
	for rows.Next() {
		var p app.IncompletePlayer
		if err := rows.Scan(&p.PlayerID, &p.Tag, &p.Name, &p.DecksUsed, &p.DiscordID, &p.IsMini); err != nil {
			return nil, fmt.Errorf("failed to scan incomplete player: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read incomplete players: %w", err)
	}

	return result, nil
}
