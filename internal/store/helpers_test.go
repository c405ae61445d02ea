package store

import (
	"context"
	"database/sql"
	"fmt"

	"cr_war_stats/internal/app"
)

// getPlayer looks a player up by tag. Returns nil when not found.
func getPlayer(ctx context.Context, s *Store, tag string) (*app.PlayerRecord, error) {
	query := `
		SELECT id, tag, name, is_in_clan, COALESCE(discord_id, ''), is_mini
		FROM player
		WHERE tag = $1
	`

	record := &app.PlayerRecord{}
	err := s.db.QueryRowContext(ctx, query, app.NormalizeTag(tag)).Scan(
		&record.ID, &record.Tag, &record.Name, &record.IsInClan, &record.DiscordID, &record.IsMini,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query player %s: %w", tag, err)
	}

	return record, nil
}

// countBattles returns the number of stored rows for a player
func countBattles(ctx context.Context, s *Store, playerID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM war_battle WHERE player_id = $1", playerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count battles for player %d: %w", playerID, err)
	}
	return count, nil
}
