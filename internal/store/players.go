package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"cr_war_stats/internal/app"
)

// UpsertPlayer inserts or renames the player with the given tag, marks them as
// a current clan member and returns their id. Returns nil when disabled.
func (s *Store) UpsertPlayer(ctx context.Context, tag, name string) (*int64, error) {
	if !s.Enabled() {
		return nil, nil
	}

	query := `
		INSERT INTO player (tag, name, is_in_clan, updated_at)
		VALUES ($1, $2, TRUE, CURRENT_TIMESTAMP)
		ON CONFLICT (tag) DO UPDATE
		SET name = excluded.name, is_in_clan = TRUE, updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`

	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, app.NormalizeTag(tag), name).Scan(&id)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert player %s: %w", tag, err)
	}

	return &id, nil
}

// MarkLeavers flags every player whose id is not in activeIDs as no longer in
// the clan. An empty list marks everyone.
func (s *Store) MarkLeavers(ctx context.Context, activeIDs []int64) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}

	query := "UPDATE player SET is_in_clan = FALSE WHERE is_in_clan = TRUE"
	args := make([]interface{}, 0, len(activeIDs))
	if len(activeIDs) > 0 {
		placeholders := make([]string, len(activeIDs))
		for i, id := range activeIDs {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args = append(args, id)
		}
		query += " AND id NOT IN (" + strings.Join(placeholders, ", ") + ")"
	}

	var affected int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to mark leavers: %w", err)
	}

	return affected, nil
}

// SetNotificationTarget stores the notification routing for a player tag.
// Returns false when no player with that tag exists.
func (s *Store) SetNotificationTarget(ctx context.Context, target app.NotificationTarget) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}

	query := "UPDATE player SET discord_id = $1, is_mini = $2 WHERE tag = $3"

	var affected int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, nullIfEmpty(target.DiscordID), target.IsMini, app.NormalizeTag(target.Tag))
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("failed to set notification target for %s: %w", target.Tag, err)
	}

	return affected > 0, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
