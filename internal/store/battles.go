package store

import (
	"context"
	"database/sql"
	"fmt"

	"cr_war_stats/internal/app"
	"cr_war_stats/internal/domain/warday"
)

// InsertBattle appends one war battle row. A row for the same player and
// timestamp already present is reported as InsertDuplicate and left untouched.
func (s *Store) InsertBattle(ctx context.Context, row app.WarBattleRow) (InsertResult, error) {
	if !s.Enabled() {
		return InsertSkipped, nil
	}

	query := `
		INSERT INTO war_battle (player_id, battle_time, war_day, decks_used, decks_won, fame)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (player_id, battle_time) DO NOTHING
	`

	var affected int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query,
			row.PlayerID, row.Timestamp.UTC(), warday.Format(row.WarDay),
			row.DecksUsed, row.DecksWon, row.Fame,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return InsertDuplicate, nil
		}
		return InsertSkipped, fmt.Errorf("failed to insert battle for player %d at %s: %w",
			row.PlayerID, row.Timestamp.Format(app.BattleTimeLayout), err)
	}

	if affected == 0 {
		return InsertDuplicate, nil
	}
	return InsertInserted, nil
}
