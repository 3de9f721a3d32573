package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mobidic-dev/tripsettle/internal/models"
)

// GetStatusTable loads all persisted transfer states of a room. Transfers
// with no row are implicitly READY and never stored as such, so the table
// only holds REQUESTED and DONE entries plus whatever bulk updates wrote.
func (s *SQLiteStore) GetStatusTable(ctx context.Context, roomID string) (map[models.TransferID]models.TransferStatus, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT from_name, to_name, state FROM transfer_statuses WHERE room_id = ?",
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get status table: %w", err)
	}
	defer rows.Close()

	table := make(map[models.TransferID]models.TransferStatus)
	for rows.Next() {
		var id models.TransferID
		var state string
		if err := rows.Scan(&id.From, &id.To, &state); err != nil {
			return nil, fmt.Errorf("failed to scan transfer status: %w", err)
		}
		table[id] = models.TransferStatus(state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfer statuses: %w", err)
	}

	return table, nil
}

// SetStatuses upserts the given transfer identities to the same state in a
// single transaction, so a bulk request lands atomically.
func (s *SQLiteStore) SetStatuses(ctx context.Context, roomID string, ids []models.TransferID, state models.TransferStatus) error {
	if !state.Valid() {
		return fmt.Errorf("invalid transfer state: %q", state)
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, id := range ids {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO transfer_statuses (room_id, from_name, to_name, state, updated_at)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (room_id, from_name, to_name)
			 DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
			roomID, id.From, id.To, string(state), now,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert transfer status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
