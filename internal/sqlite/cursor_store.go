package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CursorStore persists incremental API resume positions, keyed by
// account and endpoint.
type CursorStore struct {
	db *DB
}

// NewCursorStore creates a cursor store on the given database.
func NewCursorStore(db *DB) *CursorStore {
	return &CursorStore{db: db}
}

// GetCursor returns the stored position for key; ok is false when the
// key has never been written.
func (s *CursorStore) GetCursor(ctx context.Context, key string) (int64, bool, error) {
	var position int64
	err := s.db.QueryRowContext(ctx,
		"SELECT position FROM incremental_cursors WHERE key = ?", key,
	).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read cursor %s: %w", key, err)
	}
	return position, true, nil
}

// SetCursor stores the position for key, overwriting any previous
// value.
func (s *CursorStore) SetCursor(ctx context.Context, key string, value int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO incremental_cursors (key, position, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			position = excluded.position,
			updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write cursor %s: %w", key, err)
	}
	return nil
}
