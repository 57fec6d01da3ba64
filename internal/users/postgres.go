package users

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore persists profiles in the users table. Uniqueness per
// Telegram id is enforced by the table constraint; concurrent upserts of the
// same id never produce duplicates.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const upsertQuery = `
INSERT INTO users (telegram_id, username, display_name)
VALUES ($1, $2, $3)
ON CONFLICT (telegram_id) DO UPDATE
SET username = EXCLUDED.username,
    display_name = EXCLUDED.display_name,
    updated_at = now()`

// Upsert inserts or refreshes the profile for its Telegram id.
func (s *PostgresStore) Upsert(ctx context.Context, p Profile) error {
	if _, err := s.db.ExecContext(ctx, upsertQuery, p.TelegramID, p.Username, p.DisplayName); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

const listQuery = `
SELECT id, telegram_id, username, display_name, created_at, updated_at
FROM users
ORDER BY id
LIMIT $1`

// List returns profiles in insertion order (serial id), capped at limit.
func (s *PostgresStore) List(ctx context.Context, limit int) ([]Profile, error) {
	var profiles []Profile
	if err := s.db.SelectContext(ctx, &profiles, listQuery, limit); err != nil {
		return nil, fmt.Errorf("select profiles: %w", err)
	}
	return profiles, nil
}
