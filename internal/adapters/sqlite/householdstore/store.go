package householdstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Overland-East-Bay/household-fpl-api/internal/ports/out/householdstore"
)

// Store is a SQLite implementation of householdstore.Store. Values are stored verbatim.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx, `SELECT body FROM households WHERE id = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, householdstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	return body, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO households (id, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("upsert household: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM households WHERE id = ?`, key); err != nil {
		return fmt.Errorf("delete household: %w", err)
	}
	return nil
}
