package householdstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/household-fpl-api/internal/ports/out/householdstore"
)

// Store is a Postgres implementation of householdstore.Store.
// Values are stored in a jsonb column, so Get returns Postgres' normalized JSON text.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if s.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	var body []byte
	err := s.pool.QueryRow(ctx, `SELECT body FROM households WHERE id = $1`, key).Scan(&body)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, householdstore.ErrNotFound
		}
		return nil, fmt.Errorf("select household: %w", err)
	}
	return body, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO households (id, body, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (id) DO UPDATE SET
			body = EXCLUDED.body,
			updated_at = EXCLUDED.updated_at
	`, key, string(value))
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.InvalidTextRepresentationCode {
			return fmt.Errorf("household value is not valid json: %w", err)
		}
		return fmt.Errorf("upsert household: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if s.pool == nil {
		return errors.New("nil postgres pool")
	}
	if _, err := s.pool.Exec(ctx, `DELETE FROM households WHERE id = $1`, key); err != nil {
		return fmt.Errorf("delete household: %w", err)
	}
	return nil
}
