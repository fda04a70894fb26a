package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/postgres"
)

// OpenMigratedPool connects to TEST_DATABASE_URL (or DATABASE_URL), applies migrations,
// and registers cleanup. The test is skipped when neither variable is set.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		t.Skip("postgres tests require TEST_DATABASE_URL or DATABASE_URL")
	}

	pool, err := postgres.NewPool(context.Background(), dsn, postgres.PoolOptions{MaxConns: 4})
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := postgres.Migrate(pool); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return pool
}
