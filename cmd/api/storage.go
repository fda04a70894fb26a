package main

import (
	"context"
	"fmt"
	"time"

	memhouseholdstore "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/memory/householdstore"
	memidempotency "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/memory/idempotency"
	postgres "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/postgres"
	pghouseholdstore "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/postgres/householdstore"
	pgidempotency "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/postgres/idempotency"
	redisadapter "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/redis"
	redishouseholdstore "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/redis/householdstore"
	"github.com/Overland-East-Bay/household-fpl-api/internal/adapters/sqlite"
	sqlitehouseholdstore "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/sqlite/householdstore"
	"github.com/Overland-East-Bay/household-fpl-api/internal/platform/config"
	householdstoreport "github.com/Overland-East-Bay/household-fpl-api/internal/ports/out/householdstore"
	idempotencyport "github.com/Overland-East-Bay/household-fpl-api/internal/ports/out/idempotency"
)

type storage struct {
	Households  householdstoreport.Store
	Idempotency idempotencyport.Store

	closers []func()
}

func (s *storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// openStorage builds the household store for the configured backend. Idempotency records
// live in postgres when that backend is selected and in process memory otherwise.
func openStorage(ctx context.Context, cfg config.StorageConfig) (*storage, error) {
	st := &storage{}

	switch cfg.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, postgres.PoolOptions{ConnectTimeout: 5 * time.Second})
		if err != nil {
			return nil, fmt.Errorf("invalid postgres config: %w", err)
		}
		st.closers = append(st.closers, pool.Close)
		if err := postgres.Migrate(pool); err != nil {
			st.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		st.Households = pghouseholdstore.NewStore(pool)
		st.Idempotency = pgidempotency.NewStore(pool)
		return st, nil

	case config.BackendRedis:
		client, err := redisadapter.NewClient(ctx, redisadapter.Options{
			Addr:        cfg.RedisAddr,
			Password:    cfg.RedisPassword,
			DB:          cfg.RedisDB,
			DialTimeout: 5 * time.Second,
		})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = client.Close() })
		st.Households = redishouseholdstore.NewStore(client, cfg.RedisPrefix)

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func() { _ = db.Close() })
		st.Households = sqlitehouseholdstore.NewStore(db)

	case config.BackendMemory:
		st.Households = memhouseholdstore.NewStore()

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	st.Idempotency = memidempotency.NewStore()
	return st, nil
}
