package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	postgres "github.com/Overland-East-Bay/household-fpl-api/internal/adapters/postgres"
	"github.com/Overland-East-Bay/household-fpl-api/internal/adapters/sqlite"
	"github.com/Overland-East-Bay/household-fpl-api/internal/platform/config"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for the configured sql backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			switch cfg.Storage.Backend {
			case config.BackendPostgres:
				pool, err := postgres.NewPool(cmd.Context(), cfg.Storage.DatabaseURL, postgres.PoolOptions{ConnectTimeout: 5 * time.Second})
				if err != nil {
					return err
				}
				defer pool.Close()
				if err := postgres.Migrate(pool); err != nil {
					return err
				}
			case config.BackendSQLite:
				// Open migrates as part of opening.
				db, err := sqlite.Open(cfg.Storage.SQLitePath)
				if err != nil {
					return err
				}
				_ = db.Close()
			default:
				return fmt.Errorf("backend %q has no migrations", cfg.Storage.Backend)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", cfg.Storage.Backend)
			return nil
		},
	}
}
