package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Overland-East-Bay/household-fpl-api/internal/adapters/httpapi"
	"github.com/Overland-East-Bay/household-fpl-api/internal/app/households"
	platformclock "github.com/Overland-East-Bay/household-fpl-api/internal/platform/clock"
	"github.com/Overland-East-Bay/household-fpl-api/internal/platform/config"
	"github.com/Overland-East-Bay/household-fpl-api/internal/platform/logging"
	"github.com/Overland-East-Bay/household-fpl-api/internal/platform/metrics"
	"github.com/Overland-East-Bay/household-fpl-api/internal/platform/ratelimiter"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(ctx context.Context, configPath string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)

	st, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		logger.Error("storage init failed", "backend", cfg.Storage.Backend, "err", err)
		return err
	}
	defer st.Close()
	logger.Info("storage ready", "backend", cfg.Storage.Backend)

	clk := platformclock.NewSystemClock()
	m := metrics.New()

	svc := households.NewService(st.Households, cfg.Guidelines())
	api := httpapi.NewServer(svc, st.Idempotency, clk)
	api.Logger = logger
	api.Metrics = m

	opts := httpapi.RouterOptions{Logger: logger, Metrics: m}
	if l := ratelimiter.New(cfg.Limits.RPS, cfg.Limits.Burst, cfg.Limits.Idle); l != nil {
		opts.Limiter = l
		opts.Clock = clk
		logger.Info("rate limiting enabled", "rps", cfg.Limits.RPS, "burst", cfg.Limits.Burst)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpapi.NewRouterWithOptions(api, opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown incomplete", "err", err)
	}
	return nil
}
