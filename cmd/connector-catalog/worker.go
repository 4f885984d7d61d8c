package main

import (
	"errors"
	"log/slog"

	"github.com/open-sspm/connector-catalog/internal/config"
	"github.com/open-sspm/connector-catalog/internal/metrics"
	"github.com/open-sspm/connector-catalog/internal/sync"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var workerCmd = &cobra.Command{
	Use:         "worker",
	Short:       "Run the periodic reconciliation loop and the metrics endpoint.",
	Args:        cobra.NoArgs,
	Annotations: structuredLogging(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWorker()
	},
}

func runWorker() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.SyncInterval <= 0 && cfg.SyncCron == "" {
		return errors.New("SYNC_INTERVAL must be > 0 or SYNC_CRON set to run the worker")
	}

	ctx, stop := signalContext()
	defer stop()

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	metricsSrv, err := metrics.StartServer(ctx, cfg.MetricsAddr)
	if err != nil {
		return err
	}

	runner := sync.NewTryRunOnceLockRunner(pool, newDBRunner(pool, cfg, nil))
	scheduler := sync.Scheduler{Runner: runner, Interval: cfg.SyncInterval, Cron: cfg.SyncCron}

	slog.Info("catalog worker started", "interval", cfg.SyncInterval, "cron", cfg.SyncCron, "catalog", catalogOrigin(cfg))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		scheduler.Run(gctx)
		return nil
	})
	g.Go(metricsSrv.Wait)

	return runError(g.Wait())
}

func catalogOrigin(cfg config.Config) string {
	if cfg.CatalogPath == "" {
		return "embedded"
	}
	return cfg.CatalogPath
}
