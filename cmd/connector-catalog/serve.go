package main

import (
	"log/slog"

	"github.com/open-sspm/connector-catalog/internal/config"
	"github.com/open-sspm/connector-catalog/internal/db/gen"
	httpapp "github.com/open-sspm/connector-catalog/internal/http"
	"github.com/open-sspm/connector-catalog/internal/sync"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Serve the connector catalog HTTP API.",
	Args:        cobra.NoArgs,
	Annotations: structuredLogging(),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	syncer := sync.NewTryRunOnceLockRunner(pool, newDBRunner(pool, cfg, nil))
	server := httpapp.NewEchoServer(gen.New(pool), pool, syncer)

	slog.Info("http listening", "addr", cfg.HTTPAddr)
	return runError(server.ListenAndServe(ctx, cfg.HTTPAddr))
}
