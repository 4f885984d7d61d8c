package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/open-sspm/connector-catalog/internal/catalog"
	"github.com/open-sspm/connector-catalog/internal/catalogsource"
	"github.com/open-sspm/connector-catalog/internal/config"
	"github.com/open-sspm/connector-catalog/internal/sync"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func openPool(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return pool, nil
}

// catalogLoader rereads the catalog file on every pass so edits are picked up
// by long running workers.
func catalogLoader(cfg config.Config) sync.CatalogLoader {
	path := cfg.CatalogPath
	return func() (*catalogsource.Catalog, error) {
		return catalogsource.Load(path)
	}
}

func newDBRunner(pool *pgxpool.Pool, cfg config.Config, kinds []catalog.Kind) *sync.DBRunner {
	runner := sync.NewDBRunner(pool, catalogLoader(cfg))
	runner.SetReporter(&sync.LogReporter{})
	if len(kinds) > 0 {
		runner.SetKinds(kinds...)
	}
	return runner
}

func parseKinds(raw []string) ([]catalog.Kind, error) {
	kinds := make([]catalog.Kind, 0, len(raw))
	for _, r := range raw {
		kind, err := catalog.ParseKind(r)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
