package main

import (
	"github.com/open-sspm/connector-catalog/internal/config"
	"github.com/open-sspm/connector-catalog/internal/sync"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:         "sync",
	Short:       "Run one reconciliation pass of the source and destination catalogs.",
	Args:        cobra.NoArgs,
	Annotations: structuredLogging(),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawKinds, _ := cmd.Flags().GetStringSlice("kind")
		return runSync(rawKinds)
	},
}

func init() {
	syncCmd.Flags().StringSlice("kind", nil, "restrict the pass to source or destination (repeatable)")
}

func runSync(rawKinds []string) error {
	kinds, err := parseKinds(rawKinds)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	runner := sync.NewBlockingRunOnceLockRunner(pool, newDBRunner(pool, cfg, kinds))
	return runError(runner.RunOnce(ctx))
}
