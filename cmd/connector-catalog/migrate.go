package main

import (
	"errors"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/open-sspm/connector-catalog/internal/config"
	"github.com/spf13/cobra"
)

const defaultMigrationsSource = "file://db/migrations"

var migrateCmd = &cobra.Command{
	Use:         "migrate",
	Short:       "Run database migrations",
	Args:        cobra.NoArgs,
	Annotations: structuredLogging(),
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _ := cmd.Flags().GetString("source")
		down, _ := cmd.Flags().GetBool("down")
		return runMigrate(source, down)
	},
}

func init() {
	migrateCmd.Flags().String("source", defaultMigrationsSource, "migration source URL")
	migrateCmd.Flags().Bool("down", false, "roll back every migration instead of applying them")
}

func runMigrate(source string, down bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	m, err := migrate.New(source, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			slog.Warn("close migrations", "error", err)
		}
	}()

	apply, direction := m.Up, "up"
	if down {
		apply, direction = m.Down, "down"
	}
	if err := apply(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("no changes to apply", "direction", direction)
			return nil
		}
		return err
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		slog.Info("migrations applied successfully", "direction", direction)
	case err != nil:
		return err
	default:
		slog.Info("migrations applied successfully", "direction", direction, "version", version, "dirty", dirty)
	}
	return nil
}
