package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const (
	defaultHTTPAddr     = ":8080"
	defaultMetricsAddr  = ":9090"
	defaultSyncInterval = time.Hour
)

type Config struct {
	DatabaseURL  string
	CatalogPath  string
	HTTPAddr     string
	MetricsAddr  string
	SyncInterval time.Duration
	SyncCron     string
}

type LoadOptions struct {
	RequireDatabaseURL bool
}

func Load() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireDatabaseURL: true})
}

func LoadOptionalDB() (Config, error) {
	return LoadWithOptions(LoadOptions{RequireDatabaseURL: false})
}

func LoadWithOptions(opts LoadOptions) (Config, error) {
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return Config{}, err
		}
	}

	cfg := Config{
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		CatalogPath:  strings.TrimSpace(os.Getenv("CATALOG_PATH")),
		HTTPAddr:     getenvDefault("HTTP_ADDR", defaultHTTPAddr),
		MetricsAddr:  getenvDefault("METRICS_ADDR", defaultMetricsAddr),
		SyncInterval: defaultSyncInterval,
		SyncCron:     strings.TrimSpace(os.Getenv("SYNC_CRON")),
	}

	if v := strings.TrimSpace(os.Getenv("SYNC_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return cfg, fmt.Errorf("SYNC_INTERVAL must be a positive duration, got %q", v)
		}
		cfg.SyncInterval = d
	}

	if cfg.SyncCron != "" {
		if _, err := cron.ParseStandard(cfg.SyncCron); err != nil {
			return cfg, fmt.Errorf("SYNC_CRON: %w", err)
		}
	}

	if opts.RequireDatabaseURL && cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
