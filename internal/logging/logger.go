// Package logging builds the structured slog logger used by every command.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
)

const (
	// EnvFormat selects the handler: json or text.
	EnvFormat = "LOG_FORMAT"
	// EnvLevel sets the minimum level: debug, info, warn or error.
	EnvLevel = "LOG_LEVEL"

	// AppName is attached to every record as the app attribute.
	AppName = "connector-catalog"

	defaultFormat = "json"
)

var (
	formats = []string{"json", "text"}
	levels  = map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
)

type Config struct {
	Format string
	Level  slog.Level
}

type BootstrapOptions struct {
	Command string
	Writer  io.Writer
}

func DefaultConfig() Config {
	return Config{Format: defaultFormat, Level: slog.LevelInfo}
}

// LoadConfigFromEnv reads EnvFormat and EnvLevel. Unset values keep the defaults.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if raw := normalize(os.Getenv(EnvFormat)); raw != "" {
		if !slices.Contains(formats, raw) {
			return Config{}, fmt.Errorf("%s must be one of: %s", EnvFormat, strings.Join(formats, ", "))
		}
		cfg.Format = raw
	}

	if raw := normalize(os.Getenv(EnvLevel)); raw != "" {
		level, ok := levels[raw]
		if !ok {
			return Config{}, fmt.Errorf("%s must be one of: debug, info, warn, error", EnvLevel)
		}
		cfg.Level = level
	}

	return cfg, nil
}

// NewLogger returns a logger tagged with the app and command attributes.
func NewLogger(cfg Config, writer io.Writer, command string) *slog.Logger {
	if writer == nil {
		writer = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}
	var handler slog.Handler = slog.NewJSONHandler(writer, opts)
	if normalize(cfg.Format) == "text" {
		handler = slog.NewTextHandler(writer, opts)
	}

	command = strings.TrimSpace(command)
	if command == "" {
		command = AppName
	}
	return slog.New(handler).With("app", AppName, "command", command)
}

// BootstrapFromEnv installs the env-configured logger as the slog default.
func BootstrapFromEnv(opts BootstrapOptions) (*slog.Logger, error) {
	cfg, err := LoadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	logger := NewLogger(cfg, opts.Writer, opts.Command)
	slog.SetDefault(logger)
	return logger, nil
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
