// Package commands implements the AskLens subcommands.
package commands

import (
	"context"
	"log/slog"

	"github.com/asklens-labs/asklens/internal/config"
)

type configKey struct{}
type loggerKey struct{}

// WithConfig stores the loaded config in the context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithLogger stores the logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// getConfig retrieves the config from the command context, falling back
// to defaults when the root command did not run (tests).
func getConfig(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	cfg, err := config.Load("", nil)
	if err != nil {
		return &config.Config{
			BackendURL:   config.DefaultBackendURL,
			SchemaURL:    config.DefaultSchemaURL,
			HistoryLimit: config.DefaultHistoryLimit,
			OutputFormat: config.DefaultOutput,
		}
	}
	return cfg
}

// getLogger retrieves the logger from the command context.
func getLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
