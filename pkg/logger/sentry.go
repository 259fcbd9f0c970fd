package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `koanf:"dsn" validate:"omitempty,url"`
	Environment string `koanf:"environment"`
	// MinLevel selects which levels are stored in Sentry: warn and error, or error only.
	MinLevel slog.Level `koanf:"-"`
}

// NewWithSentry creates a logger writing to stdout and Sentry.
// Errors become Sentry issues; warnings are stored as logs unless MinLevel is error.
func NewWithSentry(cfg Config, sc SentryConfig, extractors ...ContextExtractor) *slog.Logger {
	stdout := newHandler(os.Stdout, cfg)
	if sc.DSN == "" {
		return slog.New(WithExtractors(stdout, extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         sc.DSN,
		Environment: sc.Environment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(stdout).Error("failed to initialize sentry", slog.String("error", err.Error()))
		return slog.New(WithExtractors(stdout, extractors...))
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if sc.MinLevel >= slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}
	sentryHandler := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return slog.New(WithExtractors(fanout{stdout, sentryHandler}, extractors...))
}
