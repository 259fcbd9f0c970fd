// Package logger builds the structured slog loggers used across readiness.
//
// Loggers write JSON (or text) to stdout, enrich every record with values
// pulled from the request context, and can fan out warnings and errors to
// Sentry when a DSN is configured.
//
// # Usage
//
//	log := logger.New(logger.Config{Level: "debug", Format: "text"},
//	    middlewares.RequestIDExtractor(),
//	)
//	log.InfoContext(ctx, "readiness key marked", slog.String("key", "postgres"))
//
// With Sentry:
//
//	log := logger.NewWithSentry(logger.Config{}, logger.SentryConfig{
//	    DSN:         os.Getenv("SENTRY_DSN"),
//	    Environment: "production",
//	    MinLevel:    slog.LevelWarn,
//	})
//
// An empty DSN, or a failed Sentry init, falls back to stdout only.
//
// # Context Extractors
//
// A [ContextExtractor] returns an attribute to add to a record, or false to
// skip it. Extractors run on every log call so request-scoped values stay fresh.
package logger
