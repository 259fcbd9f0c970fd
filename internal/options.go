package internal

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/readiness/pkg/health"
	"github.com/dmitrymomot/readiness/pkg/logger"
)

// Option configures the application.
type Option func(*App)

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithLogger creates a stdout JSON logger tagged with a component name.
// Extractors pull values from context (e.g., request_id).
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(logger.Config{}, extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithSettings replaces the default in-memory settings store.
func WithSettings(s Settings) Option {
	return func(a *App) {
		if s != nil {
			a.settings = s
		}
	}
}

// WithHealth enables liveness and readiness endpoints.
// Empty config fields take the health package defaults.
//
// Example:
//
//	readiness.WithHealth(health.Config{ReturnBody: true},
//	    readiness.WithReadinessKeys("postgres"),
//	    readiness.WithReadinessCheck(readiness.SettingPresent("mongooseClient")),
//	)
func WithHealth(cfg health.Config, opts ...HealthOption) Option {
	return func(a *App) {
		hc := &healthConfig{cfg: cfg}
		for _, opt := range opts {
			opt(hc)
		}
		a.healthConfig = hc
	}
}

// WithMetrics serves Prometheus metrics from registry at /metrics and records
// health probe metrics under namespace. A nil registry creates a new one.
func WithMetrics(registry *prometheus.Registry, namespace string) Option {
	return func(a *App) {
		if registry == nil {
			registry = prometheus.NewRegistry()
		}
		if namespace == "" {
			namespace = "readiness"
		}
		a.metrics = &metricsConfig{
			registry:  registry,
			path:      defaultMetricsPath,
			namespace: namespace,
		}
	}
}
