package readiness

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrymomot/readiness/internal"
	"github.com/dmitrymomot/readiness/pkg/health"
	"github.com/dmitrymomot/readiness/pkg/logger"
)

// Type aliases - public API
type (
	// App holds routing, settings and the readiness tracker.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures the health endpoints.
	HealthOption = internal.HealthOption

	// HTTPError is a structured error rendered as JSON.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// Settings is the application's key/value settings store.
	Settings = internal.Settings

	// ResponseWriter tracks the status and size of a response.
	ResponseWriter = internal.ResponseWriter

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor
)

// Constructors

// New creates a new application with the given options.
// The App is immutable after creation.
//
// Example:
//
//	app := readiness.New(
//	    readiness.WithLogger("api", middlewares.RequestIDExtractor()),
//	    readiness.WithHealth(health.Config{ReturnBody: true},
//	        readiness.WithReadinessKeys("postgres", "redis"),
//	    ),
//	)
//
//	err := app.Run(":8080")
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// SetReady marks key ready on the app's readiness registry.
// Keys outside the registry are ignored. It is a no-op when the app has no
// health endpoints.
func SetReady(ctx context.Context, app *App, key string) {
	app.MarkReady(ctx, key)
}

// App options

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithErrorHandler sets a custom error handler for handler errors.
// Called when a handler returns a non-nil error.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
//
// Example:
//
//	readiness.WithLogger("api", middlewares.RequestIDExtractor())
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom slog.Logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithSettings replaces the default in-memory settings store.
func WithSettings(s Settings) Option {
	return internal.WithSettings(s)
}

// WithHealth enables the liveness and readiness endpoints.
// It panics during New if cfg is invalid.
//
// Example:
//
//	readiness.WithHealth(health.Config{ReturnBody: true},
//	    readiness.WithReadinessKeys("mongoose"),
//	    readiness.WithReadinessCheck(readiness.SettingPresent("mongooseClient")),
//	)
func WithHealth(cfg health.Config, opts ...HealthOption) Option {
	return internal.WithHealth(cfg, opts...)
}

// WithMetrics serves Prometheus metrics at /metrics.
// A nil registry creates a new one.
func WithMetrics(registry *prometheus.Registry, namespace string) Option {
	return internal.WithMetrics(registry, namespace)
}

// Health options

// WithReadinessKeys establishes readiness keys, all not ready, at startup.
func WithReadinessKeys(keys ...string) HealthOption {
	return internal.WithReadinessKeys(keys...)
}

// WithReadinessCheck appends custom readiness checks.
func WithReadinessCheck(checks ...health.Checker) HealthOption {
	return internal.WithReadinessCheck(checks...)
}

// WithRegistryStore keeps the readiness registry in store instead of the app settings.
func WithRegistryStore(store health.Store) HealthOption {
	return internal.WithRegistryStore(store)
}

// SettingPresent returns a check that passes once key is set in the app settings.
func SettingPresent(key string) health.Checker {
	return internal.SettingPresent(key)
}

// Run options

// Logger sets the server logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the graceful shutdown timeout. Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function run before requests are served.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function run during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context; cancelling it stops the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors

// DefaultErrorHandler renders errors as JSON.
func DefaultErrorHandler(c Context, err error) error {
	return internal.DefaultErrorHandler(c, err)
}

// NewHTTPError creates an HTTPError for the status code.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// ErrBadRequest creates a 400 HTTPError.
func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

// ErrNotFound creates a 404 HTTPError.
func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

// ErrInternal creates a 500 HTTPError.
func ErrInternal(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrInternal(message, opts...)
}

// WithData attaches a data payload to an HTTPError.
func WithData(data any) HTTPErrorOption {
	return internal.WithData(data)
}

// WithError attaches an underlying cause to an HTTPError.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}
