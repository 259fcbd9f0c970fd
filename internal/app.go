package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/readiness/pkg/health"
	"github.com/dmitrymomot/readiness/pkg/logger"
	"github.com/dmitrymomot/readiness/pkg/settings"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second

	defaultMetricsPath = "/metrics"
)

// App holds routing, settings and the readiness tracker.
// App is immutable after creation - all configuration is done via New().
type App struct {
	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	settings                Settings
	logger                  *slog.Logger
	healthConfig            *healthConfig
	tracker                 *health.Tracker
	metrics                 *metricsConfig
	middlewares             []Middleware
	handlers                []Handler
}

// metricsConfig holds the Prometheus endpoint configuration.
type metricsConfig struct {
	registry  *prometheus.Registry
	path      string
	namespace string
}

// New creates a new application with the given options.
// It panics if the health configuration is invalid.
//
// Example:
//
//	app := readiness.New(
//	    readiness.WithLogger("api", middlewares.RequestIDExtractor()),
//	    readiness.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    readiness.WithHealth(health.Config{ReturnBody: true},
//	        readiness.WithReadinessKeys("postgres", "redis"),
//	    ),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:       chi.NewRouter(),
		logger:       logger.NewNope(),
		settings:     settings.NewMemory(),
		errorHandler: DefaultErrorHandler,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.healthConfig != nil {
		a.tracker = a.healthConfig.build(a)
	}

	a.setupRoutes()
	return a
}

// Router returns the underlying chi.Router.
func (a *App) Router() chi.Router {
	return a.router
}

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Settings returns the application settings store.
func (a *App) Settings() Settings {
	return a.settings
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Tracker returns the readiness tracker, or nil when health endpoints are not enabled.
func (a *App) Tracker() *health.Tracker {
	return a.tracker
}

// MarkReady marks a readiness key on the app's tracker.
// It does nothing when health endpoints are not enabled.
func (a *App) MarkReady(ctx context.Context, key string) {
	if a.tracker == nil {
		a.logger.WarnContext(ctx, "readiness key marked without health endpoints", slog.String("key", key))
		return
	}
	a.tracker.MarkReady(ctx, key)
}

// Run starts the HTTP server and blocks until shutdown.
//
// Example:
//
//	err := app.Run(":8080", readiness.Logger(log))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}

	return runServer(runtimeConfig{
		handler:         a.router,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// setupRoutes configures the router with middleware and handlers.
func (a *App) setupRoutes() {
	notFound := a.notFoundHandler
	if notFound == nil {
		notFound = func(Context) error { return ErrNotFound("Page not found") }
	}
	methodNotAllowed := a.methodNotAllowedHandler
	if methodNotAllowed == nil {
		methodNotAllowed = func(Context) error { return ErrMethodNotAllowed("Method not allowed") }
	}

	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	a.router.NotFound(a.wrapHandler(notFound))
	a.router.MethodNotAllowed(a.wrapHandler(methodNotAllowed))

	r := &routerAdapter{router: a.router, app: a}

	if a.tracker != nil {
		(&healthRoutes{tracker: a.tracker}).Routes(r)
	}

	if a.metrics != nil {
		a.router.Handle(a.metrics.path, promhttp.HandlerFor(a.metrics.registry, promhttp.HandlerOpts{}))
	}

	for _, h := range a.handlers {
		h.Routes(r)
	}
}

// wrapHandler converts a HandlerFunc to http.HandlerFunc using the app's error handler.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// handleError renders err unless the response has already started.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		a.logger.WarnContext(c, "error after response was written", slog.String("error", err.Error()))
		return
	}
	if a.errorHandler == nil {
		http.Error(c.Response(), "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if herr := a.errorHandler(c, err); herr != nil {
		a.logger.ErrorContext(c, "error handler failed", slog.String("error", herr.Error()))
	}
}
