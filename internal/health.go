package internal

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/readiness/pkg/health"
)

// healthConfig holds health endpoint configuration collected from options.
type healthConfig struct {
	store  health.Store
	keys   []string
	checks []health.Checker
	cfg    health.Config
}

// HealthOption configures health endpoints.
type HealthOption func(*healthConfig)

// WithRegistryStore keeps the readiness registry in store instead of the app settings.
func WithRegistryStore(store health.Store) HealthOption {
	return func(c *healthConfig) {
		if store != nil {
			c.store = store
		}
	}
}

// WithReadinessKeys establishes readiness keys (all not ready) at startup.
// Only these keys can later be marked ready.
func WithReadinessKeys(keys ...string) HealthOption {
	return func(c *healthConfig) {
		c.keys = append(c.keys, keys...)
	}
}

// WithReadinessCheck appends custom checks, evaluated after any checks in the config.
//
// Example:
//
//	readiness.WithReadinessCheck(health.FromErrorCheck(redis.Healthcheck(client)))
func WithReadinessCheck(checks ...health.Checker) HealthOption {
	return func(c *healthConfig) {
		c.checks = append(c.checks, checks...)
	}
}

// build creates the tracker. It panics on an invalid configuration.
func (hc *healthConfig) build(a *App) *health.Tracker {
	cfg := hc.cfg
	cfg.Checks = append(append([]health.Checker(nil), cfg.Checks...), hc.checks...)

	store := hc.store
	if store == nil {
		store = health.NewSettingsStore(a.settings)
	}

	opts := []health.Option{health.WithLogger(a.logger.With(slog.String("component", "health")))}
	if a.metrics != nil {
		m := health.NewMetrics(a.metrics.namespace)
		m.MustRegister(a.metrics.registry)
		opts = append(opts, health.WithMetrics(m))
	}

	tracker, err := health.New(store, cfg, opts...)
	if err != nil {
		panic(fmt.Sprintf("readiness: health endpoints: %v", err))
	}

	if len(hc.keys) > 0 {
		if err := tracker.Register(context.Background(), hc.keys...); err != nil {
			a.logger.Error("failed to register readiness keys",
				slog.Any("keys", hc.keys),
				slog.String("error", err.Error()),
			)
		}
	}
	return tracker
}

// healthRoutes serves liveness and readiness through the app's error handling.
type healthRoutes struct {
	tracker *health.Tracker
}

func (h *healthRoutes) Routes(r Router) {
	cfg := h.tracker.Config()
	r.GET(cfg.AliveURL, h.alive)
	r.GET(cfg.ReadyURL, h.ready)
}

func (h *healthRoutes) alive(c Context) error {
	h.tracker.ObserveLiveness()
	return c.NoContent(http.StatusNoContent)
}

// ready returns *health.Error to the error handler when not ready.
func (h *healthRoutes) ready(c Context) error {
	data, err := h.tracker.Evaluate(c)
	if err != nil {
		return err
	}
	if h.tracker.ReadyStatus() == http.StatusNoContent {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, data)
}

// SettingPresent returns a check that passes when key is set in the app
// settings to anything other than nil or false. The check must run inside a
// request handled by an App.
func SettingPresent(key string) health.Checker {
	return health.CheckerFunc(func(ctx context.Context) bool {
		c, ok := ctx.(interface{ Settings() Settings })
		if !ok || c.Settings() == nil {
			return false
		}
		v, ok := c.Settings().Get(key)
		if !ok || v == nil {
			return false
		}
		if b, isBool := v.(bool); isBool {
			return b
		}
		return true
	})
}
