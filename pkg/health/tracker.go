package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/dmitrymomot/readiness/pkg/logger"
)

// Tracker owns readiness flag transitions and the readiness decision.
// It is safe for concurrent use.
type Tracker struct {
	store   Store
	logger  *slog.Logger
	metrics *Metrics
	cfg     Config
	mu      sync.Mutex
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger for store failures and ignored keys.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMetrics enables probe and flag metrics.
func WithMetrics(m *Metrics) Option {
	return func(t *Tracker) {
		t.metrics = m
	}
}

// New creates a Tracker over store.
// Empty config fields are defaulted, then the config is validated.
// The store is not read here: the registry is looked up on every call.
func New(store Store, cfg Config, opts ...Option) (*Tracker, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store is nil", ErrInvalidConfig)
	}

	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}

	t := &Tracker{
		store:  store,
		cfg:    cfg,
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Config returns the effective configuration.
func (t *Tracker) Config() Config {
	return t.cfg
}

// MarkReady sets key to ready if it is a registered readiness key.
// Unknown keys are ignored: the key set is fixed by the host and never grows here.
// Store failures are logged.
func (t *Tracker) MarkReady(ctx context.Context, key string) {
	known, err := t.Mark(ctx, key)
	if err != nil {
		t.logger.ErrorContext(ctx, "failed to mark readiness key",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return
	}
	if !known {
		t.logger.DebugContext(ctx, "ignoring unknown readiness key",
			slog.String("key", key),
			slog.String("registry", t.cfg.RegistryKey),
		)
	}
}

// Mark performs the MarkReady transition and reports whether key was known.
func (t *Tracker) Mark(ctx context.Context, key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	reg, err := t.store.Load(ctx, t.cfg.RegistryKey)
	if err != nil {
		return false, err
	}
	if _, ok := reg[key]; !ok {
		return false, nil
	}

	reg[key] = true
	if err := t.store.Save(ctx, t.cfg.RegistryKey, reg); err != nil {
		return true, err
	}
	t.metrics.observeRegistry(reg)
	return true, nil
}

// Register establishes readiness keys with a false value.
// Keys that already exist keep their current value.
func (t *Tracker) Register(ctx context.Context, keys ...string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	reg, err := t.store.Load(ctx, t.cfg.RegistryKey)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if _, ok := reg[k]; !ok {
			reg[k] = false
		}
	}
	if err := t.store.Save(ctx, t.cfg.RegistryKey, reg); err != nil {
		return err
	}
	t.metrics.observeRegistry(reg)
	return nil
}

// Reset replaces the whole registry.
func (t *Tracker) Reset(ctx context.Context, r Registry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Save(ctx, t.cfg.RegistryKey, r.Clone()); err != nil {
		return err
	}
	t.metrics.observeRegistry(r)
	return nil
}

// Registry returns a snapshot of the current registry.
func (t *Tracker) Registry(ctx context.Context) (Registry, error) {
	reg, err := t.store.Load(ctx, t.cfg.RegistryKey)
	if err != nil {
		return nil, err
	}
	return reg.Clone(), nil
}

// Evaluate runs the readiness decision.
// It returns the response body when ready, or an *Error when the registry is
// not configured or any flag or check is not satisfied.
func (t *Tracker) Evaluate(ctx context.Context) (Data, error) {
	// CustomOnly ignores the registry, so the store is not consulted.
	var reg Registry
	if !t.cfg.CustomOnly {
		var err error
		reg, err = t.store.Load(ctx, t.cfg.RegistryKey)
		if err != nil {
			t.logger.WarnContext(ctx, "failed to load readiness registry",
				slog.String("registry", t.cfg.RegistryKey),
				slog.String("error", err.Error()),
			)
			t.metrics.observeProbe(probeReadiness, resultNotReady)
			return nil, newBadRequest(errors.Join(ErrNotReady, err), msgNotReady, Data{})
		}
		t.metrics.observeRegistry(reg)
	}

	isReady := t.cfg.CustomOnly || reg.AllReady()

	// Checks stop at the first failure; its result is still reported.
	results := make([]bool, 0, len(t.cfg.Checks))
	checksReady := true
	for _, c := range t.cfg.Checks {
		ok := c.Check(ctx)
		results = append(results, ok)
		if !ok {
			checksReady = false
			break
		}
	}

	data := Data{}
	if t.cfg.ReturnBody {
		if !t.cfg.CustomOnly {
			for k, v := range reg {
				data[k] = v
			}
		}
		if len(results) > 0 {
			data[customField] = results
		}
	}

	if len(reg) == 0 && !t.cfg.CustomOnly {
		t.metrics.observeProbe(probeReadiness, resultNotConfigured)
		return nil, newBadRequest(ErrNotConfigured,
			fmt.Sprintf("config.%s not configured", t.cfg.RegistryKey), data)
	}

	if !isReady || !checksReady {
		t.metrics.observeProbe(probeReadiness, resultNotReady)
		return nil, newBadRequest(ErrNotReady, msgNotReady, data)
	}

	t.metrics.observeProbe(probeReadiness, resultOK)
	return data, nil
}

// ReadyStatus is the status code of a successful readiness response.
func (t *Tracker) ReadyStatus() int {
	if t.cfg.ReturnBody {
		return http.StatusOK
	}
	return http.StatusNoContent
}

// ObserveLiveness records a served liveness probe.
func (t *Tracker) ObserveLiveness() {
	t.metrics.observeProbe(probeLiveness, resultOK)
}

// SetReady marks key ready on t. It is equivalent to t.MarkReady(ctx, key).
func SetReady(ctx context.Context, t *Tracker, key string) {
	t.MarkReady(ctx, key)
}
