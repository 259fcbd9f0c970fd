package health

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Default configuration values.
const (
	DefaultRegistryKey = "readiness"
	DefaultAliveURL    = "/health/alive"
	DefaultReadyURL    = "/health/ready"

	// customField is the body field holding ordered custom check results.
	customField = "custom"
)

// Registry maps a readiness key to whether that subsystem is ready.
type Registry map[string]bool

// Clone returns a copy of the registry. A nil registry clones to an empty one.
func (r Registry) Clone() Registry {
	out := make(Registry, len(r))
	maps.Copy(out, r)
	return out
}

// Keys returns the registry keys in sorted order.
func (r Registry) Keys() []string {
	return slices.Sorted(maps.Keys(r))
}

// AllReady reports whether every flag is true. An empty registry is ready.
func (r Registry) AllReady() bool {
	for _, v := range r {
		if !v {
			return false
		}
	}
	return true
}

// Data is the readiness response body.
// Registry keys map to their flag, "custom" maps to the ordered check results.
type Data map[string]any

// Checker is a readiness predicate evaluated on every readiness probe.
// Checks run inline in the request path and should return quickly.
type Checker interface {
	Check(ctx context.Context) bool
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc func(ctx context.Context) bool

// Check calls f(ctx).
func (f CheckerFunc) Check(ctx context.Context) bool {
	return f(ctx)
}

// FromErrorCheck adapts a func(context.Context) error healthcheck (as returned by
// redis.Healthcheck) to a Checker. A nil error means ready.
func FromErrorCheck(fn func(ctx context.Context) error) Checker {
	return CheckerFunc(func(ctx context.Context) bool {
		if fn == nil {
			return false
		}
		return fn(ctx) == nil
	})
}

// Config holds readiness endpoint configuration.
// Zero values are replaced by defaults in New.
type Config struct {
	// RegistryKey is the settings key the registry is stored under.
	RegistryKey string `koanf:"registry_key" yaml:"registry_key" validate:"required"`

	// AliveURL is the liveness route path.
	AliveURL string `koanf:"alive_url" yaml:"alive_url" validate:"required,startswith=/"`

	// ReadyURL is the readiness route path.
	ReadyURL string `koanf:"ready_url" yaml:"ready_url" validate:"required,startswith=/"`

	// Checks are evaluated in order alongside the registry.
	Checks []Checker `koanf:"-" yaml:"-" validate:"-"`

	// ReturnBody includes flags and custom results in responses.
	ReturnBody bool `koanf:"return_body" yaml:"return_body"`

	// CustomOnly ignores the registry and relies solely on Checks.
	CustomOnly bool `koanf:"custom_only" yaml:"custom_only"`
}

// DefaultConfig returns the configuration used when no overrides are given.
func DefaultConfig() Config {
	return Config{
		RegistryKey: DefaultRegistryKey,
		AliveURL:    DefaultAliveURL,
		ReadyURL:    DefaultReadyURL,
	}
}

// withDefaults fills empty string fields with defaults.
func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.RegistryKey) == "" {
		c.RegistryKey = DefaultRegistryKey
	}
	if c.AliveURL == "" {
		c.AliveURL = DefaultAliveURL
	}
	if c.ReadyURL == "" {
		c.ReadyURL = DefaultReadyURL
	}
	c.Checks = slices.Clone(c.Checks)
	return c
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks the configuration after defaults are applied.
func (c Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate.Struct(c)
}
