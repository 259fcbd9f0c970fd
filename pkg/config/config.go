package config

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/dmitrymomot/readiness/pkg/db"
	"github.com/dmitrymomot/readiness/pkg/health"
	"github.com/dmitrymomot/readiness/pkg/logger"
)

// ErrInvalid is returned when the merged configuration fails validation.
var ErrInvalid = errors.New("config: invalid configuration")

var validate = validator.New()

// Manager loads and holds the daemon configuration.
type Manager struct {
	current Config
	mu      sync.RWMutex
}

// NewManager creates a Manager holding DefaultConfig.
func NewManager() *Manager {
	return &Manager{current: DefaultConfig()}
}

// DefaultConfig returns the hardcoded baseline configuration.
func DefaultConfig() Config {
	hc := health.DefaultConfig()
	return Config{
		Server: ServerConfig{
			Address:         ":8080",
			ShutdownTimeout: 30 * time.Second,
		},
		Log: logger.Config{
			Level:  "info",
			Format: "json",
		},
		Redis: RedisConfig{
			KeyPrefix: "readiness",
		},
		Postgres: db.DefaultConfig(),
		Health: HealthConfig{
			RegistryKey: hc.RegistryKey,
			AliveURL:    hc.AliveURL,
			ReadyURL:    hc.ReadyURL,
		},
	}
}

// Load merges sources in order, unmarshals and validates the result.
// The held configuration is replaced only on success.
func (m *Manager) Load(sources ...Source) error {
	k := koanf.New(".")
	for _, src := range sources {
		if err := src.Load(k); err != nil {
			return fmt.Errorf("source %s: %w", src.Name(), err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return errors.Join(ErrInvalid, err)
	}

	m.mu.Lock()
	m.current = cfg
	m.mu.Unlock()
	return nil
}

// Get returns a copy of the current configuration.
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg := m.current
	cfg.Readiness.Keys = append([]string(nil), m.current.Readiness.Keys...)
	return cfg
}

// DefaultConfigAsMap flattens DefaultConfig for the confmap provider.
func DefaultConfigAsMap() map[string]any {
	def := DefaultConfig()
	return map[string]any{
		"server.address":           def.Server.Address,
		"server.shutdown_timeout":  def.Server.ShutdownTimeout.String(),
		"server.metrics_namespace": def.Server.MetricsNamespace,

		"log.level":  def.Log.Level,
		"log.format": def.Log.Format,

		"sentry.dsn":         def.Sentry.DSN,
		"sentry.environment": def.Sentry.Environment,

		"redis.url":        def.Redis.URL,
		"redis.registry":   def.Redis.Registry,
		"redis.key_prefix": def.Redis.KeyPrefix,
		"redis.ttl":        def.Redis.TTL.String(),

		"postgres.url":                 def.Postgres.URL,
		"postgres.health_check_period": def.Postgres.HealthCheckPeriod.String(),
		"postgres.max_conn_idle_time":  def.Postgres.MaxConnIdleTime.String(),
		"postgres.max_conn_lifetime":   def.Postgres.MaxConnLifetime.String(),
		"postgres.retry_attempts":      def.Postgres.RetryAttempts,
		"postgres.retry_interval":      def.Postgres.RetryInterval.String(),
		"postgres.max_conns":           def.Postgres.MaxConns,
		"postgres.min_conns":           def.Postgres.MinConns,

		"health.registry_key": def.Health.RegistryKey,
		"health.alive_url":    def.Health.AliveURL,
		"health.ready_url":    def.Health.ReadyURL,
		"health.return_body":  def.Health.ReturnBody,
		"health.custom_only":  def.Health.CustomOnly,

		"readiness.keys": []string{},
	}
}

// BindFlags defines flags for the most commonly overridden settings.
// Flag names are koanf keys so FlagSource can map them directly.
func BindFlags(flags *pflag.FlagSet) {
	def := DefaultConfig()

	flags.String("server.address", def.Server.Address, "HTTP listen address")
	flags.String("server.metrics_namespace", def.Server.MetricsNamespace, "Prometheus namespace; enables /metrics when set")
	flags.String("log.level", def.Log.Level, "Log level (debug, info, warn, error)")
	flags.String("log.format", def.Log.Format, "Log format (json, text)")
	flags.String("redis.url", def.Redis.URL, "Redis URL; empty disables Redis")
	flags.String("postgres.url", def.Postgres.URL, "PostgreSQL URL; empty disables the postgres readiness key")
	flags.Bool("redis.registry", def.Redis.Registry, "Keep the readiness registry in Redis")
	flags.String("health.registry_key", def.Health.RegistryKey, "Settings key holding the readiness registry")
	flags.String("health.alive_url", def.Health.AliveURL, "Liveness endpoint path")
	flags.String("health.ready_url", def.Health.ReadyURL, "Readiness endpoint path")
	flags.Bool("health.return_body", def.Health.ReturnBody, "Return the readiness registry in ready responses")
	flags.Bool("health.custom_only", def.Health.CustomOnly, "Decide readiness by custom checks only")
	flags.StringSlice("readiness.keys", nil, "Readiness keys registered at startup")
}
