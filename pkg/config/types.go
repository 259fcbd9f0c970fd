package config

import (
	"time"

	"github.com/dmitrymomot/readiness/pkg/db"
	"github.com/dmitrymomot/readiness/pkg/health"
	"github.com/dmitrymomot/readiness/pkg/logger"
)

// Config is the root configuration of the readinessd daemon.
type Config struct {
	Server    ServerConfig        `koanf:"server"`
	Log       logger.Config       `koanf:"log"`
	Sentry    logger.SentryConfig `koanf:"sentry"`
	Redis     RedisConfig         `koanf:"redis"`
	Postgres  db.Config           `koanf:"postgres"`
	Health    HealthConfig        `koanf:"health"`
	Readiness ReadinessConfig     `koanf:"readiness"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Address         string        `koanf:"address" validate:"required"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	// MetricsNamespace enables /metrics when non-empty.
	MetricsNamespace string `koanf:"metrics_namespace"`
}

// RedisConfig holds the optional Redis connection.
// An empty URL disables Redis entirely.
type RedisConfig struct {
	URL string `koanf:"url" validate:"omitempty,url"`
	// Registry keeps the readiness registry in Redis instead of process memory.
	Registry  bool          `koanf:"registry"`
	KeyPrefix string        `koanf:"key_prefix"`
	TTL       time.Duration `koanf:"ttl" validate:"gte=0"`
}

// HealthConfig mirrors health.Config for file, env and flag loading.
type HealthConfig struct {
	RegistryKey string `koanf:"registry_key" validate:"required"`
	AliveURL    string `koanf:"alive_url" validate:"required,startswith=/"`
	ReadyURL    string `koanf:"ready_url" validate:"required,startswith=/"`
	ReturnBody  bool   `koanf:"return_body"`
	CustomOnly  bool   `koanf:"custom_only"`
}

// HealthConfig converts to the health package configuration.
func (c HealthConfig) HealthConfig() health.Config {
	return health.Config{
		RegistryKey: c.RegistryKey,
		AliveURL:    c.AliveURL,
		ReadyURL:    c.ReadyURL,
		ReturnBody:  c.ReturnBody,
		CustomOnly:  c.CustomOnly,
	}
}

// ReadinessConfig lists the readiness keys registered at startup.
type ReadinessConfig struct {
	Keys []string `koanf:"keys" validate:"dive,required"`
}
