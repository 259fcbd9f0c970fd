package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/readiness"
	"github.com/dmitrymomot/readiness/middlewares"
	"github.com/dmitrymomot/readiness/pkg/config"
	"github.com/dmitrymomot/readiness/pkg/db"
	"github.com/dmitrymomot/readiness/pkg/health"
	"github.com/dmitrymomot/readiness/pkg/logger"
	"github.com/dmitrymomot/readiness/pkg/redis"
)

// Readiness keys owned by the daemon's own connections.
const (
	redisKey    = "redis"
	postgresKey = "postgres"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the probe server",
		Long: `Start the probe server.

Configuration is merged from defaults, the --config file, READINESS_*
environment variables and flags, in that order.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")

			m := config.NewManager()
			if err := m.Load(config.DefaultSources(path, cmd.Flags())...); err != nil {
				return err
			}
			cfg := m.Get()

			log := logger.NewWithSentry(cfg.Log, cfg.Sentry, middlewares.RequestIDExtractor())

			app, runOpts, err := build(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			return app.Run(cfg.Server.Address, runOpts...)
		},
	}

	config.BindFlags(cmd.Flags())
	return cmd
}

// build wires the app and its run options from cfg.
func build(ctx context.Context, cfg config.Config, log *slog.Logger) (*readiness.App, []readiness.RunOption, error) {
	keys := slices.Clone(cfg.Readiness.Keys)
	var (
		healthOpts []readiness.HealthOption
		runOpts    = []readiness.RunOption{
			readiness.Logger(log),
			readiness.ShutdownTimeout(cfg.Server.ShutdownTimeout),
			readiness.WithContext(ctx),
		}
	)

	var client goredis.UniversalClient
	if cfg.Redis.URL != "" {
		var err error
		client, err = redis.Open(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("redis: %w", err)
		}

		keys = append(keys, redisKey)
		healthOpts = append(healthOpts,
			readiness.WithReadinessCheck(health.FromErrorCheck(redis.Healthcheck(client))),
		)

		if cfg.Redis.Registry {
			store := redis.NewRegistryStore(client,
				redis.WithKeyPrefix(cfg.Redis.KeyPrefix),
				redis.WithTTL(cfg.Redis.TTL),
			)
			healthOpts = append(healthOpts, readiness.WithRegistryStore(store))
			runOpts = append(runOpts, readiness.ShutdownHook(store.Purge))
			log.Info("readiness registry in redis", slog.String("instance_id", store.InstanceID()))
		}
		runOpts = append(runOpts, readiness.ShutdownHook(redis.Shutdown(client)))
	}

	// Postgres connects after the listener is up, so probes report it as
	// not ready until the pool answers a ping.
	pool := &backgroundPool{}
	if cfg.Postgres.URL != "" {
		keys = append(keys, postgresKey)
		healthOpts = append(healthOpts,
			readiness.WithReadinessCheck(health.FromErrorCheck(pool.healthcheck)),
		)
		runOpts = append(runOpts, readiness.ShutdownHook(pool.shutdown))
	}
	healthOpts = append(healthOpts, readiness.WithReadinessKeys(keys...))

	appOpts := []readiness.Option{
		readiness.WithCustomLogger(log),
		readiness.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
		readiness.WithHealth(cfg.Health.HealthConfig(), healthOpts...),
	}
	if cfg.Server.MetricsNamespace != "" {
		appOpts = append(appOpts, readiness.WithMetrics(prometheus.NewRegistry(), cfg.Server.MetricsNamespace))
	}

	app := readiness.New(appOpts...)

	if client != nil {
		runOpts = append(runOpts, readiness.StartupHook(func(ctx context.Context) error {
			readiness.SetReady(ctx, app, redisKey)
			return nil
		}))
	}
	if cfg.Postgres.URL != "" {
		runOpts = append(runOpts, readiness.StartupHook(func(ctx context.Context) error {
			go func() {
				p, err := db.Open(ctx, cfg.Postgres)
				if err != nil {
					log.ErrorContext(ctx, "postgres connection failed", slog.String("error", err.Error()))
					return
				}
				if !pool.set(ctx, p) {
					log.InfoContext(ctx, "postgres connected after shutdown, pool closed")
					return
				}
				readiness.SetReady(ctx, app, postgresKey)
			}()
			return nil
		}))
	}
	if cfg.Sentry.DSN != "" {
		runOpts = append(runOpts, readiness.ShutdownHook(func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		}))
	}

	return app, runOpts, nil
}

// backgroundPool holds a pool opened after startup.
// Once shut down it refuses new pools.
type backgroundPool struct {
	pool   atomic.Pointer[pgxpool.Pool]
	mu     sync.Mutex
	closed bool
}

// set stores p, or closes it when shutdown already ran or ctx is done.
func (b *backgroundPool) set(ctx context.Context, p *pgxpool.Pool) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || ctx.Err() != nil {
		p.Close()
		return false
	}
	b.pool.Store(p)
	return true
}

func (b *backgroundPool) healthcheck(ctx context.Context) error {
	return db.Healthcheck(b.pool.Load())(ctx)
}

func (b *backgroundPool) shutdown(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	return db.Shutdown(b.pool.Swap(nil))(ctx)
}
