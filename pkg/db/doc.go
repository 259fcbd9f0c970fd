// Package db opens PostgreSQL pools for readiness-tracked services.
//
// It wraps [github.com/jackc/pgx/v5/pgxpool] with startup retries, a ping
// based health check and a shutdown hook.
//
// # Usage
//
//	pool, err := db.Open(ctx, db.Config{URL: "postgres://app@localhost/app"})
//	if err != nil {
//	    return err
//	}
//
//	app := readiness.New(
//	    readiness.WithHealth(health.Config{},
//	        readiness.WithReadinessKeys("postgres"),
//	        readiness.WithReadinessCheck(health.FromErrorCheck(db.Healthcheck(pool))),
//	    ),
//	)
//	readiness.SetReady(ctx, app, "postgres")
//
// # Retries
//
// Open tries RetryAttempts times (at least once). Before attempt n it waits
// (n-1)*RetryInterval. Context cancellation aborts the wait.
package db
