// Package redis connects to Redis and keeps readiness registries in it.
//
// [Open] builds a go-redis client with pooling defaults and startup retries.
// [Healthcheck] and [Shutdown] return closures that plug into the health
// tracker's custom checks and the server's shutdown hooks.
//
// # Registry Store
//
// [RegistryStore] implements health.Store on Redis hashes so that a fleet
// dashboard can read every instance's flags. Registries stay process scoped:
// the hash key includes a per-process instance ID and is removed by
// [RegistryStore.Purge] on shutdown. [WithTTL] adds an expiry for crashed
// processes that never purge; every read and write refreshes it.
//
//	client, err := redis.Open(ctx, "redis://localhost:6379/0")
//	if err != nil {
//	    return err
//	}
//	store := redis.NewRegistryStore(client)
//
//	app := readiness.New(
//	    readiness.WithHealth(health.Config{},
//	        readiness.WithRegistryStore(store),
//	        readiness.WithReadinessCheck(health.FromErrorCheck(redis.Healthcheck(client))),
//	    ),
//	)
//
//	err = app.Run(":8080",
//	    readiness.ShutdownHook(store.Purge),
//	    readiness.ShutdownHook(redis.Shutdown(client)),
//	)
//
// Keys look like "readiness:<instance-id>:<registry-key>".
package redis
