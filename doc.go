// Package readiness provides an HTTP application shell with liveness and
// readiness endpoints driven by named readiness flags.
//
// Subsystems of the host (database pools, caches, brokers) each own a flag in
// the readiness registry. The flags start out false and are flipped with
// [SetReady] once the subsystem is initialized. Orchestrators poll the
// endpoints to decide when to route traffic and when to restart.
//
// # Quick Start
//
//	app := readiness.New(
//	    readiness.WithLogger("api", middlewares.RequestIDExtractor()),
//	    readiness.WithMiddleware(middlewares.RequestID(), middlewares.Recover()),
//	    readiness.WithHealth(health.Config{ReturnBody: true},
//	        readiness.WithReadinessKeys("mongoose"),
//	        readiness.WithReadinessCheck(readiness.SettingPresent("mongooseClient")),
//	    ),
//	)
//
//	err := app.Run(":8080",
//	    readiness.StartupHook(func(ctx context.Context) error {
//	        client, err := connect(ctx)
//	        if err != nil {
//	            return err
//	        }
//	        app.Settings().Set("mongooseClient", client)
//	        readiness.SetReady(ctx, app, "mongoose")
//	        return nil
//	    }),
//	)
//
// # Endpoints
//
//	GET /health/alive   204 while the process runs
//	GET /health/ready   204 (or 200 with a body) when ready, 400 otherwise
//
// Not-ready responses go through the app's [ErrorHandler]. The default one
// renders them as
//
//	{"name":"BadRequest","message":"Application is not ready","code":400,
//	 "className":"bad-request","data":{"mongoose":false}}
//
// # Registry Storage
//
// By default the registry lives in the app [Settings] under the key
// "readiness" (configurable with health.Config.RegistryKey), so the host can
// seed or reset it directly. [WithRegistryStore] moves it elsewhere, for
// example into Redis with redis.RegistryStore.
//
// # Metrics
//
// [WithMetrics] serves Prometheus metrics at /metrics, including probe counts
// and the current value of every readiness flag.
package readiness
