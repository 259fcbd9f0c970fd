// Package health provides liveness and readiness probes backed by named readiness flags.
//
// A [Tracker] stores a fixed set of boolean flags (the [Registry]) in a [Store]
// and aggregates them with ordered custom [Checker] predicates into a single
// readiness decision. Subsystems flip their flag with [Tracker.MarkReady] once
// they finish initializing; probes poll the result over HTTP.
//
// # Endpoints
//
//	GET /health/alive   204, always
//	GET /health/ready   200 + body or 204 when ready, 400 otherwise
//
// Paths are configurable through [Config].
//
// # Quick Start
//
//	settings := settings.NewMemory()
//	settings.Set("readiness", health.Registry{"postgres": false, "redis": false})
//
//	tracker, err := health.New(health.NewSettingsStore(settings), health.Config{
//	    ReturnBody: true,
//	    Checks: []health.Checker{
//	        health.FromErrorCheck(redis.Healthcheck(client)),
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//
//	r := chi.NewRouter()
//	tracker.Routes(r)
//
//	// later, once the pool is up
//	tracker.MarkReady(ctx, "postgres")
//
// # Readiness Decision
//
// [Tracker.Evaluate] loads the registry and runs the checks in order, stopping
// at the first failing one. The outcome is:
//
//   - registry empty and CustomOnly unset: 400 "config.<key> not configured"
//   - any flag false or any check false: 400 "Application is not ready"
//   - otherwise: ready
//
// With CustomOnly the registry is ignored entirely, including the
// not-configured case.
//
// # Response Body
//
// With ReturnBody the response carries the flags and, when checks are
// configured, their ordered results under "custom":
//
//	{"postgres": true, "redis": true, "custom": [true]}
//
// Failures are rendered as:
//
//	{"name": "BadRequest", "message": "Application is not ready", "code": 400,
//	 "className": "bad-request", "data": {"postgres": false}}
//
// # Unknown Keys
//
// MarkReady with a key that is not in the registry does nothing. The key set is
// owned by the host; use [Tracker.Mark] to learn whether a key was recognized.
//
// # Error Handling
//
// The package defines sentinel errors:
//
//   - [ErrNotConfigured] - registry has no keys
//   - [ErrNotReady] - a flag or check is not satisfied
//   - [ErrInvalidConfig] - New received an invalid configuration
package health
