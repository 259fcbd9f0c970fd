// Package middlewares provides HTTP middleware for readiness applications.
//
// # Request ID
//
// RequestID assigns an ID to each request. Upstream IDs from X-Request-ID or
// X-Correlation-ID are kept; otherwise a UUID is generated.
//
// Use RequestIDExtractor with WithLogger to add request_id to every log entry:
//
//	app := readiness.New(
//	    readiness.WithLogger("api", middlewares.RequestIDExtractor()),
//	    readiness.WithMiddleware(
//	        middlewares.RequestID(),
//	    ),
//	)
//
// # Recover
//
// Recover catches panics, including ones raised by readiness checks, and
// returns a *PanicError to the app's ErrorHandler. The default handler
// renders it as a 500 GeneralError.
//
//	app := readiness.New(
//	    readiness.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	    ),
//	    readiness.WithErrorHandler(func(c readiness.Context, err error) error {
//	        if pe, ok := middlewares.AsPanicError(err); ok {
//	            c.LogError("panic", "value", pe.Value)
//	        }
//	        return readiness.DefaultErrorHandler(c, err)
//	    }),
//	)
package middlewares
