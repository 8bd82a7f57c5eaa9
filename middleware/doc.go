// Package middleware provides request middleware for the dispatch pipeline.
//
// Middleware follows the standard wrapping pattern: each middleware receives
// the next handler in the chain and may act before and after calling it. The
// pipeline runs between the transport and the dispatcher, so every request
// line passes through it regardless of method.
//
// # Basic Usage
//
// Compose middleware with Chain:
//
//	chain := middleware.Chain(
//	    middleware.Recover(),
//	    middleware.RequestID(),
//	    middleware.Logging(logger),
//	)
//	handler := chain(baseHandler)
//
// # Available Middleware
//
//   - Recover: catches panics and converts them to internal errors
//   - RequestID: injects unique request IDs into the context
//   - Timeout: enforces per-request deadlines
//   - Logging: logs request method, outcome and timing
//   - SizeLimit: rejects oversized request parameters
//   - RateLimit: token-bucket request throttling
//   - Auth: pluggable authentication (API key, bearer token, JWT)
//   - Cache: LRU caching for catalog methods
//   - OTel: OpenTelemetry tracing and metrics
//   - Metrics: Prometheus request counters and latency histograms
//
// # Default Stacks
//
//	// Recover + RequestID + Logging
//	stack := middleware.DefaultStack(logger)
//
//	// Recover + RequestID + Timeout + Logging
//	stack := middleware.DefaultStackWithTimeout(logger, 30*time.Second)
//
// # Custom Middleware
//
//	func Tag(value string) middleware.Middleware {
//	    return func(next middleware.HandlerFunc) middleware.HandlerFunc {
//	        return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
//	            // pre-processing here
//	            return next(ctx, req)
//	        }
//	    }
//	}
package middleware
