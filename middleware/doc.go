// Package middleware provides request middleware for the dispatch chain:
// request identification, structured request/response logging, and in-process
// rate limiting.
//
// Every middleware follows the same configuration pattern: a zero-config
// constructor with sensible defaults and a WithConfig variant taking a Config
// struct. All Config structs support a Skip predicate to exempt individual
// requests, e.g. health checks:
//
//	a.Use(
//		middleware.RequestID(),
//		middleware.LoggingWithConfig(middleware.LoggingConfig{
//			Logger: log,
//			Skip:   func(r *handler.Request) bool { return r.Path == "/health" },
//		}),
//		middleware.RateLimit(middleware.RateLimitConfig{RPS: 50}),
//	)
//
// Middleware runs in registration order around the matched handler; none of
// it runs for unmatched paths, which keeps 404 scans cheap.
package middleware
