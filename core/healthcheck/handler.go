package healthcheck

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/lambdakit/lambdakit/core/handler"
	"github.com/lambdakit/lambdakit/core/logger"
)

// Handler creates a health endpoint handler that serves as either a liveness
// or a readiness probe depending on the provided probe functions.
//
// When no probes are supplied it acts as a liveness probe: the process
// answered, so it reports alive.
//
// When probes are supplied it acts as a readiness probe and runs each one in
// sequence. All must pass for a ready answer; the first failure is logged
// and reported as service unavailable so traffic stops being routed here.
//
// Example:
//
//	// Liveness probe, no dependencies.
//	api.Get("/health/live", healthcheck.Handler(log))
//
//	// Readiness probe with a search backend check.
//	api.Get("/health", healthcheck.Handler(log, opensearch.Healthcheck(client)))
func Handler(log *slog.Logger, probes ...func(context.Context) error) handler.HandlerFunc {
	return func(r *handler.Request) (any, error) {
		if len(probes) == 0 {
			return map[string]string{"status": "alive"}, nil
		}

		for _, probe := range probes {
			if err := probe(r.Context); err != nil {
				log.ErrorContext(r.Context, "readiness check failed", logger.Error(err))
				return handler.NewResponse(
					map[string]string{"status": "unavailable"},
					handler.WithStatus(http.StatusServiceUnavailable),
				), nil
			}
		}

		return map[string]string{"status": "ready"}, nil
	}
}
