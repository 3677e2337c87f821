package middleware

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/lambdakit/lambdakit/core/handler"
	"github.com/lambdakit/lambdakit/core/logger"
)

// LoggingConfig configures the request/response logging middleware.
type LoggingConfig struct {
	// Skip exempts matching requests.
	Skip func(r *handler.Request) bool

	// Logger receives the records. Default: slog.Default().
	Logger *slog.Logger

	// LogLevel for the request and success-response records. Default: info.
	LogLevel slog.Level

	// LogRequestBody includes the parsed body in the request record. Off by
	// default: bodies routinely carry user data.
	LogRequestBody bool

	// LogHeaders includes request headers, with SensitiveHeaders redacted.
	LogHeaders bool

	// SensitiveHeaders lists exact header keys to redact when LogHeaders is
	// on. Default: common credential headers.
	SensitiveHeaders []string

	// SlowRequestThreshold escalates responses slower than this to warning
	// level. Default: 5s.
	SlowRequestThreshold time.Duration

	// Component tags the records. Default: "dispatch".
	Component string
}

// Logging creates a logging middleware with default configuration: one record
// when a request enters the chain, one when its response is ready, error
// responses escalated to warn/error level.
func Logging() handler.Middleware {
	return LoggingWithConfig(LoggingConfig{})
}

// LoggingWithLogger creates a logging middleware writing to log.
func LoggingWithLogger(log *slog.Logger) handler.Middleware {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig creates a request/response logging middleware.
func LoggingWithConfig(cfg LoggingConfig) handler.Middleware {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = slog.LevelInfo
	}
	if cfg.SensitiveHeaders == nil {
		cfg.SensitiveHeaders = []string{
			"Authorization",
			"Cookie",
			"X-Api-Key",
			"X-Auth-Token",
		}
	}
	if cfg.SlowRequestThreshold <= 0 {
		cfg.SlowRequestThreshold = 5 * time.Second
	}
	if cfg.Component == "" {
		cfg.Component = "dispatch"
	}

	return func(r *handler.Request, ctx *handler.Context, next handler.Next) (*handler.Response, error) {
		if cfg.Skip != nil && cfg.Skip(r) {
			return next()
		}

		start := time.Now()
		requestID, _ := GetRequestID(ctx)

		attrs := []slog.Attr{
			logger.Component(cfg.Component),
			logger.Event("request"),
			logger.Method(string(r.Method)),
			logger.Path(r.Path),
			logger.RequestID(requestID),
		}
		if cfg.LogRequestBody && r.Body != nil {
			attrs = append(attrs, slog.Any("request_body", r.Body))
		}
		if cfg.LogHeaders && len(r.Headers) > 0 {
			headers := make(map[string]string, len(r.Headers))
			for key, value := range r.Headers {
				if slices.Contains(cfg.SensitiveHeaders, key) {
					value = "[REDACTED]"
				}
				headers[key] = value
			}
			attrs = append(attrs, slog.Any("request_headers", headers))
		}
		cfg.Logger.LogAttrs(ctx, cfg.LogLevel, "request started", attrs...)

		resp, err := next()
		duration := time.Since(start)

		respAttrs := []slog.Attr{
			logger.Component(cfg.Component),
			logger.Event("response"),
			logger.Method(string(r.Method)),
			logger.Path(r.Path),
			logger.Duration(duration),
			logger.RequestID(requestID),
		}

		level := cfg.LogLevel
		switch {
		case err != nil:
			// The dispatcher turns this error into a 500 reply.
			level = slog.LevelError
			respAttrs = append(respAttrs,
				logger.StatusCode(http.StatusInternalServerError),
				logger.Error(err),
			)
		case resp == nil:
			level = slog.LevelError
		case resp.Status >= 500:
			level = slog.LevelError
			respAttrs = append(respAttrs, logger.StatusCode(resp.Status))
		case resp.Status >= 400:
			level = slog.LevelWarn
			respAttrs = append(respAttrs, logger.StatusCode(resp.Status))
		default:
			respAttrs = append(respAttrs, logger.StatusCode(resp.Status))
			if duration > cfg.SlowRequestThreshold {
				level = slog.LevelWarn
				respAttrs = append(respAttrs, slog.Bool("slow_request", true))
			}
		}

		cfg.Logger.LogAttrs(ctx, level, "request completed", respAttrs...)
		return resp, err
	}
}
