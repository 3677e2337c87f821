package middleware

import (
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"

	"github.com/lambdakit/lambdakit/core/handler"
)

// requestIDStoreKey addresses the request ID in the context store.
const requestIDStoreKey = "middleware.request_id"

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip exempts matching requests.
	Skip func(r *handler.Request) bool
	// Generator creates new request IDs. Default: UUID v4.
	Generator func() string
	// HeaderName carries the ID on requests and responses. Default:
	// "X-Request-ID".
	HeaderName string
	// UseExisting adopts an incoming ID from HeaderName instead of generating
	// a new one.
	UseExisting bool
	// UseLambdaRequestID adopts the AWS request ID of the current invocation
	// when no incoming header applies, tying application logs to the platform
	// request log.
	UseLambdaRequestID bool
}

// RequestID creates a request ID middleware with default configuration: a
// fresh UUID per request, echoed on the X-Request-ID response header.
func RequestID() handler.Middleware {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig creates a request ID middleware. The ID is stored in
// the request context for handlers and subscribers (see GetRequestID) and set
// on the response header.
func RequestIDWithConfig(cfg RequestIDConfig) handler.Middleware {
	if cfg.HeaderName == "" {
		cfg.HeaderName = "X-Request-ID"
	}
	if cfg.Generator == nil {
		cfg.Generator = func() string { return uuid.New().String() }
	}

	return func(r *handler.Request, ctx *handler.Context, next handler.Next) (*handler.Response, error) {
		if cfg.Skip != nil && cfg.Skip(r) {
			return next()
		}

		var requestID string
		if cfg.UseExisting {
			requestID = r.Header(cfg.HeaderName)
		}
		if requestID == "" && cfg.UseLambdaRequestID {
			if lc, ok := lambdacontext.FromContext(ctx); ok {
				requestID = lc.AwsRequestID
			}
		}
		if requestID == "" {
			requestID = cfg.Generator()
		}

		ctx.Set(requestIDStoreKey, requestID)

		resp, err := next()
		if err != nil || resp == nil {
			return resp, err
		}

		if resp.Headers == nil {
			resp.Headers = make(map[string]string)
		}
		resp.Headers[cfg.HeaderName] = requestID
		return resp, nil
	}
}

// GetRequestID retrieves the request ID placed in the context by the
// middleware.
func GetRequestID(ctx *handler.Context) (string, bool) {
	id, ok := ctx.Get(requestIDStoreKey).(string)
	return id, ok
}
