// Package handler defines the request processing contract for the event
// dispatch framework: the request/response value model, the per-request
// context, and the handler and middleware function types composed by the
// dispatcher.
//
// Unlike net/http-based frameworks there is no response writer. A serverless
// invocation receives a complete event envelope and must return a complete
// reply value, so handlers produce Response values and the framework
// serializes them back into the envelope shape at the very end.
//
// # Handlers
//
// A handler receives the decoded request and returns either a *Response for
// full control over status and headers, or any JSON-marshalable value which
// the dispatcher wraps into a 200 response:
//
//	func getUser(r *handler.Request) (any, error) {
//		user, err := users.Find(r.Context, r.PathParams["id"])
//		if err != nil {
//			return nil, err
//		}
//		return user, nil
//	}
//
// Returned errors never escape the dispatcher; they are converted into 500
// responses at the dispatch boundary.
//
// # Middleware
//
// Middleware wraps request processing with cross-cutting behavior. Each
// middleware receives the request, the request context, and a continuation:
//
//	func timing(r *handler.Request, ctx *handler.Context, next handler.Next) (*handler.Response, error) {
//		start := time.Now()
//		resp, err := next()
//		if resp != nil {
//			resp.Headers["X-Elapsed"] = time.Since(start).String()
//		}
//		return resp, err
//	}
//
// Returning without calling next short-circuits the chain: the terminal
// handler and all middlewares registered later never run.
//
// # Context
//
// Context carries request-scoped state and implements context.Context by
// delegating to the platform context it wraps, so it can be passed directly
// to blocking collaborators such as search clients.
package handler
