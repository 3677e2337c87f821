package handler

// HandlerFunc processes a dispatched request. It may return a *Response for
// full control over status and headers, or any JSON-marshalable value which
// the dispatcher wraps into a 200 response. Returned errors are converted
// into 500 responses at the dispatch boundary.
type HandlerFunc func(r *Request) (any, error)

// TerminalHandler produces the final response at the innermost position of a
// middleware chain. The dispatcher builds one per request by binding the
// matched route handler together with response normalization.
type TerminalHandler func(r *Request) (*Response, error)

// Next advances the middleware chain to the next middleware, or to the
// terminal handler when the chain is exhausted.
type Next func() (*Response, error)

// Middleware wraps request processing with cross-cutting behavior. Returning
// without calling next short-circuits the chain.
type Middleware func(r *Request, ctx *Context, next Next) (*Response, error)
