package api

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/lambdakit/lambdakit/core/event"
	"github.com/lambdakit/lambdakit/core/handler"
	"github.com/lambdakit/lambdakit/core/router"
	"github.com/lambdakit/lambdakit/core/view"
)

// DirectHandler handles non-HTTP invocations: scheduled events, queue
// messages, manual test invokes. It receives the raw envelope and returns
// the reply envelope verbatim.
type DirectHandler func(ctx context.Context, envelope map[string]any) (map[string]any, error)

// API is the dispatch façade. It owns the route table, the middleware chain,
// the lifecycle event emitter, and the adapters that translate between event
// envelopes and the request/response model.
//
// Construct with New, register routes and middleware during init, then expose
// one of the entrypoints (Handler, ProxyHandler, ServeHTTP). All registration
// methods panic on misuse; a broken route table should fail the deploy, not
// an invocation.
type API struct {
	router  *router.Router
	chain   *handler.Chain
	emitter *event.Emitter
	logger  *slog.Logger
	direct  DirectHandler

	prefix     string
	freezeOnce sync.Once
}

// Option configures an API during construction.
type Option func(*API)

// WithPrefix prepends a static prefix to every registered route template.
// Ignored when WithRouter supplies a prebuilt router.
func WithPrefix(prefix string) Option {
	return func(a *API) { a.prefix = prefix }
}

// WithRouter installs a prebuilt route table. The API freezes it on first
// invocation like its own.
func WithRouter(r *router.Router) Option {
	return func(a *API) { a.router = r }
}

// WithLogger sets the logger used for dispatch and boundary logging.
// Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *API) {
		if log != nil {
			a.logger = log
		}
	}
}

// WithDirectHandler overrides the reply for non-HTTP invocations.
func WithDirectHandler(fn DirectHandler) Option {
	return func(a *API) { a.direct = fn }
}

// New creates an empty API ready for registration.
func New(opts ...Option) *API {
	a := &API{
		chain:   handler.NewChain(),
		emitter: event.NewEmitter(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.router == nil {
		a.router = router.New(router.WithPrefix(a.prefix))
	}
	return a
}

// Route registers fn for template under the given methods (GET when none).
// Panics on an invalid template, a nil handler, or a frozen table.
func (a *API) Route(template string, fn handler.HandlerFunc, methods ...handler.Method) *API {
	a.router.Route(template, fn, methods...)
	return a
}

// Get registers a GET route.
func (a *API) Get(template string, fn handler.HandlerFunc) *API {
	return a.Route(template, fn, handler.MethodGet)
}

// Post registers a POST route.
func (a *API) Post(template string, fn handler.HandlerFunc) *API {
	return a.Route(template, fn, handler.MethodPost)
}

// Put registers a PUT route.
func (a *API) Put(template string, fn handler.HandlerFunc) *API {
	return a.Route(template, fn, handler.MethodPut)
}

// Delete registers a DELETE route.
func (a *API) Delete(template string, fn handler.HandlerFunc) *API {
	return a.Route(template, fn, handler.MethodDelete)
}

// Patch registers a PATCH route.
func (a *API) Patch(template string, fn handler.HandlerFunc) *API {
	return a.Route(template, fn, handler.MethodPatch)
}

// Use appends middleware to the chain. Middleware runs in registration order
// around every matched handler.
func (a *API) Use(mw ...handler.Middleware) *API {
	a.chain.Use(mw...)
	return a
}

// On subscribes fn to a lifecycle event type.
func (a *API) On(t event.Type, fn event.HandlerFunc) *API {
	a.emitter.On(t, fn)
	return a
}

// RegisterView mounts a view at its own path for all methods it declares.
// Undeclared methods get the router's regular 405 handling; declared but
// unimplemented methods are answered with a 405 carrying an Allow header.
func (a *API) RegisterView(v view.View) *API {
	a.router.Route(v.Path(), view.AsHandler(v), v.Methods()...)
	return a
}

// RegisterResource mounts a view like RegisterView, but a declared and
// unimplemented method surfaces as a *view.NotImplementedError and reaches
// the error boundary as a 500.
func (a *API) RegisterResource(v view.View) *API {
	a.router.Route(v.Path(), view.AsResourceHandler(v), v.Methods()...)
	return a
}

// Router exposes the route table for introspection.
func (a *API) Router() *router.Router {
	return a.router
}
