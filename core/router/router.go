package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lambdakit/lambdakit/core/handler"
)

// Outcome classifies the result of a route lookup.
type Outcome uint8

const (
	// OutcomeFound means a handler matched both path and method.
	OutcomeFound Outcome = iota
	// OutcomeNotFound means no registered path matched.
	OutcomeNotFound
	// OutcomeMethodNotAllowed means a path matched but the method is not
	// registered for it.
	OutcomeMethodNotAllowed
)

// Match is the typed result of FindRoute. Handler and Params are populated
// for OutcomeFound; Allowed carries the methods registered for the matched
// path, in registration order, for OutcomeMethodNotAllowed.
type Match struct {
	Outcome Outcome
	Handler handler.HandlerFunc
	Params  map[string]string
	Allowed []handler.Method
}

// endpoint keeps the handlers of one path keyed by method, preserving
// registration order so method-not-allowed replies are deterministic.
type endpoint struct {
	order    []handler.Method
	handlers map[handler.Method]handler.HandlerFunc
}

func newEndpoint() *endpoint {
	return &endpoint{handlers: make(map[handler.Method]handler.HandlerFunc)}
}

func (e *endpoint) set(m handler.Method, h handler.HandlerFunc) {
	if _, exists := e.handlers[m]; !exists {
		e.order = append(e.order, m)
	}
	e.handlers[m] = h
}

func (e *endpoint) match(m handler.Method, params map[string]string) Match {
	if h, ok := e.handlers[m]; ok {
		if params == nil {
			params = make(map[string]string)
		}
		return Match{Outcome: OutcomeFound, Handler: h, Params: params}
	}
	allowed := make([]handler.Method, len(e.order))
	copy(allowed, e.order)
	return Match{Outcome: OutcomeMethodNotAllowed, Allowed: allowed}
}

// dynamicRoute pairs a compiled template with its method handlers.
type dynamicRoute struct {
	pattern  *Pattern
	endpoint *endpoint
}

// Router is the route table. Paths without placeholders live in a static map
// consulted with an exact lookup; templated paths are scanned in registration
// order, first match wins. A static path match is authoritative: a method
// miss on it never falls through to the templated routes.
//
// Build the table during setup, then call Freeze (the dispatcher does this
// before its first lookup). A frozen router is read-only and therefore safe
// for concurrent lookups without locking.
type Router struct {
	prefix  string
	static  map[string]*endpoint
	dynamic []*dynamicRoute
	frozen  bool
}

// Option configures a Router.
type Option func(*Router)

// WithPrefix prepends prefix verbatim to every registered path.
func WithPrefix(prefix string) Option {
	return func(r *Router) {
		r.prefix = prefix
	}
}

// New creates an empty route table.
func New(opts ...Option) *Router {
	r := &Router{static: make(map[string]*endpoint)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Route registers handler for path under the given methods, defaulting to GET
// when none are given. Registering the same path again merges methods into
// the existing entry; re-registering a method replaces its handler without
// changing its position in the allowed-method order.
//
// Route panics on a nil handler, an invalid template, or registration after
// Freeze: all are programmer errors that must surface at startup.
func (r *Router) Route(path string, h handler.HandlerFunc, methods ...handler.Method) {
	if r.frozen {
		panic(fmt.Sprintf("router: route %q registered after freeze", path))
	}
	if h == nil {
		panic(fmt.Sprintf("router: nil handler for route %q", path))
	}
	if len(methods) == 0 {
		methods = []handler.Method{handler.MethodGet}
	}

	ep := r.endpointFor(r.prefix + path)
	for _, m := range methods {
		ep.set(m, h)
	}
}

// Get registers handler for GET requests to path.
func (r *Router) Get(path string, h handler.HandlerFunc) {
	r.Route(path, h, handler.MethodGet)
}

// Post registers handler for POST requests to path.
func (r *Router) Post(path string, h handler.HandlerFunc) {
	r.Route(path, h, handler.MethodPost)
}

// Put registers handler for PUT requests to path.
func (r *Router) Put(path string, h handler.HandlerFunc) {
	r.Route(path, h, handler.MethodPut)
}

// Delete registers handler for DELETE requests to path.
func (r *Router) Delete(path string, h handler.HandlerFunc) {
	r.Route(path, h, handler.MethodDelete)
}

// Patch registers handler for PATCH requests to path.
func (r *Router) Patch(path string, h handler.HandlerFunc) {
	r.Route(path, h, handler.MethodPatch)
}

func (r *Router) endpointFor(path string) *endpoint {
	if !strings.ContainsAny(path, "{}") {
		ep, ok := r.static[path]
		if !ok {
			ep = newEndpoint()
			r.static[path] = ep
		}
		return ep
	}

	for _, dr := range r.dynamic {
		if dr.pattern.Template == path {
			return dr.endpoint
		}
	}

	p, err := NewPattern(path)
	if err != nil {
		panic(fmt.Sprintf("router: %v", err))
	}
	dr := &dynamicRoute{pattern: p, endpoint: newEndpoint()}
	r.dynamic = append(r.dynamic, dr)
	return dr.endpoint
}

// FindRoute looks up the handler for path and method.
func (r *Router) FindRoute(path string, method handler.Method) Match {
	if ep, ok := r.static[path]; ok {
		return ep.match(method, nil)
	}
	for _, dr := range r.dynamic {
		if params, ok := dr.pattern.Match(path); ok {
			return dr.endpoint.match(method, params)
		}
	}
	return Match{Outcome: OutcomeNotFound}
}

// Freeze makes the route table read-only. Registration afterwards panics.
func (r *Router) Freeze() {
	r.frozen = true
}

// Frozen reports whether the table has been frozen.
func (r *Router) Frozen() bool {
	return r.frozen
}

// RouteInfo describes one registered method/path pair for startup logs and
// debugging.
type RouteInfo struct {
	Method handler.Method
	Path   string
}

// Routes lists registered routes: static paths sorted lexicographically,
// then templated paths in registration order, methods in registration order.
func (r *Router) Routes() []RouteInfo {
	var infos []RouteInfo

	staticPaths := make([]string, 0, len(r.static))
	for path := range r.static {
		staticPaths = append(staticPaths, path)
	}
	sort.Strings(staticPaths)

	for _, path := range staticPaths {
		for _, m := range r.static[path].order {
			infos = append(infos, RouteInfo{Method: m, Path: path})
		}
	}
	for _, dr := range r.dynamic {
		for _, m := range dr.endpoint.order {
			infos = append(infos, RouteInfo{Method: m, Path: dr.pattern.Template})
		}
	}
	return infos
}
