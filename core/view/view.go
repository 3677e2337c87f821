package view

import (
	"fmt"
	"net/http"

	"github.com/lambdakit/lambdakit/core/handler"
)

// Capability interfaces, one per verb. A view implements only the ones it
// serves; dispatch checks them with type assertions, so forgetting a method
// is caught by the compiler as soon as the verb is exercised in a test.

// Getter serves GET requests.
type Getter interface {
	Get(r *handler.Request) (any, error)
}

// Poster serves POST requests.
type Poster interface {
	Post(r *handler.Request) (any, error)
}

// Putter serves PUT requests.
type Putter interface {
	Put(r *handler.Request) (any, error)
}

// Deleter serves DELETE requests.
type Deleter interface {
	Delete(r *handler.Request) (any, error)
}

// Patcher serves PATCH requests.
type Patcher interface {
	Patch(r *handler.Request) (any, error)
}

// View declares the mount point and the served verbs of a view value.
type View interface {
	Path() string
	Methods() []handler.Method
}

// Base is an embeddable View implementation.
type Base struct {
	RoutePath    string
	RouteMethods []handler.Method
}

// NewBase creates a Base for embedding. Views declaring no methods serve GET.
func NewBase(path string, methods ...handler.Method) Base {
	return Base{RoutePath: path, RouteMethods: methods}
}

// Path returns the mount path.
func (b Base) Path() string { return b.RoutePath }

// Methods returns the declared verbs.
func (b Base) Methods() []handler.Method { return b.RouteMethods }

// NotImplementedError reports a verb routed to a resource view that does not
// implement it.
type NotImplementedError struct {
	Method handler.Method
}

func (e *NotImplementedError) Error() string {
	return fmt.Sprintf("method %s not implemented", e.Method)
}

// AsHandler adapts v into a dispatch handler. Requests for verbs the view
// does not declare or does not implement get a 405 response with an Allow
// header listing the declared methods.
func AsHandler(v View) handler.HandlerFunc {
	methods := declaredMethods(v)
	return func(r *handler.Request) (any, error) {
		if methodDeclared(methods, r.Method) {
			if res, ok, err := invoke(v, r); ok {
				return res, err
			}
		}
		return handler.NewResponse(
			map[string]any{"error": "Method not allowed"},
			handler.WithStatus(http.StatusMethodNotAllowed),
			handler.WithHeader("Allow", handler.JoinMethods(methods)),
		), nil
	}
}

// AsResourceHandler adapts v like AsHandler, but a routed verb without an
// implementation returns *NotImplementedError instead of a 405 response.
func AsResourceHandler(v View) handler.HandlerFunc {
	return func(r *handler.Request) (any, error) {
		if res, ok, err := invoke(v, r); ok {
			return res, err
		}
		return nil, &NotImplementedError{Method: r.Method}
	}
}

// invoke dispatches r to the capability matching its verb. The second result
// reports whether the view implements that capability.
func invoke(v View, r *handler.Request) (any, bool, error) {
	switch r.Method {
	case handler.MethodGet:
		if g, ok := v.(Getter); ok {
			res, err := g.Get(r)
			return res, true, err
		}
	case handler.MethodPost:
		if p, ok := v.(Poster); ok {
			res, err := p.Post(r)
			return res, true, err
		}
	case handler.MethodPut:
		if p, ok := v.(Putter); ok {
			res, err := p.Put(r)
			return res, true, err
		}
	case handler.MethodDelete:
		if d, ok := v.(Deleter); ok {
			res, err := d.Delete(r)
			return res, true, err
		}
	case handler.MethodPatch:
		if p, ok := v.(Patcher); ok {
			res, err := p.Patch(r)
			return res, true, err
		}
	}
	return nil, false, nil
}

func declaredMethods(v View) []handler.Method {
	methods := v.Methods()
	if len(methods) == 0 {
		return []handler.Method{handler.MethodGet}
	}
	return methods
}

func methodDeclared(methods []handler.Method, m handler.Method) bool {
	for _, dm := range methods {
		if dm == m {
			return true
		}
	}
	return false
}
