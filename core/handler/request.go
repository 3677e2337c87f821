package handler

// Request is the decoded form of an HTTP-shaped event envelope. Header keys
// are kept exactly as they arrived; the framework never normalizes casing.
// Body holds the parsed JSON value (map, slice, string, number, bool), the
// raw string when the payload is not JSON, or nil when absent.
type Request struct {
	Method      Method
	Path        string
	Headers     map[string]string
	QueryParams map[string]string
	PathParams  map[string]string
	Body        any

	// RawEvent is the original envelope, untouched, for handlers that need
	// provider fields the framework does not model.
	RawEvent map[string]any

	// Context is the owning request context, set by the dispatcher. Requests
	// constructed directly in tests may leave it nil.
	Context *Context
}

// NewRequest creates a request with initialized parameter maps and no body.
func NewRequest(method Method, path string) *Request {
	return &Request{
		Method:      method,
		Path:        path,
		Headers:     make(map[string]string),
		QueryParams: make(map[string]string),
		PathParams:  make(map[string]string),
	}
}

// Param returns the first value found for name, searching path parameters,
// then query parameters, then body object fields. Returns nil when name is
// absent everywhere.
func (r *Request) Param(name string) any {
	if v, ok := r.lookupParam(name); ok {
		return v
	}
	return nil
}

// ParamDefault is Param with a fallback for absent names.
func (r *Request) ParamDefault(name string, def any) any {
	if v, ok := r.lookupParam(name); ok {
		return v
	}
	return def
}

func (r *Request) lookupParam(name string) (any, bool) {
	if v, ok := r.PathParams[name]; ok {
		return v, true
	}
	if v, ok := r.QueryParams[name]; ok {
		return v, true
	}
	if body, ok := r.Body.(map[string]any); ok {
		if v, ok := body[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Header returns the header value for the exact key, or "" when absent.
func (r *Request) Header(key string) string {
	return r.Headers[key]
}
