package handler

import "net/http"

// Response is the value a handler produces before envelope serialization.
// Body is serialized to a JSON string in the reply envelope unless it is
// already a string (passed through) or nil (null body).
type Response struct {
	Body    any
	Status  int
	Headers map[string]string
}

// ResponseOption customizes a response at construction time.
type ResponseOption func(*Response)

// NewResponse creates a 200 response with the given body. When no headers
// were supplied through options, a Content-Type: application/json header is
// applied exactly once here; caller-provided headers are kept verbatim and
// never merged with defaults.
func NewResponse(body any, opts ...ResponseOption) *Response {
	resp := &Response{
		Body:   body,
		Status: http.StatusOK,
	}
	for _, opt := range opts {
		opt(resp)
	}
	if resp.Headers == nil {
		resp.Headers = map[string]string{"Content-Type": "application/json"}
	}
	return resp
}

// WithStatus sets the response status code.
func WithStatus(status int) ResponseOption {
	return func(r *Response) {
		r.Status = status
	}
}

// WithHeaders replaces the response headers with the given map. Passing a
// non-nil map, even an empty one, suppresses the default Content-Type header.
func WithHeaders(headers map[string]string) ResponseOption {
	return func(r *Response) {
		if headers != nil {
			r.Headers = headers
		}
	}
}

// WithHeader sets a single response header, suppressing the default headers.
func WithHeader(key, value string) ResponseOption {
	return func(r *Response) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}
