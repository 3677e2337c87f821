package api

import (
	"io"
	"net/http"
)

// ServeHTTP adapts the API to net/http for local development. It folds the
// incoming request into an envelope, runs the normal invocation path, and
// writes the reply back out. Multi-valued headers and query parameters
// collapse to their first value, matching the single-valued envelope model.
func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	envelope := map[string]any{
		"httpMethod": r.Method,
		"path":       r.URL.Path,
	}

	headers := make(map[string]string, len(r.Header))
	for k := range r.Header {
		headers[k] = r.Header.Get(k)
	}
	envelope["headers"] = headers

	query := make(map[string]string)
	for k, vs := range r.URL.Query() {
		if len(vs) > 0 {
			query[k] = vs[0]
		}
	}
	envelope["queryStringParameters"] = query

	if r.Body != nil {
		if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
			envelope["body"] = string(body)
		}
	}

	reply, err := a.HandleEvent(r.Context(), envelope)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if respHeaders, ok := reply["headers"].(map[string]string); ok {
		for k, v := range respHeaders {
			w.Header().Set(k, v)
		}
	}

	status := http.StatusOK
	switch code := reply["statusCode"].(type) {
	case int:
		status = code
	case float64:
		// Direct handlers assembling replies from decoded JSON.
		status = int(code)
	}
	w.WriteHeader(status)

	if body, ok := reply["body"].(string); ok {
		_, _ = io.WriteString(w, body)
	}
}
