// Package binder populates typed structs from a dispatched request: the
// parsed JSON body, query parameters, and path parameters, with validation
// on top.
//
// Handlers that want typed input instead of map lookups bind once at the
// top:
//
//	type createDocument struct {
//		Title        string   `json:"title" validate:"required"`
//		Jurisdiction string   `json:"jurisdiction" validate:"required,oneof=global us eu uk apac"`
//		Keywords     []string `json:"keywords"`
//		Page         int      `query:"page"`
//		ID           string   `path:"id"`
//	}
//
//	func create(r *handler.Request) (any, error) {
//		var in createDocument
//		if err := binder.Bind(r, &in); err != nil {
//			return handler.NewResponse(
//				map[string]any{"error": err.Error()},
//				handler.WithStatus(http.StatusBadRequest),
//			), nil
//		}
//		// ...
//	}
//
// Bind runs the JSON stage only when the request has a body, then query and
// path stages, then validator tags. Each stage is also available separately
// as JSON(), Query(), and Path() for handlers that want a subset.
//
// JSON binding is strict: unknown body fields are rejected so client typos
// surface as 400s instead of silently dropped data. Query and path values
// convert to strings, numbers, booleans, and slices (comma-separated);
// missing parameters leave the field at its zero value.
//
// All failures wrap one of the package's sentinel errors, so callers can
// classify with errors.Is.
package binder
