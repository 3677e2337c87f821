// Package router maps request paths and methods to handlers for the event
// dispatch framework.
//
// Routes are registered against path templates. A template is split into
// segments; literal segments must match exactly and "{name}" segments match
// any single non-empty path segment and capture it as a parameter:
//
//	r := router.New()
//	r.Get("/users", listUsers)
//	r.Get("/users/{id}", getUser)
//	r.Route("/users/{id}", updateUser, handler.MethodPut, handler.MethodPatch)
//
// Templates without placeholders go into a static table consulted first with
// an exact lookup. Templated routes are checked afterwards in registration
// order, first match wins.
//
// Lookups return a typed Match instead of errors or nil sentinels:
//
//	m := r.FindRoute("/users/42", handler.MethodGet)
//	switch m.Outcome {
//	case router.OutcomeFound:            // m.Handler, m.Params
//	case router.OutcomeNotFound:         // no path matched
//	case router.OutcomeMethodNotAllowed: // m.Allowed, in registration order
//	}
//
// The table is built single-threaded during setup and then frozen. The
// dispatcher freezes it before the first lookup; registration after Freeze
// panics. Lookups never modify state, so a frozen router is safe for
// concurrent use without locking.
package router
