// Package api ties the framework together: it decodes event envelopes into
// requests, routes them, runs the middleware chain and the matched handler,
// emits lifecycle events, and serializes the response back into the reply
// envelope a FaaS runtime expects.
//
// # Setup
//
// Build an API once per process (in Lambda terms: per cold start), register
// routes, middleware, and event subscribers, then hand the entrypoint to the
// runtime:
//
//	a := api.New(api.WithLogger(log))
//	a.Use(middleware.RequestID(), middleware.Logging(middleware.LoggingConfig{Logger: log}))
//	a.Get("/users/{id}", getUser)
//	a.Post("/users", createUser)
//
//	lambda.Start(a.Handler())
//
// The route table freezes on the first invocation; registering a route after
// that panics. Middleware and event subscribers are consulted per request and
// may be registered at any time before the next invocation, though in
// practice everything is wired during init.
//
// # Envelope contract
//
// An envelope is HTTP-shaped when it carries an "httpMethod" key. Everything
// else is a direct invocation and goes to the direct handler (override with
// WithDirectHandler), which by default replies 200 with
// {"message": "Direct invocation", "event": <envelope>}.
//
// HTTP-shaped envelopes decode leniently: a missing method means GET, missing
// maps become empty, a string body is parsed as JSON when the Content-Type
// header is absent or JSON-like, and kept verbatim otherwise or when parsing
// fails. Malformed input is the client's problem to express, not a reason to
// crash the function.
//
// The reply envelope is {"statusCode": int, "headers": map, "body": string or
// null}. Structured bodies are serialized to a JSON string; string bodies
// pass through; a nil body stays null.
//
// # Error boundary
//
// Dispatch never lets a failure escape. Handler and middleware errors and
// panics become 500 responses carrying {"error": "<message>"} and fire an
// "error" lifecycle event; the same funnel catches event subscriber failures.
// Only the adapter edges (Handler, ProxyHandler, ServeHTTP) sit outside the
// boundary, and they do not fail on well-formed envelopes.
package api
