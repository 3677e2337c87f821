// Package event provides synchronous lifecycle notifications for the
// dispatch pipeline. Subscribers observe the stages of every dispatched
// request without participating in routing or response construction.
//
// Events are emitted in the caller's goroutine, in subscriber registration
// order, at fixed points of the request lifecycle:
//
//	request.received        envelope decoded, dispatch is about to begin
//	request.before_dispatch route lookup is about to run
//	request.after_dispatch  handler finished, response exists
//	response.ready          response is final, serialization is next
//	error                   a handler or middleware failed
//
// Subscribers run before the response is serialized, so a response.ready
// subscriber may still mutate response headers:
//
//	emitter.On(event.TypeResponseReady, func(e event.Event) error {
//		if e.Context != nil && e.Context.Response != nil {
//			e.Context.Response.Headers["X-Trace"] = trace(e.Context)
//		}
//		return nil
//	})
//
// Subscriber panics are recovered and converted to errors; all subscriber
// errors for one emission are aggregated with errors.Join and handled at the
// dispatch boundary.
package event
