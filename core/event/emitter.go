package event

import (
	"errors"
	"fmt"
)

// HandlerFunc consumes one lifecycle event. Errors do not stop other
// subscribers; they are aggregated and surface at the dispatch boundary.
type HandlerFunc func(e Event) error

// Emitter fans events out to subscribers synchronously in the caller's
// goroutine. Subscribe during setup, emit during dispatch: Emit never
// modifies the subscription table, so a fully built emitter is safe for
// concurrent emissions.
type Emitter struct {
	handlers map[Type][]HandlerFunc
}

// NewEmitter creates an emitter with no subscriptions.
func NewEmitter() *Emitter {
	return &Emitter{handlers: make(map[Type][]HandlerFunc)}
}

// On subscribes fn to events of type t. Subscribers for one type run in
// registration order.
func (e *Emitter) On(t Type, fn HandlerFunc) {
	if fn == nil {
		return
	}
	e.handlers[t] = append(e.handlers[t], fn)
}

// Emit runs every subscriber registered for the event's type. A subscriber
// error or recovered panic does not prevent later subscribers from running;
// all failures are joined into the returned error. Emitting a type nobody
// subscribed to is a no-op.
func (e *Emitter) Emit(evt Event) error {
	var errs []error
	for _, fn := range e.handlers[evt.Type] {
		if err := safeHandle(fn, evt); err != nil {
			errs = append(errs, fmt.Errorf("event %s: %w", evt.Type, err))
		}
	}
	return errors.Join(errs...)
}

func safeHandle(fn HandlerFunc, evt Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("subscriber panicked: %v", r)
		}
	}()
	return fn(evt)
}
