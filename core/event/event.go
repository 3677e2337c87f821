package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/lambdakit/lambdakit/core/handler"
)

// Type identifies a dispatch lifecycle stage. The values are stable wire
// names shared with subscribers and log pipelines.
type Type string

const (
	// TypeRequestReceived fires once per request, before anything else.
	TypeRequestReceived Type = "request.received"
	// TypeBeforeDispatch fires immediately before route lookup.
	TypeBeforeDispatch Type = "request.before_dispatch"
	// TypeAfterDispatch fires after the handler produced a response.
	TypeAfterDispatch Type = "request.after_dispatch"
	// TypeResponseReady fires when the response is final but not yet
	// serialized; headers may still be mutated.
	TypeResponseReady Type = "response.ready"
	// TypeError fires when a handler, middleware, or subscriber failed.
	TypeError Type = "error"
)

// Event is one lifecycle notification. Context is the request context at the
// time of emission; Data carries stage-specific details such as the error
// message for TypeError.
type Event struct {
	ID        string
	Type      Type
	Context   *handler.Context
	Data      map[string]any
	CreatedAt time.Time
}

// New creates an event with a generated ID and the current timestamp.
func New(t Type, ctx *handler.Context, data map[string]any) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      t,
		Context:   ctx,
		Data:      data,
		CreatedAt: time.Now(),
	}
}
