package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/lambdakit/lambdakit/core/event"
	"github.com/lambdakit/lambdakit/core/handler"
	"github.com/lambdakit/lambdakit/core/router"
)

// ErrNilResponse is reported when the middleware chain completes without
// producing a response, i.e. a middleware returned (nil, nil).
var ErrNilResponse = errors.New("middleware chain produced no response")

// PanicError is reported when a handler, middleware, or event subscriber
// panics during dispatch. Use errors.As to inspect the recovered value and
// the stack captured at recovery.
type PanicError interface {
	error
	Value() any
	Stack() []byte
}

type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }
func (e *panicError) Value() any    { return e.value }
func (e *panicError) Stack() []byte { return e.stack }

// Dispatch runs one decoded request through the full lifecycle: events,
// route lookup, middleware, handler, response normalization. It never
// returns nil and never panics; every failure inside the boundary becomes a
// 500 response carrying {"error": "<message>"}.
//
// Lifecycle events fire in order: request.received, request.before_dispatch,
// request.after_dispatch, response.ready. The last two fire for error
// responses too, so subscribers always see the response that will go out.
func (a *API) Dispatch(req *handler.Request) (resp *handler.Response) {
	ctx := req.Context
	if ctx == nil {
		ctx = handler.NewContext(context.Background())
		req.Context = ctx
	}
	ctx.Request = req

	// Last-resort boundary for failures past the handler funnel, e.g. a
	// panicking after_dispatch subscriber.
	defer func() {
		if p := recover(); p != nil {
			err := &panicError{value: p, stack: debug.Stack()}
			a.logger.Error("panic escaped dispatch", "value", p)
			resp = a.errorResponse(ctx, err)
			ctx.Response = resp
		}
	}()

	resp = a.dispatch(req, ctx)
	ctx.Response = resp

	if err := a.emitter.Emit(event.New(event.TypeAfterDispatch, ctx, nil)); err != nil {
		resp = a.errorResponse(ctx, err)
		ctx.Response = resp
	}
	if err := a.emitter.Emit(event.New(event.TypeResponseReady, ctx, nil)); err != nil {
		// response.ready already ran; replacing the response without
		// re-emitting keeps it a once-per-request hook.
		resp = a.errorResponse(ctx, err)
		ctx.Response = resp
	}
	return resp
}

func (a *API) dispatch(req *handler.Request, ctx *handler.Context) *handler.Response {
	if err := a.emitter.Emit(event.New(event.TypeRequestReceived, ctx, nil)); err != nil {
		return a.errorResponse(ctx, err)
	}

	a.logger.Info(string(req.Method) + " " + req.Path)

	if err := a.emitter.Emit(event.New(event.TypeBeforeDispatch, ctx, nil)); err != nil {
		return a.errorResponse(ctx, err)
	}

	match := a.router.FindRoute(req.Path, req.Method)
	switch match.Outcome {
	case router.OutcomeNotFound:
		return handler.NewResponse(
			map[string]any{"error": "Not found"},
			handler.WithStatus(http.StatusNotFound),
		)
	case router.OutcomeMethodNotAllowed:
		return handler.NewResponse(
			map[string]any{
				"error":   "Method not allowed",
				"allowed": handler.MethodStrings(match.Allowed),
			},
			handler.WithStatus(http.StatusMethodNotAllowed),
			handler.WithHeader("Allow", handler.JoinMethods(match.Allowed)),
		)
	}

	// Router captures win over whatever the envelope carried.
	if req.PathParams == nil {
		req.PathParams = make(map[string]string, len(match.Params))
	}
	for k, v := range match.Params {
		req.PathParams[k] = v
		ctx.SetParam(k, v)
	}

	resp, err := a.execute(req, ctx, match.Handler)
	if err != nil {
		return a.errorResponse(ctx, err)
	}
	if resp == nil {
		return a.errorResponse(ctx, ErrNilResponse)
	}
	return resp
}

// execute runs the middleware chain around fn, converting panics anywhere in
// the chain into errors so they share the handler error path.
func (a *API) execute(req *handler.Request, ctx *handler.Context, fn handler.HandlerFunc) (resp *handler.Response, err error) {
	defer func() {
		if p := recover(); p != nil {
			resp = nil
			err = &panicError{value: p, stack: debug.Stack()}
		}
	}()

	return a.chain.Execute(req, ctx, func(r *handler.Request) (*handler.Response, error) {
		result, err := fn(r)
		if err != nil {
			return nil, err
		}
		if resp, ok := result.(*handler.Response); ok {
			return resp, nil
		}
		return handler.NewResponse(result), nil
	})
}

// errorResponse funnels err into the error event and a 500 reply. A failing
// error subscriber is logged and swallowed; the funnel must not recurse.
func (a *API) errorResponse(ctx *handler.Context, err error) *handler.Response {
	a.logger.Error("dispatch failed", "error", err)

	if emitErr := a.emitter.Emit(event.New(event.TypeError, ctx, map[string]any{"error": err.Error()})); emitErr != nil {
		a.logger.Error("error event emission failed", "error", emitErr)
	}

	return handler.NewResponse(
		map[string]any{"error": err.Error()},
		handler.WithStatus(http.StatusInternalServerError),
	)
}
