package handler

import (
	"context"
	"time"
)

// Context carries request-scoped state across middleware, handlers, and
// lifecycle event subscribers: an arbitrary key/value store, the path
// parameters extracted by the router, and back-references to the request and
// the response once it exists.
//
// Context implements context.Context by delegating to the platform context it
// wraps (the Lambda invocation context in production), so it can be passed
// directly to blocking collaborators and to lambdacontext.FromContext.
type Context struct {
	base   context.Context
	store  map[string]any
	params map[string]string

	// Request and Response are back-references maintained by the dispatcher.
	// Response is nil until dispatch produces one.
	Request  *Request
	Response *Response
}

// NewContext creates a request context wrapping the given platform context.
// A nil parent falls back to context.Background.
func NewContext(parent context.Context) *Context {
	if parent == nil {
		parent = context.Background()
	}
	return &Context{base: parent}
}

// Deadline returns the deadline of the wrapped platform context.
func (c *Context) Deadline() (deadline time.Time, ok bool) {
	return c.base.Deadline()
}

// Done returns the done channel of the wrapped platform context.
func (c *Context) Done() <-chan struct{} {
	return c.base.Done()
}

// Err returns the error of the wrapped platform context.
func (c *Context) Err() error {
	return c.base.Err()
}

// Value returns the value associated with key in the wrapped platform
// context. Values placed with Set are not visible here; use Get for the
// request-scoped store.
func (c *Context) Value(key any) any {
	return c.base.Value(key)
}

// Get returns the stored value for key, or nil when absent.
func (c *Context) Get(key string) any {
	if c.store == nil {
		return nil
	}
	return c.store[key]
}

// GetDefault returns the stored value for key, or def when absent.
func (c *Context) GetDefault(key string, def any) any {
	if c.store != nil {
		if v, ok := c.store[key]; ok {
			return v
		}
	}
	return def
}

// Set stores a request-scoped value under key.
func (c *Context) Set(key string, val any) {
	if c.store == nil {
		c.store = make(map[string]any)
	}
	c.store[key] = val
}

// Param returns the path parameter for key, or "" when absent.
func (c *Context) Param(key string) string {
	if c.params == nil {
		return ""
	}
	return c.params[key]
}

// SetParam records a path parameter. The router calls this for every captured
// template placeholder; envelope-provided parameters are seeded first and
// overwritten on match.
func (c *Context) SetParam(key, value string) {
	if c.params == nil {
		c.params = make(map[string]string)
	}
	c.params[key] = value
}

// Params returns a copy of the path parameter bag.
func (c *Context) Params() map[string]string {
	params := make(map[string]string, len(c.params))
	for k, v := range c.params {
		params[k] = v
	}
	return params
}
