package handler

// Chain is an ordered middleware pipeline. Middlewares run in registration
// order: the first middleware added is the outermost wrapper, so it sees the
// request first and the response last. The zero value is ready to use.
type Chain struct {
	middlewares []Middleware
}

// NewChain creates an empty middleware chain.
func NewChain() *Chain {
	return &Chain{}
}

// Use appends middlewares to the chain.
func (c *Chain) Use(mw ...Middleware) {
	c.middlewares = append(c.middlewares, mw...)
}

// Len reports the number of registered middlewares.
func (c *Chain) Len() int {
	return len(c.middlewares)
}

// Execute runs the request through the chain with terminal bound innermost.
// The continuations are built per call, so middlewares may be registered at
// any time before the next execution. A middleware that returns without
// calling next short-circuits everything registered after it, including the
// terminal handler.
func (c *Chain) Execute(r *Request, ctx *Context, terminal TerminalHandler) (*Response, error) {
	next := Next(func() (*Response, error) {
		return terminal(r)
	})
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		mw := c.middlewares[i]
		inner := next
		next = func() (*Response, error) {
			return mw(r, ctx, inner)
		}
	}
	return next()
}
