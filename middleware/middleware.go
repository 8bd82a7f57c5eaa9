// Package middleware provides composable request middleware for the
// dispatch pipeline.
package middleware

import (
	"context"
	"time"

	"github.com/modelctx/linemcp/protocol"
)

// HandlerFunc is the signature for request handlers.
type HandlerFunc func(ctx context.Context, req *protocol.Request) (*protocol.Response, error)

// Middleware wraps a handler with additional behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes multiple middleware into a single middleware.
// Chain(m1, m2, m3) results in m1 wrapping m2 wrapping m3 wrapping the
// final handler, so m1 sees the request first.
func Chain(middlewares ...Middleware) Middleware {
	return func(final HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// MiddlewareChain provides a fluent API for building middleware chains.
type MiddlewareChain struct {
	middlewares []Middleware
}

// Use creates a new middleware chain starting with the given middleware.
func Use(middlewares ...Middleware) *MiddlewareChain {
	return &MiddlewareChain{
		middlewares: middlewares,
	}
}

// Append adds middleware to the chain and returns the updated chain.
func (c *MiddlewareChain) Append(middlewares ...Middleware) *MiddlewareChain {
	c.middlewares = append(c.middlewares, middlewares...)
	return c
}

// Then applies the middleware chain to a handler and returns the wrapped handler.
func (c *MiddlewareChain) Then(handler HandlerFunc) HandlerFunc {
	return Chain(c.middlewares...)(handler)
}

// DefaultStack returns the recommended production middleware stack:
// panic recovery, request ID injection, and logging.
func DefaultStack(logger Logger) []Middleware {
	return []Middleware{
		Recover(),
		RequestID(),
		Logging(logger),
	}
}

// DefaultStackWithTimeout returns the default stack with a per-request deadline.
func DefaultStackWithTimeout(logger Logger, timeout time.Duration) []Middleware {
	return []Middleware{
		Recover(),
		RequestID(),
		Timeout(timeout),
		Logging(logger),
	}
}
