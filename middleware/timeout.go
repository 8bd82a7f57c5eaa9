package middleware

import (
	"context"
	"time"

	"github.com/modelctx/linemcp/protocol"
)

// Timeout returns middleware that enforces a per-request deadline. If the
// handler does not complete within the duration, its context is cancelled.
func Timeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next(ctx, req)
		}
	}
}
