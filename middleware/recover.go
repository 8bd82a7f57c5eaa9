package middleware

import (
	"context"
	"fmt"

	"github.com/modelctx/linemcp/protocol"
)

// PanicHandler is called when a panic is recovered.
type PanicHandler func(ctx context.Context, req *protocol.Request, panicVal any) (*protocol.Response, error)

// Recover returns middleware that catches panics and converts them to
// internal errors, so a misbehaving handler fails its own request without
// taking down the serving loop.
func Recover() Middleware {
	return RecoverWithHandler(defaultPanicHandler)
}

// RecoverWithHandler returns middleware that catches panics and calls the
// provided handler, allowing custom handling such as logging or alerting.
func RecoverWithHandler(handler PanicHandler) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (resp *protocol.Response, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp, err = handler(ctx, req, r)
				}
			}()
			return next(ctx, req)
		}
	}
}

func defaultPanicHandler(_ context.Context, _ *protocol.Request, panicVal any) (*protocol.Response, error) {
	return nil, protocol.NewInternalError(fmt.Sprintf("panic: %v", panicVal))
}
