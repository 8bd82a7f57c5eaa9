package middleware

import (
	"context"
	"testing"

	"github.com/modelctx/linemcp/protocol"
)

func TestRequestID(t *testing.T) {
	t.Run("injects request ID into context", func(t *testing.T) {
		var got string
		handler := RequestID()(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			got = RequestIDFromContext(ctx)
			return protocol.NewResponse(req.ID, "ok"), nil
		})

		_, err := handler(context.Background(), &protocol.Request{Method: "test"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got == "" {
			t.Error("expected request ID in context")
		}
		if len(got) != 32 {
			t.Errorf("request ID length = %d, want 32 hex chars", len(got))
		}
	})

	t.Run("generates unique IDs", func(t *testing.T) {
		seen := make(map[string]bool)
		handler := RequestID()(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			seen[RequestIDFromContext(ctx)] = true
			return protocol.NewResponse(req.ID, "ok"), nil
		})

		for i := 0; i < 10; i++ {
			_, _ = handler(context.Background(), &protocol.Request{Method: "test"})
		}
		if len(seen) != 10 {
			t.Errorf("got %d unique IDs, want 10", len(seen))
		}
	})

	t.Run("preserves existing request ID", func(t *testing.T) {
		var got string
		handler := RequestID()(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			got = RequestIDFromContext(ctx)
			return protocol.NewResponse(req.ID, "ok"), nil
		})

		ctx := ContextWithRequestID(context.Background(), "existing-id")
		_, _ = handler(ctx, &protocol.Request{Method: "test"})

		if got != "existing-id" {
			t.Errorf("request ID = %q, want %q", got, "existing-id")
		}
	})

	t.Run("uses custom generator", func(t *testing.T) {
		var got string
		mw := RequestIDWithGenerator(func() string { return "fixed-id" })
		handler := mw(func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			got = RequestIDFromContext(ctx)
			return protocol.NewResponse(req.ID, "ok"), nil
		})

		_, _ = handler(context.Background(), &protocol.Request{Method: "test"})

		if got != "fixed-id" {
			t.Errorf("request ID = %q, want %q", got, "fixed-id")
		}
	})
}
