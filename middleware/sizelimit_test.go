package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/modelctx/linemcp/protocol"
)

func TestSizeLimit(t *testing.T) {
	okHandler := func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
		return protocol.NewResponse(req.ID, "ok"), nil
	}

	t.Run("allows requests under the limit", func(t *testing.T) {
		handler := SizeLimit(KB)(okHandler)

		req := &protocol.Request{
			Method: "tools/call",
			Params: json.RawMessage(`{"name":"echo"}`),
		}
		resp, err := handler(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Result != "ok" {
			t.Errorf("Result = %v, want %q", resp.Result, "ok")
		}
	})

	t.Run("allows requests without params", func(t *testing.T) {
		handler := SizeLimit(16)(okHandler)

		if _, err := handler(context.Background(), &protocol.Request{Method: "tools/list"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("rejects requests over the limit", func(t *testing.T) {
		handler := SizeLimit(16)(okHandler)

		req := &protocol.Request{
			Method: "tools/call",
			Params: json.RawMessage(`{"name":"echo","arguments":{"message":"` + strings.Repeat("x", 100) + `"}}`),
		}
		_, err := handler(context.Background(), req)
		if err == nil {
			t.Fatal("expected error for oversized request")
		}

		var rpcErr *protocol.Error
		if !errors.As(err, &rpcErr) {
			t.Fatalf("error type = %T, want *protocol.Error", err)
		}
		if rpcErr.Code != protocol.CodeInvalidRequest {
			t.Errorf("Code = %d, want %d", rpcErr.Code, protocol.CodeInvalidRequest)
		}
	})

	t.Run("logs rejections when a logger is set", func(t *testing.T) {
		logger := &recordingLogger{}
		handler := SizeLimit(4, WithSizeLimitLogger(logger))(okHandler)

		req := &protocol.Request{
			Method: "tools/call",
			Params: json.RawMessage(`{"name":"echo"}`),
		}
		_, _ = handler(context.Background(), req)

		if len(logger.entries) != 1 {
			t.Fatalf("got %d log entries, want 1", len(logger.entries))
		}
		if logger.entries[0].level != "warn" {
			t.Errorf("level = %q, want %q", logger.entries[0].level, "warn")
		}
	})
}
