package middleware

import (
	"context"
	"time"

	"github.com/modelctx/linemcp/protocol"
)

// Logger is the interface for structured logging.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// F creates a new Field with the given key and value.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logging returns middleware that logs one entry per request: method,
// duration, request ID when present, and the error on failure. Successful
// requests log at info level, failures at error level.
func Logging(logger Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			start := time.Now()

			resp, err := next(ctx, req)

			fields := []Field{
				F("method", req.Method),
				F("duration", time.Since(start)),
			}
			if requestID := RequestIDFromContext(ctx); requestID != "" {
				fields = append(fields, F("request_id", requestID))
			}

			if err != nil {
				fields = append(fields, F("error", err.Error()))
				logger.Error("request failed", fields...)
			} else {
				logger.Info("request completed", fields...)
			}

			return resp, err
		}
	}
}

// NopLogger is a logger that discards all log entries.
type NopLogger struct{}

func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
