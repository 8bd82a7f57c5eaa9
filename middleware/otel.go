package middleware

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/modelctx/linemcp/protocol"
)

const instrumentationName = "github.com/modelctx/linemcp"

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*otelConfig)

type otelConfig struct {
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	serviceName    string
	skipMethods    map[string]bool
}

// WithTracerProvider sets a custom tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *otelConfig) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider sets a custom meter provider.
func WithMeterProvider(mp metric.MeterProvider) OTelOption {
	return func(c *otelConfig) {
		c.meterProvider = mp
	}
}

// WithOTelServiceName sets the service name for telemetry.
func WithOTelServiceName(name string) OTelOption {
	return func(c *otelConfig) {
		c.serviceName = name
	}
}

// WithOTelSkipMethods specifies methods to skip for tracing.
func WithOTelSkipMethods(methods ...string) OTelOption {
	return func(c *otelConfig) {
		for _, m := range methods {
			c.skipMethods[m] = true
		}
	}
}

// OTel returns middleware that adds OpenTelemetry tracing and metrics.
// It creates one span per request and records request counts, error counts
// and latency.
func OTel(opts ...OTelOption) Middleware {
	cfg := &otelConfig{
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
		serviceName:    "linemcp",
		skipMethods:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	tracer := cfg.tracerProvider.Tracer(
		instrumentationName,
		trace.WithInstrumentationVersion("1.0.0"),
	)

	meter := cfg.meterProvider.Meter(
		instrumentationName,
		metric.WithInstrumentationVersion("1.0.0"),
	)

	requestCounter, _ := meter.Int64Counter(
		"rpc.server.requests",
		metric.WithDescription("Total number of requests"),
		metric.WithUnit("{request}"),
	)

	requestDuration, _ := meter.Float64Histogram(
		"rpc.server.request.duration",
		metric.WithDescription("Duration of requests"),
		metric.WithUnit("ms"),
	)

	errorCounter, _ := meter.Int64Counter(
		"rpc.server.errors",
		metric.WithDescription("Total number of request errors"),
		metric.WithUnit("{error}"),
	)

	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
			if cfg.skipMethods[req.Method] {
				return next(ctx, req)
			}

			ctx, span := tracer.Start(ctx, "rpc."+req.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("rpc.method", req.Method),
					attribute.String("service.name", cfg.serviceName),
				),
			)
			defer span.End()

			if reqID := RequestIDFromContext(ctx); reqID != "" {
				span.SetAttributes(attribute.String("rpc.request_id", reqID))
			}

			attrs := []attribute.KeyValue{
				attribute.String("rpc.method", req.Method),
				attribute.String("service.name", cfg.serviceName),
			}

			requestCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
			startTime := time.Now()

			resp, err := next(ctx, req)

			duration := float64(time.Since(startTime).Milliseconds())
			requestDuration.Record(ctx, duration, metric.WithAttributes(attrs...))

			switch {
			case err != nil:
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())

				var rpcErr *protocol.Error
				if errors.As(err, &rpcErr) {
					span.SetAttributes(attribute.Int("rpc.error_code", rpcErr.Code))
					errorCounter.Add(ctx, 1, metric.WithAttributes(
						append(attrs, attribute.Int("rpc.error_code", rpcErr.Code))...,
					))
				} else {
					errorCounter.Add(ctx, 1, metric.WithAttributes(attrs...))
				}
			case resp != nil && resp.Error != nil:
				span.SetStatus(codes.Error, resp.Error.Message)
				span.SetAttributes(attribute.Int("rpc.error_code", resp.Error.Code))
				errorCounter.Add(ctx, 1, metric.WithAttributes(
					append(attrs, attribute.Int("rpc.error_code", resp.Error.Code))...,
				))
			default:
				span.SetStatus(codes.Ok, "")
			}

			return resp, err
		}
	}
}

// SpanFromContext returns the current span from context, or a no-op span if
// none is present.
func SpanFromContext(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}

// AddSpanEvent adds an event to the current span.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}
