// Package linemcp provides a framework for building MCP (Model Context
// Protocol) servers speaking line-delimited JSON-RPC.
//
// The server reads one JSON object per input line and writes exactly one
// JSON object per non-blank input line, in order. Core features:
//   - Typed tool handlers with automatic JSON Schema generation
//   - Schema defaults applied to missing arguments before decoding
//   - Composable middleware chains
//   - Pluggable transports (stdio, WebSocket)
//
// Basic usage:
//
//	srv := linemcp.NewServer(linemcp.ServerInfo{
//	    Name:    "demo",
//	    Version: "1.0.0",
//	})
//
//	type EchoInput struct {
//	    Message string `json:"message" jsonschema:"required"`
//	}
//
//	srv.Tool("echo").
//	    Description("Echo a message back").
//	    Handler(func(input EchoInput) (string, error) {
//	        return "Echo: " + input.Message, nil
//	    })
//
//	linemcp.ServeStdio(ctx, srv)
package linemcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/modelctx/linemcp/middleware"
	"github.com/modelctx/linemcp/protocol"
	"github.com/modelctx/linemcp/server"
	"github.com/modelctx/linemcp/transport"
)

// Re-export core types for convenience

// ServerInfo contains server metadata exposed to clients.
type ServerInfo = server.Info

// Capabilities declares what features the server supports.
type Capabilities = server.Capabilities

// Server holds the tool and resource registries.
type Server = server.Server

// Option configures a Server.
type Option = server.Option

// Tool and resource metadata
type ToolInfo = server.ToolInfo
type ResourceContent = server.ResourceContent
type ResourceInfo = server.ResourceInfo

// Middleware types
type Middleware = middleware.Middleware
type MiddlewareHandlerFunc = middleware.HandlerFunc
type Logger = middleware.Logger
type LogField = middleware.Field
type RateLimitOption = middleware.RateLimitOption

// RateLimit re-exports for convenience.
var (
	RateLimit            = middleware.RateLimit
	RateLimitByMethod    = middleware.RateLimitByMethod
	RateLimitByClient    = middleware.RateLimitByClient
	WithRateLimitKeyFunc = middleware.WithRateLimitKeyFunc
	WithRateLimitLogger  = middleware.WithRateLimitLogger
)

// SizeLimit re-exports for convenience.
type SizeLimitOption = middleware.SizeLimitOption

var (
	SizeLimit           = middleware.SizeLimit
	WithSizeLimitLogger = middleware.WithSizeLimitLogger
)

// Size limit presets.
const (
	KB = middleware.KB
	MB = middleware.MB
)

// ServeOption configures how the server is run.
type ServeOption func(*serveOptions)

type serveOptions struct {
	middleware []Middleware
	logger     Logger
}

// WithMiddleware adds middleware to the request handling chain.
func WithMiddleware(m ...Middleware) ServeOption {
	return func(o *serveOptions) {
		o.middleware = append(o.middleware, m...)
	}
}

// WithLogger sets a logger. When no explicit middleware is configured, the
// default stack (recover, request ID, logging) is installed around it.
func WithLogger(l Logger) ServeOption {
	return func(o *serveOptions) {
		o.logger = l
	}
}

// NewServer creates a new server with the given info and options.
func NewServer(info ServerInfo, opts ...Option) *Server {
	return server.New(info, opts...)
}

// ServeStdio runs the server over stdin/stdout, one JSON object per line.
// This blocks until end of input, context cancellation, or an unrecoverable
// transport error.
func ServeStdio(ctx context.Context, srv *Server, opts ...ServeOption) error {
	t := transport.NewStdio()
	return t.Serve(ctx, newRequestHandler(srv, opts...))
}

// ServeStdioWithTransport runs the server over a preconfigured stdio
// transport, for tests and custom stream wiring.
func ServeStdioWithTransport(ctx context.Context, srv *Server, t *transport.Stdio, opts ...ServeOption) error {
	return t.Serve(ctx, newRequestHandler(srv, opts...))
}

// WebSocketOption configures the WebSocket transport.
type WebSocketOption = transport.WebSocketOption

// ServeWebSocket runs the server over WebSocket connections, one JSON object
// per text message. This blocks until the context is canceled or an error
// occurs.
func ServeWebSocket(ctx context.Context, srv *Server, addr string, opts ...WebSocketOption) error {
	t := transport.NewWebSocket(addr, opts...)
	return t.Serve(ctx, newRequestHandler(srv))
}

// ServeWebSocketWithMiddleware runs the server over WebSocket with middleware support.
func ServeWebSocketWithMiddleware(ctx context.Context, srv *Server, addr string, wsOpts []WebSocketOption, serveOpts ...ServeOption) error {
	t := transport.NewWebSocket(addr, wsOpts...)
	return t.Serve(ctx, newRequestHandler(srv, serveOpts...))
}

// WithWebSocketReadTimeout sets the read timeout for WebSocket messages.
func WithWebSocketReadTimeout(d time.Duration) WebSocketOption {
	return transport.WithWebSocketReadTimeout(d)
}

// WithWebSocketWriteTimeout sets the write timeout for WebSocket messages.
func WithWebSocketWriteTimeout(d time.Duration) WebSocketOption {
	return transport.WithWebSocketWriteTimeout(d)
}

// Middleware re-exports

// Chain composes multiple middleware into a single middleware.
func Chain(middlewares ...Middleware) Middleware {
	return middleware.Chain(middlewares...)
}

// Recover returns middleware that catches panics and converts them to internal errors.
func Recover() Middleware {
	return middleware.Recover()
}

// Timeout returns middleware that enforces a request deadline.
func Timeout(d time.Duration) Middleware {
	return middleware.Timeout(d)
}

// RequestID returns middleware that injects a unique request ID into the context.
func RequestID() Middleware {
	return middleware.RequestID()
}

// RequestIDFromContext returns the request ID from the context, or empty string if not set.
func RequestIDFromContext(ctx context.Context) string {
	return middleware.RequestIDFromContext(ctx)
}

// Logging returns middleware that logs request details.
func Logging(logger Logger) Middleware {
	return middleware.Logging(logger)
}

// DefaultMiddleware returns the recommended production middleware stack.
func DefaultMiddleware(logger Logger) []Middleware {
	return middleware.DefaultStack(logger)
}

// DefaultMiddlewareWithTimeout returns the default stack with a timeout middleware.
func DefaultMiddlewareWithTimeout(logger Logger, timeout time.Duration) []Middleware {
	return middleware.DefaultStackWithTimeout(logger, timeout)
}

// LogF creates a new log field with the given key and value.
func LogF(key string, value any) LogField {
	return middleware.F(key, value)
}

// requestHandler adapts Server to transport.Handler. It owns the method
// table: every supported method dispatches here, anything else is a
// method-not-found.
type requestHandler struct {
	srv        *Server
	handleFunc middleware.HandlerFunc
}

func newRequestHandler(srv *Server, opts ...ServeOption) *requestHandler {
	options := &serveOptions{}
	for _, opt := range opts {
		opt(options)
	}

	h := &requestHandler{srv: srv}

	mws := options.middleware
	if len(mws) == 0 && options.logger != nil {
		mws = middleware.DefaultStack(options.logger)
	}

	base := middleware.HandlerFunc(h.handle)
	if len(mws) > 0 {
		h.handleFunc = middleware.Chain(mws...)(base)
	} else {
		h.handleFunc = base
	}

	return h
}

func (h *requestHandler) HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	return h.handleFunc(ctx, req)
}

func (h *requestHandler) handle(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	switch req.Method {
	case protocol.MethodInitialize:
		return h.handleInitialize(req)
	case protocol.MethodToolsList:
		return h.handleToolsList(req)
	case protocol.MethodToolsCall:
		return h.handleToolsCall(ctx, req)
	case protocol.MethodResourcesList:
		return h.handleResourcesList(req)
	case protocol.MethodResourcesTemplatesList:
		return h.handleResourcesTemplatesList(req)
	case protocol.MethodPing:
		return h.handlePing(req)
	default:
		return nil, protocol.NewMethodNotFound(req.Method)
	}
}

func (h *requestHandler) handleInitialize(req *protocol.Request) (*protocol.Response, error) {
	manifest := h.srv.Manifest()

	capabilities := make(map[string]any)
	if manifest.Capabilities.Tools {
		capabilities["tools"] = map[string]any{}
	}
	if manifest.Capabilities.Resources {
		capabilities["resources"] = map[string]any{}
	}

	result := map[string]any{
		"protocolVersion": manifest.ProtocolVersion,
		"serverInfo": map[string]any{
			"name":    manifest.Name,
			"version": manifest.Version,
		},
		"capabilities": capabilities,
	}

	return protocol.NewResponse(req.ID, result), nil
}

func (h *requestHandler) handleToolsList(req *protocol.Request) (*protocol.Response, error) {
	tools := h.srv.Tools()

	toolList := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		toolList = append(toolList, map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"inputSchema": t.InputSchema,
		})
	}

	return protocol.NewResponse(req.ID, map[string]any{"tools": toolList}), nil
}

func (h *requestHandler) handleToolsCall(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return nil, protocol.NewInternalError(err.Error())
	}

	tool, ok := h.srv.GetTool(params.Name)
	if !ok {
		return nil, protocol.NewInternalError("unknown tool: " + params.Name)
	}

	// Absent arguments mean an empty object; schema defaults fill the rest.
	args := params.Arguments
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	result, err := tool.Execute(ctx, args)
	if err != nil {
		// Tool failures of every flavor surface as internal errors; the
		// structured message is all that distinguishes them on the wire.
		var rpcErr *protocol.Error
		if errors.As(err, &rpcErr) {
			return nil, protocol.NewInternalError(rpcErr.Message)
		}
		return nil, protocol.NewInternalError(err.Error())
	}

	response := map[string]any{
		"content": []map[string]any{
			{
				"type": "text",
				"text": result,
			},
		},
	}

	return protocol.NewResponse(req.ID, response), nil
}

func (h *requestHandler) handleResourcesList(req *protocol.Request) (*protocol.Response, error) {
	return protocol.NewResponse(req.ID, map[string]any{
		"resources": resourceItems(h.srv.Resources()),
	}), nil
}

func (h *requestHandler) handleResourcesTemplatesList(req *protocol.Request) (*protocol.Response, error) {
	return protocol.NewResponse(req.ID, map[string]any{
		"resourceTemplates": resourceItems(h.srv.ResourceTemplates()),
	}), nil
}

func resourceItems(resources []ResourceInfo) []map[string]any {
	items := make([]map[string]any, 0, len(resources))
	for _, r := range resources {
		item := map[string]any{
			"uri":  r.URITemplate,
			"name": r.Name,
		}
		if r.Description != "" {
			item["description"] = r.Description
		}
		if r.MimeType != "" {
			item["mimeType"] = r.MimeType
		}
		items = append(items, item)
	}
	return items
}

func (h *requestHandler) handlePing(req *protocol.Request) (*protocol.Response, error) {
	return protocol.NewResponse(req.ID, map[string]any{}), nil
}
