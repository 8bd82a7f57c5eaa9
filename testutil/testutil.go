// Package testutil provides testing utilities for servers built on this
// module: an in-memory test client and a mock line transport.
//
// Example usage:
//
//	func TestMyServer(t *testing.T) {
//	    srv := linemcp.NewServer(linemcp.ServerInfo{Name: "test", Version: "1.0.0"})
//	    srv.Tool("greet").Handler(func(ctx context.Context, input GreetInput) (string, error) {
//	        return "Hello, " + input.Name, nil
//	    })
//
//	    tc := testutil.NewTestClient(t, srv)
//	    defer tc.Close()
//
//	    result, err := tc.CallTool("greet", map[string]any{"name": "World"})
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    if result != "Hello, World" {
//	        t.Errorf("got %q", result)
//	    }
//	}
package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/modelctx/linemcp/protocol"
	"github.com/modelctx/linemcp/server"
	"github.com/modelctx/linemcp/transport"
)

// TestClient drives a server in memory, without a transport.
type TestClient struct {
	t       testing.TB
	srv     *server.Server
	handler transport.Handler
	reqID   int64
	mu      sync.Mutex
}

// NewTestClient creates a test client for the given server and performs the
// initialize handshake.
func NewTestClient(t testing.TB, srv *server.Server) *TestClient {
	t.Helper()

	tc := &TestClient{
		t:       t,
		srv:     srv,
		handler: &dispatcher{srv: srv},
	}

	if _, err := tc.Initialize(); err != nil {
		t.Fatalf("failed to initialize server: %v", err)
	}

	return tc
}

// NewTestClientWithHandler creates a test client with a custom handler.
// This is useful for testing middleware.
func NewTestClientWithHandler(t testing.TB, handler transport.Handler) *TestClient {
	t.Helper()
	return &TestClient{
		t:       t,
		handler: handler,
	}
}

// Close releases the test client. It currently has nothing to clean up.
func (tc *TestClient) Close() {}

func (tc *TestClient) nextID() json.RawMessage {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.reqID++
	return json.RawMessage(fmt.Sprintf("%d", tc.reqID))
}

// SendRequest sends a request with the given method and params and returns
// the response.
func (tc *TestClient) SendRequest(method string, params any) (*protocol.Response, error) {
	tc.t.Helper()

	var paramsData json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
		paramsData = data
	}

	req := &protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      tc.nextID(),
		Method:  method,
		Params:  paramsData,
	}

	return tc.handler.HandleRequest(context.Background(), req)
}

// Initialize sends the initialize handshake.
func (tc *TestClient) Initialize() (map[string]any, error) {
	tc.t.Helper()

	resp, err := tc.SendRequest(protocol.MethodInitialize, map[string]any{
		"protocolVersion": protocol.MCPVersion,
		"clientInfo": map[string]any{
			"name":    "test-client",
			"version": "1.0.0",
		},
	})
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected result type: %T", resp.Result)
	}
	return result, nil
}

// ListTools lists all registered tools.
func (tc *TestClient) ListTools() ([]map[string]any, error) {
	tc.t.Helper()
	return tc.listMaps(protocol.MethodToolsList, "tools")
}

// ListResources lists all registered concrete resources.
func (tc *TestClient) ListResources() ([]map[string]any, error) {
	tc.t.Helper()
	return tc.listMaps(protocol.MethodResourcesList, "resources")
}

// ListResourceTemplates lists all registered templated resources.
func (tc *TestClient) ListResourceTemplates() ([]map[string]any, error) {
	tc.t.Helper()
	return tc.listMaps(protocol.MethodResourcesTemplatesList, "resourceTemplates")
}

func (tc *TestClient) listMaps(method, key string) ([]map[string]any, error) {
	resp, err := tc.SendRequest(method, nil)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected result type: %T", resp.Result)
	}

	// Results may hold []any after a JSON round trip, or []map[string]any
	// when produced in process.
	switch v := result[key].(type) {
	case []any:
		items := make([]map[string]any, len(v))
		for i, item := range v {
			items[i], _ = item.(map[string]any)
		}
		return items, nil
	case []map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("unexpected %s type: %T", key, result[key])
	}
}

// CallTool calls a tool with the given arguments and returns the text result.
func (tc *TestClient) CallTool(name string, args any) (string, error) {
	tc.t.Helper()

	resp, err := tc.CallToolRaw(name, args)
	if err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", resp.Error
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		return "", fmt.Errorf("unexpected result type: %T", resp.Result)
	}

	var first map[string]any
	switch v := result["content"].(type) {
	case []any:
		if len(v) == 0 {
			return "", fmt.Errorf("empty content array")
		}
		first, _ = v[0].(map[string]any)
	case []map[string]any:
		if len(v) == 0 {
			return "", fmt.Errorf("empty content array")
		}
		first = v[0]
	default:
		return "", fmt.Errorf("unexpected content type: %T", result["content"])
	}
	if first == nil {
		return "", fmt.Errorf("nil content item")
	}

	text, _ := first["text"].(string)
	return text, nil
}

// CallToolRaw calls a tool and returns the raw response.
func (tc *TestClient) CallToolRaw(name string, args any) (*protocol.Response, error) {
	tc.t.Helper()

	return tc.SendRequest(protocol.MethodToolsCall, map[string]any{
		"name":      name,
		"arguments": args,
	})
}

// Ping sends a ping request.
func (tc *TestClient) Ping() error {
	tc.t.Helper()

	resp, err := tc.SendRequest(protocol.MethodPing, nil)
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	return nil
}

// AssertToolExists fails the test if the named tool is not registered.
func (tc *TestClient) AssertToolExists(name string) {
	tc.t.Helper()

	tools, err := tc.ListTools()
	if err != nil {
		tc.t.Fatalf("failed to list tools: %v", err)
	}
	for _, tool := range tools {
		if tool["name"] == name {
			return
		}
	}
	tc.t.Errorf("tool %q not found", name)
}

// AssertResourceExists fails the test if no resource matches the URI template.
func (tc *TestClient) AssertResourceExists(uriTemplate string) {
	tc.t.Helper()

	concrete, err := tc.ListResources()
	if err != nil {
		tc.t.Fatalf("failed to list resources: %v", err)
	}
	templated, err := tc.ListResourceTemplates()
	if err != nil {
		tc.t.Fatalf("failed to list resource templates: %v", err)
	}

	for _, r := range append(concrete, templated...) {
		if r["uri"] == uriTemplate {
			return
		}
	}
	tc.t.Errorf("resource %q not found", uriTemplate)
}

// MockTransport is an in-memory line transport for driving a server byte for
// byte: requests are written to its input buffer and responses read back
// from its output buffer, one JSON object per line.
type MockTransport struct {
	in  *bytes.Buffer
	out *bytes.Buffer
	mu  sync.Mutex
}

// NewMockTransport creates a new mock transport.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		in:  &bytes.Buffer{},
		out: &bytes.Buffer{},
	}
}

// Input returns the input reader, for wiring into a stdio transport.
func (m *MockTransport) Input() io.Reader {
	return m.in
}

// Output returns the output writer, for wiring into a stdio transport.
func (m *MockTransport) Output() io.Writer {
	return m.out
}

// WriteLine appends one raw line to the input buffer.
func (m *MockTransport) WriteLine(line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.in.WriteString(line); err != nil {
		return err
	}
	_, err := m.in.WriteString("\n")
	return err
}

// SendRequest marshals a request and appends it as one input line.
func (m *MockTransport) SendRequest(id json.RawMessage, method string, params any) error {
	var paramsData json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return err
		}
		paramsData = data
	}

	req := &protocol.Request{
		JSONRPC: protocol.JSONRPCVersion,
		ID:      id,
		Method:  method,
		Params:  paramsData,
	}

	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return m.WriteLine(string(data))
}

// ReadResponse reads the next response line from the output buffer.
func (m *MockTransport) ReadResponse() (*protocol.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	line, err := m.out.ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(line) == 0 {
		return nil, io.EOF
	}

	var resp protocol.Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// OutputLines returns all response lines written so far.
func (m *MockTransport) OutputLines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var lines []string
	for _, line := range bytes.Split(m.out.Bytes(), []byte("\n")) {
		if len(line) > 0 {
			lines = append(lines, string(line))
		}
	}
	return lines
}

// dispatcher adapts Server to transport.Handler for in-memory testing. It
// mirrors the serving method table, including the flattening of tool faults
// to internal errors.
type dispatcher struct {
	srv *server.Server
}

func (h *dispatcher) HandleRequest(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	switch req.Method {
	case protocol.MethodInitialize:
		manifest := h.srv.Manifest()

		capabilities := make(map[string]any)
		if manifest.Capabilities.Tools {
			capabilities["tools"] = map[string]any{}
		}
		if manifest.Capabilities.Resources {
			capabilities["resources"] = map[string]any{}
		}

		return protocol.NewResponse(req.ID, map[string]any{
			"protocolVersion": manifest.ProtocolVersion,
			"serverInfo": map[string]any{
				"name":    manifest.Name,
				"version": manifest.Version,
			},
			"capabilities": capabilities,
		}), nil

	case protocol.MethodToolsList:
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

	case protocol.MethodToolsCall:
		return h.handleToolsCall(ctx, req)

	case protocol.MethodResourcesList:
		return protocol.NewResponse(req.ID, map[string]any{
			"resources": resourceItems(h.srv.Resources()),
		}), nil

	case protocol.MethodResourcesTemplatesList:
		return protocol.NewResponse(req.ID, map[string]any{
			"resourceTemplates": resourceItems(h.srv.ResourceTemplates()),
		}), nil

	case protocol.MethodPing:
		return protocol.NewResponse(req.ID, map[string]any{}), nil

	default:
		return nil, protocol.NewMethodNotFound(req.Method)
	}
}

func (h *dispatcher) handleToolsCall(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
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

	args := params.Arguments
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	result, err := tool.Execute(ctx, args)
	if err != nil {
		var rpcErr *protocol.Error
		if errors.As(err, &rpcErr) {
			return nil, protocol.NewInternalError(rpcErr.Message)
		}
		return nil, protocol.NewInternalError(err.Error())
	}

	return protocol.NewResponse(req.ID, map[string]any{
		"content": []map[string]any{
			{"type": "text", "text": result},
		},
	}), nil
}

func resourceItems(resources []server.ResourceInfo) []map[string]any {
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
