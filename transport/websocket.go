package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/modelctx/linemcp/protocol"
)

// WebSocket implements the request/response transport over WebSocket
// connections. Each text message is one request and yields one response
// message; the per-line semantics match the stdio transport.
type WebSocket struct {
	addr     string
	upgrader websocket.Upgrader
	server   *http.Server

	readTimeout  time.Duration
	writeTimeout time.Duration

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

// wsClient represents a single WebSocket connection.
type wsClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// WebSocketOption configures a WebSocket transport.
type WebSocketOption func(*WebSocket)

// WithWebSocketReadTimeout sets the read timeout for WebSocket messages.
func WithWebSocketReadTimeout(d time.Duration) WebSocketOption {
	return func(ws *WebSocket) {
		ws.readTimeout = d
	}
}

// WithWebSocketWriteTimeout sets the write timeout for WebSocket messages.
func WithWebSocketWriteTimeout(d time.Duration) WebSocketOption {
	return func(ws *WebSocket) {
		ws.writeTimeout = d
	}
}

// WithWebSocketCheckOrigin sets the origin check function for WebSocket upgrades.
func WithWebSocketCheckOrigin(fn func(r *http.Request) bool) WebSocketOption {
	return func(ws *WebSocket) {
		ws.upgrader.CheckOrigin = fn
	}
}

// NewWebSocket creates a new WebSocket transport.
func NewWebSocket(addr string, opts ...WebSocketOption) *WebSocket {
	ws := &WebSocket{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // Allow all origins by default
		},
		readTimeout:  60 * time.Second,
		writeTimeout: 10 * time.Second,
		clients:      make(map[*wsClient]struct{}),
	}

	for _, opt := range opts {
		opt(ws)
	}

	return ws
}

// Addr returns the transport address.
func (ws *WebSocket) Addr() string {
	return ws.addr
}

// Serve starts the WebSocket server.
func (ws *WebSocket) Serve(ctx context.Context, handler Handler) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		ws.handleConnection(ctx, w, r, handler)
	})

	ws.server = &http.Server{
		Addr:         ws.addr,
		Handler:      mux,
		ReadTimeout:  ws.readTimeout,
		WriteTimeout: ws.writeTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if err := ws.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		ws.closeAllClients()
		return ws.server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}

func (ws *WebSocket) handleConnection(ctx context.Context, w http.ResponseWriter, r *http.Request, handler Handler) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := &wsClient{conn: conn}

	ws.mu.Lock()
	ws.clients[client] = struct{}{}
	ws.mu.Unlock()

	defer func() {
		ws.mu.Lock()
		delete(ws.clients, client)
		ws.mu.Unlock()
		_ = conn.Close()
	}()

	// Expose the upgrade request headers to middleware, e.g. bearer-token auth.
	meta := make(protocol.RequestMeta, len(r.Header))
	for name := range r.Header {
		meta[name] = r.Header.Get(name)
	}
	connCtx := protocol.ContextWithRequestMeta(ctx, meta)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if ws.readTimeout > 0 {
			_ = conn.SetReadDeadline(time.Now().Add(ws.readTimeout))
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			// Close errors are normal client disconnects.
			return
		}

		message = bytes.TrimSpace(message)
		if len(message) == 0 {
			continue
		}

		req, decErr := protocol.DecodeRequest(message)
		if decErr != nil {
			var id json.RawMessage
			if req != nil {
				id = req.ID
			}
			_ = client.writeJSON(protocol.NewErrorResponse(id, protocol.NewInternalError(decErr.Message)))
			continue
		}

		resp, err := handler.HandleRequest(connCtx, req)
		if err != nil {
			var rpcErr *protocol.Error
			if errors.As(err, &rpcErr) {
				resp = protocol.NewErrorResponse(req.ID, rpcErr)
			} else {
				resp = protocol.NewErrorResponse(req.ID, protocol.NewInternalError(err.Error()))
			}
		}
		if resp == nil {
			resp = protocol.NewErrorResponse(req.ID, protocol.NewInternalError("handler returned no response"))
		}

		_ = client.writeJSON(resp)
	}
}

func (ws *WebSocket) closeAllClients() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	for client := range ws.clients {
		client.close()
	}
}

func (c *wsClient) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *wsClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = c.conn.Close()
}
