// Package transport provides linemcp transport implementations.
//
// A transport owns the session loop: it reads requests, hands each one to a
// Handler, and writes exactly one response per request. The loop never dies
// because of a single bad request: a line that cannot be decoded or
// dispatched still produces one failure response, and processing continues
// with the next line.
//
// # Stdio Transport
//
// The stdio transport reads one JSON object per line from stdin and writes
// one JSON object per line to stdout, flushing each response before the next
// line is read. Whitespace-only lines are skipped without output:
//
//	t := transport.NewStdio()
//	err := t.Serve(ctx, handler)
//
// Serve returns nil on end of input, ctx.Err() on cancellation, and the write
// error if the output stream becomes unwritable.
//
// # WebSocket Transport
//
// The WebSocket transport applies the same one-request one-response semantics
// per message. Headers from the upgrade request are exposed to middleware as
// request metadata:
//
//	t := transport.NewWebSocket(":8080",
//	    transport.WithWebSocketReadTimeout(60*time.Second),
//	)
//	err := t.Serve(ctx, handler)
package transport
