package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/modelctx/linemcp/protocol"
)

// Stdio implements the line-delimited transport over stdin/stdout. Each
// non-blank input line is one request and produces exactly one response line,
// flushed before the next line is read. Blank lines are skipped silently.
type Stdio struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	mu sync.Mutex
	w  *bufio.Writer
}

// StdioOption configures a Stdio transport.
type StdioOption func(*Stdio)

// WithStdin sets a custom stdin reader.
func WithStdin(r io.Reader) StdioOption {
	return func(s *Stdio) {
		s.in = r
	}
}

// WithStdout sets a custom stdout writer.
func WithStdout(w io.Writer) StdioOption {
	return func(s *Stdio) {
		s.out = w
	}
}

// WithStderr sets a custom stderr writer.
func WithStderr(w io.Writer) StdioOption {
	return func(s *Stdio) {
		s.errOut = w
	}
}

// NewStdio creates a new stdio transport.
func NewStdio(opts ...StdioOption) *Stdio {
	s := &Stdio{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Addr returns the transport address.
func (s *Stdio) Addr() string {
	return "stdio"
}

// Serve processes requests line by line until end of input, context
// cancellation, or a write failure on the output stream. End of input returns
// nil; cancellation returns ctx.Err(); an unwritable output stream returns the
// write error, since the loop can no longer uphold one-line-in one-line-out.
// Lines may be arbitrarily long.
func (s *Stdio) Serve(ctx context.Context, handler Handler) error {
	s.w = bufio.NewWriter(s.out)
	reader := bufio.NewReader(s.in)

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		for {
			line, err := reader.ReadString('\n')
			if line != "" {
				select {
				case lines <- line:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.flush()
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				// The line stream ends on both EOF and a failed read; a
				// pending read error takes precedence over a clean exit.
				select {
				case err := <-readErr:
					s.flush()
					return err
				default:
				}
				return s.flush()
			}

			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}

			if err := s.handleLine(ctx, handler, line); err != nil {
				return err
			}
		}
	}
}

// handleLine runs one request through decode, dispatch and encode. Every
// fault short of an unwritable output stream becomes a failure response for
// this line only; the loop keeps going.
func (s *Stdio) handleLine(ctx context.Context, handler Handler, line string) error {
	req, decErr := protocol.DecodeRequest([]byte(line))
	if decErr != nil {
		// No parse-error code is distinguished on this wire; decode faults
		// surface as internal errors, with id null when none was recovered.
		var id json.RawMessage
		if req != nil {
			id = req.ID
		}
		return s.writeResponse(protocol.NewErrorResponse(id, protocol.NewInternalError(decErr.Message)))
	}

	resp, err := handler.HandleRequest(ctx, req)
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

	return s.writeResponse(resp)
}

// writeResponse writes one response line and flushes it before the caller
// reads the next input line.
func (s *Stdio) writeResponse(resp *protocol.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := protocol.EncodeResponse(resp)
	if err != nil {
		// An unserializable result still owes the caller a response line.
		data, _ = protocol.EncodeResponse(protocol.NewErrorResponse(
			resp.ID, protocol.NewInternalError("response not serializable: "+err.Error())))
	}

	if _, err := s.w.Write(data); err != nil {
		return err
	}
	if err := s.w.WriteByte('\n'); err != nil {
		return err
	}
	return s.w.Flush()
}

func (s *Stdio) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}
