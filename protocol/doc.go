// Package protocol defines the JSON-RPC message types, error codes and the
// line codec used by linemcp.
//
// This package provides the low-level protocol structures used by linemcp.
// Most users should use the higher-level linemcp package instead.
//
// # Request and Response Types
//
// The package defines the core wire message types:
//
//	type Request struct {
//	    JSONRPC string          `json:"jsonrpc"`
//	    ID      json.RawMessage `json:"id,omitempty"`
//	    Method  string          `json:"method"`
//	    Params  json.RawMessage `json:"params,omitempty"`
//	}
//
//	type Response struct {
//	    JSONRPC string          `json:"jsonrpc"`
//	    ID      json.RawMessage `json:"id"`
//	    Result  any             `json:"result,omitempty"`
//	    Error   *Error          `json:"error,omitempty"`
//	}
//
// A response always carries an id; when a request could not be parsed far
// enough to recover one, the id serializes as null.
//
// # Line Codec
//
// DecodeRequest and EncodeResponse convert between wire lines and the message
// types. One JSON object per line, no embedded newlines:
//
//	req, decErr := protocol.DecodeRequest(line)
//	data, err := protocol.EncodeResponse(resp)
//
// # Error Codes
//
// Standard JSON-RPC 2.0 error codes are defined as constants:
//
//	CodeParseError     = -32700  // Invalid JSON
//	CodeInvalidRequest = -32600  // Invalid Request object
//	CodeMethodNotFound = -32601  // Method not found
//	CodeInvalidParams  = -32602  // Invalid method parameters
//	CodeInternalError  = -32603  // Internal server error
//
// On the wire only two of them ever appear from the core dispatch loop: an
// unknown top-level method is reported as -32601, and every other fault
// (malformed input, unknown tool, handler failure) is flattened to -32603
// with the fault description as the message.
//
// Helper functions create properly formatted errors:
//
//	err := protocol.NewMethodNotFound("unknown/method")
//	err := protocol.NewInternalError("unknown tool: bogus")
package protocol
