package protocol

import "encoding/json"

// JSONRPCVersion is the JSON-RPC protocol version.
const JSONRPCVersion = "2.0"

// Request represents a JSON-RPC request. The ID is kept as raw JSON so that
// numbers, strings and null are echoed back verbatim in the response.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC response. Exactly one of Result and Error is
// set. The ID is always serialized; a missing request id becomes null.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// NewResponse creates a successful response.
func NewResponse(id json.RawMessage, result any) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(id json.RawMessage, err *Error) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   err,
	}
}

// DecodeRequest parses one line of wire input into a Request. A line that is
// not valid JSON yields a parse error with no request. A line that parses but
// carries no method yields an invalid request error together with the partial
// request, so callers can still correlate the failure by id.
func DecodeRequest(line []byte) (*Request, *Error) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		return nil, NewParseError(err.Error())
	}
	if req.Method == "" {
		return &req, NewInvalidRequest("missing method")
	}
	return &req, nil
}

// EncodeResponse serializes a response onto a single line without a trailing
// newline. It fails only for result values that are not representable as JSON.
func EncodeResponse(resp *Response) ([]byte, error) {
	return json.Marshal(resp)
}
