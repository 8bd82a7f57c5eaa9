package protocol

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "simple error message",
			err:  &Error{Code: CodeInternalError, Message: "something went wrong"},
			want: "linemcp: something went wrong (code: -32603)",
		},
		{
			name: "parse error",
			err:  &Error{Code: CodeParseError, Message: "invalid JSON"},
			want: "linemcp: invalid JSON (code: -32700)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err1 := NewInternalError("test")
	err2 := NewInternalError("different message")
	err3 := NewInvalidParams("test")

	if !errors.Is(err1, err2) {
		t.Error("errors with same code should match with errors.Is")
	}

	if errors.Is(err1, err3) {
		t.Error("errors with different codes should not match with errors.Is")
	}
}

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		wantCode int
		wantMsg  string
	}{
		{"parse error", NewParseError("invalid JSON"), CodeParseError, "invalid JSON"},
		{"invalid request", NewInvalidRequest("missing method"), CodeInvalidRequest, "missing method"},
		{"method not found", NewMethodNotFound("unknown/method"), CodeMethodNotFound, "unknown/method"},
		{"invalid params", NewInvalidParams("missing required field"), CodeInvalidParams, "missing required field"},
		{"internal error", NewInternalError("unknown tool: bogus"), CodeInternalError, "unknown tool: bogus"},
		{"not found", NewNotFound("resource not found"), CodeNotFound, "resource not found"},
		{"unauthorized", NewUnauthorized("invalid token"), CodeUnauthorized, "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %d, want %d", tt.err.Code, tt.wantCode)
			}
			if tt.err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.wantMsg)
			}
		})
	}
}

func TestError_WithData(t *testing.T) {
	data := map[string]string{"field": "name", "reason": "required"}
	err := NewInvalidParams("validation failed").WithData(data)

	if err.Data == nil {
		t.Fatal("Data should not be nil")
	}

	dataMap, ok := err.Data.(map[string]string)
	if !ok {
		t.Fatalf("Data type = %T, want map[string]string", err.Data)
	}

	if dataMap["field"] != "name" {
		t.Errorf("Data[field] = %q, want %q", dataMap["field"], "name")
	}
}
