package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func numberPtr(f float64) *float64 { return &f }

func TestSchema_Validate(t *testing.T) {
	s := &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"name":  {Type: "string"},
			"count": {Type: "integer", Minimum: numberPtr(0), Maximum: numberPtr(100)},
			"ratio": {Type: "number"},
			"on":    {Type: "boolean"},
			"mode":  {Type: "string", Enum: []any{"fast", "slow"}},
			"items": {Type: "array", Items: &Schema{Type: "string"}},
		},
		Required: []string{"name"},
	}

	tests := []struct {
		name    string
		input   string
		wantErr string // substring; empty means valid
	}{
		{
			name:  "valid document",
			input: `{"name":"x","count":5,"ratio":0.5,"on":true,"mode":"fast","items":["a"]}`,
		},
		{
			name:    "missing required field",
			input:   `{"count":5}`,
			wantErr: "required field is missing",
		},
		{
			name:    "wrong type",
			input:   `{"name":42}`,
			wantErr: "expected string",
		},
		{
			name:    "decimal where integer expected",
			input:   `{"name":"x","count":1.5}`,
			wantErr: "expected integer",
		},
		{
			name:    "below minimum",
			input:   `{"name":"x","count":-1}`,
			wantErr: "less than minimum",
		},
		{
			name:    "above maximum",
			input:   `{"name":"x","count":101}`,
			wantErr: "greater than maximum",
		},
		{
			name:    "enum violation",
			input:   `{"name":"x","mode":"medium"}`,
			wantErr: "must be one of",
		},
		{
			name:    "bad array item",
			input:   `{"name":"x","items":[1]}`,
			wantErr: "expected string",
		},
		{
			name:    "not an object",
			input:   `[1,2,3]`,
			wantErr: "expected object",
		},
		{
			name:    "invalid json",
			input:   `{`,
			wantErr: "invalid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate(json.RawMessage(tt.input))

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Path: "a", Message: "bad"},
		{Path: "b.c", Message: "worse"},
	}

	msg := errs.Error()
	if !strings.Contains(msg, "a: bad") || !strings.Contains(msg, "b.c: worse") {
		t.Errorf("combined message missing entries: %q", msg)
	}
}

func TestSchema_ApplyDefaults(t *testing.T) {
	s := &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"message": {Type: "string", Default: "Hello from MCP!"},
			"a":       {Type: "number", Default: float64(0)},
			"plain":   {Type: "string"},
		},
	}

	tests := []struct {
		name  string
		input string
		want  map[string]any
	}{
		{
			name:  "empty input gets all defaults",
			input: ``,
			want:  map[string]any{"message": "Hello from MCP!", "a": float64(0)},
		},
		{
			name:  "empty object gets all defaults",
			input: `{}`,
			want:  map[string]any{"message": "Hello from MCP!", "a": float64(0)},
		},
		{
			name:  "present values win over defaults",
			input: `{"message":"hi","a":2}`,
			want:  map[string]any{"message": "hi", "a": float64(2)},
		},
		{
			name:  "fields without defaults stay absent",
			input: `{"message":"hi"}`,
			want:  map[string]any{"message": "hi", "a": float64(0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := s.ApplyDefaults(json.RawMessage(tt.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var got map[string]any
			if err := json.Unmarshal(out, &got); err != nil {
				t.Fatalf("output is not valid JSON: %v", err)
			}

			for k, want := range tt.want {
				if got[k] != want {
					t.Errorf("%s = %v, want %v", k, got[k], want)
				}
			}
			if _, ok := got["plain"]; ok {
				t.Error("field without a default should not be injected")
			}
		})
	}
}

func TestSchema_ApplyDefaults_NonObject(t *testing.T) {
	s := &Schema{Type: "string"}

	out, err := s.ApplyDefaults(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `{}` {
		t.Errorf("out = %s, want {}", out)
	}
}
