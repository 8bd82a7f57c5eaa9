package server

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/modelctx/linemcp/protocol"
)

func TestToolBuilder_HandlerSignatures(t *testing.T) {
	type input struct {
		Value string `json:"value"`
	}

	tests := []struct {
		name    string
		handler any
		wantErr bool
	}{
		{
			name:    "input only",
			handler: func(in input) (string, error) { return in.Value, nil },
		},
		{
			name:    "context and input",
			handler: func(ctx context.Context, in input) (string, error) { return in.Value, nil },
		},
		{
			name:    "pointer input",
			handler: func(in *input) (string, error) { return in.Value, nil },
		},
		{
			name:    "context and pointer input",
			handler: func(ctx context.Context, in *input) (string, error) { return in.Value, nil },
		},
		{
			name:    "not a function",
			handler: "nope",
			wantErr: true,
		},
		{
			name:    "no parameters",
			handler: func() (string, error) { return "", nil },
			wantErr: true,
		},
		{
			name:    "first of two params not context",
			handler: func(a, b input) (string, error) { return "", nil },
			wantErr: true,
		},
		{
			name:    "single return value",
			handler: func(in input) string { return in.Value },
			wantErr: true,
		},
		{
			name:    "second return not error",
			handler: func(in input) (string, string) { return "", "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := New(Info{Name: "test", Version: "1.0.0"})
			b := srv.Tool("candidate").Handler(tt.handler)

			if tt.wantErr {
				if b.Err() == nil {
					t.Error("expected builder error, got nil")
				}
				if _, ok := srv.GetTool("candidate"); ok {
					t.Error("invalid tool must not be registered")
				}
				return
			}

			if b.Err() != nil {
				t.Fatalf("unexpected builder error: %v", b.Err())
			}
			if _, ok := srv.GetTool("candidate"); !ok {
				t.Error("valid tool should be registered")
			}
		})
	}
}

func TestTool_Execute(t *testing.T) {
	type echoInput struct {
		Message string `json:"message" jsonschema:"description=Message to echo back,default=Hello from MCP!"`
	}

	srv := New(Info{Name: "test", Version: "1.0.0"})
	srv.Tool("echo").
		Description("Echo back the input message").
		Handler(func(in echoInput) (string, error) {
			return "Echo: " + in.Message, nil
		})

	tool, _ := srv.GetTool("echo")

	t.Run("decodes typed input", func(t *testing.T) {
		result, err := tool.Execute(context.Background(), json.RawMessage(`{"message":"hi"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "Echo: hi" {
			t.Errorf("result = %v, want %q", result, "Echo: hi")
		}
	})

	t.Run("applies declared default for missing argument", func(t *testing.T) {
		result, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "Echo: Hello from MCP!" {
			t.Errorf("result = %v, want %q", result, "Echo: Hello from MCP!")
		}
	})

	t.Run("applies default when arguments are absent entirely", func(t *testing.T) {
		result, err := tool.Execute(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "Echo: Hello from MCP!" {
			t.Errorf("result = %v, want %q", result, "Echo: Hello from MCP!")
		}
	})

	t.Run("rejects malformed arguments", func(t *testing.T) {
		_, err := tool.Execute(context.Background(), json.RawMessage(`{"message":42}`))
		if err == nil {
			t.Fatal("expected error for wrong argument type")
		}
		var mcpErr *protocol.Error
		if !errors.As(err, &mcpErr) || mcpErr.Code != protocol.CodeInvalidParams {
			t.Errorf("err = %v, want invalid params", err)
		}
	})
}

func TestTool_Execute_PointerInput(t *testing.T) {
	type greetInput struct {
		Name string `json:"name" jsonschema:"default=world"`
	}

	srv := New(Info{Name: "test", Version: "1.0.0"})
	srv.Tool("greet").
		Handler(func(in *greetInput) (string, error) {
			return "Hello, " + in.Name, nil
		})

	tool, ok := srv.GetTool("greet")
	if !ok {
		t.Fatal("pointer-input tool should be registered")
	}

	t.Run("decodes into the pointed-to struct", func(t *testing.T) {
		result, err := tool.Execute(context.Background(), json.RawMessage(`{"name":"gopher"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "Hello, gopher" {
			t.Errorf("result = %v, want %q", result, "Hello, gopher")
		}
	})

	t.Run("defaults apply as for value inputs", func(t *testing.T) {
		result, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "Hello, world" {
			t.Errorf("result = %v, want %q", result, "Hello, world")
		}
	})
}

func TestTool_Execute_ContextHandler(t *testing.T) {
	type input struct{}

	type ctxKey struct{}

	srv := New(Info{Name: "test", Version: "1.0.0"})
	srv.Tool("probe").Handler(func(ctx context.Context, _ input) (string, error) {
		v, _ := ctx.Value(ctxKey{}).(string)
		return v, nil
	})

	tool, _ := srv.GetTool("probe")
	ctx := context.WithValue(context.Background(), ctxKey{}, "carried")

	result, err := tool.Execute(ctx, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "carried" {
		t.Errorf("result = %v, want %q", result, "carried")
	}
}

func TestTool_Execute_HandlerError(t *testing.T) {
	type input struct{}

	srv := New(Info{Name: "test", Version: "1.0.0"})
	srv.Tool("failing").Handler(func(input) (string, error) {
		return "", errors.New("division by zero")
	})

	tool, _ := srv.GetTool("failing")

	_, err := tool.Execute(context.Background(), nil)
	if err == nil {
		t.Fatal("expected handler error")
	}
	if err.Error() != "division by zero" {
		t.Errorf("err = %q, want the handler's message", err.Error())
	}
}

func TestTool_Execute_SchemaValidation(t *testing.T) {
	type input struct {
		Name string `json:"name" jsonschema:"required"`
	}

	srv := New(Info{Name: "test", Version: "1.0.0"})
	srv.Tool("strict").
		ValidateInput().
		Handler(func(in input) (string, error) { return in.Name, nil })

	tool, _ := srv.GetTool("strict")

	_, err := tool.Execute(context.Background(), json.RawMessage(`{}`))
	if err == nil {
		t.Fatal("expected validation error for missing required field")
	}
	if !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("err = %q, want a validation failure", err.Error())
	}
}

func TestTool_Execute_StructTagValidation(t *testing.T) {
	type input struct {
		Email string `json:"email" validate:"omitempty,email"`
	}

	srv := New(Info{Name: "test", Version: "1.0.0"})
	srv.Tool("signup").Handler(func(in input) (string, error) { return in.Email, nil })

	tool, _ := srv.GetTool("signup")

	t.Run("valid input passes", func(t *testing.T) {
		result, err := tool.Execute(context.Background(), json.RawMessage(`{"email":"a@b.co"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result != "a@b.co" {
			t.Errorf("result = %v", result)
		}
	})

	t.Run("invalid input rejected", func(t *testing.T) {
		_, err := tool.Execute(context.Background(), json.RawMessage(`{"email":"not-an-email"}`))
		if err == nil {
			t.Fatal("expected validate tag failure")
		}
		var mcpErr *protocol.Error
		if !errors.As(err, &mcpErr) || mcpErr.Code != protocol.CodeInvalidParams {
			t.Errorf("err = %v, want invalid params", err)
		}
	})
}
