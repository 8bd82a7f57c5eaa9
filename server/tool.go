package server

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/modelctx/linemcp/protocol"
	"github.com/modelctx/linemcp/schema"
)

// structValidator checks `validate:"..."` struct tags on decoded tool inputs.
var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Tool represents a callable operation invoked through tools/call.
type Tool struct {
	name          string
	description   string
	inputType     reflect.Type
	inputIsPtr    bool
	inputSchema   *schema.Schema
	validateInput bool
	handler       any
	hasContext    bool
}

// Name returns the tool's registered name.
func (t *Tool) Name() string { return t.name }

// ToolBuilder provides a fluent API for building tools.
type ToolBuilder struct {
	tool   *Tool
	server *Server
	err    error
}

// Description sets the tool description.
func (b *ToolBuilder) Description(desc string) *ToolBuilder {
	if b.err != nil {
		return b
	}
	b.tool.description = desc
	return b
}

// ValidateInput enables runtime schema validation of tool inputs. When
// enabled, inputs are checked against the generated JSON Schema before the
// handler is called.
func (b *ToolBuilder) ValidateInput() *ToolBuilder {
	if b.err != nil {
		return b
	}
	b.tool.validateInput = true
	return b
}

// Handler sets the tool handler function and registers the tool.
// Handler signature must be one of:
//   - func(input T) (R, error)
//   - func(ctx context.Context, input T) (R, error)
//
// T may also be a pointer to a struct.
func (b *ToolBuilder) Handler(fn any) *ToolBuilder {
	if b.err != nil {
		return b
	}

	if err := b.validateHandler(fn); err != nil {
		b.err = err
		return b
	}

	b.tool.handler = fn
	b.server.registerTool(b.tool)
	return b
}

// Err returns the first error encountered while building, if any.
func (b *ToolBuilder) Err() error {
	return b.err
}

// validateHandler validates the handler function signature.
func (b *ToolBuilder) validateHandler(fn any) error {
	fnType := reflect.TypeOf(fn)

	if fnType == nil || fnType.Kind() != reflect.Func {
		return fmt.Errorf("handler must be a function, got %T", fn)
	}

	numIn := fnType.NumIn()
	if numIn < 1 || numIn > 2 {
		return fmt.Errorf("handler must have 1 or 2 parameters, got %d", numIn)
	}

	var inputParamIdx int
	if numIn == 2 {
		if !fnType.In(0).Implements(reflect.TypeOf((*context.Context)(nil)).Elem()) {
			return fmt.Errorf("first parameter must be context.Context when using 2 parameters")
		}
		b.tool.hasContext = true
		inputParamIdx = 1
	}

	inputType := fnType.In(inputParamIdx)
	if inputType.Kind() == reflect.Ptr {
		b.tool.inputIsPtr = true
		inputType = inputType.Elem()
	}
	b.tool.inputType = inputType

	inputSchema, err := schema.GenerateFromType(inputType)
	if err != nil {
		return fmt.Errorf("failed to generate input schema: %w", err)
	}
	b.tool.inputSchema = inputSchema

	if fnType.NumOut() != 2 {
		return fmt.Errorf("handler must return (result, error), got %d return values", fnType.NumOut())
	}

	errType := reflect.TypeOf((*error)(nil)).Elem()
	if !fnType.Out(1).Implements(errType) {
		return fmt.Errorf("second return value must be error")
	}

	return nil
}

// Execute runs the tool handler with the given JSON arguments. Declared
// defaults are merged in before decoding, so handlers see complete inputs.
func (t *Tool) Execute(ctx context.Context, input json.RawMessage) (any, error) {
	input, err := t.inputSchema.ApplyDefaults(input)
	if err != nil {
		return nil, protocol.NewInvalidParams(fmt.Sprintf("failed to parse arguments: %v", err))
	}

	if t.validateInput {
		if err := t.inputSchema.Validate(input); err != nil {
			return nil, protocol.NewInvalidParams(fmt.Sprintf("input validation failed: %v", err))
		}
	}

	inputPtr := reflect.New(t.inputType)
	if err := json.Unmarshal(input, inputPtr.Interface()); err != nil {
		return nil, protocol.NewInvalidParams(fmt.Sprintf("failed to parse arguments: %v", err))
	}

	if t.inputType.Kind() == reflect.Struct {
		if err := structValidator.Struct(inputPtr.Interface()); err != nil {
			return nil, protocol.NewInvalidParams(fmt.Sprintf("input validation failed: %v", err))
		}
	}

	fnVal := reflect.ValueOf(t.handler)
	var args []reflect.Value

	if t.hasContext {
		args = append(args, reflect.ValueOf(ctx))
	}
	if t.inputIsPtr {
		args = append(args, inputPtr)
	} else {
		args = append(args, inputPtr.Elem())
	}

	results := fnVal.Call(args)

	resultVal := results[0].Interface()
	errVal := results[1].Interface()

	if errVal != nil {
		return nil, errVal.(error)
	}

	return resultVal, nil
}
