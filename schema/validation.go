package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Schema type constants.
const (
	typeObject  = "object"
	typeArray   = "array"
	typeString  = "string"
	typeInteger = "integer"
	typeNumber  = "number"
	typeBoolean = "boolean"
)

// ValidationError represents a schema validation error.
type ValidationError struct {
	Path    string // JSON path to the invalid field (e.g., "user.email")
	Message string // Human-readable error message
}

func (e *ValidationError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range e {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Validate validates JSON data against a schema.
// Returns nil if valid, or ValidationErrors if invalid.
func (s *Schema) Validate(data json.RawMessage) error {
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		return &ValidationError{Message: fmt.Sprintf("invalid JSON: %s", err)}
	}

	var errs ValidationErrors
	s.validate("", value, &errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateValue validates a Go value against a schema.
func (s *Schema) ValidateValue(value any) error {
	var errs ValidationErrors
	s.validate("", value, &errs)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *Schema) validate(path string, value any, errs *ValidationErrors) {
	// null is valid for any type; required is enforced on the containing object.
	if value == nil {
		return
	}

	switch s.Type {
	case typeObject:
		s.validateObject(path, value, errs)
	case typeArray:
		s.validateArray(path, value, errs)
	case typeString:
		s.validateString(path, value, errs)
	case typeInteger, typeNumber:
		s.validateNumeric(path, value, errs)
	case typeBoolean:
		if _, ok := value.(bool); !ok {
			*errs = append(*errs, &ValidationError{
				Path:    path,
				Message: fmt.Sprintf("expected boolean, got %T", value),
			})
		}
	}
}

func (s *Schema) validateObject(path string, value any, errs *ValidationErrors) {
	obj, ok := value.(map[string]any)
	if !ok {
		*errs = append(*errs, &ValidationError{
			Path:    path,
			Message: fmt.Sprintf("expected object, got %T", value),
		})
		return
	}

	// Check required fields
	for _, req := range s.Required {
		if _, exists := obj[req]; !exists {
			*errs = append(*errs, &ValidationError{
				Path:    joinPath(path, req),
				Message: "required field is missing",
			})
		}
	}

	// Validate present properties
	for name, propSchema := range s.Properties {
		if val, exists := obj[name]; exists {
			propSchema.validate(joinPath(path, name), val, errs)
		}
	}
}

func (s *Schema) validateArray(path string, value any, errs *ValidationErrors) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		*errs = append(*errs, &ValidationError{
			Path:    path,
			Message: fmt.Sprintf("expected array, got %T", value),
		})
		return
	}

	if s.Items == nil {
		return
	}

	for i := 0; i < rv.Len(); i++ {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		s.Items.validate(itemPath, rv.Index(i).Interface(), errs)
	}
}

func (s *Schema) validateString(path string, value any, errs *ValidationErrors) {
	str, ok := value.(string)
	if !ok {
		*errs = append(*errs, &ValidationError{
			Path:    path,
			Message: fmt.Sprintf("expected string, got %T", value),
		})
		return
	}

	if len(s.Enum) > 0 {
		for _, e := range s.Enum {
			if e == str {
				return
			}
		}
		*errs = append(*errs, &ValidationError{
			Path:    path,
			Message: fmt.Sprintf("value must be one of: %v", s.Enum),
		})
	}
}

func (s *Schema) validateNumeric(path string, value any, errs *ValidationErrors) {
	var num float64
	switch v := value.(type) {
	case float64:
		num = v
	case float32:
		num = float64(v)
	case int:
		num = float64(v)
	case int64:
		num = float64(v)
	default:
		*errs = append(*errs, &ValidationError{
			Path:    path,
			Message: fmt.Sprintf("expected %s, got %T", s.Type, value),
		})
		return
	}

	if s.Type == typeInteger && num != float64(int64(num)) {
		*errs = append(*errs, &ValidationError{
			Path:    path,
			Message: "expected integer, got decimal number",
		})
		return
	}

	if s.Minimum != nil && num < *s.Minimum {
		*errs = append(*errs, &ValidationError{
			Path:    path,
			Message: fmt.Sprintf("value %v is less than minimum %v", num, *s.Minimum),
		})
	}

	if s.Maximum != nil && num > *s.Maximum {
		*errs = append(*errs, &ValidationError{
			Path:    path,
			Message: fmt.Sprintf("value %v is greater than maximum %v", num, *s.Maximum),
		})
	}
}

func joinPath(base, field string) string {
	if base == "" {
		return field
	}
	return base + "." + field
}
