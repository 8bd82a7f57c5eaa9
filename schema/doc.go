// Package schema provides JSON Schema generation from Go types.
//
// This package automatically generates JSON Schema definitions from Go structs,
// supporting common Go types and struct tags for customization.
//
// # Basic Usage
//
// Generate a schema from a Go value:
//
//	type EchoInput struct {
//	    Message string `json:"message" jsonschema:"description=Message to echo back,default=Hello from MCP!"`
//	}
//
//	s, err := schema.Generate(EchoInput{})
//
// # Tags
//
// The jsonschema struct tag supports:
//
//   - required: adds the field to the schema's required list
//   - description=...: sets the field description
//   - default=...: sets the field default, parsed to the field's type
//
// # Defaults
//
// ApplyDefaults merges property defaults into a raw JSON object before it is
// decoded into the typed input struct, so missing arguments take their
// declared defaults in one place:
//
//	args, err := s.ApplyDefaults(rawArguments)
//
// # Validation
//
// Validate checks raw JSON against a schema and reports every violation with
// its JSON path:
//
//	if err := s.Validate(args); err != nil { ... }
package schema
