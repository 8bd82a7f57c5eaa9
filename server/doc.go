// Package server provides the tool and resource registry for linemcp.
//
// This package implements the registration side of the dispatcher: the
// catalog returned by tools/list and the handlers executed by tools/call both
// derive from a single registration, so they cannot drift apart. Most users
// should use the higher-level linemcp package instead of using this package
// directly.
//
// # Server
//
// The Server type is an explicitly constructed registry. It is built once at
// startup and handed to the dispatcher; there is no global method or tool
// table:
//
//	srv := server.New(server.Info{
//	    Name:    "my-server",
//	    Version: "1.0.0",
//	    Capabilities: server.Capabilities{
//	        Tools:     true,
//	        Resources: true,
//	    },
//	})
//
// # Tools
//
// Tools are registered with typed input structs. The input schema is generated
// from the struct, and declared defaults are applied while decoding arguments,
// before the handler runs:
//
//	type EchoInput struct {
//	    Message string `json:"message" jsonschema:"default=Hello from MCP!"`
//	}
//
//	srv.Tool("echo").
//	    Description("Echo back the input message").
//	    Handler(func(input EchoInput) (string, error) {
//	        return "Echo: " + input.Message, nil
//	    })
//
// Handlers report failures as ordinary error returns; the dispatcher maps
// every handler fault to a single internal-error code on the wire.
//
// # Resources
//
// Resources are registered under a URI or URI template:
//
//	srv.Resource("config://app").
//	    Name("App Config").
//	    Handler(func(ctx context.Context, uri string, params map[string]string) (*server.ResourceContent, error) {
//	        return &server.ResourceContent{URI: uri, Text: "{}"}, nil
//	    })
package server
