// Package server provides the method and tool registry for linemcp.
package server

import (
	"sort"
	"sync"

	"github.com/modelctx/linemcp/protocol"
)

// Info contains server metadata exposed to clients.
type Info struct {
	Name         string
	Version      string
	Capabilities Capabilities
}

// Capabilities declares what features the server supports.
type Capabilities struct {
	Tools     bool
	Resources bool
}

// Manifest represents the server manifest returned by the initialize handshake.
type Manifest struct {
	Name            string       `json:"name"`
	Version         string       `json:"version"`
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
}

// ToolInfo represents catalog metadata about a registered tool. The catalog
// entry and the executable handler come from the same registration, so the
// tools/list catalog can never drift from what tools/call can invoke.
type ToolInfo struct {
	Name        string
	Description string
	InputSchema any
}

// Option configures a Server.
type Option func(*Server)

// Server holds the tool and resource registries. It is built once at startup,
// populated through the builder APIs, and then handed to the dispatcher; there
// is no process-wide registry.
type Server struct {
	mu sync.RWMutex

	info      Info
	tools     map[string]*Tool
	resources map[string]*Resource
}

// New creates a new server with the given info and options.
func New(info Info, opts ...Option) *Server {
	s := &Server{
		info:      info,
		tools:     make(map[string]*Tool),
		resources: make(map[string]*Resource),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Info returns the server info.
func (s *Server) Info() Info {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

// Manifest returns the server manifest for the initialize handshake.
func (s *Server) Manifest() Manifest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Manifest{
		Name:            s.info.Name,
		Version:         s.info.Version,
		ProtocolVersion: protocol.MCPVersion,
		Capabilities:    s.info.Capabilities,
	}
}

// Tool starts building a new tool with the given name.
func (s *Server) Tool(name string) *ToolBuilder {
	return &ToolBuilder{
		tool: &Tool{
			name: name,
		},
		server: s,
	}
}

// Tools returns catalog info for all registered tools, sorted by name so the
// catalog is stable across calls.
func (s *Server) Tools() []ToolInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ToolInfo, 0, len(s.tools))
	for _, t := range s.tools {
		result = append(result, ToolInfo{
			Name:        t.name,
			Description: t.description,
			InputSchema: t.inputSchema,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// GetTool retrieves a tool by name.
func (s *Server) GetTool(name string) (*Tool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tools[name]
	return t, ok
}

// registerTool adds a tool to the server.
func (s *Server) registerTool(t *Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools[t.name] = t
}

// Resource starts building a new resource with the given URI or URI template.
func (s *Server) Resource(uriTemplate string) *ResourceBuilder {
	return &ResourceBuilder{
		resource: &Resource{
			uriTemplate: uriTemplate,
		},
		server: s,
	}
}

// Resources returns info about registered concrete resources, sorted by URI.
// Templated resources are listed separately by ResourceTemplates.
func (s *Server) Resources() []ResourceInfo {
	return s.listResources(false)
}

// ResourceTemplates returns info about registered templated resources, sorted
// by URI template.
func (s *Server) ResourceTemplates() []ResourceInfo {
	return s.listResources(true)
}

func (s *Server) listResources(templated bool) []ResourceInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]ResourceInfo, 0, len(s.resources))
	for _, r := range s.resources {
		if r.isTemplated() != templated {
			continue
		}
		result = append(result, ResourceInfo{
			URITemplate: r.uriTemplate,
			Name:        r.name,
			Description: r.description,
			MimeType:    r.mimeType,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].URITemplate < result[j].URITemplate })
	return result
}

// registerResource adds a resource to the server.
func (s *Server) registerResource(r *Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[r.uriTemplate] = r
}

// FindResourceForURI finds a resource that matches the given URI.
func (s *Server) FindResourceForURI(uri string) (*Resource, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.resources {
		if _, ok := matchURI(r.uriTemplate, uri); ok {
			return r, true
		}
	}
	return nil, false
}
