package protocol

// MCP protocol version returned by the initialize handshake.
const MCPVersion = "2024-11-05"

// MCP method names.
const (
	MethodInitialize             = "initialize"
	MethodToolsList              = "tools/list"
	MethodToolsCall              = "tools/call"
	MethodResourcesList          = "resources/list"
	MethodResourcesTemplatesList = "resources/templates/list"
	MethodPing                   = "ping"
)
