// Package mcpserver exposes a registry.Registry over the Model
// Context Protocol using mark3labs/mcp-go — the teacher uses this
// library as an MCP client (service/mcp/server.go); this is the same
// library's server side, serving the tool registry to any MCP-capable
// client (a desktop shell's LLM pane, an external agent).
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/dispatch"
	"github.com/mimir-dm/mimir-dm-go/internal/llmtool/registry"
)

const serverName = "mimir-dm"
const serverVersion = "0.1.0"

// Build constructs an MCP server exposing every tool in reg, routed
// through d so mutating tools go through the confirmation gate.
func Build(reg *registry.Registry, d *dispatch.Dispatcher) *server.MCPServer {
	s := server.NewMCPServer(serverName, serverVersion, server.WithToolCapabilities(true))

	for _, def := range reg.List() {
		s.AddTool(toMCPTool(def), makeHandler(d, def.Name))
	}
	return s
}

func toMCPTool(def registry.ToolDefinition) mcp.Tool {
	schema := def.JSONSchema()
	raw, _ := json.Marshal(schema)
	return mcp.Tool{
		Name:        def.Name,
		Description: def.Description,
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
		},
		RawInputSchema: raw,
	}
}

func makeHandler(d *dispatch.Dispatcher, toolName string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		requestID := req.GetString("request_id", toolName)
		result := d.Invoke(ctx, requestID, toolName, req.GetArguments())
		if !result.Success {
			return mcp.NewToolResultError(result.Error), nil
		}
		payload, err := json.Marshal(result.Payload)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}
