// Package mcp connects toolchat tool registries with the Model Context
// Protocol.
//
//   - Server: expose a [tool.Registry] to MCP clients such as Claude Desktop
//     with [NewServer] or [ServeStdio].
//   - Client: load the tools of another MCP server through [RemoteRegistry]
//     and add them to a local registry with [RemoteRegistry.AddTo].
package mcp

import (
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/toolchat"
)

// ToMCPTool converts a Tool to an MCP Tool, passing the parameter schema
// through as the raw input schema.
func ToMCPTool(t ai.Tool) mcp.Tool {
	schema := t.Parameters
	if len(schema) == 0 {
		schema = json.RawMessage(`{"type":"object","properties":{}}`)
	}
	return mcp.NewToolWithRawSchema(t.Name, t.Description, schema)
}

// FromMCPTool converts an MCP Tool to a Tool.
func FromMCPTool(t mcp.Tool) ai.Tool {
	schema := json.RawMessage(t.RawInputSchema)
	if len(schema) == 0 {
		if data, err := json.Marshal(t.InputSchema); err == nil {
			schema = data
		}
	}
	return ai.Tool{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  schema,
	}
}

// ToMCPCallToolRequest converts a ToolCall to an MCP CallToolRequest.
// Arguments that are not valid JSON are passed through as a string.
func ToMCPCallToolRequest(call ai.ToolCall) mcp.CallToolRequest {
	var args any
	if strings.TrimSpace(call.Arguments) != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			args = call.Arguments
		}
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      call.Name,
			Arguments: args,
		},
	}
}

// FromMCPCallToolResult converts an MCP CallToolResult to a ToolResult.
// Text content is joined with newlines; other content is included as JSON.
func FromMCPCallToolResult(callID string, result *mcp.CallToolResult) ai.ToolResult {
	if result == nil {
		return ai.ToolResult{ToolCallID: callID, IsError: true}
	}

	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}

	return ai.ToolResult{
		ToolCallID: callID,
		Content:    strings.Join(parts, "\n"),
		IsError:    result.IsError,
	}
}

// ToMCPCallToolResult converts a ToolResult to an MCP CallToolResult.
func ToMCPCallToolResult(result ai.ToolResult) *mcp.CallToolResult {
	if result.IsError {
		return mcp.NewToolResultError(result.Content)
	}
	return mcp.NewToolResultText(result.Content)
}
