package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	ai "github.com/spetersoncode/toolchat"
	"github.com/spetersoncode/toolchat/tool"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// NewServer creates an MCP server that exposes every tool in registry.
// Calls are dispatched through [tool.Registry.Execute], so handler errors
// and panics reach the client as error results.
//
//	registry := tool.NewRegistry().Add(
//	    calculator.Tool(calculator.New()),
//	    cities.Tool(cities.Default()),
//	)
//	s := mcp.NewServer(registry, mcp.WithName("toolchat"))
func NewServer(registry *tool.Registry, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "toolchat-mcp",
		version: "1.0.0",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	for _, t := range registry.Tools() {
		s.AddTool(ToMCPTool(t), createMCPHandler(registry, t.Name))
	}
	return s
}

// createMCPHandler adapts a registry tool to an MCP tool handler.
func createMCPHandler(registry *tool.Registry, toolName string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsJSON := "{}"
		if req.Params.Arguments != nil {
			data, err := json.Marshal(req.Params.Arguments)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("failed to marshal arguments: %v", err)), nil
			}
			argsJSON = string(data)
		}

		result, err := registry.Execute(ctx, ai.ToolCall{
			Name:      toolName,
			Arguments: argsJSON,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return ToMCPCallToolResult(result), nil
	}
}

// ServeStdio serves registry as an MCP server over stdin/stdout, the
// standard transport for MCP servers launched as subprocesses.
func ServeStdio(registry *tool.Registry, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(registry, opts...))
}
