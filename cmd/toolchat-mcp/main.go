// Command toolchat-mcp serves the calculator and city_info tools over MCP
// stdio, so MCP clients such as Claude Desktop can call them.
//
// Usage:
//
//	go run ./cmd/toolchat-mcp
//
// Configuration for Claude Desktop (claude_desktop_config.json):
//
//	{
//	    "mcpServers": {
//	        "toolchat": {
//	            "command": "go",
//	            "args": ["run", "./cmd/toolchat-mcp"],
//	            "cwd": "/path/to/toolchat"
//	        }
//	    }
//	}
//
// The same binary can back the console chat through TOOLCHAT_MCP_COMMAND.
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spetersoncode/toolchat/calculator"
	"github.com/spetersoncode/toolchat/cities"
	"github.com/spetersoncode/toolchat/mcp"
	"github.com/spetersoncode/toolchat/tool"
)

const version = "1.0.0"

func main() {
	godotenv.Load()

	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("TOOLCHAT_LOG_LEVEL"))); err != nil {
		level = slog.LevelWarn
	}
	// stdout carries the protocol, so logs go to stderr.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	registry := tool.NewRegistry().Add(
		calculator.Tool(calculator.New()),
		cities.Tool(cities.Default()),
	)

	logger.Info("serving MCP over stdio", "tools", registry.Names(), "version", version)
	if err := mcp.ServeStdio(registry,
		mcp.WithName("toolchat"),
		mcp.WithVersion(version),
	); err != nil {
		logger.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
