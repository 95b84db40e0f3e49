package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	ai "github.com/spetersoncode/toolchat"
	"github.com/spetersoncode/toolchat/calculator"
	"github.com/spetersoncode/toolchat/cities"
	"github.com/spetersoncode/toolchat/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoRegistry() *tool.Registry {
	return tool.NewRegistry().Add(
		calculator.Tool(calculator.New()),
		cities.Tool(cities.Default()),
	)
}

func startClient(t *testing.T, registry *tool.Registry) *client.Client {
	t.Helper()
	c, err := client.NewInProcessClient(NewServer(registry, WithName("test-server"), WithVersion("1.0.0")))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { c.Close() })

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo:      mcp.Implementation{Name: "test-client", Version: "1.0.0"},
		},
	})
	require.NoError(t, err)
	return c
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestToMCPTool(t *testing.T) {
	t.Run("passes schema through", func(t *testing.T) {
		schema := json.RawMessage(`{"type":"object","properties":{"city":{"type":"string"}}}`)
		mt := ToMCPTool(ai.Tool{Name: "city_info", Description: "Look up a city", Parameters: schema})

		assert.Equal(t, "city_info", mt.Name)
		assert.Equal(t, "Look up a city", mt.Description)
		assert.JSONEq(t, string(schema), string(mt.RawInputSchema))
	})

	t.Run("nil parameters become empty object", func(t *testing.T) {
		mt := ToMCPTool(ai.Tool{Name: "ping"})
		assert.JSONEq(t, `{"type":"object","properties":{}}`, string(mt.RawInputSchema))
	})
}

func TestFromMCPTool(t *testing.T) {
	t.Run("raw schema", func(t *testing.T) {
		raw := json.RawMessage(`{"type":"object"}`)
		got := FromMCPTool(mcp.NewToolWithRawSchema("calculator", "Evaluate", raw))
		assert.Equal(t, "calculator", got.Name)
		assert.Equal(t, "Evaluate", got.Description)
		assert.JSONEq(t, `{"type":"object"}`, string(got.Parameters))
	})

	t.Run("structured schema", func(t *testing.T) {
		got := FromMCPTool(mcp.NewTool("city_info",
			mcp.WithDescription("Look up a city"),
			mcp.WithString("city", mcp.Required()),
		))
		var schema map[string]any
		require.NoError(t, json.Unmarshal(got.Parameters, &schema))
		assert.Equal(t, "object", schema["type"])
		assert.Contains(t, schema["properties"], "city")
	})
}

func TestToMCPCallToolRequest(t *testing.T) {
	t.Run("decodes json arguments", func(t *testing.T) {
		req := ToMCPCallToolRequest(ai.ToolCall{Name: "calculator", Arguments: `{"expression":"2+2"}`})
		assert.Equal(t, "calculator", req.Params.Name)
		assert.Equal(t, map[string]any{"expression": "2+2"}, req.Params.Arguments)
	})

	t.Run("empty arguments", func(t *testing.T) {
		req := ToMCPCallToolRequest(ai.ToolCall{Name: "ping"})
		assert.Nil(t, req.Params.Arguments)
	})

	t.Run("invalid json passes through", func(t *testing.T) {
		req := ToMCPCallToolRequest(ai.ToolCall{Name: "x", Arguments: "not json"})
		assert.Equal(t, "not json", req.Params.Arguments)
	})
}

func TestCallToolResultConversion(t *testing.T) {
	t.Run("joins text content", func(t *testing.T) {
		res := FromMCPCallToolResult("call_1", &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent("a"), mcp.NewTextContent("b")},
		})
		assert.Equal(t, "call_1", res.ToolCallID)
		assert.Equal(t, "a\nb", res.Content)
		assert.False(t, res.IsError)
	})

	t.Run("error flag", func(t *testing.T) {
		res := FromMCPCallToolResult("c", mcp.NewToolResultError("Calculation error: x"))
		assert.True(t, res.IsError)
		assert.Equal(t, "Calculation error: x", res.Content)
	})

	t.Run("nil result is an error", func(t *testing.T) {
		assert.True(t, FromMCPCallToolResult("c", nil).IsError)
	})

	t.Run("to mcp", func(t *testing.T) {
		ok := ToMCPCallToolResult(ai.ToolResult{Content: "Result: 4"})
		assert.False(t, ok.IsError)
		assert.Equal(t, "Result: 4", textOf(t, ok))

		failed := ToMCPCallToolResult(ai.ToolResult{Content: "boom", IsError: true})
		assert.True(t, failed.IsError)
	})
}

func TestServer(t *testing.T) {
	ctx := context.Background()
	c := startClient(t, demoRegistry())

	t.Run("lists tools in registration order", func(t *testing.T) {
		result, err := c.ListTools(ctx, mcp.ListToolsRequest{})
		require.NoError(t, err)

		names := make([]string, len(result.Tools))
		for i, tl := range result.Tools {
			names[i] = tl.Name
		}
		assert.ElementsMatch(t, []string{calculator.ToolName, cities.ToolName}, names)
	})

	t.Run("calls calculator", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Name = calculator.ToolName
		req.Params.Arguments = map[string]any{"expression": "(10*5)/2"}

		result, err := c.CallTool(ctx, req)
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Equal(t, "Result: 25.0", textOf(t, result))
	})

	t.Run("calls city_info", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Name = cities.ToolName
		req.Params.Arguments = map[string]any{"city": "paris"}

		result, err := c.CallTool(ctx, req)
		require.NoError(t, err)
		assert.Contains(t, textOf(t, result), "Information about Paris:")
	})

	t.Run("invalid arguments carry the tool error text", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Name = calculator.ToolName
		req.Params.Arguments = map[string]any{"expression": 42}

		result, err := c.CallTool(ctx, req)
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.True(t, strings.HasPrefix(textOf(t, result), "Calculation error: "), textOf(t, result))
	})
}

func TestRemoteRegistry(t *testing.T) {
	ctx := context.Background()

	newRemote := func(t *testing.T) *RemoteRegistry {
		c, err := client.NewInProcessClient(NewServer(demoRegistry()))
		require.NoError(t, err)
		remote, err := NewRemoteRegistryFromClient(ctx, c)
		require.NoError(t, err)
		t.Cleanup(func() { remote.Close() })
		return remote
	}

	t.Run("loads remote tools", func(t *testing.T) {
		remote := newRemote(t)

		assert.Equal(t, 2, remote.Len())
		assert.True(t, remote.Has(calculator.ToolName))
		assert.False(t, remote.Has("weather"))
		assert.Equal(t, []string{calculator.ToolName, cities.ToolName}, []string{remote.Tools()[0].Name, remote.Tools()[1].Name})

		ct, ok := remote.GetTool(cities.ToolName)
		require.True(t, ok)
		assert.Equal(t, cities.Description, ct.Description)
	})

	t.Run("executes remote tools", func(t *testing.T) {
		remote := newRemote(t)

		result, err := remote.Execute(ctx, ai.ToolCall{
			ID:        "call_123",
			Name:      calculator.ToolName,
			Arguments: `{"expression":"2+2"}`,
		})
		require.NoError(t, err)
		assert.Equal(t, "call_123", result.ToolCallID)
		assert.Equal(t, calculator.ToolName, result.Name)
		assert.Equal(t, "Result: 4", result.Content)
		assert.False(t, result.IsError)
	})

	t.Run("refresh", func(t *testing.T) {
		remote := newRemote(t)
		require.NoError(t, remote.Refresh(ctx))
		assert.Equal(t, 2, remote.Len())
	})

	t.Run("adds proxies to a local registry", func(t *testing.T) {
		remote := newRemote(t)
		local := tool.NewRegistry()
		require.NoError(t, remote.AddTo(local))
		assert.Equal(t, 2, local.Len())

		result, err := local.Execute(ctx, ai.ToolCall{ID: "c1", Name: cities.ToolName, Arguments: `{"city":"Tokyo"}`})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Contains(t, result.Content, "Information about Tokyo:")

		var conflict *tool.ErrToolAlreadyRegistered
		assert.ErrorAs(t, remote.AddTo(local), &conflict)
	})
}
