// Package toolchat provides the core types for a tool-calling chat assistant.
//
// The module wires a hosted chat model (Anthropic Claude by default, with OpenAI
// and Google Gemini as alternatives) to a small set of local tools through a
// tool-calling agent loop, and exposes the result as an interactive console chat.
//
// # Core Types
//
//   - [Message], [Response] and [Usage] describe a conversation and its results
//   - [Tool], [ToolCall] and [ToolResult] describe tools the model may invoke
//   - [ChatProvider] is implemented by each provider adapter
//   - [Error] classifies provider failures as transient, permanent or user input
//
// Use the [github.com/spetersoncode/toolchat/client] package to talk to a provider
// and the [github.com/spetersoncode/toolchat/assistant] package for the ready-made
// calculator and city-facts assistant.
//
// # Basic Usage
//
//	c, err := client.New(ctx, client.Config{
//	    Provider: toolchat.ProviderAnthropic,
//	    APIKey:   os.Getenv("ANTHROPIC_API_KEY"),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	a := assistant.New(c, assistant.DefaultConfig())
//	fmt.Println(a.Ask(ctx, "Calculate (10 * 5) + sqrt(25)"))
//
// # Tool Calling
//
// Tool parameters are JSON Schema objects, usually generated from a struct:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" desc:"City name" required:"true"`
//	}
//
//	tools := []toolchat.Tool{{
//	    Name:        "get_weather",
//	    Description: "Get current weather for a location",
//	    Parameters:  toolchat.MustSchemaFor[WeatherArgs](),
//	}}
//
//	resp, err := c.Chat(ctx, messages, toolchat.WithTools(tools))
package toolchat
