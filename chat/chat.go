// Package chat provides the Client interface consumed by the agent and
// assistant packages.
//
// It lives apart from the client package so that tests can supply fakes
// without importing provider SDKs.
// [github.com/spetersoncode/toolchat/client.Client] implements this interface.
package chat

import (
	"context"

	ai "github.com/spetersoncode/toolchat"
	"github.com/spetersoncode/toolchat/event"
)

// Client defines the interface for high-level chat clients.
//
// The streaming method returns [event.Event] values covering the message
// lifecycle (start, delta, end) and any tool calls the model requests.
type Client interface {
	// Chat sends a conversation and returns a complete response.
	Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error)

	// ChatStream sends a conversation and returns a channel of events.
	ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan event.Event, error)
}
