package client

import (
	"time"

	ai "github.com/spetersoncode/toolchat"
)

// EventType identifies the kind of event occurring during client operations.
type EventType string

const (
	// EventRequestStart fires before an API request begins.
	EventRequestStart EventType = "request_start"

	// EventRequestComplete fires after an API request completes successfully.
	// For streams it fires once the final response has been received.
	EventRequestComplete EventType = "request_complete"

	// EventRequestError fires when an API request fails.
	EventRequestError EventType = "request_error"

	// EventRetry fires for each retry progress event.
	EventRetry EventType = "retry"
)

// Operation names carried in Event.Operation.
const (
	OperationChat       = "chat"
	OperationChatStream = "chat_stream"
)

// Event represents an observable occurrence during client operations.
type Event struct {
	Type EventType

	// Operation identifies the API operation ("chat" or "chat_stream").
	Operation string

	Provider ai.Provider

	// Model is the model identifier sent to the provider.
	Model string

	// Duration is the elapsed time for completed or failed requests.
	Duration time.Duration

	// Usage contains token usage for completed requests.
	Usage *ai.Usage

	// Error contains the error for EventRequestError.
	Error error

	// RetryEvent contains the underlying retry event for EventRetry.
	RetryEvent *RetryEvent

	Timestamp time.Time
}

// emit stamps e with the client's provider and sends it without blocking.
func (c *Client) emit(e Event) {
	if c.events == nil {
		return
	}
	e.Provider = c.provider
	e.Timestamp = time.Now()
	select {
	case c.events <- e:
	default:
		// Channel full - don't block
	}
}
