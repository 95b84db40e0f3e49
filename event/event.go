// Package event provides the event type shared by the client, agent and
// assistant packages for observing streaming chat and tool execution.
package event

import (
	"time"

	ai "github.com/spetersoncode/toolchat"
)

// Type identifies the kind of event.
type Type string

// Run lifecycle events
const (
	// RunStart fires when execution begins (agent run or chat stream).
	RunStart Type = "run_start"

	// RunEnd fires when execution completes successfully.
	RunEnd Type = "run_end"

	// RunError fires when an unrecoverable error occurs.
	RunError Type = "run_error"
)

// Step lifecycle events (agent only)
const (
	StepStart Type = "step_start"
	StepEnd   Type = "step_end"
)

// Message lifecycle events
const (
	// MessageStart fires when an assistant message begins.
	MessageStart Type = "message_start"

	// MessageDelta fires for each streaming token.
	MessageDelta Type = "message_delta"

	// MessageEnd fires when an assistant message completes.
	MessageEnd Type = "message_end"
)

// Tool call lifecycle events
const (
	// ToolCallStart fires when the model requests a tool (contains tool name).
	ToolCallStart Type = "tool_call_start"

	// ToolCallArgs fires with tool call arguments.
	ToolCallArgs Type = "tool_call_args"

	// ToolCallEnd fires when tool call transmission is complete.
	ToolCallEnd Type = "tool_call_end"

	// ToolCallExecuting fires before the tool handler runs.
	ToolCallExecuting Type = "tool_call_executing"

	// ToolCallResult fires with the tool execution result.
	ToolCallResult Type = "tool_call_result"
)

// Event represents an observable occurrence during streaming execution.
type Event struct {
	Type Type

	// MessageID identifies the message for Start/Delta/End correlation.
	MessageID string

	// Delta contains streaming content for MessageDelta events.
	Delta string

	// Response contains the complete response for MessageEnd and RunEnd events.
	Response *ai.Response

	// ToolCall contains the tool call for tool-related events.
	ToolCall *ai.ToolCall

	// ToolResult contains the result for ToolCallResult events.
	ToolResult *ai.ToolResult

	// Step is the current iteration number (1-indexed) for agent events.
	Step int

	// Error contains the error for RunError events.
	Error error

	// Message contains additional context such as the termination reason.
	Message string

	Timestamp time.Time
}

// IsTerminal reports whether the event ends a stream.
func (e Event) IsTerminal() bool {
	return e.Type == RunEnd || e.Type == RunError
}

// Emit sends an event with timestamp to the channel without blocking.
// A nil channel discards the event.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
		// Channel full - don't block
	}
}

// Send delivers an event with timestamp, blocking until the receiver takes it.
// Streams whose consumers must drain the channel use Send so terminal events
// are never dropped. A nil channel discards the event.
func Send(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	ch <- e
}

// NewChannel creates a buffered event channel with standard capacity.
func NewChannel() chan Event {
	return make(chan Event, 100)
}
