package agent

import (
	ai "github.com/spetersoncode/toolchat"
	"github.com/spetersoncode/toolchat/event"
	"github.com/spetersoncode/toolchat/internal/store"
)

// Event is the event type emitted by RunStream.
type Event = event.Event

// TerminationReason indicates why the agent stopped execution.
type TerminationReason string

const (
	// TerminationComplete indicates normal completion (no more tool calls).
	TerminationComplete TerminationReason = "complete"

	// TerminationMaxSteps indicates the step limit was reached.
	TerminationMaxSteps TerminationReason = "max_steps"

	// TerminationTimeout indicates the deadline was exceeded.
	TerminationTimeout TerminationReason = "timeout"

	// TerminationCancelled indicates context cancellation.
	TerminationCancelled TerminationReason = "cancelled"

	// TerminationCustom indicates a custom stop predicate returned true.
	TerminationCustom TerminationReason = "custom"

	// TerminationError indicates an unrecoverable error occurred.
	TerminationError TerminationReason = "error"
)

// Result represents the final outcome of an agent execution.
type Result struct {
	// Response is the final response from the model.
	Response *ai.Response

	history *store.MessageStore

	// Steps is the number of iterations started.
	Steps int

	// Termination indicates why execution stopped.
	Termination TerminationReason

	// TotalUsage aggregates token usage across all steps.
	TotalUsage ai.Usage

	// Error contains the error that caused termination, if any.
	Error error
}

// Messages returns the conversation history, including the input messages,
// every assistant turn and every tool result.
func (r *Result) Messages() []ai.Message {
	if r.history == nil {
		return nil
	}
	return r.history.Messages()
}

// MessageCount returns the number of messages in the conversation history.
func (r *Result) MessageCount() int {
	if r.history == nil {
		return 0
	}
	return r.history.Len()
}

// LastMessages returns the last n messages from the conversation history.
func (r *Result) LastMessages(n int) []ai.Message {
	if r.history == nil {
		return nil
	}
	return r.history.Last(n)
}

// Content returns the final response text, or "" when there is none.
func (r *Result) Content() string {
	if r.Response == nil {
		return ""
	}
	return r.Response.Content
}
