package agent

import (
	"context"
	"errors"

	ai "github.com/spetersoncode/toolchat"
	"github.com/spetersoncode/toolchat/chat"
	"github.com/spetersoncode/toolchat/event"
	"github.com/spetersoncode/toolchat/internal/store"
	"github.com/spetersoncode/toolchat/tool"
	"golang.org/x/sync/errgroup"
)

// Agent orchestrates autonomous tool-calling conversations.
type Agent struct {
	chatClient chat.Client
	registry   *tool.Registry
}

// New creates a new Agent with the given chat client and tool registry.
// A nil registry is treated as empty.
func New(c chat.Client, registry *tool.Registry) *Agent {
	if registry == nil {
		registry = tool.NewRegistry()
	}
	return &Agent{
		chatClient: c,
		registry:   registry,
	}
}

// Registry returns the agent's tool registry.
func (a *Agent) Registry() *tool.Registry {
	return a.registry
}

// Run executes the agent loop and returns the final result.
// It blocks until the agent terminates. The returned error is non-nil only
// when a chat call failed; timeouts and cancellation are reported through
// Result.Termination.
func (a *Agent) Run(ctx context.Context, messages []ai.Message, opts ...Option) (*Result, error) {
	history := store.NewMessageStore(nil)
	history.Append(messages...)
	result := &Result{history: history}

	var lastResponse *ai.Response
	var pending *ai.Message
	var pendingResults []ai.ToolResult

	commit := func() {
		if pending != nil {
			history.Append(*pending)
			pending = nil
		}
		if len(pendingResults) > 0 {
			history.Append(ai.NewToolResultMessage(pendingResults...))
			pendingResults = nil
		}
	}

	for ev := range a.RunStream(ctx, messages, opts...) {
		if ev.Step > 0 {
			result.Steps = ev.Step
		}

		switch ev.Type {
		case event.StepStart:
			commit()

		case event.StepEnd:
			lastResponse = ev.Response
			if ev.Response != nil {
				result.TotalUsage = result.TotalUsage.Add(ev.Response.Usage)
				pending = &ai.Message{
					ID:        ev.MessageID,
					Role:      ai.RoleAssistant,
					Content:   ev.Response.Content,
					ToolCalls: ev.Response.ToolCalls,
				}
			}

		case event.ToolCallResult:
			if ev.ToolResult != nil {
				pendingResults = append(pendingResults, *ev.ToolResult)
			}

		case event.RunEnd:
			result.Termination = TerminationReason(ev.Message)
			result.Response = ev.Response
			if result.Response == nil {
				result.Response = lastResponse
			}

		case event.RunError:
			result.Error = ev.Error
			result.Termination = TerminationError
		}
	}

	// Tool calls without results would be rejected by providers on the next
	// turn, so an unanswered assistant turn keeps only its text.
	if pending != nil && len(pending.ToolCalls) > 0 && len(pendingResults) == 0 {
		pending.ToolCalls = nil
		if pending.Content == "" {
			pending = nil
		}
	}
	commit()

	return result, result.Error
}

// RunStream executes the agent loop and returns a channel of events.
// The channel is closed after the terminal RunEnd or RunError event.
// Callers must drain the channel; the loop blocks until each event is read.
func (a *Agent) RunStream(ctx context.Context, messages []ai.Message, opts ...Option) <-chan Event {
	eventCh := make(chan Event, 100)
	go a.runLoop(ctx, messages, eventCh, opts...)
	return eventCh
}

func (a *Agent) runLoop(ctx context.Context, messages []ai.Message, eventCh chan<- Event, opts ...Option) {
	defer close(eventCh)

	options := ApplyOptions(opts...)

	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	event.Send(eventCh, Event{Type: event.RunStart})

	chatOpts := append([]ai.Option{ai.WithTools(a.registry.Tools())}, options.ChatOptions...)

	// Copy messages to avoid mutating the caller's slice.
	history := store.NewMessageStore(nil)
	history.Append(messages...)

	var last *ai.Response
	step := 0

	for {
		step++

		if reason := checkTermination(ctx, step, options); reason != "" {
			emitComplete(eventCh, step-1, last, reason)
			return
		}

		event.Send(eventCh, Event{Type: event.StepStart, Step: step})

		messageID := ai.GenerateMessageID()
		response, err := a.executeStep(ctx, history.Messages(), chatOpts, step, messageID, eventCh)
		if err != nil {
			if reason := contextReason(ctx); reason != "" {
				emitComplete(eventCh, step, last, reason)
				return
			}
			event.Send(eventCh, Event{Type: event.RunError, Step: step, Error: err})
			return
		}
		last = response

		event.Send(eventCh, Event{Type: event.StepEnd, Step: step, MessageID: messageID, Response: response})

		if options.StopPredicate != nil && options.StopPredicate(step, response) {
			emitComplete(eventCh, step, response, TerminationCustom)
			return
		}

		if !response.HasToolCalls() {
			emitComplete(eventCh, step, response, TerminationComplete)
			return
		}

		results := a.processToolCalls(ctx, response.ToolCalls, options, step, eventCh)

		history.Append(
			ai.Message{
				ID:        messageID,
				Role:      ai.RoleAssistant,
				Content:   response.Content,
				ToolCalls: response.ToolCalls,
			},
			ai.NewToolResultMessage(results...),
		)
	}
}

// executeStep streams one chat call and forwards message events with a
// step-scoped message ID.
func (a *Agent) executeStep(ctx context.Context, messages []ai.Message, chatOpts []ai.Option, step int, messageID string, eventCh chan<- Event) (*ai.Response, error) {
	streamCh, err := a.chatClient.ChatStream(ctx, messages, chatOpts...)
	if err != nil {
		return nil, err
	}

	var response *ai.Response
	var streamErr error
	started := false

	start := func() {
		if !started {
			event.Send(eventCh, Event{Type: event.MessageStart, Step: step, MessageID: messageID})
			started = true
		}
	}

	// Drain fully so the client's goroutine always exits.
	for ev := range streamCh {
		switch ev.Type {
		case event.RunError:
			streamErr = ev.Error

		case event.MessageStart:
			start()

		case event.MessageDelta:
			start()
			event.Send(eventCh, Event{Type: event.MessageDelta, Step: step, MessageID: messageID, Delta: ev.Delta})

		case event.MessageEnd:
			start()
			event.Send(eventCh, Event{Type: event.MessageEnd, Step: step, MessageID: messageID, Response: ev.Response})
			response = ev.Response
		}
	}

	if streamErr != nil {
		return nil, streamErr
	}
	if response == nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ErrNoResponse
	}
	return response, nil
}

func (a *Agent) processToolCalls(ctx context.Context, toolCalls []ai.ToolCall, options *Options, step int, eventCh chan<- Event) []ai.ToolResult {
	for i := range toolCalls {
		tc := toolCalls[i]
		event.Send(eventCh, Event{Type: event.ToolCallStart, Step: step, ToolCall: &tc})
		event.Send(eventCh, Event{Type: event.ToolCallArgs, Step: step, ToolCall: &tc})
	}

	results := make([]ai.ToolResult, len(toolCalls))

	if !options.ParallelToolCalls || len(toolCalls) == 1 {
		for i, tc := range toolCalls {
			results[i] = a.executeToolCall(ctx, tc, options, step, eventCh)
		}
		return results
	}

	var g errgroup.Group
	if options.MaxConcurrency > 0 {
		g.SetLimit(options.MaxConcurrency)
	}
	for i, tc := range toolCalls {
		g.Go(func() error {
			results[i] = a.executeToolCall(ctx, tc, options, step, eventCh)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (a *Agent) executeToolCall(ctx context.Context, tc ai.ToolCall, options *Options, step int, eventCh chan<- Event) ai.ToolResult {
	event.Send(eventCh, Event{Type: event.ToolCallExecuting, Step: step, ToolCall: &tc})

	execCtx := ctx
	if options.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, options.HandlerTimeout)
		defer cancel()
	}

	result, err := a.registry.Execute(execCtx, tc)
	if err != nil {
		// Unknown tool: report it to the model instead of failing the run.
		result = tc.ErrorResult(err)
	}

	event.Send(eventCh, Event{Type: event.ToolCallEnd, Step: step, ToolCall: &tc})
	event.Send(eventCh, Event{Type: event.ToolCallResult, Step: step, ToolCall: &tc, ToolResult: &result})
	return result
}

func checkTermination(ctx context.Context, step int, options *Options) TerminationReason {
	if reason := contextReason(ctx); reason != "" {
		return reason
	}
	// step is 1-indexed and checked before executing.
	if options.MaxSteps > 0 && step > options.MaxSteps {
		return TerminationMaxSteps
	}
	return ""
}

func contextReason(ctx context.Context) TerminationReason {
	switch err := ctx.Err(); {
	case err == nil:
		return ""
	case errors.Is(err, context.DeadlineExceeded):
		return TerminationTimeout
	default:
		return TerminationCancelled
	}
}

func emitComplete(ch chan<- Event, step int, response *ai.Response, reason TerminationReason) {
	event.Send(ch, Event{
		Type:     event.RunEnd,
		Step:     step,
		Response: response,
		Message:  string(reason),
	})
}
