package agent

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	ai "github.com/spetersoncode/toolchat"
	"github.com/spetersoncode/toolchat/event"
	"github.com/spetersoncode/toolchat/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient implements chat.Client with scripted responses.
type mockClient struct {
	mu        sync.Mutex
	responses []mockResponse
	calls     [][]ai.Message
	opts      []ai.Options
	block     bool
}

type mockResponse struct {
	content   string
	toolCalls []ai.ToolCall
	err       error
}

func (m *mockClient) next(messages []ai.Message, opts []ai.Option) mockResponse {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, messages)
	m.opts = append(m.opts, *ai.ApplyOptions(opts...))
	if len(m.calls) > len(m.responses) {
		return mockResponse{content: "No more responses"}
	}
	return m.responses[len(m.calls)-1]
}

func (m *mockClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (r mockResponse) response() *ai.Response {
	return &ai.Response{
		Content:   r.content,
		ToolCalls: r.toolCalls,
		Usage:     ai.Usage{InputTokens: 10, OutputTokens: 20},
	}
}

func (m *mockClient) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	r := m.next(messages, opts)
	if r.err != nil {
		return nil, r.err
	}
	return r.response(), nil
}

func (m *mockClient) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan event.Event, error) {
	r := m.next(messages, opts)
	ch := make(chan event.Event)

	go func() {
		defer close(ch)
		if m.block {
			<-ctx.Done()
			ch <- event.Event{Type: event.RunError, Error: ctx.Err()}
			return
		}
		if r.err != nil {
			ch <- event.Event{Type: event.RunError, Error: r.err}
			return
		}
		ch <- event.Event{Type: event.MessageStart}
		for _, c := range r.content {
			ch <- event.Event{Type: event.MessageDelta, Delta: string(c)}
		}
		resp := r.response()
		ch <- event.Event{Type: event.MessageEnd, Response: resp}
		ch <- event.Event{Type: event.RunEnd, Response: resp}
	}()

	return ch, nil
}

type cityArgs struct {
	City string `json:"city" required:"true"`
}

func newRegistry(calls *atomic.Int32) *tool.Registry {
	return tool.NewRegistry().Add(
		tool.Func("city_info", "Look up a city", func(_ context.Context, args cityArgs) (string, error) {
			calls.Add(1)
			return "Information about " + args.City, nil
		}),
		tool.Func("calculator", "Evaluate", func(context.Context, struct{}) (string, error) {
			calls.Add(1)
			return "", errors.New("Calculation error: bad input")
		}),
	)
}

func TestApplyOptions(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		opts := ApplyOptions()
		assert.Equal(t, 10, opts.MaxSteps)
		assert.Equal(t, 30*time.Second, opts.HandlerTimeout)
		assert.True(t, opts.ParallelToolCalls)
		assert.Zero(t, opts.MaxConcurrency)
	})

	t.Run("applies custom options", func(t *testing.T) {
		opts := ApplyOptions(
			WithMaxSteps(5),
			WithTimeout(time.Minute),
			WithHandlerTimeout(10*time.Second),
			WithParallelToolCalls(false),
			WithMaxConcurrency(2),
			WithModel("claude-3-7-sonnet-latest"),
			WithTemperature(0.1),
			WithMaxTokens(1000),
		)
		assert.Equal(t, 5, opts.MaxSteps)
		assert.Equal(t, time.Minute, opts.Timeout)
		assert.Equal(t, 10*time.Second, opts.HandlerTimeout)
		assert.False(t, opts.ParallelToolCalls)
		assert.Equal(t, 2, opts.MaxConcurrency)

		chat := ai.ApplyOptions(opts.ChatOptions...)
		assert.Equal(t, "claude-3-7-sonnet-latest", chat.Model)
		require.NotNil(t, chat.Temperature)
		assert.Equal(t, 0.1, *chat.Temperature)
		assert.Equal(t, 1000, chat.MaxTokens)
	})
}

func TestAgent_Run(t *testing.T) {
	ctx := context.Background()
	question := []ai.Message{ai.NewUserMessage("Tell me about Paris")}

	t.Run("completes without tool calls", func(t *testing.T) {
		var calls atomic.Int32
		client := &mockClient{responses: []mockResponse{{content: "Hello"}}}

		result, err := New(client, newRegistry(&calls)).Run(ctx, question)
		require.NoError(t, err)

		assert.Equal(t, TerminationComplete, result.Termination)
		assert.Equal(t, "Hello", result.Content())
		assert.Equal(t, 1, result.Steps)
		assert.Equal(t, ai.Usage{InputTokens: 10, OutputTokens: 20}, result.TotalUsage)
		assert.Equal(t, 2, result.MessageCount())
		assert.Equal(t, ai.RoleAssistant, result.LastMessages(1)[0].Role)
		assert.Zero(t, calls.Load())
	})

	t.Run("sends registry tools with chat options", func(t *testing.T) {
		var calls atomic.Int32
		client := &mockClient{responses: []mockResponse{{content: "ok"}}}

		_, err := New(client, newRegistry(&calls)).Run(ctx, question, WithTemperature(0.1))
		require.NoError(t, err)

		require.Len(t, client.opts, 1)
		require.Len(t, client.opts[0].Tools, 2)
		assert.Equal(t, "city_info", client.opts[0].Tools[0].Name)
		assert.Equal(t, 0.1, *client.opts[0].Temperature)
	})

	t.Run("executes tools and feeds results back", func(t *testing.T) {
		var calls atomic.Int32
		client := &mockClient{responses: []mockResponse{
			{toolCalls: []ai.ToolCall{{ID: "c1", Name: "city_info", Arguments: `{"city":"Paris"}`}}},
			{content: "Paris is in France"},
		}}

		result, err := New(client, newRegistry(&calls)).Run(ctx, question)
		require.NoError(t, err)

		assert.Equal(t, TerminationComplete, result.Termination)
		assert.Equal(t, "Paris is in France", result.Content())
		assert.Equal(t, 2, result.Steps)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, ai.Usage{InputTokens: 20, OutputTokens: 40}, result.TotalUsage)

		// Second request carries the assistant tool call and its result.
		require.Len(t, client.calls, 2)
		second := client.calls[1]
		require.Len(t, second, 3)
		assert.Equal(t, ai.RoleAssistant, second[1].Role)
		assert.Equal(t, ai.RoleTool, second[2].Role)
		assert.Equal(t, "Information about Paris", second[2].ToolResults[0].Content)
		assert.Equal(t, "city_info", second[2].ToolResults[0].Name)

		msgs := result.Messages()
		require.Len(t, msgs, 4)
		assert.Equal(t, "Paris is in France", msgs[3].Content)
	})

	t.Run("tool errors and unknown tools become error results", func(t *testing.T) {
		var calls atomic.Int32
		client := &mockClient{responses: []mockResponse{
			{toolCalls: []ai.ToolCall{
				{ID: "c1", Name: "calculator", Arguments: `{}`},
				{ID: "c2", Name: "weather", Arguments: `{}`},
			}},
			{content: "Sorry"},
		}}

		result, err := New(client, newRegistry(&calls)).Run(ctx, question)
		require.NoError(t, err)
		assert.Equal(t, TerminationComplete, result.Termination)

		results := client.calls[1][2].ToolResults
		require.Len(t, results, 2)
		assert.True(t, results[0].IsError)
		assert.Equal(t, "Calculation error: bad input", results[0].Content)
		assert.True(t, results[1].IsError)
		assert.Contains(t, results[1].Content, "not found: weather")
		assert.Equal(t, "c2", results[1].ToolCallID)
	})

	t.Run("stops at max steps", func(t *testing.T) {
		var calls atomic.Int32
		loop := mockResponse{toolCalls: []ai.ToolCall{{ID: "c", Name: "city_info", Arguments: `{"city":"Tokyo"}`}}}
		client := &mockClient{responses: []mockResponse{loop, loop, loop, loop}}

		result, err := New(client, newRegistry(&calls)).Run(ctx, question, WithMaxSteps(2))
		require.NoError(t, err)

		assert.Equal(t, TerminationMaxSteps, result.Termination)
		assert.Equal(t, 2, client.callCount())
		assert.Equal(t, int32(2), calls.Load())
		assert.Empty(t, result.Content())

		// History stays valid: every tool call has its results.
		msgs := result.Messages()
		require.Len(t, msgs, 5)
		assert.Equal(t, ai.RoleTool, msgs[4].Role)
	})

	t.Run("custom stop predicate drops unanswered tool calls", func(t *testing.T) {
		var calls atomic.Int32
		client := &mockClient{responses: []mockResponse{
			{content: "Let me check", toolCalls: []ai.ToolCall{{ID: "c1", Name: "city_info", Arguments: `{"city":"Rio"}`}}},
		}}

		result, err := New(client, newRegistry(&calls)).Run(ctx, question,
			WithStopPredicate(func(step int, _ *ai.Response) bool { return step == 1 }))
		require.NoError(t, err)

		assert.Equal(t, TerminationCustom, result.Termination)
		assert.Zero(t, calls.Load())
		last := result.LastMessages(1)[0]
		assert.Equal(t, "Let me check", last.Content)
		assert.Empty(t, last.ToolCalls)
	})

	t.Run("chat error terminates with error", func(t *testing.T) {
		var calls atomic.Int32
		boom := errors.New("provider down")
		client := &mockClient{responses: []mockResponse{{err: boom}}}

		result, err := New(client, newRegistry(&calls)).Run(ctx, question)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, TerminationError, result.Termination)
		assert.Equal(t, 1, result.MessageCount())
	})

	t.Run("timeout", func(t *testing.T) {
		client := &mockClient{block: true}

		result, err := New(client, nil).Run(ctx, question, WithTimeout(20*time.Millisecond))
		require.NoError(t, err)
		assert.Equal(t, TerminationTimeout, result.Termination)
	})

	t.Run("cancelled before start", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		client := &mockClient{}

		result, err := New(client, nil).Run(cctx, question)
		require.NoError(t, err)
		assert.Equal(t, TerminationCancelled, result.Termination)
		assert.Zero(t, client.callCount())
	})

	t.Run("does not mutate input messages", func(t *testing.T) {
		var calls atomic.Int32
		input := []ai.Message{ai.NewUserMessage("hi")}
		client := &mockClient{responses: []mockResponse{
			{toolCalls: []ai.ToolCall{{ID: "c1", Name: "city_info", Arguments: `{"city":"Paris"}`}}},
			{content: "done"},
		}}

		_, err := New(client, newRegistry(&calls)).Run(ctx, input)
		require.NoError(t, err)
		assert.Len(t, input, 1)
	})
}

func TestAgent_ParallelToolCalls(t *testing.T) {
	var running, peak atomic.Int32
	registry := tool.NewRegistry().Add(
		tool.Func("slow", "Slow tool", func(context.Context, struct{}) (string, error) {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			running.Add(-1)
			return "ok", nil
		}),
	)

	calls := []ai.ToolCall{{ID: "a", Name: "slow"}, {ID: "b", Name: "slow"}, {ID: "c", Name: "slow"}}

	t.Run("parallel preserves order", func(t *testing.T) {
		peak.Store(0)
		client := &mockClient{responses: []mockResponse{{toolCalls: calls}, {content: "done"}}}

		_, err := New(client, registry).Run(context.Background(), nil)
		require.NoError(t, err)

		results := client.calls[1][1].ToolResults
		require.Len(t, results, 3)
		assert.Equal(t, "a", results[0].ToolCallID)
		assert.Equal(t, "b", results[1].ToolCallID)
		assert.Equal(t, "c", results[2].ToolCallID)
		assert.Greater(t, peak.Load(), int32(1))
	})

	t.Run("sequential", func(t *testing.T) {
		peak.Store(0)
		client := &mockClient{responses: []mockResponse{{toolCalls: calls}, {content: "done"}}}

		_, err := New(client, registry).Run(context.Background(), nil, WithParallelToolCalls(false))
		require.NoError(t, err)
		assert.Equal(t, int32(1), peak.Load())
	})

	t.Run("concurrency limit", func(t *testing.T) {
		peak.Store(0)
		client := &mockClient{responses: []mockResponse{{toolCalls: calls}, {content: "done"}}}

		_, err := New(client, registry).Run(context.Background(), nil, WithMaxConcurrency(1))
		require.NoError(t, err)
		assert.Equal(t, int32(1), peak.Load())
	})
}

func TestAgent_RunStream(t *testing.T) {
	var calls atomic.Int32
	client := &mockClient{responses: []mockResponse{
		{toolCalls: []ai.ToolCall{{ID: "c1", Name: "city_info", Arguments: `{"city":"Tokyo"}`}}},
		{content: "Hi"},
	}}

	var types []event.Type
	var deltas string
	var last Event
	for ev := range New(client, newRegistry(&calls)).RunStream(context.Background(), nil) {
		types = append(types, ev.Type)
		if ev.Type == event.MessageDelta {
			deltas += ev.Delta
			assert.NotEmpty(t, ev.MessageID)
		}
		last = ev
	}

	assert.Equal(t, []event.Type{
		event.RunStart,
		event.StepStart, event.MessageStart, event.MessageEnd, event.StepEnd,
		event.ToolCallStart, event.ToolCallArgs,
		event.ToolCallExecuting, event.ToolCallEnd, event.ToolCallResult,
		event.StepStart, event.MessageStart, event.MessageDelta, event.MessageDelta, event.MessageEnd, event.StepEnd,
		event.RunEnd,
	}, types)
	assert.Equal(t, "Hi", deltas)
	assert.True(t, last.IsTerminal())
	assert.Equal(t, string(TerminationComplete), last.Message)
	assert.Equal(t, 2, last.Step)
}
