package assistant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	ai "github.com/spetersoncode/toolchat"
	"github.com/spetersoncode/toolchat/agent"
	"github.com/spetersoncode/toolchat/calculator"
	"github.com/spetersoncode/toolchat/chat"
	"github.com/spetersoncode/toolchat/cities"
	"github.com/spetersoncode/toolchat/event"
	"github.com/spetersoncode/toolchat/internal/store"
	"github.com/spetersoncode/toolchat/model"
	"github.com/spetersoncode/toolchat/tool"
)

// ErrorPrefix starts every answer that reports a failure.
const ErrorPrefix = "Execution error: "

// ErrNoAnswer is returned when a run ends without a final answer.
type ErrNoAnswer struct {
	Reason agent.TerminationReason
}

func (e *ErrNoAnswer) Error() string {
	return fmt.Sprintf("agent stopped without an answer (%s)", e.Reason)
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithLogger sets the logger used for per-turn diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(a *Assistant) {
		a.logger = l
	}
}

// WithTools registers additional tools next to the built-in ones.
func WithTools(regs ...tool.Registration) Option {
	return func(a *Assistant) {
		a.registry.Add(regs...)
	}
}

// WithSession persists the conversation history under key through adapter.
// It implies history; call [Assistant.Load] to resume a saved session.
func WithSession(adapter store.Adapter, key string) Option {
	return func(a *Assistant) {
		a.history = store.NewMessageStore(adapter)
		a.sessionKey = key
		a.cfg.History = true
	}
}

// Assistant answers questions with an agent that can call the calculator and
// city_info tools. Questions are answered one at a time.
type Assistant struct {
	cfg      Config
	agent    *agent.Agent
	registry *tool.Registry
	history  *store.MessageStore
	logger   *slog.Logger

	sessionKey string

	mu    sync.Mutex
	turn  int
	usage ai.Usage
}

// New creates an Assistant that talks to c.
func New(c chat.Client, cfg Config, opts ...Option) *Assistant {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	registry := tool.NewRegistry().Add(
		calculator.Tool(calculator.New()),
		cities.Tool(cities.Default()),
	)

	a := &Assistant{
		cfg:      cfg,
		registry: registry,
		history:  store.NewMessageStore(nil),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.agent = agent.New(c, registry)
	return a
}

// Registry returns the tool registry, so callers can add tools such as
// MCP proxies after construction.
func (a *Assistant) Registry() *tool.Registry {
	return a.registry
}

// Ask runs the agent on question and returns its answer.
// Any failure is returned as text starting with [ErrorPrefix].
func (a *Assistant) Ask(ctx context.Context, question string) string {
	answer, err := a.ask(ctx, question)
	if err != nil {
		return ErrorPrefix + err.Error()
	}
	return answer
}

func (a *Assistant) ask(ctx context.Context, question string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.turn++
	log := a.logger.With("turn", a.turn, "run_id", uuid.NewString(), "model", a.cfg.Model)

	var messages []ai.Message
	if a.cfg.SystemPrompt != "" {
		messages = append(messages, ai.NewSystemMessage(a.cfg.SystemPrompt))
	}
	if a.cfg.History {
		messages = append(messages, a.history.Messages()...)
	}
	messages = append(messages, ai.NewUserMessage(question))

	log.Debug("run started", "messages", len(messages))

	tr := tracer{w: a.cfg.Output, enabled: a.cfg.Verbose}
	var (
		final  *ai.Response
		reason agent.TerminationReason
		runErr error
		steps  int
		usage  ai.Usage
	)
	for ev := range a.agent.RunStream(ctx, messages, a.runOptions()...) {
		tr.trace(ev)

		switch ev.Type {
		case event.StepEnd:
			steps = ev.Step
			if ev.Response != nil {
				usage = usage.Add(ev.Response.Usage)
			}
		case event.ToolCallResult:
			if ev.ToolResult != nil && ev.ToolResult.IsError {
				log.Warn("tool failed", "tool", ev.ToolResult.Name, "error", ev.ToolResult.Content)
			}
		case event.RunEnd:
			reason = agent.TerminationReason(ev.Message)
			final = ev.Response
		case event.RunError:
			runErr = ev.Error
		}
	}
	a.usage = a.usage.Add(usage)

	if runErr != nil {
		log.Error("run failed", "steps", steps, "error", runErr)
		return "", runErr
	}

	var content string
	if final != nil {
		content = strings.TrimSpace(final.Content)
	}
	if reason != agent.TerminationComplete && content == "" {
		log.Warn("run ended without answer", "reason", reason, "steps", steps)
		return "", &ErrNoAnswer{Reason: reason}
	}

	log.Info("run finished", "reason", reason, "steps", steps, "tokens", usage.Total())

	if a.cfg.History {
		a.history.Append(ai.NewUserMessage(question), ai.NewAssistantMessage(content))
		if a.sessionKey != "" {
			if err := a.history.Sync(ctx, a.sessionKey); err != nil {
				log.Warn("session not saved", "session", a.sessionKey, "error", err)
			}
		}
	}
	return content, nil
}

func (a *Assistant) runOptions() []agent.Option {
	opts := []agent.Option{
		agent.WithMaxSteps(a.cfg.MaxSteps),
		agent.WithTemperature(a.cfg.Temperature),
	}
	if a.cfg.Model != "" {
		opts = append(opts, agent.WithModel(a.cfg.Model))
	}
	if a.cfg.MaxTokens > 0 {
		opts = append(opts, agent.WithMaxTokens(a.cfg.MaxTokens))
	}
	if a.cfg.Timeout > 0 {
		opts = append(opts, agent.WithTimeout(a.cfg.Timeout))
	}
	return opts
}

// Tools returns the registered tool definitions in registration order.
func (a *Assistant) Tools() []ai.Tool {
	return a.registry.Tools()
}

// DescribeTools lists the registered tools with their descriptions.
func (a *Assistant) DescribeTools() string {
	var b strings.Builder
	b.WriteString("Available tools:\n")
	for _, t := range a.registry.Tools() {
		fmt.Fprintf(&b, "• %s: %s\n", t.Name, t.Description)
	}
	return b.String()
}

// Examples returns sample questions that exercise both tools.
func Examples() []string {
	return []string{
		"What is 2 + 2?",
		"Calculate the square root of 144",
		"Tell me about São Paulo",
		"What is the population of Rio de Janeiro?",
		"Calculate (10 * 5) + sqrt(25) and then tell me about Paris",
	}
}

// Usage returns the token usage accumulated across all questions.
func (a *Assistant) Usage() ai.Usage {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.usage
}

// Cost estimates the USD cost of Usage. It reports false when the model has
// no known pricing.
func (a *Assistant) Cost() (float64, bool) {
	m := model.Resolve(a.cfg.Model, a.cfg.Provider)
	if !m.Pricing().Known() {
		return 0, false
	}
	return m.Cost(a.Usage()), true
}

// Load restores the saved session, if any. A session that was never saved
// is not an error.
func (a *Assistant) Load(ctx context.Context) error {
	if a.sessionKey == "" {
		return nil
	}
	err := a.history.Reload(ctx, a.sessionKey)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil
	}
	return err
}

// HistoryLen returns the number of remembered messages.
func (a *Assistant) HistoryLen() int {
	return a.history.Len()
}

// Reset forgets the conversation history.
func (a *Assistant) Reset() {
	a.history.Clear()
}
