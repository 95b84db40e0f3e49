package agent

import (
	"time"

	ai "github.com/spetersoncode/toolchat"
)

// StopFunc is a custom predicate to determine if the agent should stop.
// It receives the current step number and the latest response.
type StopFunc func(step int, response *ai.Response) bool

// Options contains configuration for agent execution.
type Options struct {
	// MaxSteps limits the number of agent iterations.
	// Set to 0 for unlimited (not recommended). Default is 10.
	MaxSteps int

	// Timeout sets a deadline for the entire agent execution.
	// A value of 0 means no timeout (context deadline applies).
	Timeout time.Duration

	// HandlerTimeout sets the timeout for each individual tool handler.
	// A value of 0 means no per-handler timeout. Default is 30 seconds.
	HandlerTimeout time.Duration

	// ParallelToolCalls enables concurrent execution of multiple tool calls.
	// Default is true.
	ParallelToolCalls bool

	// MaxConcurrency caps concurrent tool handlers when ParallelToolCalls is
	// enabled. Zero means no limit.
	MaxConcurrency int

	// StopPredicate is called after each step; return true to stop the agent.
	StopPredicate StopFunc

	// ChatOptions are passed through to every chat call.
	ChatOptions []ai.Option
}

// Option is a functional option for configuring agent execution.
type Option func(*Options)

// WithMaxSteps sets the maximum number of agent iterations.
func WithMaxSteps(n int) Option {
	return func(o *Options) {
		o.MaxSteps = n
	}
}

// WithTimeout sets a deadline for the entire agent execution.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.Timeout = d
	}
}

// WithHandlerTimeout sets the timeout for each individual tool handler.
func WithHandlerTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.HandlerTimeout = d
	}
}

// WithParallelToolCalls enables or disables concurrent tool execution.
func WithParallelToolCalls(enabled bool) Option {
	return func(o *Options) {
		o.ParallelToolCalls = enabled
	}
}

// WithMaxConcurrency limits how many tool handlers run at once.
func WithMaxConcurrency(n int) Option {
	return func(o *Options) {
		o.MaxConcurrency = n
	}
}

// WithStopPredicate sets a custom termination condition.
func WithStopPredicate(fn StopFunc) Option {
	return func(o *Options) {
		o.StopPredicate = fn
	}
}

// WithChatOptions passes options through to the chat client.
func WithChatOptions(opts ...ai.Option) Option {
	return func(o *Options) {
		o.ChatOptions = append(o.ChatOptions, opts...)
	}
}

// WithModel is a convenience option to set the model for chat calls.
func WithModel(model string) Option {
	return WithChatOptions(ai.WithModel(model))
}

// WithMaxTokens is a convenience option to set max tokens for chat calls.
func WithMaxTokens(n int) Option {
	return WithChatOptions(ai.WithMaxTokens(n))
}

// WithTemperature is a convenience option to set temperature for chat calls.
func WithTemperature(t float64) Option {
	return WithChatOptions(ai.WithTemperature(t))
}

// ApplyOptions applies functional options to an Options struct with defaults.
func ApplyOptions(opts ...Option) *Options {
	o := &Options{
		MaxSteps:          10,
		HandlerTimeout:    30 * time.Second,
		ParallelToolCalls: true,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
