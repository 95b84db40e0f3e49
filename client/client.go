package client

import (
	"context"
	"fmt"
	"time"

	ai "github.com/spetersoncode/toolchat"
	"github.com/spetersoncode/toolchat/event"
	"github.com/spetersoncode/toolchat/internal/provider/anthropic"
	"github.com/spetersoncode/toolchat/internal/provider/google"
	"github.com/spetersoncode/toolchat/internal/provider/openai"
	"github.com/spetersoncode/toolchat/internal/retry"
	"github.com/spetersoncode/toolchat/model"
)

// Config holds configuration for creating a client.
type Config struct {
	// Provider selects the backend. Defaults to anthropic.
	Provider ai.Provider

	// APIKey authenticates with the provider. Required.
	APIKey string

	// BaseURL overrides the provider endpoint, e.g. an OpenAI-compatible
	// gateway. Empty uses the provider default.
	BaseURL string

	// Model is the default chat model. Empty selects the provider default.
	Model string

	// RetryConfig configures retry behavior for transient errors.
	// If nil, uses the default retry configuration.
	RetryConfig *RetryConfig

	// Events is an optional channel for receiving client operation events.
	// Events are sent non-blocking; if the channel is full, events are dropped.
	Events chan<- Event
}

// ErrMissingAPIKey is returned when no API key is configured for the provider.
type ErrMissingAPIKey struct {
	Provider ai.Provider
}

func (e *ErrMissingAPIKey) Error() string {
	return fmt.Sprintf("no API key configured for %s", e.Provider)
}

// ErrUnknownProvider is returned for a provider the client cannot build.
type ErrUnknownProvider struct {
	Provider ai.Provider
}

func (e *ErrUnknownProvider) Error() string {
	return fmt.Sprintf("unknown provider %q", string(e.Provider))
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithDefaultTemperature sets the default temperature for chat requests.
// Per-request options override this default.
func WithDefaultTemperature(t float64) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithTemperature(t))
	}
}

// WithDefaultMaxTokens sets the default max tokens for chat requests.
// Per-request options override this default.
func WithDefaultMaxTokens(n int) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, ai.WithMaxTokens(n))
	}
}

// WithDefaultChatOptions sets default options for all chat requests.
// Per-request options override these defaults.
func WithDefaultChatOptions(opts ...ai.Option) ClientOption {
	return func(c *Client) {
		c.defaultChatOpts = append(c.defaultChatOpts, opts...)
	}
}

// Client routes chat requests to a single provider, applying default
// options, retries and client events.
type Client struct {
	chat            ai.ChatProvider
	provider        ai.Provider
	model           string
	retryConfig     retry.Config
	events          chan<- Event
	defaultChatOpts []ai.Option
}

// New validates cfg and builds a client for the configured provider.
func New(ctx context.Context, cfg Config, opts ...ClientOption) (*Client, error) {
	if cfg.Provider == "" {
		cfg.Provider = ai.ProviderAnthropic
	}
	switch cfg.Provider {
	case ai.ProviderAnthropic, ai.ProviderOpenAI, ai.ProviderGoogle:
	default:
		return nil, &ErrUnknownProvider{Provider: cfg.Provider}
	}
	if cfg.APIKey == "" {
		return nil, &ErrMissingAPIKey{Provider: cfg.Provider}
	}
	if cfg.Model == "" {
		cfg.Model = model.DefaultFor(cfg.Provider).String()
	}

	var cp ai.ChatProvider
	switch cfg.Provider {
	case ai.ProviderAnthropic:
		aopts := []anthropic.ClientOption{anthropic.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			aopts = append(aopts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		cp = anthropic.New(cfg.APIKey, aopts...)
	case ai.ProviderOpenAI:
		oopts := []openai.ClientOption{openai.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			oopts = append(oopts, openai.WithBaseURL(cfg.BaseURL))
		}
		cp = openai.New(cfg.APIKey, oopts...)
	case ai.ProviderGoogle:
		gopts := []google.ClientOption{google.WithModel(cfg.Model)}
		if cfg.BaseURL != "" {
			gopts = append(gopts, google.WithBaseURL(cfg.BaseURL))
		}
		gc, err := google.New(ctx, cfg.APIKey, gopts...)
		if err != nil {
			return nil, fmt.Errorf("create google client: %w", err)
		}
		cp = gc
	default:
		return nil, &ErrUnknownProvider{Provider: cfg.Provider}
	}

	return NewFromProvider(cp, cfg, opts...), nil
}

// NewFromProvider wraps an existing ChatProvider with the client's defaults,
// retries and events. cfg.APIKey and cfg.BaseURL are ignored.
func NewFromProvider(cp ai.ChatProvider, cfg Config, opts ...ClientOption) *Client {
	retryConfig := retry.DefaultConfig()
	if cfg.RetryConfig != nil {
		retryConfig = *cfg.RetryConfig
	}

	c := &Client{
		chat:        cp,
		provider:    cfg.Provider,
		model:       cfg.Model,
		retryConfig: retryConfig,
		events:      cfg.Events,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the configured provider.
func (c *Client) Provider() ai.Provider {
	return c.provider
}

// Model returns the default chat model identifier.
func (c *Client) Model() string {
	return c.model
}

// prepare merges default options with per-request options and resolves the model.
func (c *Client) prepare(opts []ai.Option) ([]ai.Option, string) {
	merged := make([]ai.Option, 0, len(c.defaultChatOpts)+len(opts)+1)
	merged = append(merged, c.defaultChatOpts...)
	merged = append(merged, opts...)

	modelID := ai.ApplyOptions(merged...).Model
	if modelID == "" && c.model != "" {
		modelID = c.model
		merged = append([]ai.Option{ai.WithModel(modelID)}, merged...)
	}
	return merged, modelID
}

// Chat sends a conversation and returns a complete response.
// Transient errors are retried according to the client's retry configuration.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	opts, modelID := c.prepare(opts)

	start := time.Now()
	c.emit(Event{Type: EventRequestStart, Operation: OperationChat, Model: modelID})

	resp, err := withRetry(ctx, c, OperationChat, modelID, func() (*ai.Response, error) {
		return c.chat.Chat(ctx, messages, opts...)
	})
	if err != nil {
		c.emit(Event{Type: EventRequestError, Operation: OperationChat, Model: modelID, Duration: time.Since(start), Error: err})
		return nil, err
	}

	c.emit(Event{Type: EventRequestComplete, Operation: OperationChat, Model: modelID, Duration: time.Since(start), Usage: &resp.Usage})
	return resp, nil
}

// ChatStream sends a conversation and returns a channel of events.
// Establishing the stream is retried on transient errors; once streaming has
// started, failures are reported as a RunError event.
//
// The channel carries MessageStart, MessageDelta for each chunk, MessageEnd
// with the complete response and a terminal RunEnd or RunError. Callers must
// drain it.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan event.Event, error) {
	opts, modelID := c.prepare(opts)

	start := time.Now()
	c.emit(Event{Type: EventRequestStart, Operation: OperationChatStream, Model: modelID})

	src, err := withRetry(ctx, c, OperationChatStream, modelID, func() (<-chan ai.StreamEvent, error) {
		return c.chat.ChatStream(ctx, messages, opts...)
	})
	if err != nil {
		c.emit(Event{Type: EventRequestError, Operation: OperationChatStream, Model: modelID, Duration: time.Since(start), Error: err})
		return nil, err
	}

	out := event.NewChannel()
	go func() {
		defer close(out)
		resp, err := forwardStream(ctx, src, out)
		if err != nil {
			c.emit(Event{Type: EventRequestError, Operation: OperationChatStream, Model: modelID, Duration: time.Since(start), Error: err})
			return
		}
		c.emit(Event{Type: EventRequestComplete, Operation: OperationChatStream, Model: modelID, Duration: time.Since(start), Usage: &resp.Usage})
	}()
	return out, nil
}

// forwardStream converts provider stream chunks into message lifecycle events.
func forwardStream(ctx context.Context, src <-chan ai.StreamEvent, out chan<- event.Event) (*ai.Response, error) {
	messageID := ai.GenerateMessageID()
	event.Send(out, event.Event{Type: event.MessageStart, MessageID: messageID})

	var resp *ai.Response
	var streamErr error
	for se := range src {
		switch {
		case se.Err != nil:
			streamErr = se.Err
		case se.Done:
			resp = se.Response
		case se.Delta != "":
			event.Send(out, event.Event{Type: event.MessageDelta, MessageID: messageID, Delta: se.Delta})
		}
	}

	if streamErr == nil && resp == nil {
		streamErr = ctx.Err()
		if streamErr == nil {
			streamErr = ErrIncompleteStream
		}
	}
	if streamErr != nil {
		event.Send(out, event.Event{Type: event.RunError, MessageID: messageID, Error: streamErr})
		return nil, streamErr
	}

	event.Send(out, event.Event{Type: event.MessageEnd, MessageID: messageID, Response: resp})
	event.Send(out, event.Event{Type: event.RunEnd, MessageID: messageID, Response: resp})
	return resp, nil
}

// withRetry runs fn under the client's retry policy, forwarding retry
// progress as client events.
func withRetry[T any](ctx context.Context, c *Client, operation, modelID string, fn func() (T, error)) (T, error) {
	if c.events == nil {
		return retry.Do(ctx, c.retryConfig, fn)
	}

	retryEvents := make(chan retry.Event, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for re := range retryEvents {
			c.emit(Event{Type: EventRetry, Operation: operation, Model: modelID, RetryEvent: &re})
		}
	}()

	result, err := retry.DoWithEvents(ctx, c.retryConfig, retryEvents, fn)
	close(retryEvents)
	<-done
	return result, err
}
