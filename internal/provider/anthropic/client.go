package anthropic

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	ai "github.com/spetersoncode/toolchat"
)

// DefaultModel is used when neither the client nor the request names a model.
const DefaultModel = "claude-3-7-sonnet-latest"

// defaultMaxTokens is required by the Messages API when the request sets none.
const defaultMaxTokens = 4096

// Client wraps the Anthropic SDK to implement ai.ChatProvider.
type Client struct {
	client *anthropic.Client
	model  string
}

// ClientOption configures the Anthropic client.
type ClientOption func(*clientConfig)

type clientConfig struct {
	model   string
	baseURL string
}

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *clientConfig) {
		c.model = model
	}
}

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// New creates a new Anthropic client with the given API key.
func New(apiKey string, opts ...ClientOption) *Client {
	cfg := clientConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(&cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}

	client := anthropic.NewClient(reqOpts...)
	return &Client{client: &client, model: cfg.model}
}

func (c *Client) buildParams(messages []ai.Message, opts []ai.Option) anthropic.MessageNewParams {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	maxTokens := int64(defaultMaxTokens)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	msgs, system := convertMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	if len(options.Tools) > 0 {
		params.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			params.ToolChoice = convertToolChoice(options.ToolChoice)
		}
	}
	return params
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	if len(messages) == 0 {
		return nil, ai.ErrNoMessages
	}

	resp, err := c.client.Messages.New(ctx, c.buildParams(messages, opts))
	if err != nil {
		return nil, wrapError(err)
	}
	return convertResponse(resp), nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	if len(messages) == 0 {
		return nil, ai.ErrNoMessages
	}

	stream := c.client.Messages.NewStreaming(ctx, c.buildParams(messages, opts))
	ch := make(chan ai.StreamEvent)

	go func() {
		defer close(ch)
		defer stream.Close()
		var acc anthropic.Message

		for stream.Next() {
			event := stream.Current()
			if err := acc.Accumulate(event); err != nil {
				send(ctx, ch, ai.StreamEvent{Err: err})
				return
			}

			if event.Type == "content_block_delta" {
				delta := event.AsContentBlockDelta()
				if text := delta.Delta.AsTextDelta(); text.Type == "text_delta" && text.Text != "" {
					if !send(ctx, ch, ai.StreamEvent{Delta: text.Text}) {
						return
					}
				}
			}
		}

		if err := stream.Err(); err != nil {
			send(ctx, ch, ai.StreamEvent{Err: wrapError(err)})
			return
		}

		send(ctx, ch, ai.StreamEvent{Done: true, Response: convertResponse(&acc)})
	}()

	return ch, nil
}

// send delivers e unless ctx is done first.
func send(ctx context.Context, ch chan<- ai.StreamEvent, e ai.StreamEvent) bool {
	select {
	case ch <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

func convertResponse(msg *anthropic.Message) *ai.Response {
	content := ""
	var toolCalls []ai.ToolCall
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			content += block.Text
		case "tool_use":
			args := string(block.Input)
			if args == "" {
				args = "{}"
			}
			toolCalls = append(toolCalls, ai.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			})
		}
	}

	return &ai.Response{
		Content:      content,
		FinishReason: string(msg.StopReason),
		Usage: ai.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
		ToolCalls: toolCalls,
	}
}

var _ ai.ChatProvider = (*Client)(nil)
