// Package google adapts the Gemini API (google.golang.org/genai) to
// [toolchat.ChatProvider].
package google

import (
	"context"
	"errors"

	ai "github.com/spetersoncode/toolchat"
	"google.golang.org/genai"
)

// DefaultModel is used when neither the client nor the request names a model.
const DefaultModel = "gemini-2.5-flash"

// Client wraps the Google GenAI SDK to implement ai.ChatProvider.
type Client struct {
	client *genai.Client
	model  string
}

// ClientOption configures the Google client.
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

// New creates a new Gemini API client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	cfg := clientConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(&cfg)
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Client{client: client, model: cfg.model}, nil
}

func (c *Client) buildRequest(messages []ai.Message, opts []ai.Option) (string, []*genai.Content, *genai.GenerateContentConfig) {
	options := ai.ApplyOptions(opts...)
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	contents, system := convertMessages(messages)
	config := &genai.GenerateContentConfig{SystemInstruction: system}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if len(options.Tools) > 0 {
		config.Tools = convertTools(options.Tools)
		if options.ToolChoice != "" {
			config.ToolConfig = convertToolChoice(options.ToolChoice)
		}
	}
	return model, contents, config
}

// Chat sends a conversation and returns a complete response.
func (c *Client) Chat(ctx context.Context, messages []ai.Message, opts ...ai.Option) (*ai.Response, error) {
	if len(messages) == 0 {
		return nil, ai.ErrNoMessages
	}

	model, contents, config := c.buildRequest(messages, opts)
	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, wrapError(err)
	}
	if err := blocked(resp); err != nil {
		return nil, err
	}

	var acc accumulator
	acc.add(resp)
	return acc.response(), nil
}

// ChatStream sends a conversation and returns a channel of streaming events.
func (c *Client) ChatStream(ctx context.Context, messages []ai.Message, opts ...ai.Option) (<-chan ai.StreamEvent, error) {
	if len(messages) == 0 {
		return nil, ai.ErrNoMessages
	}

	model, contents, config := c.buildRequest(messages, opts)
	ch := make(chan ai.StreamEvent)

	go func() {
		defer close(ch)
		var acc accumulator
		chunks := 0

		for resp, err := range c.client.Models.GenerateContentStream(ctx, model, contents, config) {
			if err != nil {
				send(ctx, ch, ai.StreamEvent{Err: wrapError(err)})
				return
			}
			if err := blocked(resp); err != nil {
				send(ctx, ch, ai.StreamEvent{Err: err})
				return
			}
			chunks++
			for _, text := range acc.add(resp) {
				if !send(ctx, ch, ai.StreamEvent{Delta: text}) {
					return
				}
			}
		}

		if chunks == 0 {
			send(ctx, ch, ai.StreamEvent{Err: errors.New("google: stream returned no data")})
			return
		}
		send(ctx, ch, ai.StreamEvent{Done: true, Response: acc.response()})
	}()

	return ch, nil
}

// accumulator merges generate-content chunks into one response.
type accumulator struct {
	content      string
	finishReason string
	usage        ai.Usage
	parts        []*genai.Part
}

// add merges resp and returns its text deltas.
func (a *accumulator) add(resp *genai.GenerateContentResponse) []string {
	var deltas []string
	if len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				a.parts = append(a.parts, part)
				if part.Text != "" && !part.Thought {
					deltas = append(deltas, part.Text)
					a.content += part.Text
				}
			}
		}
		if cand.FinishReason != "" {
			a.finishReason = string(cand.FinishReason)
		}
	}
	if resp.UsageMetadata != nil {
		a.usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		a.usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return deltas
}

func (a *accumulator) response() *ai.Response {
	return &ai.Response{
		Content:      a.content,
		FinishReason: a.finishReason,
		Usage:        a.usage,
		ToolCalls:    extractToolCalls(a.parts),
	}
}

func send(ctx context.Context, ch chan<- ai.StreamEvent, e ai.StreamEvent) bool {
	select {
	case ch <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

var _ ai.ChatProvider = (*Client)(nil)
