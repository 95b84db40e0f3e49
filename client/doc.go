// Package client provides the chat client used by the agent.
//
// A Client wraps one provider adapter (Anthropic, OpenAI or Google) and adds:
//
//   - Default chat options such as temperature and max tokens
//   - Automatic retries with exponential backoff for transient errors
//   - Conversion of provider streams into [event.Event] values
//   - Observable operations via an optional event channel
//
// # Basic Usage
//
//	c, err := client.New(ctx, client.Config{
//	    Provider: toolchat.ProviderAnthropic,
//	    APIKey:   os.Getenv("ANTHROPIC_API_KEY"),
//	}, client.WithDefaultTemperature(0.1), client.WithDefaultMaxTokens(1000))
//
//	resp, err := c.Chat(ctx, []toolchat.Message{toolchat.NewUserMessage("Hello!")})
//
// An empty Model selects the provider default (claude-3-7-sonnet-latest for
// Anthropic). BaseURL points the OpenAI adapter at compatible gateways.
//
// # Retries
//
// Rate limits (429), server errors (5xx) and network failures are retried.
// A Retry-After header extends the backoff delay. Authentication and request
// errors fail immediately.
//
//	c, _ := client.New(ctx, client.Config{
//	    APIKey:      key,
//	    RetryConfig: &client.RetryConfig{MaxAttempts: 3, InitialDelay: time.Second},
//	})
//
// # Events
//
//	events := make(chan client.Event, 100)
//	c, _ := client.New(ctx, client.Config{APIKey: key, Events: events})
//	go func() {
//	    for e := range events {
//	        log.Printf("%s %s %v", e.Type, e.Operation, e.Duration)
//	    }
//	}()
package client
