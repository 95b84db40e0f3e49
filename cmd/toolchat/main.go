// Command toolchat is an interactive console chat with an agent that can
// evaluate math expressions and look up facts about a few cities.
//
// Configuration comes from environment variables or a .env file:
//
//	ANTHROPIC_API_KEY=sk-ant-... go run ./cmd/toolchat
//	TOOLCHAT_PROVIDER=openai OPENAI_API_KEY=sk-... go run ./cmd/toolchat
//
// Type 'exit', 'quit' or 'sair' to leave.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spetersoncode/toolchat/assistant"
	"github.com/spetersoncode/toolchat/client"
	"github.com/spetersoncode/toolchat/internal/store"
	"github.com/spetersoncode/toolchat/mcp"
)

var exitWords = map[string]bool{"sair": true, "exit": true, "quit": true}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := make(chan client.Event, 100)
	go logClientEvents(logger, events)

	c, err := client.New(ctx, client.Config{
		Provider: cfg.Provider,
		APIKey:   cfg.APIKey(),
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		Events:   events,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Initializing agent with %s/%s...\n", c.Provider(), c.Model())

	opts := []assistant.Option{assistant.WithLogger(logger)}
	if cfg.SessionDir != "" {
		adapter, err := store.NewFileAdapter(cfg.SessionDir)
		if err != nil {
			return err
		}
		opts = append(opts, assistant.WithSession(adapter, cfg.Session))
	}

	a := assistant.New(c, assistant.Config{
		Provider:     c.Provider(),
		Model:        c.Model(),
		Temperature:  cfg.Temperature,
		MaxTokens:    cfg.MaxTokens,
		MaxSteps:     cfg.MaxSteps,
		Timeout:      cfg.Timeout,
		SystemPrompt: assistant.DefaultSystemPrompt,
		History:      cfg.History,
		Verbose:      cfg.Verbose,
		Output:       os.Stdout,
	}, opts...)
	if err := a.Load(ctx); err != nil {
		return fmt.Errorf("load session %q: %w", cfg.Session, err)
	}
	if n := a.HistoryLen(); n > 0 {
		fmt.Printf("Resumed session %q with %d messages.\n", cfg.Session, n)
	}

	if cfg.MCPCommand != "" {
		command, args := cfg.MCPArgs()
		remote, err := mcp.NewRemoteRegistry(ctx, command, os.Environ(), args...)
		if err != nil {
			return fmt.Errorf("connect to MCP server %q: %w", command, err)
		}
		defer remote.Close()
		if err := remote.AddTo(a.Registry()); err != nil {
			return err
		}
		logger.Info("loaded MCP tools", "command", command, "count", remote.Len())
	}

	fmt.Println("\n" + a.DescribeTools())
	fmt.Println("Example questions:")
	for i, q := range assistant.Examples() {
		fmt.Printf("%d. %s\n", i+1, q)
	}

	separator := strings.Repeat("=", 50)
	fmt.Println("\n" + separator)
	fmt.Println("Interactive chat (type 'exit' to quit)")
	fmt.Println(separator)

	chatLoop(ctx, a, os.Stdin, os.Stdout)
	printUsage(a)
	return nil
}

// chatLoop reads questions from in until an exit word, EOF or ctx is done.
func chatLoop(ctx context.Context, a *assistant.Assistant, in io.Reader, out io.Writer) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		fmt.Fprint(out, "\nYou: ")

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\n\nChat interrupted. Goodbye!")
			return
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(out, "\n\nChat interrupted. Goodbye!")
			return
		}

		question := strings.TrimSpace(line)
		if exitWords[strings.ToLower(question)] {
			fmt.Fprintln(out, "Goodbye!")
			return
		}
		if question == "" {
			continue
		}

		fmt.Fprintln(out, "\nthinking...")
		answer := a.Ask(ctx, question)
		if ctx.Err() != nil {
			fmt.Fprintln(out, "\n\nChat interrupted. Goodbye!")
			return
		}
		fmt.Fprintf(out, "\nAssistant: %s\n", answer)
	}
}

func printUsage(a *assistant.Assistant) {
	usage := a.Usage()
	if usage.Total() == 0 {
		return
	}
	fmt.Printf("Tokens used: %d (input %d, output %d)\n", usage.Total(), usage.InputTokens, usage.OutputTokens)
	if cost, ok := a.Cost(); ok {
		fmt.Printf("Estimated cost: $%.4f\n", cost)
	}
}

// logClientEvents logs request lifecycle and retry events from the client.
func logClientEvents(logger *slog.Logger, events <-chan client.Event) {
	for e := range events {
		attrs := []any{"op", e.Operation, "provider", e.Provider, "model", e.Model}
		switch e.Type {
		case client.EventRequestStart:
			logger.Debug("request started", attrs...)
		case client.EventRequestComplete:
			attrs = append(attrs, "duration", e.Duration)
			if e.Usage != nil {
				attrs = append(attrs, "input_tokens", e.Usage.InputTokens, "output_tokens", e.Usage.OutputTokens)
			}
			logger.Info("request complete", attrs...)
		case client.EventRequestError:
			logger.Error("request failed", append(attrs, "error", e.Error)...)
		case client.EventRetry:
			if r := e.RetryEvent; r != nil && r.Type == client.RetryEventRetrying {
				logger.Warn("retrying request", append(attrs, "attempt", r.Attempt, "max_attempts", r.MaxAttempts, "delay", r.Delay, "error", r.Error)...)
			}
		}
	}
}
