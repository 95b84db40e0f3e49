// Package agent runs the tool-calling conversation loop.
//
// An agent repeatedly sends the conversation to the model together with the
// registered tool definitions. When the model requests tool calls they are
// executed through the registry and the results are fed back, until the model
// produces a response without tool calls or a termination condition is met.
//
// # Basic Usage
//
//	registry := tool.NewRegistry().Add(
//	    calculator.Tool(calculator.New()),
//	    cities.Tool(cities.Default()),
//	)
//
//	a := agent.New(client, registry)
//	result, err := a.Run(ctx, []toolchat.Message{
//	    toolchat.NewUserMessage("What is the population of Tokyo divided by 1000?"),
//	}, agent.WithMaxSteps(5))
//
// # Streaming Events
//
// RunStream returns [event.Event] values as the agent executes. The channel is
// closed after the terminal RunEnd or RunError event and must be drained.
//
//	for e := range a.RunStream(ctx, messages) {
//	    switch e.Type {
//	    case event.MessageDelta:
//	        fmt.Print(e.Delta)
//	    case event.ToolCallStart:
//	        fmt.Printf("[Tool: %s]\n", e.ToolCall.Name)
//	    }
//	}
//
// # Termination Conditions
//
//   - The model responds without tool calls (TerminationComplete)
//   - MaxSteps is reached (TerminationMaxSteps)
//   - Timeout is exceeded (TerminationTimeout)
//   - Context is cancelled (TerminationCancelled)
//   - StopPredicate returns true (TerminationCustom)
//   - A chat call fails (TerminationError)
//
// Tool failures never stop the loop: unknown tools, invalid arguments,
// handler errors and panics become error results the model can read.
package agent
