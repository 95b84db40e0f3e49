package assistant

import (
	"fmt"
	"io"

	"github.com/spetersoncode/toolchat/event"
)

// tracer prints agent activity as it happens.
type tracer struct {
	w       io.Writer
	enabled bool
}

func (t tracer) trace(ev event.Event) {
	if !t.enabled {
		return
	}

	switch ev.Type {
	case event.RunStart:
		fmt.Fprintln(t.w, "\n> Entering agent run...")
	case event.StepEnd:
		if ev.Response != nil && ev.Response.HasToolCalls() && ev.Response.Content != "" {
			fmt.Fprintf(t.w, "Thought: %s\n", ev.Response.Content)
		}
	case event.ToolCallExecuting:
		fmt.Fprintf(t.w, "Action: %s\nAction Input: %s\n", ev.ToolCall.Name, ev.ToolCall.Arguments)
	case event.ToolCallResult:
		fmt.Fprintf(t.w, "Observation: %s\n", ev.ToolResult.Content)
	case event.RunEnd:
		fmt.Fprintf(t.w, "> Finished run (%s, %d steps).\n", ev.Message, ev.Step)
	case event.RunError:
		fmt.Fprintf(t.w, "> Run failed: %v\n", ev.Error)
	}
}
