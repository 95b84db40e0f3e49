package calculator

import (
	"context"

	ai "github.com/spetersoncode/toolchat"
	"github.com/spetersoncode/toolchat/tool"
)

// ToolName is the name the calculator is registered under.
const ToolName = "calculator"

// Description tells the model when and how to use the calculator.
const Description = `Useful for basic and advanced math calculations.
Input must be a valid math expression as a string.
Examples: '2+2', '(10*5)/2', 'sqrt(16)', 'sin(pi/2)'`

// Args are the calculator tool arguments.
type Args struct {
	Expression string `json:"expression" desc:"Math expression to evaluate, e.g. (10*5)/2 or sqrt(16)" required:"true"`
}

// Tool binds ev as the calculator tool. Failures, including malformed
// arguments, are reported in the result text, so the handler never returns
// an error.
func Tool(ev *Evaluator) tool.Registration {
	return tool.WithHandler(ToolName, Description, tool.MustSchemaFor[Args](), func(_ context.Context, call ai.ToolCall) (string, error) {
		var args Args
		if err := call.Decode(&args); err != nil {
			return "Calculation error: invalid arguments: " + err.Error(), nil
		}
		return ev.Run(args.Expression), nil
	})
}
