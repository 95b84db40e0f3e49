package tool

import (
	"context"

	ai "github.com/spetersoncode/toolchat"
)

// Handler executes a tool call and returns the result content.
// The call carries the tool name, ID and arguments as a JSON string.
type Handler func(ctx context.Context, call ai.ToolCall) (string, error)

// TypedHandler executes a tool call with arguments decoded into T.
type TypedHandler[T any] func(ctx context.Context, args T) (string, error)

// typed adapts a TypedHandler to a Handler.
func typed[T any](name string, fn TypedHandler[T]) Handler {
	return func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args T
		if err := call.Decode(&args); err != nil {
			return "", &ErrInvalidArguments{Name: name, Err: err}
		}
		return fn(ctx, args)
	}
}
