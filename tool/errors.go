package tool

import "fmt"

// ErrToolNotFound is returned when a tool call references an unregistered tool.
type ErrToolNotFound struct {
	Name string
}

func (e *ErrToolNotFound) Error() string {
	return fmt.Sprintf("tool: not found: %s", e.Name)
}

// ErrToolAlreadyRegistered is returned when registering a tool with a duplicate name.
type ErrToolAlreadyRegistered struct {
	Name string
}

func (e *ErrToolAlreadyRegistered) Error() string {
	return fmt.Sprintf("tool: already registered: %s", e.Name)
}

// ErrInvalidTool is returned when a tool definition cannot be registered.
type ErrInvalidTool struct {
	Name   string
	Reason string
}

func (e *ErrInvalidTool) Error() string {
	return fmt.Sprintf("tool: invalid definition %q: %s", e.Name, e.Reason)
}

// ErrInvalidArguments is returned when tool call arguments do not decode.
type ErrInvalidArguments struct {
	Name string
	Err  error
}

func (e *ErrInvalidArguments) Error() string {
	return fmt.Sprintf("tool: invalid arguments for %s: %v", e.Name, e.Err)
}

func (e *ErrInvalidArguments) Unwrap() error {
	return e.Err
}

// ErrToolPanic wraps a panic recovered from a tool handler.
type ErrToolPanic struct {
	Name  string
	Value any
}

func (e *ErrToolPanic) Error() string {
	return fmt.Sprintf("tool: %s panicked: %v", e.Name, e.Value)
}
