package toolchat

import (
	"encoding/json"
	"strings"
)

// Tool describes a function the model may call.
type Tool struct {
	Name        string
	Description string
	// Parameters is a JSON Schema object; see SchemaFor.
	Parameters json.RawMessage
}

// ToolCall is a model request to invoke a tool.
type ToolCall struct {
	// ID matches the call to its ToolResult.
	ID   string `json:"id"`
	Name string `json:"name"`
	// Arguments is the raw JSON object produced by the model.
	Arguments string `json:"arguments"`
}

// Decode unmarshals the call arguments into v. Empty arguments decode as {}.
func (c ToolCall) Decode(v any) error {
	raw := strings.TrimSpace(c.Arguments)
	if raw == "" {
		raw = "{}"
	}
	return json.Unmarshal([]byte(raw), v)
}

// Result returns a successful result for the call.
func (c ToolCall) Result(content string) ToolResult {
	return ToolResult{ToolCallID: c.ID, Name: c.Name, Content: content}
}

// ErrorResult returns a result reporting err to the model.
func (c ToolCall) ErrorResult(err error) ToolResult {
	return ToolResult{ToolCallID: c.ID, Name: c.Name, Content: err.Error(), IsError: true}
}

// ToolResult carries the output of a tool call back to the model.
type ToolResult struct {
	ToolCallID string `json:"toolCallId"`
	// Name is the tool that produced the result. Gemini matches results by name.
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
	IsError bool   `json:"isError,omitempty"`
}

// ToolChoice controls how the model uses tools.
type ToolChoice string

const (
	// ToolChoiceAuto lets the model decide (default).
	ToolChoiceAuto ToolChoice = "auto"
	// ToolChoiceNone disables tool use for the request.
	ToolChoiceNone ToolChoice = "none"
	// ToolChoiceRequired forces a tool call.
	ToolChoiceRequired ToolChoice = "required"
)

// NewToolResultMessage wraps results in a tool-role message.
func NewToolResultMessage(results ...ToolResult) Message {
	return Message{
		Role:        RoleTool,
		ToolResults: results,
	}
}
