package toolchat

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToolChoiceConstants(t *testing.T) {
	assert.Equal(t, ToolChoice("auto"), ToolChoiceAuto)
	assert.Equal(t, ToolChoice("none"), ToolChoiceNone)
	assert.Equal(t, ToolChoice("required"), ToolChoiceRequired)
}

func TestToolCall_Decode(t *testing.T) {
	var args struct {
		Expression string `json:"expression"`
	}

	t.Run("json object", func(t *testing.T) {
		require.NoError(t, ToolCall{Arguments: `{"expression":"2+2"}`}.Decode(&args))
		assert.Equal(t, "2+2", args.Expression)
	})

	t.Run("empty arguments decode as empty object", func(t *testing.T) {
		assert.NoError(t, ToolCall{Arguments: "  "}.Decode(&args))
	})

	t.Run("invalid json", func(t *testing.T) {
		assert.Error(t, ToolCall{Arguments: "2+2"}.Decode(&args))
	})
}

func TestToolCall_Results(t *testing.T) {
	call := ToolCall{ID: "call_1", Name: "city_info"}

	ok := call.Result("Information about Paris:")
	assert.Equal(t, ToolResult{ToolCallID: "call_1", Name: "city_info", Content: "Information about Paris:"}, ok)

	failed := call.ErrorResult(errors.New("boom"))
	assert.True(t, failed.IsError)
	assert.Equal(t, "boom", failed.Content)
	assert.Equal(t, "call_1", failed.ToolCallID)
}

func TestNewToolResultMessage(t *testing.T) {
	t.Run("creates message with single result", func(t *testing.T) {
		msg := NewToolResultMessage(ToolResult{
			ToolCallID: "call_abc123",
			Name:       "calculator",
			Content:    "Result: 4",
		})

		assert.Equal(t, RoleTool, msg.Role)
		require.Len(t, msg.ToolResults, 1)
		assert.Equal(t, "call_abc123", msg.ToolResults[0].ToolCallID)
		assert.Equal(t, "calculator", msg.ToolResults[0].Name)
		assert.Equal(t, "Result: 4", msg.ToolResults[0].Content)
		assert.False(t, msg.ToolResults[0].IsError)
	})

	t.Run("creates message with multiple results", func(t *testing.T) {
		msg := NewToolResultMessage(
			ToolResult{ToolCallID: "call_1", Content: "Result 1"},
			ToolResult{ToolCallID: "call_2", Content: "boom", IsError: true},
		)

		assert.Len(t, msg.ToolResults, 2)
		assert.True(t, msg.ToolResults[1].IsError)
	})

	t.Run("creates message with no results", func(t *testing.T) {
		msg := NewToolResultMessage()
		assert.Equal(t, RoleTool, msg.Role)
		assert.Empty(t, msg.ToolResults)
	})
}

func TestToolResultJSON(t *testing.T) {
	data, err := json.Marshal(ToolResult{ToolCallID: "call_1", Content: "ok"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"toolCallId":"call_1","content":"ok"}`, string(data))
}
