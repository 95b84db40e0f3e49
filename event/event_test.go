package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit(t *testing.T) {
	t.Run("stamps and delivers", func(t *testing.T) {
		ch := NewChannel()
		Emit(ch, Event{Type: MessageDelta, Delta: "4"})

		require.Len(t, ch, 1)
		e := <-ch
		assert.Equal(t, MessageDelta, e.Type)
		assert.Equal(t, "4", e.Delta)
		assert.False(t, e.Timestamp.IsZero())
	})

	t.Run("does not block when full", func(t *testing.T) {
		ch := make(chan Event, 1)
		Emit(ch, Event{Type: StepStart})
		Emit(ch, Event{Type: StepEnd})

		assert.Len(t, ch, 1)
		assert.Equal(t, StepStart, (<-ch).Type)
	})

	t.Run("nil channel is a no-op", func(t *testing.T) {
		assert.NotPanics(t, func() { Emit(nil, Event{Type: RunStart}) })
	})
}

func TestSend(t *testing.T) {
	ch := make(chan Event)
	go Send(ch, Event{Type: RunEnd, Message: "complete"})

	e := <-ch
	assert.Equal(t, RunEnd, e.Type)
	assert.Equal(t, "complete", e.Message)
	assert.False(t, e.Timestamp.IsZero())

	assert.NotPanics(t, func() { Send(nil, Event{Type: RunEnd}) })
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, Event{Type: RunEnd}.IsTerminal())
	assert.True(t, Event{Type: RunError}.IsTerminal())
	assert.False(t, Event{Type: MessageEnd}.IsTerminal())
	assert.False(t, Event{Type: ToolCallResult}.IsTerminal())
}
