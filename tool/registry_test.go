package tool

import (
	"context"
	"errors"
	"sync"
	"testing"

	ai "github.com/spetersoncode/toolchat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cityArgs struct {
	City string `json:"city" desc:"City name" required:"true"`
}

func echoCity(_ context.Context, args cityArgs) (string, error) {
	return "city=" + args.City, nil
}

func TestRegistry_Register(t *testing.T) {
	noop := func(context.Context, ai.ToolCall) (string, error) { return "", nil }

	t.Run("registers tool", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ai.Tool{Name: "city_info"}, noop))
		assert.Equal(t, 1, r.Len())

		got, ok := r.GetTool("city_info")
		require.True(t, ok)
		assert.Equal(t, "city_info", got.Name)
	})

	t.Run("rejects duplicate", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(ai.Tool{Name: "calculator"}, noop))
		err := r.Register(ai.Tool{Name: "calculator"}, noop)
		var dup *ErrToolAlreadyRegistered
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "calculator", dup.Name)
	})

	t.Run("rejects invalid definitions", func(t *testing.T) {
		r := NewRegistry()
		var invalid *ErrInvalidTool
		assert.ErrorAs(t, r.Register(ai.Tool{Name: ""}, noop), &invalid)
		assert.ErrorAs(t, r.Register(ai.Tool{Name: "has space"}, noop), &invalid)
		assert.ErrorAs(t, r.Register(ai.Tool{Name: "ok"}, nil), &invalid)
		assert.ErrorAs(t, r.Register(ai.Tool{Name: "ok", Parameters: []byte(`{`)}, noop), &invalid)
		assert.Equal(t, 0, r.Len())
	})

	t.Run("must register panics", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister(ai.Tool{Name: "x"}, noop)
		assert.Panics(t, func() { r.MustRegister(ai.Tool{Name: "x"}, noop) })
	})
}

func TestRegistry_Order(t *testing.T) {
	r := NewRegistry().Add(
		Func("calculator", "Evaluate", func(context.Context, struct{}) (string, error) { return "", nil }),
		Func("city_info", "Lookup", echoCity),
		Func("zeta", "Last", func(context.Context, struct{}) (string, error) { return "", nil }),
	)

	assert.Equal(t, []string{"calculator", "city_info", "zeta"}, r.Names())

	tools := r.Tools()
	require.Len(t, tools, 3)
	assert.Equal(t, "city_info", tools[1].Name)

	r.Unregister("city_info")
	r.Unregister("missing")
	assert.Equal(t, []string{"calculator", "zeta"}, r.Names())
	_, ok := r.Get("city_info")
	assert.False(t, ok)
}

func TestRegistry_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("typed handler", func(t *testing.T) {
		r := NewRegistry().Add(Func("city_info", "Lookup", echoCity))
		res, err := r.Execute(ctx, ai.ToolCall{ID: "c1", Name: "city_info", Arguments: `{"city":"Paris"}`})
		require.NoError(t, err)
		assert.Equal(t, ai.ToolResult{ToolCallID: "c1", Name: "city_info", Content: "city=Paris"}, res)
	})

	t.Run("empty arguments decode as empty object", func(t *testing.T) {
		r := NewRegistry().Add(Func("city_info", "Lookup", echoCity))
		res, err := r.Execute(ctx, ai.ToolCall{ID: "c1", Name: "city_info"})
		require.NoError(t, err)
		assert.False(t, res.IsError)
		assert.Equal(t, "city=", res.Content)
	})

	t.Run("invalid arguments become error result", func(t *testing.T) {
		r := NewRegistry().Add(Func("city_info", "Lookup", echoCity))
		res, err := r.Execute(ctx, ai.ToolCall{ID: "c1", Name: "city_info", Arguments: `{"city":`})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content, "invalid arguments for city_info")
	})

	t.Run("handler error becomes error result", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister(ai.Tool{Name: "fail"}, func(context.Context, ai.ToolCall) (string, error) {
			return "", errors.New("boom")
		})
		res, err := r.Execute(ctx, ai.ToolCall{ID: "c2", Name: "fail"})
		require.NoError(t, err)
		assert.Equal(t, ai.ToolResult{ToolCallID: "c2", Name: "fail", Content: "boom", IsError: true}, res)
	})

	t.Run("panic is recovered", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister(ai.Tool{Name: "panics"}, func(context.Context, ai.ToolCall) (string, error) {
			panic("kaboom")
		})
		res, err := r.Execute(ctx, ai.ToolCall{ID: "c3", Name: "panics"})
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Equal(t, "c3", res.ToolCallID)
		assert.Contains(t, res.Content, "kaboom")
	})

	t.Run("unknown tool", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Execute(ctx, ai.ToolCall{Name: "nope"})
		var nf *ErrToolNotFound
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "nope", nf.Name)
	})
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry().Add(Func("city_info", "Lookup", echoCity))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.Execute(context.Background(), ai.ToolCall{Name: "city_info", Arguments: `{"city":"Tokyo"}`})
			_ = r.Tools()
		}()
	}
	wg.Wait()
}

func TestBind(t *testing.T) {
	tl, h, err := Bind("city_info", "Look up a city", echoCity)
	require.NoError(t, err)
	assert.Equal(t, "city_info", tl.Name)
	assert.JSONEq(t, `{
		"type": "object",
		"properties": {"city": {"type": "string", "description": "City name"}},
		"required": ["city"]
	}`, string(tl.Parameters))

	out, err := h(context.Background(), ai.ToolCall{Arguments: `{"city":"Rio"}`})
	require.NoError(t, err)
	assert.Equal(t, "city=Rio", out)

	r := NewRegistry()
	require.NoError(t, BindTo(r, "city_info", "Look up", echoCity))
	assert.Error(t, BindTo(r, "city_info", "Look up", echoCity))
	assert.Panics(t, func() { MustBindTo(r, "city_info", "Look up", echoCity) })
	require.NoError(t, RegisterFunc(r, "other", "Other", echoCity))
	assert.Equal(t, 2, r.Len())
}
