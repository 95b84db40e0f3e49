package cities

import (
	"context"
	"strings"
	"testing"

	ai "github.com/spetersoncode/toolchat"
	"github.com/spetersoncode/toolchat/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	table := Default()
	assert.Same(t, table, Default())
	assert.Equal(t, []string{"paris", "rio de janeiro", "são paulo", "tokyo"}, table.Names())

	c, ok := table.Lookup("tokyo")
	require.True(t, ok)
	assert.Equal(t, City{
		Name:        "tokyo",
		Country:     "Japão",
		Population:  "13.9 milhões",
		Area:        "2.194 km²",
		Coordinates: "(35.6762, 139.6503)",
		Info:        "Capital do Japão, maior área metropolitana do mundo",
	}, c)
}

func TestLookup(t *testing.T) {
	table := Default()

	for _, name := range []string{"São Paulo", "são paulo", "SÃO PAULO", "  são paulo ", "sa\u0303o paulo"} {
		t.Run(name, func(t *testing.T) {
			c, ok := table.Lookup(name)
			require.True(t, ok)
			assert.Equal(t, "Brasil", c.Country)
		})
	}

	_, ok := table.Lookup("Lisbon")
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	table := Default()

	t.Run("hit", func(t *testing.T) {
		want := "Information about São Paulo:\n" +
			"• Country: Brasil\n" +
			"• Population: 12.3 milhões\n" +
			"• Area: 1.521 km²\n" +
			"• Coordinates: (-23.5505, -46.6333)\n" +
			"• Additional info: Maior cidade do Brasil e centro financeiro"
		assert.Equal(t, want, table.Describe("São Paulo"))
		assert.Equal(t, want, table.Describe("SÃO PAULO"))
	})

	t.Run("title cases multi-word names", func(t *testing.T) {
		assert.Contains(t, table.Describe("rio de janeiro"), "Information about Rio De Janeiro:")
	})

	t.Run("miss keeps original input", func(t *testing.T) {
		assert.Equal(t, "Information for 'LiSbOn' was not found in the database.", table.Describe("LiSbOn"))
		assert.Equal(t, "Information for '' was not found in the database.", table.Describe(""))
	})
}

func TestParse(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		table, err := Parse([]byte("cities:\n  - name: Lisboa\n    country: Portugal\n"))
		require.NoError(t, err)
		assert.Equal(t, 1, table.Len())
		c, ok := table.Lookup("LISBOA")
		require.True(t, ok)
		assert.Equal(t, "lisboa", c.Name)
	})

	t.Run("empty document", func(t *testing.T) {
		table, err := Parse(nil)
		require.NoError(t, err)
		assert.Zero(t, table.Len())
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := Parse([]byte("cities:\n  - name: x\n    mayor: y\n"))
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Parse([]byte("cities: [\n"))
		assert.Error(t, err)
	})
}

func TestNewTable(t *testing.T) {
	_, err := NewTable(City{Name: "Paris"}, City{Name: " paris "})
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewTable(City{Name: "  "})
	assert.ErrorContains(t, err, "empty name")

	records := []City{{Name: "Paris", Country: "França"}}
	table, err := NewTable(records...)
	require.NoError(t, err)
	records[0].Country = "changed"
	c, _ := table.Lookup("paris")
	assert.Equal(t, "França", c.Country, "table does not alias caller records")

	names := table.Names()
	names[0] = "mutated"
	assert.Equal(t, []string{"paris"}, table.Names())
}

func TestTool(t *testing.T) {
	registry := tool.NewRegistry().Add(Tool(Default()))

	res, err := registry.Execute(context.Background(), ai.ToolCall{ID: "c1", Name: ToolName, Arguments: `{"city":"paris"}`})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, res.Content, "Information about Paris:")
	assert.Contains(t, res.Content, "• Country: França")

	res, err = registry.Execute(context.Background(), ai.ToolCall{ID: "c2", Name: ToolName, Arguments: `{"city":"Atlantis"}`})
	require.NoError(t, err)
	assert.Equal(t, "Information for 'Atlantis' was not found in the database.", res.Content)

	t.Run("malformed arguments are reported as fetch errors", func(t *testing.T) {
		for _, args := range []string{`{"city": 7}`, `{"city":`} {
			res, err := registry.Execute(context.Background(), ai.ToolCall{ID: "c3", Name: ToolName, Arguments: args})
			require.NoError(t, err, args)
			assert.False(t, res.IsError, args)
			assert.True(t, strings.HasPrefix(res.Content, "Error fetching city information: "), res.Content)
		}
	})
}
