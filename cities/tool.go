package cities

import (
	"context"

	ai "github.com/spetersoncode/toolchat"
	"github.com/spetersoncode/toolchat/tool"
)

// ToolName is the name the lookup is registered under.
const ToolName = "city_info"

// Description tells the model when and how to use the lookup.
const Description = `Useful for getting information about a specific city.
Input must be the city name.
Returns information such as population, country, coordinates, etc.`

// Args are the city_info tool arguments.
type Args struct {
	City string `json:"city" desc:"City name, e.g. Paris" required:"true"`
}

// Tool binds t as the city_info tool. Misses and malformed arguments are
// reported in the result text, so the handler never returns an error.
func Tool(t *Table) tool.Registration {
	return tool.WithHandler(ToolName, Description, tool.MustSchemaFor[Args](), func(_ context.Context, call ai.ToolCall) (string, error) {
		var args Args
		if err := call.Decode(&args); err != nil {
			return "Error fetching city information: " + err.Error(), nil
		}
		return t.Describe(args.City), nil
	})
}
