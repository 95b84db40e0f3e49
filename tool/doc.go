// Package tool provides the tool registry used by the agent loop.
//
// Define tool arguments as a struct with tags and bind a typed function:
//
//	type CityArgs struct {
//	    City string `json:"city" desc:"City name" required:"true"`
//	}
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("city_info", "Look up facts about a city",
//	        func(ctx context.Context, args CityArgs) (string, error) {
//	            return lookup(args.City), nil
//	        }),
//	)
//
// Supported struct tags:
//
//	json:"name"      property name
//	desc:"text"      description for the model
//	required:"true"  mark field as required
//	enum:"a,b,c"     allowed values (comma-separated)
//
// [Registry.Execute] turns handler errors and panics into error results so
// the model can read the failure and recover.
package tool
