package tool

import (
	ai "github.com/spetersoncode/toolchat"
)

// Bind creates a Tool and Handler from a typed function.
// The JSON schema for tool parameters is generated from struct tags on T.
// Empty arguments decode as an empty object.
//
// Example:
//
//	type CalcArgs struct {
//	    Expression string `json:"expression" desc:"Arithmetic expression" required:"true"`
//	}
//
//	t, h := tool.MustBind("calculator", "Evaluate arithmetic",
//	    func(ctx context.Context, args CalcArgs) (string, error) {
//	        return ev.Run(args.Expression), nil
//	    })
func Bind[T any](name, description string, fn TypedHandler[T]) (ai.Tool, Handler, error) {
	schema, err := SchemaFor[T]()
	if err != nil {
		return ai.Tool{}, nil, err
	}

	t := ai.Tool{
		Name:        name,
		Description: description,
		Parameters:  schema,
	}
	return t, typed(name, fn), nil
}

// MustBind is like Bind but panics on error.
func MustBind[T any](name, description string, fn TypedHandler[T]) (ai.Tool, Handler) {
	t, h, err := Bind(name, description, fn)
	if err != nil {
		panic(err)
	}
	return t, h
}

// BindTo creates a tool from a typed function and registers it with r.
func BindTo[T any](r *Registry, name, description string, fn TypedHandler[T]) error {
	t, h, err := Bind(name, description, fn)
	if err != nil {
		return err
	}
	return r.Register(t, h)
}

// MustBindTo is like BindTo but panics on error.
func MustBindTo[T any](r *Registry, name, description string, fn TypedHandler[T]) {
	if err := BindTo(r, name, description, fn); err != nil {
		panic(err)
	}
}
