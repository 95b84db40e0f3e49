package tool

import (
	"context"
	"encoding/json"
	"regexp"
	"sync"

	ai "github.com/spetersoncode/toolchat"
)

var validName = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// registeredTool combines a tool definition with its handler.
type registeredTool struct {
	tool    ai.Tool
	handler Handler
}

// Registry manages registered tools and their handlers.
// Tools are returned in registration order. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
	order []string
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]registeredTool),
	}
}

// Register adds a tool with its handler to the registry.
// Returns an error if the name is invalid, the handler is nil, or a tool
// with the same name is already registered.
func (r *Registry) Register(tool ai.Tool, handler Handler) error {
	if !validName.MatchString(tool.Name) {
		return &ErrInvalidTool{Name: tool.Name, Reason: "name must match [a-zA-Z0-9_-]{1,64}"}
	}
	if handler == nil {
		return &ErrInvalidTool{Name: tool.Name, Reason: "nil handler"}
	}
	if len(tool.Parameters) > 0 && !json.Valid(tool.Parameters) {
		return &ErrInvalidTool{Name: tool.Name, Reason: "parameters are not valid JSON"}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return &ErrToolAlreadyRegistered{Name: tool.Name}
	}

	r.tools[tool.Name] = registeredTool{
		tool:    tool,
		handler: handler,
	}
	r.order = append(r.order, tool.Name)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(tool ai.Tool, handler Handler) {
	if err := r.Register(tool, handler); err != nil {
		panic(err)
	}
}

// Unregister removes a tool from the registry.
// It is a no-op if the tool is not registered.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tools[name]; !ok {
		return
	}
	delete(r.tools, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get retrieves a handler by tool name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return rt.handler, true
}

// GetTool retrieves a tool definition by name.
func (r *Registry) GetTool(name string) (ai.Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	if !ok {
		return ai.Tool{}, false
	}
	return rt.tool, true
}

// Tools returns all registered tool definitions in registration order.
// This is used to pass the tools to the ChatProvider.
func (r *Registry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name].tool)
	}
	return tools
}

// Names returns the names of all registered tools in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// RegisterFunc registers a tool with a typed handler that automatically
// unmarshals the arguments JSON into T.
func RegisterFunc[T any](r *Registry, name, description string, fn TypedHandler[T]) error {
	return BindTo(r, name, description, fn)
}

// Execute runs the handler for a tool call and returns a ToolResult.
// If the tool is not found, returns ErrToolNotFound.
// Handler errors and panics are captured in ToolResult.IsError with the
// message as content, so the model can read the failure and recover.
func (r *Registry) Execute(ctx context.Context, call ai.ToolCall) (result ai.ToolResult, err error) {
	r.mu.RLock()
	rt, ok := r.tools[call.Name]
	r.mu.RUnlock()

	if !ok {
		return ai.ToolResult{}, &ErrToolNotFound{Name: call.Name}
	}

	defer func() {
		if v := recover(); v != nil {
			result, err = call.ErrorResult(&ErrToolPanic{Name: call.Name, Value: v}), nil
		}
	}()

	content, herr := rt.handler(ctx, call)
	if herr != nil {
		return call.ErrorResult(herr), nil
	}
	return call.Result(content), nil
}

// Registration holds a tool and its handler for fluent registration.
type Registration struct {
	Tool    ai.Tool
	Handler Handler
}

// Func creates a Registration with automatic schema generation from the typed handler.
// Panics if schema generation fails.
//
// Example:
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("calculator", "Evaluate arithmetic", calcFn),
//	    tool.Func("city_info", "Look up a city", cityFn),
//	)
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	t, h := MustBind(name, description, fn)
	return Registration{Tool: t, Handler: h}
}

// WithHandler creates a Registration from a Handler and schema.
func WithHandler(name, description string, schema json.RawMessage, h Handler) Registration {
	return Registration{
		Tool: ai.Tool{
			Name:        name,
			Description: description,
			Parameters:  schema,
		},
		Handler: h,
	}
}

// Add registers one or more tools to the registry.
// Panics if any registration is rejected.
// Returns the registry for fluent chaining.
func (r *Registry) Add(regs ...Registration) *Registry {
	for _, reg := range regs {
		r.MustRegister(reg.Tool, reg.Handler)
	}
	return r
}
