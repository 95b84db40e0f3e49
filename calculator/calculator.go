package calculator

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

var (
	// ErrEmptyExpression is returned for blank input.
	ErrEmptyExpression = errors.New("empty expression")

	// ErrNotFinite is returned when arithmetic produces infinity or NaN
	// without the inf or nan constants, e.g. 1/0.
	ErrNotFinite = errors.New("result is not finite (division by zero or overflow)")

	// ErrFloorDivision is returned for "//", which would otherwise parse as
	// a comment.
	ErrFloorDivision = errors.New("floor division '//' is not supported; use floor(a / b)")

	// ErrComment is returned for "/*" block comments.
	ErrComment = errors.New("comments are not allowed in expressions")
)

// Value is the result of an evaluation: an int, a *big.Int for factorials
// beyond the int range, or a float64.
type Value any

// Evaluator evaluates arithmetic expressions against a fixed allow-list of
// constants and functions. It is safe for concurrent use.
type Evaluator struct {
	consts  map[string]float64
	funcs   map[string]Func
	env     map[string]any
	options []expr.Option
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithFunc adds or replaces an allow-listed function taking between
// minArgs and maxArgs arguments.
func WithFunc(name string, minArgs, maxArgs int, fn func(args ...float64) (float64, error)) Option {
	return func(e *Evaluator) {
		e.funcs[name] = Func{MinArgs: minArgs, MaxArgs: maxArgs, Fn: fn}
	}
}

// WithConst adds or replaces an allow-listed constant.
func WithConst(name string, v float64) Option {
	return func(e *Evaluator) {
		e.consts[name] = v
	}
}

// New builds an Evaluator with the default math table plus any options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		consts: map[string]float64{
			"pi":  math.Pi,
			"e":   math.E,
			"tau": 2 * math.Pi,
			"inf": math.Inf(1),
			"nan": math.NaN(),
		},
		funcs: defaultFuncs(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.env = make(map[string]any, len(e.consts))
	for name, v := range e.consts {
		e.env[name] = v
	}

	e.options = []expr.Option{expr.Env(e.env), expr.DisableAllBuiltins(), expr.Patch(overflowPatcher{})}
	for name, fn := range checkedFuncs() {
		e.options = append(e.options, expr.Function(name, fn))
	}
	for name, f := range e.funcs {
		e.options = append(e.options, expr.Function(name, func(params ...any) (any, error) {
			return f.call(name, params)
		}))
	}
	return e
}

// Functions returns the allow-listed function names, sorted.
func (e *Evaluator) Functions() []string {
	names := make([]string, 0, len(e.funcs))
	for name := range e.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Constants returns the allow-listed constant names, sorted.
func (e *Evaluator) Constants() []string {
	names := make([]string, 0, len(e.consts))
	for name := range e.consts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Evaluate parses, validates and runs input.
// Operators: + - * / % and ** or ^ for power. The result is an int or float64;
// int + - * that would overflow is computed in float64 instead.
func (e *Evaluator) Evaluate(input string) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("evaluation failed: %v", r)
		}
	}()

	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyExpression
	}
	if strings.Contains(input, "//") {
		return nil, ErrFloorDivision
	}
	if strings.Contains(input, "/*") {
		return nil, ErrComment
	}

	tree, err := parser.Parse(input)
	if err != nil {
		return nil, err
	}
	check := &validator{ev: e}
	ast.Walk(&tree.Node, check)
	if check.err != nil {
		return nil, check.err
	}

	program, err := expr.Compile(input, e.options...)
	if err != nil {
		return nil, err
	}
	out, err := expr.Run(program, e.env)
	if err != nil {
		return nil, err
	}

	switch n := out.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case *big.Int:
		return n, nil
	case float64:
		if (math.IsInf(n, 0) || math.IsNaN(n)) && !check.nonFinite {
			return nil, ErrNotFinite
		}
		return n, nil
	default:
		return nil, fmt.Errorf("expression did not produce a number (got %T)", out)
	}
}

// Run evaluates input and formats the outcome. It never fails.
func (e *Evaluator) Run(input string) string {
	v, err := e.Evaluate(input)
	if err != nil {
		return "Calculation error: " + err.Error()
	}
	return "Result: " + Format(v)
}

// Format renders a value the way the calculator reports it: integers in
// decimal, integral floats with one decimal place ("12.0"), other floats in
// their shortest form, and "inf", "-inf" or "nan".
func Format(v Value) string {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case *big.Int:
		return n.String()
	case float64:
		return formatFloat(n)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var allowedBinary = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true, "^": true,
}

// validator rejects every node that is not plain arithmetic over the
// allow-listed names.
type validator struct {
	ev        *Evaluator
	err       error
	nonFinite bool
}

func (v *validator) Visit(node *ast.Node) {
	if v.err != nil {
		return
	}

	switch n := (*node).(type) {
	case *ast.IntegerNode, *ast.FloatNode:
	case *ast.IdentifierNode:
		_, isConst := v.ev.consts[n.Value]
		_, isFunc := v.ev.funcs[n.Value]
		if !isConst && !isFunc {
			v.err = fmt.Errorf("name %q is not defined", n.Value)
		}
		if n.Value == "inf" || n.Value == "nan" {
			v.nonFinite = true
		}
	case *ast.UnaryNode:
		if n.Operator != "-" && n.Operator != "+" {
			v.err = fmt.Errorf("operator %q is not allowed", n.Operator)
		}
	case *ast.BinaryNode:
		if !allowedBinary[n.Operator] {
			v.err = fmt.Errorf("operator %q is not allowed", n.Operator)
		}
	case *ast.CallNode:
		callee, ok := n.Callee.(*ast.IdentifierNode)
		if !ok {
			v.err = errors.New("only direct function calls are allowed")
			return
		}
		if _, ok := v.ev.funcs[callee.Value]; !ok {
			v.err = fmt.Errorf("function %q is not defined", callee.Value)
		}
	case *ast.BuiltinNode:
		// Names shared with expr builtins (abs, round, ...) parse as
		// builtins; they compile to the allow-listed function instead.
		if _, ok := v.ev.funcs[n.Name]; !ok {
			v.err = fmt.Errorf("function %q is not defined", n.Name)
		}
	default:
		v.err = fmt.Errorf("unsupported syntax in expression: %T", n)
	}
}
