package calculator

import (
	"errors"
	"math"

	"github.com/expr-lang/expr/ast"
)

// Arithmetic operators are rewritten into calls of these helpers, so int
// results outside the int range become floats instead of wrapping and
// *big.Int factorials take part as floats.
const (
	addFunc = "$add"
	subFunc = "$sub"
	mulFunc = "$mul"
	divFunc = "$div"
	modFunc = "$mod"
	powFunc = "$pow"
	negFunc = "$neg"
)

var checkedOps = map[string]string{
	"+": addFunc, "-": subFunc, "*": mulFunc, "/": divFunc,
	"%": modFunc, "**": powFunc, "^": powFunc,
}

var (
	errModuloByZero   = errors.New("integer division or modulo by zero")
	errModuloOperands = errors.New("operator % requires integer operands")
)

type overflowPatcher struct{}

func (overflowPatcher) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.BinaryNode:
		if name, ok := checkedOps[n.Operator]; ok {
			ast.Patch(node, &ast.CallNode{
				Callee:    &ast.IdentifierNode{Value: name},
				Arguments: []ast.Node{n.Left, n.Right},
			})
		}
	case *ast.UnaryNode:
		if n.Operator == "-" {
			ast.Patch(node, &ast.CallNode{
				Callee:    &ast.IdentifierNode{Value: negFunc},
				Arguments: []ast.Node{n.Node},
			})
		}
	}
}

func checkedAdd(a, b int) (int, bool) {
	if (b > 0 && a > math.MaxInt-b) || (b < 0 && a < math.MinInt-b) {
		return 0, false
	}
	return a + b, true
}

func checkedSub(a, b int) (int, bool) {
	if (b < 0 && a > math.MaxInt+b) || (b > 0 && a < math.MinInt+b) {
		return 0, false
	}
	return a - b, true
}

func checkedMul(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

// arith returns an expr function for a binary operator: int operands use
// checked arithmetic, anything else (or an overflow) is computed in float64.
func arith(checked func(a, b int) (int, bool), float func(x, y float64) float64) func(params ...any) (any, error) {
	return func(params ...any) (any, error) {
		a, aInt := params[0].(int)
		b, bInt := params[1].(int)
		if aInt && bInt {
			if c, ok := checked(a, b); ok {
				return c, nil
			}
		}
		x, _, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		y, _, err := toFloat(params[1])
		if err != nil {
			return nil, err
		}
		return float(x, y), nil
	}
}

func floatOp(fn func(x, y float64) float64) func(params ...any) (any, error) {
	return arith(func(int, int) (int, bool) { return 0, false }, fn)
}

// modulo takes the sign of the divisor, so -7 % 3 is 2.
func modulo(params ...any) (any, error) {
	a, aInt := params[0].(int)
	b, bInt := params[1].(int)
	if !aInt || !bInt {
		return nil, errModuloOperands
	}
	if b == 0 {
		return nil, errModuloByZero
	}
	if b == -1 {
		return 0, nil
	}
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r, nil
}

func negate(params ...any) (any, error) {
	if a, ok := params[0].(int); ok && a != math.MinInt {
		return -a, nil
	}
	x, _, err := toFloat(params[0])
	if err != nil {
		return nil, err
	}
	return -x, nil
}

func checkedFuncs() map[string]func(params ...any) (any, error) {
	return map[string]func(params ...any) (any, error){
		addFunc: arith(checkedAdd, func(x, y float64) float64 { return x + y }),
		subFunc: arith(checkedSub, func(x, y float64) float64 { return x - y }),
		mulFunc: arith(checkedMul, func(x, y float64) float64 { return x * y }),
		divFunc: floatOp(func(x, y float64) float64 { return x / y }),
		modFunc: modulo,
		powFunc: floatOp(math.Pow),
		negFunc: negate,
	}
}
