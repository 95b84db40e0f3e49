package calculator

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

var (
	errDomain = errors.New("math domain error")
	errRange  = errors.New("math range error")
)

// Func is an allow-listed function callable from expressions.
type Func struct {
	MinArgs int
	MaxArgs int
	Fn      func(args ...float64) (float64, error)

	// Integral marks functions whose result is returned as an int when it
	// fits, matching floor, ceil, trunc, round and factorial.
	Integral bool

	// PreserveInt returns an int when every argument was an int and the
	// result is integral.
	PreserveInt bool

	// IntegralUnary is Integral for the one-argument form only.
	IntegralUnary bool

	// Exact, when set, is tried first for all-int arguments. It returns an
	// int or *big.Int, or false to fall back to Fn.
	Exact func(args ...float64) (any, bool)
}

func unary(fn func(float64) float64) Func {
	return Func{MinArgs: 1, MaxArgs: 1, Fn: func(a ...float64) (float64, error) { return fn(a[0]), nil }}
}

func binary(fn func(x, y float64) float64) Func {
	return Func{MinArgs: 2, MaxArgs: 2, Fn: func(a ...float64) (float64, error) { return fn(a[0], a[1]), nil }}
}

func integral(fn func(float64) float64) Func {
	f := unary(fn)
	f.Integral = true
	return f
}

func defaultFuncs() map[string]Func {
	return map[string]Func{
		"sqrt":  unary(math.Sqrt),
		"sin":   unary(math.Sin),
		"cos":   unary(math.Cos),
		"tan":   unary(math.Tan),
		"asin":  unary(math.Asin),
		"acos":  unary(math.Acos),
		"atan":  unary(math.Atan),
		"atan2": binary(math.Atan2),
		"sinh":  unary(math.Sinh),
		"cosh":  unary(math.Cosh),
		"tanh":  unary(math.Tanh),
		"exp":   unary(math.Exp),
		"log":   {MinArgs: 1, MaxArgs: 2, Fn: logN},
		"log10": unary(math.Log10),
		"log2":  unary(math.Log2),
		"pow":   binary(math.Pow),
		"floor": integral(math.Floor),
		"ceil":  integral(math.Ceil),
		"trunc": integral(math.Trunc),
		"fabs":  unary(math.Abs),
		"hypot": binary(math.Hypot),
		"degrees": unary(func(x float64) float64 {
			return x * 180 / math.Pi
		}),
		"radians": unary(func(x float64) float64 {
			return x * math.Pi / 180
		}),
		"factorial": {MinArgs: 1, MaxArgs: 1, Fn: factorial, Exact: exactFactorial, Integral: true},
		"abs":       {MinArgs: 1, MaxArgs: 1, Fn: func(a ...float64) (float64, error) { return math.Abs(a[0]), nil }, PreserveInt: true},
		"round":     {MinArgs: 1, MaxArgs: 2, Fn: round, PreserveInt: true, IntegralUnary: true},
	}
}

func logN(a ...float64) (float64, error) {
	if len(a) == 1 {
		return math.Log(a[0]), nil
	}
	if a[1] <= 0 || a[1] == 1 {
		return 0, errDomain
	}
	return math.Log(a[0]) / math.Log(a[1]), nil
}

func factorial(a ...float64) (float64, error) {
	n := a[0]
	if n < 0 || n != math.Trunc(n) {
		return 0, errors.New("factorial() only accepts non-negative integral values")
	}
	if n > 170 {
		return 0, errRange
	}
	result := 1.0
	for i := 2.0; i <= n; i++ {
		result *= i
	}
	return result, nil
}

// exactFactorial returns n! as an int up to 20! and as a *big.Int above.
func exactFactorial(a ...float64) (any, bool) {
	n := a[0]
	if n < 0 || n > 170 {
		return nil, false
	}
	if n <= 20 {
		result := 1
		for i := 2; i <= int(n); i++ {
			result *= i
		}
		return result, true
	}
	return new(big.Int).MulRange(1, int64(n)), true
}

// round uses round-half-to-even; a second argument selects decimal places.
func round(a ...float64) (float64, error) {
	if len(a) == 1 {
		return math.RoundToEven(a[0]), nil
	}
	digits := a[1]
	if digits != math.Trunc(digits) {
		return 0, errors.New("round() digits must be an integer")
	}
	scale := math.Pow(10, digits)
	if math.IsInf(scale, 0) || scale == 0 {
		return a[0], nil
	}
	r := math.RoundToEven(a[0]*scale) / scale
	if r == 0 {
		r = 0
	}
	return r, nil
}

// call checks arity and converts arguments, then maps non-finite results of
// finite inputs to domain and range errors.
func (f Func) call(name string, params []any) (any, error) {
	if len(params) < f.MinArgs || len(params) > f.MaxArgs {
		if f.MinArgs == f.MaxArgs {
			return nil, fmt.Errorf("%s() takes exactly %d argument(s) (%d given)", name, f.MinArgs, len(params))
		}
		return nil, fmt.Errorf("%s() takes %d to %d arguments (%d given)", name, f.MinArgs, f.MaxArgs, len(params))
	}

	args := make([]float64, len(params))
	allInts := true
	finite := true
	for i, p := range params {
		v, isInt, err := toFloat(p)
		if err != nil {
			return nil, fmt.Errorf("%s(): %w", name, err)
		}
		allInts = allInts && isInt
		finite = finite && !math.IsNaN(v) && !math.IsInf(v, 0)
		args[i] = v
	}

	if f.Exact != nil && allInts {
		if v, ok := f.Exact(args...); ok {
			return v, nil
		}
	}

	result, err := f.Fn(args...)
	if err != nil {
		return nil, err
	}
	if finite && math.IsNaN(result) {
		return nil, errDomain
	}
	if finite && math.IsInf(result, 0) {
		return nil, errRange
	}

	integral := f.Integral || (f.PreserveInt && allInts) || (f.IntegralUnary && len(args) == 1)
	if integral && fitsInt(result) {
		return int(result), nil
	}
	return result, nil
}

func toFloat(v any) (float64, bool, error) {
	switch n := v.(type) {
	case int:
		return float64(n), true, nil
	case int64:
		return float64(n), true, nil
	case float64:
		return n, false, nil
	case float32:
		return float64(n), false, nil
	case *big.Int:
		f, _ := new(big.Float).SetInt(n).Float64()
		return f, true, nil
	default:
		return 0, false, fmt.Errorf("expected a number, got %T", v)
	}
}

func fitsInt(f float64) bool {
	return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64
}
