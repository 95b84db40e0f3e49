// Package calculator evaluates arithmetic expressions in a sandbox.
//
// Expressions are parsed by expr-lang/expr and checked against an allow-list
// before compilation: only numbers, arithmetic operators, the registered
// constants and calls to the registered functions are accepted. Nothing else
// is reachable from an expression.
//
//	ev := calculator.New()
//	ev.Run("sqrt(144)")   // "Result: 12.0"
//	ev.Run("(2+3")        // "Calculation error: ..."
//
// Run never fails; Evaluate returns the typed value and error.
package calculator
