// Package lispc translates a small Lisp-style arithmetic dialect into C.
//
// A source text is a single expression: a number, or a parenthesised form
// with one of the operators + - * / followed by its operands:
//
//	(+ (* 2 3) (/ 10 5))
//
// The result is a complete C program that evaluates the expression and
// prints its value.
//
// # Quick Start
//
//	// Generate C
//	src, err := lispc.Compile("(+ 1 2.5)")
//
//	// Outcome form, ready for JSON
//	out := lispc.Transpile("(- 1 2 3)")
//	json.NewEncoder(w).Encode(out) // {"error": "...", "kind": "ArityError", ...}
//
//	// Value the generated program prints
//	v, err := lispc.Evaluate("(+ 1 2.5)") // 3.500000
//
// # Semantics
//
//   - + and * take one or more operands and fold left to right.
//   - - and / take exactly two operands.
//   - An expression is floating-point if any literal beneath it has a
//     fractional part; otherwise it is a 64-bit integer.
//
// # More Information
//
//   - Parser: github.com/sandrolain/lispc/pkg/parser
//   - Validator: github.com/sandrolain/lispc/pkg/validator
//   - Resolver: github.com/sandrolain/lispc/pkg/resolver
//   - Code generator: github.com/sandrolain/lispc/pkg/codegen
//   - Pipeline: github.com/sandrolain/lispc/pkg/transpiler
package lispc

import (
	"fmt"

	"github.com/sandrolain/lispc/pkg/evaluator"
	"github.com/sandrolain/lispc/pkg/transpiler"
	"github.com/sandrolain/lispc/pkg/types"
)

// Version returns the current version of lispc.
func Version() string {
	return "v0.1.0"
}

var defaultTranspiler = transpiler.New()

// Transpile runs the pipeline and returns its outcome.
func Transpile(source string, opts ...transpiler.Option) types.Outcome {
	return transpilerFor(opts).Transpile(source)
}

// Compile returns the generated C program, or the first error.
//
// Example:
//
//	src, err := lispc.Compile("(+ (* 2 3) (/ 10 5))")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("out.c", []byte(src), 0o644)
func Compile(source string, opts ...transpiler.Option) (string, error) {
	return transpilerFor(opts).Compile(source)
}

// MustCompile is like Compile but panics if the source cannot be compiled.
func MustCompile(source string) string {
	out, err := Compile(source)
	if err != nil {
		panic(fmt.Sprintf("lispc: Compile(%q): %v", source, err))
	}
	return out
}

// Evaluate computes the value the generated program would print.
func Evaluate(source string, opts ...evaluator.EvalOption) (evaluator.Value, error) {
	typed, err := defaultTranspiler.Typed(source)
	if err != nil {
		return evaluator.Value{}, err
	}
	return evaluator.New(opts...).Eval(typed)
}

func transpilerFor(opts []transpiler.Option) *transpiler.Transpiler {
	if len(opts) == 0 {
		return defaultTranspiler
	}
	return transpiler.New(opts...)
}
