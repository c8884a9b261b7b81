package parser

// Package parser turns Lisp-style arithmetic source text into an AST.
//
// The parser is a hand-written recursive descent over a streaming lexer.
// The grammar has a single rule:
//
//	expression = number | "(" symbol expression* ")"
//
// # Example
//
//	ast, err := parser.Parse("(+ (* 2 3) (/ 10 5))")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(ast) // Add[Multiply[2,3],Divide[10,5]]
//
// # Limits
//
// Input longer than MaxInputLength characters is rejected before lexing,
// and forms nested deeper than MaxDepth are rejected while parsing, so a
// call never overflows the stack.

import (
	"github.com/sandrolain/lispc/pkg/types"
)

const (
	// MaxInputLength is the maximum accepted input length in characters.
	MaxInputLength = 65536
	// MaxDepth is the maximum nesting depth of parenthesised forms.
	MaxDepth = 256
)

// Parse parses a single expression and returns the root AST node.
//
// If parsing fails, it returns a *types.Error with position information.
//
// Example:
//
//	ast, err := parser.Parse("(- 10 4)")
//	if e, ok := types.AsError(err); ok {
//	    fmt.Printf("%s at position %d\n", e.Kind(), e.Position)
//	}
func Parse(source string, opts ...CompileOption) (*types.ASTNode, error) {
	p := NewParser(source, opts...)
	return p.Parse()
}

// CompileOption configures parsing behavior.
type CompileOption func(*CompileOptions)

// CompileOptions holds parser configuration.
type CompileOptions struct {
	// MaxDepth limits nesting depth to prevent stack overflow.
	MaxDepth int
	// MaxInputLength limits the input length in characters.
	MaxInputLength int
}

// WithMaxDepth sets the maximum nesting depth.
func WithMaxDepth(depth int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxDepth = depth
	}
}

// WithMaxInputLength sets the maximum input length in characters.
func WithMaxInputLength(n int) CompileOption {
	return func(opts *CompileOptions) {
		opts.MaxInputLength = n
	}
}
