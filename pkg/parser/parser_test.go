package parser_test

import (
	"strings"
	"testing"

	"github.com/kr/pretty"

	"github.com/sandrolain/lispc/pkg/parser"
	"github.com/sandrolain/lispc/pkg/types"
)

// Helper functions

func parseExpr(t *testing.T, input string) *types.ASTNode {
	t.Helper()
	ast, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", input, err)
	}
	return ast
}

func expectCode(t *testing.T, input string, code types.ErrorCode, position int, opts ...parser.CompileOption) *types.Error {
	t.Helper()
	_, err := parser.Parse(input, opts...)
	if err == nil {
		t.Fatalf("Expected error parsing %q but got none", input)
	}
	e, ok := types.AsError(err)
	if !ok {
		t.Fatalf("Parse(%q): error %v is not a *types.Error", input, err)
	}
	if e.Code != code {
		t.Errorf("Parse(%q): code = %s, want %s (%v)", input, e.Code, code, err)
	}
	if e.Position != position {
		t.Errorf("Parse(%q): position = %d, want %d", input, e.Position, position)
	}
	return e
}

func num(text string, pos int) *types.ASTNode {
	return types.NewNumber(text, strings.Contains(text, "."), pos)
}

func op(symbol string, pos int, operands ...*types.ASTNode) *types.ASTNode {
	if len(operands) == 0 {
		operands = nil
	}
	return types.NewOperation(symbol, pos, pos+1, operands)
}

// Tree tests

func TestParseTrees(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *types.ASTNode
	}{
		{"integer", "42", num("42", 0)},
		{"negative float", "-2.5", num("-2.5", 0)},
		{"surrounding whitespace", "\n  7\t", num("7", 3)},
		{"binary", "(- 10 4)", op("-", 0, num("10", 3), num("4", 6))},
		{"variadic", "(+ 1 2 3 4)", op("+", 0, num("1", 3), num("2", 5), num("3", 7), num("4", 9))},
		{"canonical", "(+ (* 2 3) (/ 10 5))",
			op("+", 0,
				op("*", 3, num("2", 6), num("3", 8)),
				op("/", 11, num("10", 14), num("5", 17)))},
		{"no operands", "(+)", op("+", 0)},
		{"unknown operator kept", "(% 3 4)", op("%", 0, num("3", 3), num("4", 5))},
		{"no spaces", "(*(+ 1 2)3)", op("*", 0, op("+", 2, num("1", 5), num("2", 7)), num("3", 9))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseExpr(t, tt.input)
			if diff := pretty.Diff(got, tt.want); len(diff) > 0 {
				t.Errorf("Parse(%q) mismatch:\n%s", tt.input, strings.Join(diff, "\n"))
			}
		})
	}
}

func TestParseOperators(t *testing.T) {
	tests := []struct {
		input string
		op    types.Operator
	}{
		{"(+ 1)", types.OpAdd},
		{"(- 1 2)", types.OpSubtract},
		{"(* 1)", types.OpMultiply},
		{"(/ 1 2)", types.OpDivide},
		{"(% 1 2)", types.OpUnknown},
		{"(add 1 2)", types.OpUnknown},
		{"(++ 1 2)", types.OpUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ast := parseExpr(t, tt.input)
			if ast.Type != types.NodeOperation {
				t.Fatalf("node type = %s, want operation", ast.Type)
			}
			if ast.Operator != tt.op {
				t.Errorf("operator = %s, want %s", ast.Operator, tt.op)
			}
		})
	}
}

func TestParseCanonicalString(t *testing.T) {
	ast := parseExpr(t, "(+ (* 2 3) (/ 10 5))")
	if got, want := ast.String(), "Add[Multiply[2,3],Divide[10,5]]"; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
	if got := ast.Depth(); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}
}

// Error tests

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		code     types.ErrorCode
		position int
	}{
		{"empty", "", types.ErrUnexpectedEnd, 0},
		{"blank", "   ", types.ErrUnexpectedEnd, 3},
		{"unbalanced", "(+ 1", types.ErrUnexpectedEnd, 4},
		{"nested unbalanced", "(+ (* 2 3) (- 1", types.ErrUnexpectedEnd, 15},
		{"open only", "(", types.ErrUnexpectedEnd, 1},
		{"close first", ")", types.ErrUnexpectedToken, 0},
		{"bare symbol", "+", types.ErrUnexpectedToken, 0},
		{"symbol operand", "(+ 1 x)", types.ErrUnexpectedToken, 5},
		{"number as operator", "(1 2)", types.ErrMissingOperator, 1},
		{"empty form", "()", types.ErrMissingOperator, 1},
		{"form as operator", "((+ 1) 2)", types.ErrMissingOperator, 1},
		{"extra close", "(+ 1 2))", types.ErrTrailingInput, 7},
		{"two expressions", "1 2", types.ErrTrailingInput, 2},
		{"lex error wins", "(+ 1 1.)", types.ErrMalformedNumber, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := expectCode(t, tt.input, tt.code, tt.position)
			if e.Kind() != tt.code.Kind() {
				t.Errorf("kind = %s, want %s", e.Kind(), tt.code.Kind())
			}
		})
	}
}

func TestParseEmptyInputIsParseError(t *testing.T) {
	e := expectCode(t, "", types.ErrUnexpectedEnd, 0)
	if e.Kind() != types.KindParseError {
		t.Errorf("kind = %s, want ParseError", e.Kind())
	}
	if !strings.Contains(e.Message, "no expression") {
		t.Errorf("message = %q, want it to mention the missing expression", e.Message)
	}
}

// Limit tests

func nested(depth int) string {
	return strings.Repeat("(+ ", depth) + "1" + strings.Repeat(")", depth)
}

func TestParseDepthLimit(t *testing.T) {
	t.Run("at limit", func(t *testing.T) {
		ast := parseExpr(t, nested(parser.MaxDepth))
		if got := ast.Depth(); got != parser.MaxDepth {
			t.Errorf("Depth() = %d, want %d", got, parser.MaxDepth)
		}
	})

	t.Run("300 levels", func(t *testing.T) {
		// The 257th '(' is the first one past the limit.
		e := expectCode(t, nested(300), types.ErrTooDeep, 3*parser.MaxDepth)
		if e.Kind() != types.KindLimitExceeded {
			t.Errorf("kind = %s, want LimitExceeded", e.Kind())
		}
	})

	t.Run("very deep", func(t *testing.T) {
		expectCode(t, nested(10000), types.ErrTooDeep, 3*parser.MaxDepth)
	})

	t.Run("custom limit", func(t *testing.T) {
		expectCode(t, "(+ (+ 1))", types.ErrTooDeep, 3, parser.WithMaxDepth(1))
	})
}

func TestParseLengthLimit(t *testing.T) {
	t.Run("at limit", func(t *testing.T) {
		input := "1" + strings.Repeat(" ", parser.MaxInputLength-1)
		parseExpr(t, input)
	})

	t.Run("over limit", func(t *testing.T) {
		input := "(+ 1 2)" + strings.Repeat(" ", parser.MaxInputLength)
		e := expectCode(t, input, types.ErrInputTooLong, -1)
		if e.Kind() != types.KindLimitExceeded {
			t.Errorf("kind = %s, want LimitExceeded", e.Kind())
		}
	})

	t.Run("checked before lexing", func(t *testing.T) {
		input := "\x00" + strings.Repeat(" ", parser.MaxInputLength)
		expectCode(t, input, types.ErrInputTooLong, -1)
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		// 40000 two-byte runes: over the limit in bytes, under it in characters.
		input := strings.Repeat("é", 40000)
		expectCode(t, input, types.ErrUnexpectedToken, 0)
	})
}
