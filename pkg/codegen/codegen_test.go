package codegen_test

import (
	"strings"
	"testing"

	"github.com/sandrolain/lispc/pkg/codegen"
	"github.com/sandrolain/lispc/pkg/parser"
	"github.com/sandrolain/lispc/pkg/resolver"
)

func typed(t *testing.T, input string) *resolver.Typed {
	t.Helper()
	ast, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", input, err)
	}
	return resolver.Resolve(ast)
}

func TestExpression(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "42LL"},
		{"2.5", "2.5"},
		{"-7", "-7LL"},
		{"(+ 5)", "5LL"},
		{"(- 10 4)", "(10LL - 4LL)"},
		{"(/ 10 4)", "(10LL / 4LL)"},
		{"(+ 1 2)", "(1LL + 2LL)"},
		{"(+ 1 2 3 4)", "(((1LL + 2LL) + 3LL) + 4LL)"},
		{"(* 2 3 4)", "((2LL * 3LL) * 4LL)"},
		{"(+ (* 2 3) (/ 10 5))", "((2LL * 3LL) + (10LL / 5LL))"},
		{"(- 1 -2)", "(1LL - -2LL)"},
		{"(- -1 +2)", "(-1LL - +2LL)"},
		{"(+ 1 2.5)", "(1LL + 2.5)"},
		{"(* (/ 1 2) 0.5)", "((1LL / 2LL) * 0.5)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := codegen.Expression(typed(t, tt.input)); got != tt.want {
				t.Errorf("Expression(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestProgramInteger(t *testing.T) {
	got := codegen.Program(typed(t, "(+ (* 2 3) (/ 10 5))"))
	want := `#include <stdio.h>
#include <stdlib.h>

int main(void) {
    long long result = ((2LL * 3LL) + (10LL / 5LL));
    printf("%lld\n", result);
    return EXIT_SUCCESS;
}
`
	if got != want {
		t.Errorf("Program mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestProgramFloating(t *testing.T) {
	got := codegen.Program(typed(t, "(+ 1 2.5)"))
	if !strings.Contains(got, "double result = (1LL + 2.5);") {
		t.Errorf("missing double declaration:\n%s", got)
	}
	if !strings.Contains(got, `printf("%f\n", result);`) {
		t.Errorf("missing floating printf:\n%s", got)
	}
	if strings.Contains(got, "%lld") {
		t.Errorf("floating program uses the integer format:\n%s", got)
	}
}

func TestProgramDeterministic(t *testing.T) {
	const input = "(* (+ 1 2 3) (- 4 5.5) (/ 6 7))"
	first := codegen.Program(typed(t, input))
	for i := 0; i < 10; i++ {
		if got := codegen.Program(typed(t, input)); got != first {
			t.Fatalf("run %d differs:\n%s\nvs\n%s", i, got, first)
		}
	}
}

func TestProgramDeepNesting(t *testing.T) {
	input := strings.Repeat("(+ 1 ", parser.MaxDepth) + "1" + strings.Repeat(")", parser.MaxDepth)
	expr := codegen.Expression(typed(t, input))
	if open, closed := strings.Count(expr, "("), strings.Count(expr, ")"); open != parser.MaxDepth || closed != parser.MaxDepth {
		t.Errorf("parens = %d/%d, want %d each", open, closed, parser.MaxDepth)
	}
}
