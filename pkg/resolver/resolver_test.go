package resolver_test

import (
	"testing"

	"github.com/sandrolain/lispc/pkg/parser"
	"github.com/sandrolain/lispc/pkg/resolver"
	"github.com/sandrolain/lispc/pkg/types"
)

func resolve(t *testing.T, input string) *resolver.Typed {
	t.Helper()
	ast, err := parser.Parse(input)
	if err != nil {
		t.Fatalf("Failed to parse %q: %v", input, err)
	}
	return resolver.Resolve(ast)
}

func TestResolveKinds(t *testing.T) {
	tests := []struct {
		input string
		kind  types.Kind
		typed string
	}{
		{"1", types.KindInteger, "1:Integer"},
		{"-1.0", types.KindFloating, "-1.0:Floating"},
		{"(+ 1 2)", types.KindInteger, "Add:Integer[1:Integer,2:Integer]"},
		{"(+ 1 2.5)", types.KindFloating, "Add:Floating[1:Integer,2.5:Floating]"},
		{"(/ 10 5)", types.KindInteger, "Divide:Integer[10:Integer,5:Integer]"},
		{"(+ (* 2 3) (/ 10 5))", types.KindInteger,
			"Add:Integer[Multiply:Integer[2:Integer,3:Integer],Divide:Integer[10:Integer,5:Integer]]"},
		{"(* (/ 1 2) (- 3 0.5))", types.KindFloating,
			"Multiply:Floating[Divide:Integer[1:Integer,2:Integer],Subtract:Floating[3:Integer,0.5:Floating]]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			typed := resolve(t, tt.input)
			if typed.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", typed.Kind, tt.kind)
			}
			if got := typed.String(); got != tt.typed {
				t.Errorf("typed tree = %s, want %s", got, tt.typed)
			}
		})
	}
}

func TestResolveLeavesTreeUntouched(t *testing.T) {
	ast, err := parser.Parse("(+ 1 (* 2 2.5))")
	if err != nil {
		t.Fatal(err)
	}
	before := ast.String()
	typed := resolver.Resolve(ast)
	if typed.Node != ast {
		t.Error("typed root does not point at the parsed root")
	}
	if typed.Operands[1].Node != ast.Operands[1] {
		t.Error("typed operand does not point at the parsed operand")
	}
	if after := ast.String(); after != before {
		t.Errorf("tree changed from %s to %s", before, after)
	}
}
