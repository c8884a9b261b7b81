package types_test

import (
	"testing"

	"github.com/sandrolain/lispc/pkg/types"
)

func TestKindPromote(t *testing.T) {
	tests := []struct {
		a, b, want types.Kind
	}{
		{types.KindInteger, types.KindInteger, types.KindInteger},
		{types.KindInteger, types.KindFloating, types.KindFloating},
		{types.KindFloating, types.KindInteger, types.KindFloating},
		{types.KindFloating, types.KindFloating, types.KindFloating},
	}
	for _, tt := range tests {
		if got := tt.a.Promote(tt.b); got != tt.want {
			t.Errorf("%s.Promote(%s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestKindC(t *testing.T) {
	if types.KindInteger.CType() != "long long" || types.KindInteger.Format() != "%lld" {
		t.Errorf("integer maps to %s %s", types.KindInteger.CType(), types.KindInteger.Format())
	}
	if types.KindFloating.CType() != "double" || types.KindFloating.Format() != "%f" {
		t.Errorf("floating maps to %s %s", types.KindFloating.CType(), types.KindFloating.Format())
	}
}

func TestLookupOperator(t *testing.T) {
	for _, sym := range []string{"+", "-", "*", "/"} {
		op := types.LookupOperator(sym)
		if op == types.OpUnknown {
			t.Errorf("LookupOperator(%q) = Unknown", sym)
		}
		if op.Symbol() != sym {
			t.Errorf("%s.Symbol() = %q, want %q", op, op.Symbol(), sym)
		}
	}
	for _, sym := range []string{"%", "^", "mod", "", "++"} {
		if op := types.LookupOperator(sym); op != types.OpUnknown {
			t.Errorf("LookupOperator(%q) = %s, want Unknown", sym, op)
		}
	}
}
