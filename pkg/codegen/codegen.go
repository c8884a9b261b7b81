// Package codegen renders a typed expression tree as C source.
//
// Output is deterministic: the same tree always renders to the same bytes.
// Every character emitted comes from number literals and operator symbols
// that the lexer, parser and validator have already restricted to a closed
// grammar, so nothing is escaped.
package codegen

import (
	"bytes"
	"fmt"

	"github.com/sandrolain/lispc/pkg/resolver"
	"github.com/sandrolain/lispc/pkg/types"
)

// programTemplate wraps the expression in a complete C program. The
// arguments are the C type, the expression and the printf conversion.
const programTemplate = `#include <stdio.h>
#include <stdlib.h>

int main(void) {
    %s result = %s;
    printf("%s\n", result);
    return EXIT_SUCCESS;
}
`

// Program renders a complete, self-contained C program that evaluates the
// expression and prints its value.
func Program(t *resolver.Typed) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, programTemplate, t.Kind.CType(), Expression(t), t.Kind.Format())
	return w.String()
}

// Expression renders the tree as a single C expression.
//
// Operations render as a left fold, fully parenthesised:
// (+ 1 2 3) becomes ((1LL + 2LL) + 3LL) and (- a b) becomes (a - b).
// Integer literals carry the LL suffix so integer arithmetic happens in
// long long, matching the declared result type.
func Expression(t *resolver.Typed) string {
	var w bytes.Buffer
	genw(&w, t)
	return w.String()
}

func genw(w *bytes.Buffer, t *resolver.Typed) {
	n := t.Node
	switch n.Type {
	case types.NodeNumber:
		w.WriteString(n.Value)
		if t.Kind == types.KindInteger {
			w.WriteString("LL")
		}
	case types.NodeOperation:
		ops := t.Operands
		if len(ops) == 1 {
			genw(w, ops[0])
			return
		}
		sep := " " + n.Operator.Symbol() + " "
		for i := 1; i < len(ops); i++ {
			w.WriteByte('(')
		}
		genw(w, ops[0])
		for _, o := range ops[1:] {
			w.WriteString(sep)
			genw(w, o)
			w.WriteByte(')')
		}
	default:
		panic(fmt.Sprintf("unhandled node type in codegen: %s", n.Type))
	}
}
