// Package validator checks operator identity and operand counts over a
// parsed tree.
//
// The walk is pre-order and left-to-right and stops at the first
// violation. The arity policy is fixed: + and * are variadic and take at
// least one operand, - and / are strictly binary.
package validator

import (
	"fmt"

	"github.com/sandrolain/lispc/pkg/types"
)

// Arity describes how many operands an operator accepts.
// Max < 0 means unbounded.
type Arity struct {
	Min int
	Max int
}

// Accepts reports whether n operands satisfy the arity.
func (a Arity) Accepts(n int) bool {
	return n >= a.Min && (a.Max < 0 || n <= a.Max)
}

// String describes the expected count, e.g. "2" or "at least 1".
func (a Arity) String() string {
	switch {
	case a.Max < 0:
		return fmt.Sprintf("at least %d", a.Min)
	case a.Min == a.Max:
		return fmt.Sprintf("%d", a.Min)
	default:
		return fmt.Sprintf("%d to %d", a.Min, a.Max)
	}
}

var arities = map[types.Operator]Arity{
	types.OpAdd:      {Min: 1, Max: -1},
	types.OpMultiply: {Min: 1, Max: -1},
	types.OpSubtract: {Min: 2, Max: 2},
	types.OpDivide:   {Min: 2, Max: 2},
}

// ArityOf returns the arity policy of op. ok is false for OpUnknown.
func ArityOf(op types.Operator) (arity Arity, ok bool) {
	arity, ok = arities[op]
	return arity, ok
}

// Validate walks the tree and returns the first violation as a
// *types.Error, or nil.
func Validate(node *types.ASTNode) error {
	if node == nil {
		return types.NewError(types.ErrInternal, "nil expression", -1)
	}
	if node.Type != types.NodeOperation {
		return nil
	}

	arity, ok := ArityOf(node.Operator)
	if !ok {
		return types.Errorf(types.ErrUnknownOperator, node.OperatorPosition,
			"Unknown operator %q: expected one of + - * /", node.Value).WithToken(node.Value)
	}
	if n := len(node.Operands); !arity.Accepts(n) {
		return types.Errorf(types.ErrArity, node.OperatorPosition,
			"%s expects %s operand%s, got %d", node.Operator, arity, plural(arity), n).WithToken(node.Value)
	}

	for _, operand := range node.Operands {
		if err := Validate(operand); err != nil {
			return err
		}
	}
	return nil
}

func plural(a Arity) string {
	if a.Min == 1 {
		return ""
	}
	return "s"
}
