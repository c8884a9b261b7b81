// Package resolver computes the numeric kind of every subtree.
//
// A literal is floating iff it has a fractional part; an operation is
// floating iff any operand is (the contagion rule). The result is an
// annotated copy of the tree; the input tree is not modified.
package resolver

import "github.com/sandrolain/lispc/pkg/types"

// Typed is an AST node annotated with its resolved kind.
type Typed struct {
	Node     *types.ASTNode
	Kind     types.Kind
	Operands []*Typed
}

// Resolve annotates node and all its descendants. It cannot fail.
func Resolve(node *types.ASTNode) *Typed {
	if node.Type == types.NodeNumber {
		kind := types.KindInteger
		if node.Floating {
			kind = types.KindFloating
		}
		return &Typed{Node: node, Kind: kind}
	}

	t := &Typed{
		Node:     node,
		Kind:     types.KindInteger,
		Operands: make([]*Typed, len(node.Operands)),
	}
	for i, operand := range node.Operands {
		t.Operands[i] = Resolve(operand)
		t.Kind = t.Kind.Promote(t.Operands[i].Kind)
	}
	return t
}

// String renders the typed tree with kinds, e.g.
// Add:Floating[1:Integer,2.5:Floating].
func (t *Typed) String() string {
	if t.Node.Type == types.NodeNumber {
		return t.Node.Value + ":" + t.Kind.String()
	}
	s := t.Node.Operator.String() + ":" + t.Kind.String() + "["
	for i, o := range t.Operands {
		if i > 0 {
			s += ","
		}
		s += o.String()
	}
	return s + "]"
}
