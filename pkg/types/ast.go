package types

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types.
const (
	NodeNumber    NodeType = "number"    // 42, -7, 2.5
	NodeOperation NodeType = "operation" // (op operand...)
)

// Operator identifies an arithmetic operator.
type Operator uint8

const (
	// OpUnknown marks a parenthesised form whose leading symbol is not a
	// known operator. The parser produces it; the validator rejects it.
	OpUnknown Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
)

// LookupOperator returns the operator spelled by symbol, or OpUnknown.
func LookupOperator(symbol string) Operator {
	switch symbol {
	case "+":
		return OpAdd
	case "-":
		return OpSubtract
	case "*":
		return OpMultiply
	case "/":
		return OpDivide
	default:
		return OpUnknown
	}
}

// String returns the operator name used in diagnostics.
func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "Add"
	case OpSubtract:
		return "Subtract"
	case OpMultiply:
		return "Multiply"
	case OpDivide:
		return "Divide"
	default:
		return "Unknown"
	}
}

// Symbol returns the C spelling of the operator.
func (op Operator) Symbol() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	default:
		return "?"
	}
}

// ASTNode represents a node in the Abstract Syntax Tree.
//
// A node is either a number literal (NodeNumber) or an operation
// (NodeOperation). Nodes are built bottom-up by the parser and never
// mutated afterwards; each child is owned by exactly one parent.
type ASTNode struct {
	Type     NodeType
	Value    string // literal text for numbers, operator symbol as written for operations
	Position int    // offset of the literal, or of the opening paren

	// Number attributes
	Floating bool // literal has a fractional part

	// Operation attributes
	Operator         Operator
	OperatorPosition int
	Operands         []*ASTNode
}

// NewNumber creates a number literal node.
func NewNumber(text string, floating bool, position int) *ASTNode {
	return &ASTNode{
		Type:     NodeNumber,
		Value:    text,
		Floating: floating,
		Position: position,
	}
}

// NewOperation creates an operation node. The operator is looked up from
// symbol; unknown symbols are kept so the validator can report them.
func NewOperation(symbol string, position, symbolPosition int, operands []*ASTNode) *ASTNode {
	return &ASTNode{
		Type:             NodeOperation,
		Value:            symbol,
		Position:         position,
		Operator:         LookupOperator(symbol),
		OperatorPosition: symbolPosition,
		Operands:         operands,
	}
}

// String renders the node in the compact form used in diagnostics and
// tests, e.g. Add[Multiply[2,3],Divide[10,5]].
func (n *ASTNode) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.Type == NodeNumber {
		return n.Value
	}
	name := n.Operator.String()
	if n.Operator == OpUnknown {
		name = n.Value
	}
	s := name + "["
	for i, o := range n.Operands {
		if i > 0 {
			s += ","
		}
		s += o.String()
	}
	return s + "]"
}

// Depth returns the nesting depth of operations in the tree. A literal has
// depth 0.
func (n *ASTNode) Depth() int {
	if n == nil || n.Type != NodeOperation {
		return 0
	}
	deepest := 0
	for _, o := range n.Operands {
		if d := o.Depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
