package types

// Kind is the numeric kind of a subtree.
type Kind uint8

const (
	KindInteger Kind = iota
	KindFloating
)

// String returns the kind name.
func (k Kind) String() string {
	if k == KindFloating {
		return "Floating"
	}
	return "Integer"
}

// CType returns the C type used to hold a value of this kind.
func (k Kind) CType() string {
	if k == KindFloating {
		return "double"
	}
	return "long long"
}

// Format returns the printf conversion used to print a value of this kind.
func (k Kind) Format() string {
	if k == KindFloating {
		return "%f"
	}
	return "%lld"
}

// Promote applies the contagion rule: floating wins.
func (k Kind) Promote(other Kind) Kind {
	if k == KindFloating || other == KindFloating {
		return KindFloating
	}
	return KindInteger
}
