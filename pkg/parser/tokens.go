package parser

// TokenType represents the type of a lexical token.
type TokenType uint8

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Grouping symbols
	TokenParenOpen  // (
	TokenParenClose // )

	// Atoms
	TokenNumber // 42, -7, 2.5
	TokenSymbol // + - * / and anything else that is not a number
)

// String returns a string representation of the token type.
func (tt TokenType) String() string {
	switch tt {
	case TokenEOF:
		return "(eof)"
	case TokenError:
		return "(error)"
	case TokenParenOpen:
		return "("
	case TokenParenClose:
		return ")"
	case TokenNumber:
		return "(number)"
	case TokenSymbol:
		return "(symbol)"
	default:
		return "(unknown)"
	}
}

// Token represents a lexical token.
type Token struct {
	Type     TokenType // Type of the token
	Value    string    // Literal value of the token
	Floating bool      // Number has a fractional part
	Position int       // Starting position in the input string
}

// describe returns the token as shown in parse errors.
func (t Token) describe() string {
	switch t.Type {
	case TokenEOF:
		return "end of input"
	case TokenNumber, TokenSymbol:
		return t.Type.String() + " " + t.Value
	default:
		return t.Type.String()
	}
}
