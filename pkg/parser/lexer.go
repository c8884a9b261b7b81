package parser

import (
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/sandrolain/lispc/pkg/types"
)

const eof = -1

// Lexer converts source text into a sequence of tokens.
// The implementation is based on Rob Pike's "Lexical Scanning in Go" technique.
type Lexer struct {
	input   string // Input string being scanned
	length  int    // Length of input string
	start   int    // Start position of current token
	current int    // Current position in input
	width   int    // Width of last rune read
	err     error  // First error encountered
}

// NewLexer creates a new lexer from the provided input string.
// The input is tokenized by successive calls to the Next method.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		length: len(input),
	}
}

// Tokenize scans the whole input and returns its tokens, terminated by a
// TokenEOF token. It stops at the first lexical error.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		t := l.Next()
		if t.Type == TokenError {
			return nil, l.Error()
		}
		tokens = append(tokens, t)
		if t.Type == TokenEOF {
			return tokens, nil
		}
	}
}

// Next returns the next token from the input.
// When the end of the input is reached, Next returns TokenEOF for all
// subsequent calls. After an error, Next returns TokenEOF as well and
// Error reports the failure.
func (l *Lexer) Next() Token {
	l.skipWhitespace()

	ch := l.nextRune()
	switch {
	case ch == eof:
		return l.eof()
	case ch == '(':
		return l.newToken(TokenParenOpen)
	case ch == ')':
		return l.newToken(TokenParenClose)
	case !isAtomRune(ch, l.width):
		return l.error(types.ErrUnrecognizedChar, unrecognized(ch, l.width))
	}

	l.backup()
	return l.scanAtom()
}

// Error returns the first error encountered during lexing, if any.
func (l *Lexer) Error() error {
	return l.err
}

// scanAtom reads a maximal run of characters that are neither whitespace
// nor parentheses, then classifies it as a number or a symbol.
func (l *Lexer) scanAtom() Token {
	for {
		ch := l.nextRune()
		if ch == eof {
			break
		}
		if isWhitespace(ch) || ch == '(' || ch == ')' {
			l.backup()
			break
		}
		if !isAtomRune(ch, l.width) {
			// Report the offending character, not the whole atom.
			l.start = l.current - l.width
			return l.error(types.ErrUnrecognizedChar, unrecognized(ch, l.width))
		}
	}

	text := l.input[l.start:l.current]
	if !isNumberShaped(text) {
		return l.newToken(TokenSymbol)
	}
	return l.scanNumber(text)
}

// scanNumber validates a number-shaped atom.
// Format: [+-]?(0|[1-9][0-9]*)(\.[0-9]+)?
//
// Leading zeros are rejected because C reads them as octal. Integer
// literals must fit in a signed 64-bit value, floating literals in a
// finite double.
func (l *Lexer) scanNumber(text string) Token {
	i := 0
	if text[i] == '+' || text[i] == '-' {
		i++
	}
	intStart := i
	for i < len(text) && isDigit(rune(text[i])) {
		i++
	}
	intPart := text[intStart:i]
	if intPart == "" {
		return l.error(types.ErrMalformedNumber, "Malformed numeric literal "+strconv.Quote(text)+": expected digits before the decimal point")
	}
	if len(intPart) > 1 && intPart[0] == '0' {
		return l.error(types.ErrMalformedNumber, "Malformed numeric literal "+strconv.Quote(text)+": leading zeros are not allowed")
	}

	floating := false
	if i < len(text) && text[i] == '.' {
		i++
		fracStart := i
		for i < len(text) && isDigit(rune(text[i])) {
			i++
		}
		if i == fracStart {
			return l.error(types.ErrMalformedNumber, "Malformed numeric literal "+strconv.Quote(text)+": expected digits after the decimal point")
		}
		floating = true
	}
	if i != len(text) {
		return l.error(types.ErrMalformedNumber, "Malformed numeric literal "+strconv.Quote(text))
	}

	if floating {
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return l.error(types.ErrNumberOutOfRange, "Numeric literal "+text+" is out of range")
		}
	} else if _, err := strconv.ParseInt(intPart, 10, 64); err != nil {
		return l.error(types.ErrNumberOutOfRange, "Numeric literal "+text+" is out of range")
	}

	t := l.newToken(TokenNumber)
	t.Floating = floating
	return t
}

// Helper methods

func (l *Lexer) eof() Token {
	return Token{
		Type:     TokenEOF,
		Position: l.current,
	}
}

func (l *Lexer) error(code types.ErrorCode, message string) Token {
	t := l.newToken(TokenError)
	l.err = &types.Error{
		Code:     code,
		Message:  message,
		Position: t.Position,
		Token:    t.Value,
	}
	return t
}

func (l *Lexer) newToken(tt TokenType) Token {
	t := Token{
		Type:     tt,
		Value:    l.input[l.start:l.current],
		Position: l.start,
	}
	l.width = 0
	l.start = l.current
	return t
}

func (l *Lexer) nextRune() rune {
	if l.err != nil || l.current >= l.length {
		l.width = 0
		return eof
	}

	r, w := utf8.DecodeRuneInString(l.input[l.current:])
	l.width = w
	l.current += w
	return r
}

func (l *Lexer) backup() {
	l.current -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.current
}

func (l *Lexer) accept(isValid func(rune) bool) bool {
	if isValid(l.nextRune()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptAll(isValid func(rune) bool) bool {
	var matched bool
	for l.accept(isValid) {
		matched = true
	}
	return matched
}

func (l *Lexer) skipWhitespace() {
	l.acceptAll(isWhitespace)
	l.ignore()
}

// Character classification functions

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// isAtomRune reports whether r may appear inside a number or symbol.
// width distinguishes a decoding failure from a literal U+FFFD.
func isAtomRune(r rune, width int) bool {
	if r == utf8.RuneError && width == 1 {
		return false
	}
	return unicode.IsPrint(r)
}

// isNumberShaped reports whether an atom is meant as a number: it starts
// with a digit, or with a sign or '.' that is followed by a digit or '.'.
// A lone '.' is number-shaped (and malformed); a lone sign is a symbol.
func isNumberShaped(text string) bool {
	c := text[0]
	if isDigit(rune(c)) {
		return true
	}
	if c == '.' && len(text) == 1 {
		return true
	}
	if (c == '+' || c == '-' || c == '.') && len(text) > 1 {
		n := text[1]
		return isDigit(rune(n)) || n == '.'
	}
	return false
}

func unrecognized(r rune, width int) string {
	if r == utf8.RuneError && width == 1 {
		return "Invalid UTF-8 encoding"
	}
	return "Unrecognized character " + strconv.QuoteRune(r)
}
