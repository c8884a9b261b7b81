package parser

import (
	"fmt"
	"unicode/utf8"

	"github.com/sandrolain/lispc/pkg/types"
)

// Parser implements a recursive descent parser for arithmetic
// s-expressions. It pulls tokens from the lexer one at a time; tokens
// never outlive the parse.
type Parser struct {
	lexer   *Lexer
	source  string
	current Token
	depth   int
	opts    CompileOptions
}

// NewParser creates a new parser for the given input string.
func NewParser(input string, opts ...CompileOption) *Parser {
	options := CompileOptions{
		MaxDepth:       MaxDepth,
		MaxInputLength: MaxInputLength,
	}
	for _, opt := range opts {
		opt(&options)
	}

	return &Parser{
		lexer:  NewLexer(input),
		source: input,
		opts:   options,
	}
}

// Parse parses the entire input and returns the root AST node.
func (p *Parser) Parse() (*types.ASTNode, error) {
	if err := p.checkLength(); err != nil {
		return nil, err
	}

	// Read the first token
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.current.Type == TokenEOF {
		return nil, p.error(types.ErrUnexpectedEnd, "Unexpected end of input: no expression present")
	}

	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.current.Type != TokenEOF {
		return nil, p.error(types.ErrTrailingInput, fmt.Sprintf("Trailing input after expression: %s", p.current.describe()))
	}

	return node, nil
}

// checkLength enforces MaxInputLength before any lexing happens.
func (p *Parser) checkLength() error {
	limit := p.opts.MaxInputLength
	if limit <= 0 || len(p.source) <= limit {
		return nil
	}
	if n := utf8.RuneCountInString(p.source); n > limit {
		return types.Errorf(types.ErrInputTooLong, -1, "Input is %d characters long; the limit is %d", n, limit)
	}
	return nil
}

// advance moves to the next token, surfacing lexical errors.
func (p *Parser) advance() error {
	p.current = p.lexer.Next()
	if p.current.Type == TokenError {
		return p.lexer.Error()
	}
	return nil
}

// error creates a parser error at the current token.
func (p *Parser) error(code types.ErrorCode, message string) error {
	return &types.Error{
		Code:     code,
		Message:  message,
		Position: p.current.Position,
		Token:    p.current.Value,
	}
}

// parseExpression parses a number or a parenthesised form.
func (p *Parser) parseExpression() (*types.ASTNode, error) {
	switch p.current.Type {
	case TokenNumber:
		return p.parseNumber()
	case TokenParenOpen:
		return p.parseOperation()
	case TokenEOF:
		return nil, p.error(types.ErrUnexpectedEnd, "Unexpected end of input: expected an expression")
	default:
		return nil, p.error(types.ErrUnexpectedToken, fmt.Sprintf("Unexpected token: %s", p.current.describe()))
	}
}

// parseNumber parses a number literal.
func (p *Parser) parseNumber() (*types.ASTNode, error) {
	t := p.current
	if err := p.advance(); err != nil {
		return nil, err
	}
	return types.NewNumber(t.Value, t.Floating, t.Position), nil
}

// parseOperation parses "(" symbol expression* ")".
// Operator identity and operand counts are left to the validator.
func (p *Parser) parseOperation() (*types.ASTNode, error) {
	open := p.current

	p.depth++
	defer func() { p.depth-- }()
	if p.opts.MaxDepth > 0 && p.depth > p.opts.MaxDepth {
		return nil, types.Errorf(types.ErrTooDeep, open.Position,
			"Expression nesting exceeds the maximum depth of %d", p.opts.MaxDepth)
	}

	if err := p.advance(); err != nil {
		return nil, err
	}

	switch p.current.Type {
	case TokenSymbol:
	case TokenEOF:
		return nil, p.error(types.ErrUnexpectedEnd, "Unexpected end of input: expected an operator symbol")
	default:
		return nil, p.error(types.ErrMissingOperator, fmt.Sprintf("Expected an operator symbol after '(' but got %s", p.current.describe()))
	}
	symbol := p.current
	if err := p.advance(); err != nil {
		return nil, err
	}

	var operands []*types.ASTNode
	for p.current.Type != TokenParenClose {
		if p.current.Type == TokenEOF {
			return nil, p.error(types.ErrUnexpectedEnd,
				fmt.Sprintf("Unexpected end of input: missing ')' for '(' at position %d", open.Position))
		}
		operand, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		operands = append(operands, operand)
	}

	// Consume ')'
	if err := p.advance(); err != nil {
		return nil, err
	}

	return types.NewOperation(symbol.Value, open.Position, symbol.Position, operands), nil
}
