package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode identifies a specific failure.
type ErrorCode string

// Error codes. The leading letter groups codes by pipeline stage.
const (
	// S01xx: lexical errors
	ErrUnrecognizedChar ErrorCode = "S0101"
	ErrNumberOutOfRange ErrorCode = "S0102"
	ErrMalformedNumber  ErrorCode = "S0103"

	// S02xx: syntax errors
	ErrUnexpectedToken ErrorCode = "S0201"
	ErrMissingOperator ErrorCode = "S0202"
	ErrUnexpectedEnd   ErrorCode = "S0203"
	ErrTrailingInput   ErrorCode = "S0204"

	// V01xx: validation errors
	ErrUnknownOperator ErrorCode = "V0101"
	ErrArity           ErrorCode = "V0102"

	// L01xx: resource limits
	ErrInputTooLong ErrorCode = "L0101"
	ErrTooDeep      ErrorCode = "L0102"

	// E01xx: evaluation errors
	ErrDivisionByZero ErrorCode = "E0101"

	// X0xxx: internal faults
	ErrInternal ErrorCode = "X0001"
)

// ErrorKind is the coarse taxonomy entry an error belongs to.
type ErrorKind string

const (
	KindLexError        ErrorKind = "LexError"
	KindParseError      ErrorKind = "ParseError"
	KindUnknownOperator ErrorKind = "UnknownOperatorError"
	KindArityError      ErrorKind = "ArityError"
	KindLimitExceeded   ErrorKind = "LimitExceeded"
	KindEvalError       ErrorKind = "EvalError"
	KindInternalError   ErrorKind = "InternalError"
)

// Kind returns the taxonomy entry for the code.
func (c ErrorCode) Kind() ErrorKind {
	switch {
	case strings.HasPrefix(string(c), "S01"):
		return KindLexError
	case strings.HasPrefix(string(c), "S02"):
		return KindParseError
	case c == ErrUnknownOperator:
		return KindUnknownOperator
	case c == ErrArity:
		return KindArityError
	case strings.HasPrefix(string(c), "L"):
		return KindLimitExceeded
	case strings.HasPrefix(string(c), "E"):
		return KindEvalError
	default:
		return KindInternalError
	}
}

// Error represents a structured transpiler error.
type Error struct {
	Code     ErrorCode
	Message  string
	Position int // byte offset into the input, -1 when not positional
	Token    string
	Err      error
}

// NewError creates a new error.
func NewError(code ErrorCode, message string, position int) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Position: position,
	}
}

// Errorf creates a new error with a formatted message.
func Errorf(code ErrorCode, position int, format string, args ...interface{}) *Error {
	return NewError(code, fmt.Sprintf(format, args...), position)
}

// Kind returns the taxonomy entry of the error.
func (e *Error) Kind() ErrorKind {
	return e.Code.Kind()
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s at position %d: %s", e.Code, e.Position, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithToken adds token information to the error.
func (e *Error) WithToken(token string) *Error {
	e.Token = token
	return e
}

// WithCause wraps another error.
func (e *Error) WithCause(err error) *Error {
	e.Err = err
	return e
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err carries a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	e, ok := AsError(err)
	return ok && e.Kind() == kind
}
