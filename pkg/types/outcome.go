package types

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Outcome is the result of one transpilation: either the generated C
// source or a single structured error, never both.
type Outcome struct {
	Output string
	Err    *Error
}

// Success creates a successful outcome.
func Success(output string) Outcome {
	return Outcome{Output: output}
}

// Failure creates a failed outcome from err. Errors that are not *Error are
// reported as internal faults.
func Failure(err error) Outcome {
	if e, ok := AsError(err); ok {
		return Outcome{Err: e}
	}
	return Outcome{Err: NewError(ErrInternal, err.Error(), -1).WithCause(err)}
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Result returns the outcome as a Go (value, error) pair.
func (o Outcome) Result() (string, error) {
	if o.Err != nil {
		return "", o.Err
	}
	return o.Output, nil
}

// outcomeJSON is the wire form shared by the CLI, the HTTP server and the
// WASI guest.
type outcomeJSON struct {
	Output   string    `json:"output,omitempty"`
	Error    string    `json:"error,omitempty"`
	Kind     ErrorKind `json:"kind,omitempty"`
	Code     ErrorCode `json:"code,omitempty"`
	Position *int      `json:"position,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Err == nil {
		return marshal(outcomeJSON{Output: o.Output})
	}
	w := outcomeJSON{
		Error: o.Err.Message,
		Kind:  o.Err.Kind(),
		Code:  o.Err.Code,
	}
	if o.Err.Position >= 0 {
		pos := o.Err.Position
		w.Position = &pos
	}
	return marshal(w)
}

// marshal encodes v without HTML escaping.
func marshal(v outcomeJSON) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Outcome) UnmarshalJSON(data []byte) error {
	var w outcomeJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch {
	case w.Error != "":
		code := w.Code
		if code == "" {
			code = ErrInternal
		}
		pos := -1
		if w.Position != nil {
			pos = *w.Position
		}
		*o = Outcome{Err: NewError(code, w.Error, pos)}
	case w.Output != "":
		*o = Outcome{Output: w.Output}
	default:
		return errors.New("outcome has neither output nor error")
	}
	return nil
}
