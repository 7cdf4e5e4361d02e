package combinator

import (
	"errors"
	"fmt"
)

// ErrNoProgress is reported by the repetition combinators when their item
// parser succeeds without consuming input.
var ErrNoProgress = errors.New("parser succeeded without consuming input")

// Position is a 1-based line and byte column.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Error is a parse failure at a position.
type Error struct {
	Pos Position
	Msg string // e.g. "expected ')'"
	Err error  // optional cause
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at line %d, column %d", e.Msg, e.Pos.Line, e.Pos.Column)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Expected returns an expectation failure: "expected <what>".
func Expected(pos Position, what string) *Error {
	return &Error{Pos: pos, Msg: "expected " + what}
}

// Errorf returns a failure with a formatted message.
func Errorf(pos Position, format string, args ...any) *Error {
	return &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// AsError extracts the *Error in err's chain, or wraps err as a failure at pos.
func AsError(err error, pos Position) *Error {
	var perr *Error
	if errors.As(err, &perr) {
		return perr
	}
	return &Error{Pos: pos, Msg: err.Error(), Err: err}
}

// Farthest returns whichever error occurred later in the input. Ties go to a.
func Farthest(a, b *Error) *Error {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Pos.Before(b.Pos):
		return b
	default:
		return a
	}
}
