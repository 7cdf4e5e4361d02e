package hsdoc

import "errors"

var (
	// ErrInvalidIdentifier is returned for names that are not identifiers.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrParameterCount is the cause of a failure when the Parameters list of
	// a callable item does not match its signature.
	ErrParameterCount = errors.New("parameter count mismatch")
	// ErrUnknownDialect is returned by ParseDialect.
	ErrUnknownDialect = errors.New("unknown comment dialect")
)

// errExpectedText is the message of a blank line where text is required.
var errExpectedText = errors.New("expected text")
