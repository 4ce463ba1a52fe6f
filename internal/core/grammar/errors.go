package grammar

import "errors"

var (
	// ErrUnescapable is returned when a value cannot be inlined as a literal.
	ErrUnescapable = errors.New("value cannot be escaped")
)
