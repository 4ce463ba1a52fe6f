package text

import "errors"

// ErrSyntax is returned when the condition text cannot be tokenized or
// parsed.
var ErrSyntax = errors.New("condition syntax error")
