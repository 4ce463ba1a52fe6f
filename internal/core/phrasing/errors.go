package phrasing

import "errors"

var (
	ErrMissingTable     = errors.New("table name required")
	ErrNoColumns        = errors.New("table requires at least one column")
	ErrMissingColumn    = errors.New("column name required")
	ErrNoValues         = errors.New("update requires at least one value")
	ErrInvalidLimit     = errors.New("limit and offset must not be negative")
	ErrInvalidReference = errors.New("invalid foreign key reference")
	ErrUnknownAction    = errors.New("unknown foreign key action")
	ErrInvalidIndex     = errors.New("index requires at least one column")
	ErrInvalidLevel     = errors.New("transaction level must not be negative")
)
