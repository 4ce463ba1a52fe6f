package sqlite

import "errors"

var (
	ErrTableNotFound    = errors.New("table not found")
	ErrColumnNotFound   = errors.New("column not found")
	ErrIndexNotFound    = errors.New("index not found")
	ErrUnsupportedIndex = errors.New("index cannot be recreated")

	ErrForeignKeyViolation = errors.New("foreign key violation after rebuild")
)
