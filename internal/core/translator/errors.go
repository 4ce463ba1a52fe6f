package translator

import "errors"

var (
	ErrUnresolvedPredicate   = errors.New("unsupported predicate")
	ErrInvalidPredicateValue = errors.New("invalid predicate value")
	ErrUnknownColumnType     = errors.New("unknown column type")
	ErrInvalidTypeOptions    = errors.New("invalid type options")
)
