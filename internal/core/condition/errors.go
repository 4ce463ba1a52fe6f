package condition

import "errors"

var (
	// Syntax errors raised while constructing a condition.
	ErrConditionRequired   = errors.New("condition required")
	ErrMissingOperand      = errors.New("operator missing operand")
	ErrImplicitUnary       = errors.New("unary operator requires explicit and/or")
	ErrOperatorAdjacency   = errors.New("operator cannot follow operator")
	ErrUnsupportedArgument = errors.New("unsupported condition argument")
	ErrEmptyObject         = errors.New("condition object has no keys")

	// Structural misuse detected while reducing or compiling a tree.
	ErrNonLeafOperand = errors.New("expression operand must be a leaf")
	ErrReduction      = errors.New("condition did not reduce to a single expression")
)
