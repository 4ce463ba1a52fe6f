package condition

import "strings"

// Operator is a logical operator name.
type Operator string

const (
	OperatorAnd Operator = "and"
	OperatorOr  Operator = "or"
	OperatorNot Operator = "not"
)

// Operation is an operator token placed between condition arguments.
// Tokens are only used while parsing and never appear in the tree.
type Operation struct {
	name  Operator
	unary bool
}

var (
	// And joins the surrounding arguments with AND.
	And = Operation{name: OperatorAnd}
	// Or joins the surrounding arguments with OR.
	Or = Operation{name: OperatorOr}
	// Not negates the following argument.
	Not = Operation{name: OperatorNot, unary: true}
)

// Name returns the operator name.
func (o Operation) Name() Operator {
	return o.name
}

// Unary reports whether the operator takes a single operand.
func (o Operation) Unary() bool {
	return o.unary
}

// String returns the operator name.
func (o Operation) String() string {
	return string(o.name)
}

// operationFor recognizes the string synonyms of the operator tokens.
func operationFor(s string) (Operation, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "and", "&&":
		return And, true
	case "or", "||":
		return Or, true
	case "not", "!":
		return Not, true
	}
	return Operation{}, false
}
