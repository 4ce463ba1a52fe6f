package condition

import "github.com/satishbabariya/sqlphrase/internal/core/fragment"

// ExpressionFunc rewrites the field and value of an expression.
type ExpressionFunc func(predicate, field string, value interface{}) (string, interface{})

// TransformExpressions returns a new condition in which fn has rewritten
// every expression whose left operand is a field. c is left unchanged and
// shares its parts with the result.
func (c *Condition) TransformExpressions(fn ExpressionFunc) *Condition {
	return &Condition{
		parts: c.parts,
		tree:  &Tree{Child: transformNode(c.tree.Child, fn)},
	}
}

func transformNode(n Node, fn ExpressionFunc) Node {
	switch v := n.(type) {
	case *Group:
		return &Group{Child: transformNode(v.Child, fn)}
	case *UnaryOperation:
		return &UnaryOperation{Operator: v.Operator, Operand: transformNode(v.Operand, fn)}
	case *BinaryOperation:
		return &BinaryOperation{
			Operator: v.Operator,
			Left:     transformNode(v.Left, fn),
			Right:    transformNode(v.Right, fn),
		}
	case *Expression:
		field, value, ok := fieldOperands(v)
		if !ok {
			return v
		}
		newField, newValue := fn(v.Predicate, field, value)
		return newExpression(v.Predicate, fragment.Field(newField), newValue)
	default:
		return n
	}
}

// ReduceFields folds fn over every expression whose left operand is a
// field, in the order the expressions appear.
func ReduceFields[T any](c *Condition, fn func(acc T, predicate, field string, value interface{}) T, initial T) T {
	acc := initial
	walkExpressions(c.tree.Child, func(e *Expression) {
		if field, value, ok := fieldOperands(e); ok {
			acc = fn(acc, e.Predicate, field, value)
		}
	})
	return acc
}

// Fields returns the distinct field names referenced by c, in order of
// first appearance.
func (c *Condition) Fields() []string {
	seen := make(map[string]bool)
	return ReduceFields(c, func(acc []string, _, field string, _ interface{}) []string {
		if seen[field] {
			return acc
		}
		seen[field] = true
		return append(acc, field)
	}, nil)
}

func walkExpressions(n Node, fn func(*Expression)) {
	switch v := n.(type) {
	case *Tree:
		walkExpressions(v.Child, fn)
	case *Group:
		walkExpressions(v.Child, fn)
	case *UnaryOperation:
		walkExpressions(v.Operand, fn)
	case *BinaryOperation:
		walkExpressions(v.Left, fn)
		walkExpressions(v.Right, fn)
	case *Expression:
		fn(v)
	}
}

func fieldOperands(e *Expression) (string, interface{}, bool) {
	if e.translated() || len(e.Operands) != 2 {
		return "", nil, false
	}
	left, ok := e.Operands[0].(*Leaf)
	if !ok {
		return "", nil, false
	}
	field, ok := left.Value.(fragment.Field)
	if !ok {
		return "", nil, false
	}
	right, ok := e.Operands[1].(*Leaf)
	if !ok {
		return "", nil, false
	}
	return field.Name(), right.Value, true
}
