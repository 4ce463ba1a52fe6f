package condition

import (
	"fmt"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/grammar"
	"github.com/satishbabariya/sqlphrase/internal/core/translator"
)

// Build compiles the condition to SQL. It does not modify c.
func (c *Condition) Build(g grammar.Grammar, t translator.Translator) (fragment.Statement, error) {
	f, err := c.Fragment(g, t)
	if err != nil {
		return fragment.Statement{}, err
	}
	return f.Statement(), nil
}

// Fragment compiles the condition into a joinable fragment, for callers
// that embed it in a larger statement.
func (c *Condition) Fragment(g grammar.Grammar, t translator.Translator) (fragment.Fragment, error) {
	translated, err := translate(c.tree, t)
	if err != nil {
		return fragment.Fragment{}, err
	}
	return reduce(translated, g)
}

// translate returns a copy of n in which every expression has been
// resolved to a format string and one leaf per bound operand.
func translate(n Node, t translator.Translator) (Node, error) {
	switch v := n.(type) {
	case *Tree:
		child, err := translate(v.Child, t)
		if err != nil {
			return nil, err
		}
		return &Tree{Child: child}, nil
	case *Group:
		child, err := translate(v.Child, t)
		if err != nil {
			return nil, err
		}
		return &Group{Child: child}, nil
	case *UnaryOperation:
		operand, err := translate(v.Operand, t)
		if err != nil {
			return nil, err
		}
		return &UnaryOperation{Operator: v.Operator, Operand: operand}, nil
	case *BinaryOperation:
		left, err := translate(v.Left, t)
		if err != nil {
			return nil, err
		}
		right, err := translate(v.Right, t)
		if err != nil {
			return nil, err
		}
		return &BinaryOperation{Operator: v.Operator, Left: left, Right: right}, nil
	case *Expression:
		if v.translated() {
			return v, nil
		}
		field, value, err := leafOperands(v)
		if err != nil {
			return nil, err
		}
		p, err := t.Predicate(v.Predicate, field, value)
		if err != nil {
			return nil, err
		}
		operands := make([]Node, len(p.Args))
		for i, arg := range p.Args {
			operands[i] = &Leaf{Value: arg}
		}
		return &Expression{Predicate: v.Predicate, Format: p.Format, Operands: operands}, nil
	case *Leaf:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: unknown node %T", ErrReduction, n)
	}
}

func leafOperands(e *Expression) (field, value interface{}, err error) {
	if len(e.Operands) != 2 {
		return nil, nil, fmt.Errorf("%w: predicate %s has %d operands", ErrNonLeafOperand, e.Predicate, len(e.Operands))
	}
	left, ok := e.Operands[0].(*Leaf)
	if !ok {
		return nil, nil, fmt.Errorf("%w: predicate %s left operand is %T", ErrNonLeafOperand, e.Predicate, e.Operands[0])
	}
	right, ok := e.Operands[1].(*Leaf)
	if !ok {
		return nil, nil, fmt.Errorf("%w: predicate %s right operand is %T", ErrNonLeafOperand, e.Predicate, e.Operands[1])
	}
	return left.Value, right.Value, nil
}

// reduce renders a translated tree bottom-up.
func reduce(n Node, g grammar.Grammar) (fragment.Fragment, error) {
	switch v := n.(type) {
	case *Leaf:
		return g.Mixed(v.Value), nil
	case *Expression:
		if !v.translated() {
			return fragment.Fragment{}, fmt.Errorf("%w: predicate %s was not translated", ErrReduction, v.Predicate)
		}
		operands := make([]fragment.Fragment, len(v.Operands))
		for i, op := range v.Operands {
			leaf, ok := op.(*Leaf)
			if !ok {
				return fragment.Fragment{}, fmt.Errorf("%w: predicate %s operand is %T", ErrNonLeafOperand, v.Predicate, op)
			}
			operands[i] = g.Mixed(leaf.Value)
		}
		return g.Expression(v.Format, operands), nil
	case *Group:
		child, err := reduce(v.Child, g)
		if err != nil {
			return fragment.Fragment{}, err
		}
		return g.Group(child), nil
	case *UnaryOperation:
		operand, err := reduce(v.Operand, g)
		if err != nil {
			return fragment.Fragment{}, err
		}
		return g.Unary(string(v.Operator), operand), nil
	case *BinaryOperation:
		left, err := reduce(v.Left, g)
		if err != nil {
			return fragment.Fragment{}, err
		}
		right, err := reduce(v.Right, g)
		if err != nil {
			return fragment.Fragment{}, err
		}
		return g.Operation(left, string(v.Operator), right), nil
	case *Tree:
		if v.Child == nil {
			return fragment.Fragment{}, ErrReduction
		}
		child, err := reduce(v.Child, g)
		if err != nil {
			return fragment.Fragment{}, err
		}
		return g.Join(child), nil
	default:
		return fragment.Fragment{}, fmt.Errorf("%w: unknown node %T", ErrReduction, n)
	}
}
