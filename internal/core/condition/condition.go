// Package condition parses declarative filter arguments into a validated
// expression tree and compiles that tree into parameterized SQL.
//
// Arguments are combined left to right:
//
//	condition.New(
//		[]interface{}{map[string]interface{}{"a": 1}, condition.Or, map[string]interface{}{"a": 2}},
//		condition.And,
//		map[string]interface{}{"b$gt": 3},
//	)
//
// renders as (a = ? OR a = ?) AND b > ? with args [1 2 3].
package condition

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/translator"
)

// Pair is a single key/value condition entry. Keys may carry a predicate
// suffix: "name$contains" or "name[contains]".
type Pair struct {
	Key   string
	Value interface{}
}

// Pairs is an ordered condition object. Unlike a map its keys are
// rendered in the order given.
type Pairs []Pair

// Condition is a parsed filter expression. It is immutable; Build may be
// called any number of times.
type Condition struct {
	parts []interface{}
	tree  *Tree
}

// fieldEquality is the "a=b" sugar comparing two columns.
type fieldEquality struct {
	left, right string
}

var keyPattern = regexp.MustCompile(`^(.+?)(?:\$([A-Za-z]\w*)|\[([A-Za-z]\w*)\])$`)

// New parses parts into a condition. Each part is a condition object
// (map or Pairs), a nested []interface{} group, an existing *Condition, an
// "a=b" column equality string, or an operator token (And, Or, Not or
// "and", "&&", "or", "||", "not", "!"). Adjacent operands without an
// operator between them are joined with and.
//
// Binary operators fold left to right with no precedence, and the flat
// result renders without parentheses: a, Or, b, And, c becomes
// "a OR b AND c", which SQL reads as a OR (b AND c). Pass a nested group
// to fix the grouping explicitly whenever and and or are mixed.
//
// A single *Condition argument is returned unchanged.
func New(parts ...interface{}) (*Condition, error) {
	if len(parts) == 1 {
		if c, ok := parts[0].(*Condition); ok && c != nil {
			return c, nil
		}
	}
	if len(parts) == 0 {
		return nil, ErrConditionRequired
	}

	normalized := make([]interface{}, 0, len(parts))
	for _, part := range parts {
		p, err := normalize(part)
		if err != nil {
			return nil, err
		}
		normalized = append(normalized, p)
	}

	if err := validate(normalized); err != nil {
		return nil, err
	}

	items := extract(normalized)
	items = reduceUnary(items)
	root, err := reduceBinary(items)
	if err != nil {
		return nil, err
	}

	return &Condition{parts: normalized, tree: &Tree{Child: root}}, nil
}

// MustNew is like New but panics on error.
func MustNew(parts ...interface{}) *Condition {
	c, err := New(parts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Tree returns the root of the expression tree. Callers must not modify it.
func (c *Condition) Tree() *Tree {
	return c.tree
}

// Parts returns the validated input sequence the tree was built from.
func (c *Condition) Parts() []interface{} {
	out := make([]interface{}, len(c.parts))
	copy(out, c.parts)
	return out
}

func normalize(part interface{}) (interface{}, error) {
	switch v := part.(type) {
	case Operation:
		return v, nil
	case *Condition:
		if v == nil {
			return nil, fmt.Errorf("%w: nil condition", ErrUnsupportedArgument)
		}
		return v, nil
	case string:
		if op, ok := operationFor(v); ok {
			return op, nil
		}
		if left, right, ok := strings.Cut(v, "="); ok {
			left, right = strings.TrimSpace(left), strings.TrimSpace(right)
			if left != "" && right != "" {
				return fieldEquality{left: left, right: right}, nil
			}
		}
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedArgument, v)
	case []interface{}:
		return New(v...)
	case Pairs:
		if len(v) == 0 {
			return nil, ErrEmptyObject
		}
		return v, nil
	case map[string]interface{}:
		if len(v) == 0 {
			return nil, ErrEmptyObject
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make(Pairs, len(keys))
		for i, k := range keys {
			pairs[i] = Pair{Key: k, Value: v[k]}
		}
		return pairs, nil
	}

	rv := reflect.ValueOf(part)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		m := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return normalize(m)
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupportedArgument, part)
}

// validate checks operator adjacency before any tree is built.
func validate(parts []interface{}) error {
	last := len(parts) - 1
	for i, part := range parts {
		op, ok := part.(Operation)
		if !ok {
			continue
		}
		var prev interface{}
		if i > 0 {
			prev = parts[i-1]
		}
		prevOp, prevIsOp := prev.(Operation)

		if op.unary {
			if i == last {
				return fmt.Errorf("%w: %s requires right hand side expression", ErrMissingOperand, op)
			}
			if prev != nil && !prevIsOp {
				return fmt.Errorf("%w: %s must be joined to the preceding expression with and/or", ErrImplicitUnary, op)
			}
			continue
		}

		if i == 0 {
			return fmt.Errorf("%w: %s requires left hand side expression", ErrMissingOperand, op)
		}
		if i == last {
			return fmt.Errorf("%w: %s requires right hand side expression", ErrMissingOperand, op)
		}
		if prevIsOp {
			return fmt.Errorf("%w: %s cannot follow %s", ErrOperatorAdjacency, op, prevOp)
		}
	}
	return nil
}

// extract turns operands into nodes. Operators pass through.
func extract(parts []interface{}) []interface{} {
	var items []interface{}
	for _, part := range parts {
		switch v := part.(type) {
		case Operation:
			items = append(items, v)
		case *Condition:
			items = append(items, &Group{Child: v.tree.Child})
		case fieldEquality:
			items = append(items, newExpression(translator.Exact, fragment.Field(v.left), fragment.Field(v.right)))
		case Pairs:
			for _, pair := range v {
				field, predicate := splitKey(pair.Key)
				items = append(items, newExpression(predicate, fragment.Field(field), pair.Value))
			}
		}
	}
	return items
}

func splitKey(key string) (field, predicate string) {
	key = strings.TrimSpace(key)
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return key, translator.Exact
	}
	predicate = m[2]
	if predicate == "" {
		predicate = m[3]
	}
	return m[1], predicate
}

func newExpression(predicate string, field, value interface{}) *Expression {
	return &Expression{
		Predicate: predicate,
		Operands:  []Node{&Leaf{Value: field}, &Leaf{Value: value}},
	}
}

// reduceUnary wraps each operand in the unary operators preceding it, the
// closest operator innermost.
func reduceUnary(items []interface{}) []interface{} {
	var out []interface{}
	var pending []Operation
	for _, item := range items {
		switch v := item.(type) {
		case Operation:
			if v.unary {
				pending = append(pending, v)
			} else {
				out = append(out, v)
			}
		case Node:
			node := v
			for i := len(pending) - 1; i >= 0; i-- {
				node = &UnaryOperation{Operator: pending[i].name, Operand: node}
			}
			pending = nil
			out = append(out, node)
		}
	}
	return out
}

// reduceBinary folds operands left-associatively, defaulting to and when
// two operands are adjacent.
func reduceBinary(items []interface{}) (Node, error) {
	var result Node
	var pending *Operation
	for _, item := range items {
		switch v := item.(type) {
		case Operation:
			op := v
			pending = &op
		case Node:
			if result == nil {
				result = v
				continue
			}
			operator := OperatorAnd
			if pending != nil {
				operator = pending.name
			}
			result = &BinaryOperation{Operator: operator, Left: result, Right: v}
			pending = nil
		}
	}
	if result == nil || pending != nil {
		return nil, ErrReduction
	}
	return result, nil
}
