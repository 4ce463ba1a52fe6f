// Package translator maps abstract predicates and column types to the SQL
// of a dialect.
package translator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// Transform rewrites the value operand of a predicate before the format
// string is filled in.
type Transform func(value interface{}) (interface{}, error)

// Spread is a transformed value that binds as several adjacent args, one
// per format placeholder.
type Spread []interface{}

// Predicate is a translated predicate: a format string with one %s per
// arg, the field operand first.
type Predicate struct {
	Format string
	Args   []interface{}
}

// PredicateRule describes how one predicate is rendered.
type PredicateRule struct {
	name       string
	pattern    string
	matcher    *regexp.Regexp
	format     string
	transforms []Transform
	expands    bool
}

// NewRule creates a rule named name that matches predicate names
// case-insensitively against pattern. An empty pattern matches only name.
func NewRule(name, pattern string) *PredicateRule {
	if pattern == "" {
		pattern = regexp.QuoteMeta(name)
	}
	return &PredicateRule{
		name:    name,
		pattern: pattern,
		matcher: regexp.MustCompile(`^(?i:` + pattern + `)$`),
		format:  "%s = %s",
	}
}

// Name returns the canonical predicate name.
func (r *PredicateRule) Name() string {
	return r.name
}

// Pattern returns the alternation of predicate names the rule answers to.
func (r *PredicateRule) Pattern() string {
	return r.pattern
}

// Format returns the format string.
func (r *PredicateRule) Format() string {
	return r.format
}

// Test reports whether the rule handles the requested predicate name.
func (r *PredicateRule) Test(predicate string) bool {
	return r.matcher.MatchString(predicate)
}

// Using sets the format string.
func (r *PredicateRule) Using(format string) *PredicateRule {
	r.format = format
	return r
}

// Value appends value transforms, applied in chain order.
func (r *PredicateRule) Value(fns ...Transform) *PredicateRule {
	r.transforms = append(r.transforms, fns...)
	return r
}

// ResetValue drops all value transforms.
func (r *PredicateRule) ResetValue() *PredicateRule {
	r.transforms = nil
	return r
}

// Expands marks the value as a list whose elements each bind to their own
// placeholder. The last %s of the format becomes one %s per element.
func (r *PredicateRule) Expands() *PredicateRule {
	r.expands = true
	return r
}

// Apply transforms value and returns the format and args to render.
// The field operand is never transformed.
func (r *PredicateRule) Apply(field, value interface{}) (Predicate, error) {
	var err error
	for _, fn := range r.transforms {
		if value, err = fn(value); err != nil {
			return Predicate{}, fmt.Errorf("predicate %s: %w", r.name, err)
		}
	}

	format := r.format
	args := []interface{}{field}

	if r.expands {
		items, err := toList(value)
		if err != nil {
			return Predicate{}, fmt.Errorf("predicate %s: %w", r.name, err)
		}
		if len(items) == 0 {
			return Predicate{}, fmt.Errorf("%w: predicate %s requires at least one value", ErrInvalidPredicateValue, r.name)
		}
		idx := strings.LastIndex(format, "%s")
		if idx < 0 {
			return Predicate{}, fmt.Errorf("%w: predicate %s has no value placeholder", ErrInvalidPredicateValue, r.name)
		}
		expanded := strings.TrimSuffix(strings.Repeat("%s, ", len(items)), ", ")
		format = format[:idx] + expanded + format[idx+2:]
		return Predicate{Format: format, Args: append(args, items...)}, nil
	}

	if spread, ok := value.(Spread); ok {
		return Predicate{Format: format, Args: append(args, spread...)}, nil
	}
	return Predicate{Format: format, Args: append(args, value)}, nil
}

// toList converts any slice or array into a list of values.
func toList(value interface{}) ([]interface{}, error) {
	switch v := value.(type) {
	case Spread:
		return v, nil
	case []interface{}:
		return v, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrInvalidPredicateValue, value)
	}
	// []byte is a single binary value, not a list
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrInvalidPredicateValue, value)
	}
	items := make([]interface{}, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}
