// Package grammar implements the low-level SQL formatting rules of a
// dialect: identifier quoting, literal escaping, placeholders and the
// composition of fragments.
package grammar

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
)

// Grammar formats fragments for one SQL dialect.
type Grammar interface {
	// Quote quotes a single identifier part.
	Quote(name string) string
	// Field quotes a dotted column reference, leaving a trailing * bare.
	Field(name string) string
	// Escape inlines a literal value. Only used for DDL defaults.
	Escape(value interface{}) (string, error)
	// Value creates a placeholder fragment binding value.
	Value(value interface{}) fragment.Fragment
	// Mixed dispatches between Literal, Field and bound values.
	Mixed(value interface{}) fragment.Fragment
	// Expression fills format with the operands' SQL.
	Expression(format string, operands []fragment.Fragment) fragment.Fragment
	// Operation renders a binary operator between two fragments.
	Operation(left fragment.Fragment, operator string, right fragment.Fragment) fragment.Fragment
	// Unary renders a prefix operator.
	Unary(operator string, operand fragment.Fragment) fragment.Fragment
	// Group wraps a fragment in parentheses.
	Group(f fragment.Fragment) fragment.Fragment
	// Delimit joins fragments with commas.
	Delimit(fragments []fragment.Fragment) fragment.Fragment
	// Join joins fragments with spaces into the final form.
	Join(fragments ...fragment.Fragment) fragment.Fragment
}

// Options configures the dialect specific parts of Base.
type Options struct {
	// Quote quotes one identifier part. Nil uses double quotes.
	Quote func(name string) string
	// Placeholder is the text emitted for a bound value. Empty uses "?".
	Placeholder string
}

// Base is the ANSI grammar. Dialects configure it through Options and
// embed it, overriding individual methods where they differ.
type Base struct {
	quote       func(string) string
	placeholder string
}

// New creates a base grammar.
func New(opts Options) *Base {
	b := &Base{
		quote:       opts.Quote,
		placeholder: opts.Placeholder,
	}
	if b.quote == nil {
		b.quote = QuoteWith(`"`)
	}
	if b.placeholder == "" {
		b.placeholder = "?"
	}
	return b
}

// QuoteWith returns a quoting function that wraps names in q and doubles
// any embedded q.
func QuoteWith(q string) func(string) string {
	return func(name string) string {
		return q + strings.ReplaceAll(name, q, q+q) + q
	}
}

// Quote quotes a single identifier part.
func (b *Base) Quote(name string) string {
	return b.quote(name)
}

// Field quotes each dotted component of name except a trailing *.
func (b *Base) Field(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		if part == "*" && i == len(parts)-1 {
			continue
		}
		parts[i] = b.quote(part)
	}
	return strings.Join(parts, ".")
}

// Escape inlines numbers as-is and single-quotes strings.
func (b *Base) Escape(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnescapable, value)
}

func formatFloat(f float64, bits int) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("%w: %v", ErrUnescapable, f)
	}
	return strconv.FormatFloat(f, 'g', -1, bits), nil
}

// Value creates a placeholder fragment binding value.
func (b *Base) Value(value interface{}) fragment.Fragment {
	return fragment.New(b.placeholder, value)
}

// Mixed renders Literal markers raw, Field markers quoted and binds
// anything else.
func (b *Base) Mixed(value interface{}) fragment.Fragment {
	return Mixed(b, value)
}

// Mixed dispatches value through g. Dialects that override Field or Value
// call it with themselves so the override is used.
func Mixed(g Grammar, value interface{}) fragment.Fragment {
	switch v := value.(type) {
	case fragment.Literal:
		return fragment.Raw(v.SQL())
	case fragment.Field:
		return fragment.Raw(g.Field(v.Name()))
	default:
		return g.Value(value)
	}
}

// Expression fills the %s verbs of format with the operands' SQL, left to
// right, and concatenates their args in the same order.
func (b *Base) Expression(format string, operands []fragment.Fragment) fragment.Fragment {
	sqls := make([]interface{}, len(operands))
	var args []interface{}
	for i, op := range operands {
		sqls[i] = op.SQL
		args = append(args, op.Args...)
	}
	return fragment.Fragment{SQL: fmt.Sprintf(format, sqls...), Args: args}
}

// Operation renders left OPERATOR right.
func (b *Base) Operation(left fragment.Fragment, operator string, right fragment.Fragment) fragment.Fragment {
	return fragment.Concat(" ", left, fragment.Raw(strings.ToUpper(operator)), right)
}

// Unary renders OPERATOR operand.
func (b *Base) Unary(operator string, operand fragment.Fragment) fragment.Fragment {
	return fragment.Concat(" ", fragment.Raw(strings.ToUpper(operator)), operand)
}

// Group wraps f in parentheses.
func (b *Base) Group(f fragment.Fragment) fragment.Fragment {
	return fragment.Fragment{SQL: "(" + f.SQL + ")", Args: f.Args}
}

// Delimit joins fragments with ", ".
func (b *Base) Delimit(fragments []fragment.Fragment) fragment.Fragment {
	return fragment.Concat(", ", fragments...)
}

// Join joins non-empty fragments with a single space.
func (b *Base) Join(fragments ...fragment.Fragment) fragment.Fragment {
	kept := make([]fragment.Fragment, 0, len(fragments))
	for _, f := range fragments {
		if f.SQL == "" {
			continue
		}
		kept = append(kept, f)
	}
	return fragment.Concat(" ", kept...)
}

// Ensure Base implements Grammar interface.
var _ Grammar = (*Base)(nil)
