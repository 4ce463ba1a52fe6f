package translator

import (
	"fmt"
	"sync"
)

// Translator maps predicates and column types to dialect SQL.
type Translator interface {
	// Predicate renders predicate applied to field and value.
	Predicate(name string, field, value interface{}) (Predicate, error)
	// Type returns the concrete column type for an abstract one.
	Type(t ColumnType, opts TypeOptions) (string, error)
}

// Options customizes a base translator.
type Options struct {
	// Predicates runs after DefaultPredicates and may fetch and rechain any
	// rule to change how a dialect renders it.
	Predicates func(b *Builder)
}

// Base is the ANSI translator. Dialects embed it and override Type for the
// column types they spell differently.
type Base struct {
	extend func(*Builder)

	once     sync.Once
	registry *Registry
}

// New creates a base translator.
func New(opts Options) *Base {
	return &Base{extend: opts.Predicates}
}

// Registry returns the predicate registry, building it on first use.
func (t *Base) Registry() *Registry {
	t.once.Do(func() {
		t.registry = NewRegistry(DefaultPredicates, t.extend)
	})
	return t.registry
}

// Predicate resolves name to a rule and applies it.
func (t *Base) Predicate(name string, field, value interface{}) (Predicate, error) {
	rule, err := t.Registry().Resolve(name)
	if err != nil {
		return Predicate{}, err
	}
	return rule.Apply(field, value)
}

// Type returns the ANSI spelling of t.
func (t *Base) Type(ct ColumnType, opts TypeOptions) (string, error) {
	switch ct {
	case Serial:
		return "serial", nil
	case Integer:
		return "integer", nil
	case Integer64:
		return "bigint", nil
	case String:
		return fmt.Sprintf("varchar(%d)", opts.StringLength()), nil
	case Text:
		return "text", nil
	case Binary:
		return "blob", nil
	case Bool:
		return "boolean", nil
	case Date:
		return "date", nil
	case Time:
		return "time", nil
	case DateTime:
		return "timestamp", nil
	case Float:
		return "real", nil
	case Decimal:
		return Numeric("numeric", opts)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownColumnType, string(ct))
	}
}

// Numeric spells a decimal type as base, base(precision) or
// base(precision, scale). A scale without a precision is an error.
func Numeric(base string, opts TypeOptions) (string, error) {
	switch {
	case opts.Precision == 0 && opts.Scale != 0:
		return "", fmt.Errorf("%w: decimal scale requires a precision", ErrInvalidTypeOptions)
	case opts.Precision < 0 || opts.Scale < 0:
		return "", fmt.Errorf("%w: decimal precision and scale must be positive", ErrInvalidTypeOptions)
	case opts.Precision == 0:
		return base, nil
	case opts.Scale == 0:
		return fmt.Sprintf("%s(%d)", base, opts.Precision), nil
	default:
		return fmt.Sprintf("%s(%d, %d)", base, opts.Precision, opts.Scale), nil
	}
}

// Ensure Base implements Translator interface.
var _ Translator = (*Base)(nil)
