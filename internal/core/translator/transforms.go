package translator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"golang.org/x/text/cases"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikeEscape escapes the LIKE wildcards of a string value.
func LikeEscape(value interface{}) (interface{}, error) {
	s, err := stringValue(value)
	if err != nil {
		return nil, err
	}
	return likeEscaper.Replace(s), nil
}

// WrapContains wraps a value in % wildcards.
func WrapContains(value interface{}) (interface{}, error) {
	s, err := stringValue(value)
	if err != nil {
		return nil, err
	}
	return "%" + s + "%", nil
}

// WrapStartsWith appends a % wildcard.
func WrapStartsWith(value interface{}) (interface{}, error) {
	s, err := stringValue(value)
	if err != nil {
		return nil, err
	}
	return s + "%", nil
}

// WrapEndsWith prepends a % wildcard.
func WrapEndsWith(value interface{}) (interface{}, error) {
	s, err := stringValue(value)
	if err != nil {
		return nil, err
	}
	return "%" + s, nil
}

// SpreadBetween splits a two element list into low and high args.
func SpreadBetween(value interface{}) (interface{}, error) {
	items, err := toList(value)
	if err != nil {
		return nil, err
	}
	if len(items) != 2 {
		return nil, fmt.Errorf("%w: between requires exactly 2 values, got %d", ErrInvalidPredicateValue, len(items))
	}
	return Spread(items), nil
}

// NullLiteral maps a boolean to the literal NULL or NOT NULL.
func NullLiteral(value interface{}) (interface{}, error) {
	b, ok := value.(bool)
	if !ok {
		return nil, fmt.Errorf("%w: isNull requires a boolean, got %T", ErrInvalidPredicateValue, value)
	}
	if b {
		return fragment.Literal("NULL"), nil
	}
	return fragment.Literal("NOT NULL"), nil
}

// RegexSource converts a compiled pattern into its source text.
func RegexSource(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case *regexp.Regexp:
		return v.String(), nil
	case string:
		return v, nil
	}
	return nil, fmt.Errorf("%w: regex requires a string or *regexp.Regexp, got %T", ErrInvalidPredicateValue, value)
}

var weekdays = []string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// WeekdayNumber normalizes a day name or number into 0 (Sunday) through 6.
func WeekdayNumber(value interface{}) (interface{}, error) {
	if s, ok := value.(string); ok {
		// Caser is stateful; fold with a fresh one per call
		name := cases.Fold().String(strings.TrimSpace(s))
		if len(name) >= 3 {
			for i, day := range weekdays {
				if strings.HasPrefix(day, name) {
					return i, nil
				}
			}
		}
		return nil, fmt.Errorf("%w: unknown weekday %q", ErrInvalidPredicateValue, s)
	}
	n, ok := intValue(value)
	if !ok || n < 0 || n > 6 {
		return nil, fmt.Errorf("%w: weekday must be 0-6 or a day name, got %v", ErrInvalidPredicateValue, value)
	}
	return int(n), nil
}

// Offset adds n to an integer value.
func Offset(n int) Transform {
	return func(value interface{}) (interface{}, error) {
		v, ok := intValue(value)
		if !ok {
			return nil, fmt.Errorf("%w: expected an integer, got %T", ErrInvalidPredicateValue, value)
		}
		return int(v) + n, nil
	}
}

func stringValue(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	}
	return "", fmt.Errorf("%w: expected a string, got %T", ErrInvalidPredicateValue, value)
}

func intValue(value interface{}) (int64, bool) {
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f == float64(int64(f)) {
			return int64(f), true
		}
	}
	return 0, false
}
