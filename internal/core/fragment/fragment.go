// Package fragment defines the SQL text + bind argument pairs produced by
// the compiler, and the marker types that tag values as column references
// or raw SQL.
package fragment

import "strings"

// Fragment is a joinable piece of SQL. Args holds exactly the values bound
// by the placeholders that appear in SQL, in left to right order.
type Fragment struct {
	SQL  string
	Args []interface{}
}

// New creates a fragment from SQL text and the args its placeholders consume.
func New(sql string, args ...interface{}) Fragment {
	return Fragment{SQL: sql, Args: args}
}

// Raw creates a fragment that binds no values.
func Raw(sql string) Fragment {
	return Fragment{SQL: sql}
}

// IsEmpty reports whether the fragment carries no SQL text.
func (f Fragment) IsEmpty() bool {
	return strings.TrimSpace(f.SQL) == ""
}

// Statement converts a fully joined fragment into a Statement.
func (f Fragment) Statement() Statement {
	return Statement{SQL: f.SQL, Args: cloneArgs(f.Args)}
}

// String returns the SQL text.
func (f Fragment) String() string {
	return f.SQL
}

// Concat joins fragments with sep, concatenating their args in the same
// order as their text.
func Concat(sep string, fragments ...Fragment) Fragment {
	parts := make([]string, 0, len(fragments))
	var args []interface{}
	for _, f := range fragments {
		parts = append(parts, f.SQL)
		args = append(args, f.Args...)
	}
	return Fragment{SQL: strings.Join(parts, sep), Args: args}
}

// Statement is the terminal SQL text + args pair handed to an executor.
type Statement struct {
	SQL  string
	Args []interface{}
}

// String returns the SQL text.
func (s Statement) String() string {
	return s.SQL
}

// Fragment converts the statement back into a joinable fragment.
func (s Statement) Fragment() Fragment {
	return Fragment{SQL: s.SQL, Args: cloneArgs(s.Args)}
}

func cloneArgs(args []interface{}) []interface{} {
	if args == nil {
		return nil
	}
	out := make([]interface{}, len(args))
	copy(out, args)
	return out
}
