// Package postgres phrases SQL for PostgreSQL.
package postgres

import (
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/grammar"
)

// Grammar emits $n placeholders. Every placeholder is built as $1 and
// Join renumbers them so the final statement counts up from $1.
type Grammar struct {
	*grammar.Base
}

// NewGrammar creates the PostgreSQL grammar.
func NewGrammar() *Grammar {
	return &Grammar{Base: grammar.New(grammar.Options{
		Quote:       pq.QuoteIdentifier,
		Placeholder: "$1",
	})}
}

// Join joins fragments and renumbers their placeholders.
func (g *Grammar) Join(fragments ...fragment.Fragment) fragment.Fragment {
	f := g.Base.Join(fragments...)
	return fragment.Fragment{SQL: Renumber(f.SQL), Args: f.Args}
}

// Renumber rewrites $n placeholders outside quoted text to $1, $2, ... in
// order of appearance.
func Renumber(sql string) string {
	var out strings.Builder
	out.Grow(len(sql))

	n := 0
	var quote byte
	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '$' && i+1 < len(sql) && isDigit(sql[i+1]):
			j := i + 1
			for j < len(sql) && isDigit(sql[j]) {
				j++
			}
			n++
			out.WriteByte('$')
			out.WriteString(strconv.Itoa(n))
			i = j - 1
			continue
		}
		out.WriteByte(c)
	}
	return out.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Ensure Grammar implements grammar.Grammar interface.
var _ grammar.Grammar = (*Grammar)(nil)
