// Package mysql phrases SQL for MySQL and MariaDB.
package mysql

import (
	"strings"

	"github.com/satishbabariya/sqlphrase/internal/core/grammar"
)

// Grammar quotes identifiers with backticks.
type Grammar struct {
	*grammar.Base
}

// NewGrammar creates the MySQL grammar.
func NewGrammar() *Grammar {
	return &Grammar{Base: grammar.New(grammar.Options{Quote: grammar.QuoteWith("`")})}
}

// Escape also escapes backslashes, which MySQL treats as an escape
// character inside string literals.
func (g *Grammar) Escape(value interface{}) (string, error) {
	if s, ok := value.(string); ok {
		value = strings.ReplaceAll(s, `\`, `\\`)
	}
	return g.Base.Escape(value)
}

// Ensure Grammar implements grammar.Grammar interface.
var _ grammar.Grammar = (*Grammar)(nil)
