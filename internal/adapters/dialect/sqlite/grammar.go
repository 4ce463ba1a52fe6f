// Package sqlite phrases SQL for SQLite.
package sqlite

import (
	"github.com/satishbabariya/sqlphrase/internal/core/grammar"
)

// NewGrammar creates the SQLite grammar, which is the ANSI base grammar.
func NewGrammar() *grammar.Base {
	return grammar.New(grammar.Options{})
}
