// Package phrasing assembles complete SQL statements from structural
// descriptions. Base renders ANSI SQL; dialects embed it and override the
// statements they phrase differently.
package phrasing

import (
	"context"
	"fmt"

	"github.com/satishbabariya/sqlphrase/internal/core/condition"
	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/grammar"
	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
	"github.com/satishbabariya/sqlphrase/internal/core/translator"
	"github.com/satishbabariya/sqlphrase/internal/debug"
)

// Phraser renders one statement kind per method.
type Phraser interface {
	Select(d SelectData) (Phrase, error)
	Insert(d InsertData) (Phrase, error)
	Update(d UpdateData) (Phrase, error)
	Delete(d DeleteData) (Phrase, error)
	CreateTable(d CreateTableData) (Phrase, error)
	AlterTable(d AlterTableData) (Phrase, error)
	DropTable(d DropTableData) (Phrase, error)
	RenameTable(d RenameTableData) (Phrase, error)
	CreateIndex(d CreateIndexData) (Phrase, error)
	DropIndex(d DropIndexData) (Phrase, error)
	RenameIndex(d RenameIndexData) (Phrase, error)
	Begin(level int) (Phrase, error)
	Commit(level int) (Phrase, error)
	Rollback(level int) (Phrase, error)
}

// Phrase is the result of phrasing: a single statement, a procedure, or
// nothing at all when the request was a no-op.
type Phrase struct {
	Statement *fragment.Statement
	Procedure *procedure.Procedure
}

// StatementPhrase wraps a fragment as a statement phrase.
func StatementPhrase(f fragment.Fragment) Phrase {
	stmt := f.Statement()
	return Phrase{Statement: &stmt}
}

// ProcedurePhrase wraps a procedure.
func ProcedurePhrase(p *procedure.Procedure) Phrase {
	return Phrase{Procedure: p}
}

// IsEmpty reports whether there is nothing to execute.
func (p Phrase) IsEmpty() bool {
	return p.Statement == nil && p.Procedure == nil
}

// String returns the statement SQL or a short procedure description.
func (p Phrase) String() string {
	switch {
	case p.Statement != nil:
		return p.Statement.SQL
	case p.Procedure != nil:
		return fmt.Sprintf("-- procedure %s (%d steps)", p.Procedure.Name(), p.Procedure.Len())
	default:
		return ""
	}
}

// Execute runs the phrase against ex. Procedures return no rows.
func (p Phrase) Execute(ctx context.Context, ex procedure.Executor) ([]procedure.Row, error) {
	switch {
	case p.Statement != nil:
		debug.Statement("Executing statement", p.Statement.SQL, p.Statement.Args)
		return ex.Raw(ctx, p.Statement.SQL, p.Statement.Args...)
	case p.Procedure != nil:
		return nil, p.Procedure.Run(ctx, ex)
	default:
		return nil, nil
	}
}

// Options configures the dialect specific details of Base.
type Options struct {
	// SeparateForeignKeys emits a FOREIGN KEY constraint per referencing
	// column instead of an inline REFERENCES clause.
	SeparateForeignKeys bool
	// UnboundedLimit is emitted as LIMIT when only an offset is given.
	// Empty omits LIMIT.
	UnboundedLimit string
	// EmptyInsert is the VALUES clause of an insert without columns.
	// Empty uses DEFAULT VALUES.
	EmptyInsert string
	// Returning enables the INSERT ... RETURNING suffix.
	Returning bool
}

// Base phrases ANSI SQL.
type Base struct {
	Grammar    grammar.Grammar
	Translator translator.Translator

	opts  Options
	outer Phraser
}

// New creates a base phraser.
func New(g grammar.Grammar, t translator.Translator, opts Options) *Base {
	if opts.EmptyInsert == "" {
		opts.EmptyInsert = "DEFAULT VALUES"
	}
	b := &Base{Grammar: g, Translator: t, opts: opts}
	b.outer = b
	return b
}

// Bind makes Base delegate to outer wherever one statement is phrased in
// terms of another. Dialects embedding Base call it with themselves.
func (b *Base) Bind(outer Phraser) {
	b.outer = outer
}

// Options returns the phrasing options.
func (b *Base) Options() Options {
	return b.opts
}

func (b *Base) quote(name string) fragment.Fragment {
	return fragment.Raw(b.Grammar.Quote(name))
}

func (b *Base) field(name string) fragment.Fragment {
	return fragment.Raw(b.Grammar.Field(name))
}

func (b *Base) fields(names []string) fragment.Fragment {
	parts := make([]fragment.Fragment, len(names))
	for i, name := range names {
		parts[i] = b.field(name)
	}
	return b.Grammar.Delimit(parts)
}

// Condition compiles c for embedding in a statement.
func (b *Base) Condition(c *condition.Condition) (fragment.Fragment, error) {
	return c.Fragment(b.Grammar, b.Translator)
}

// Ensure Base implements Phraser interface.
var _ Phraser = (*Base)(nil)
