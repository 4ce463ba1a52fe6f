package sqlite

import (
	"context"
	"fmt"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/phrasing"
	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
)

// Phraser phrases SQLite statements. Transactions are savepoints so they
// nest, and schema changes ALTER TABLE cannot express run as procedures.
type Phraser struct {
	*phrasing.Base
}

// NewPhraser creates a phraser with the SQLite grammar and translator.
func NewPhraser() *Phraser {
	p := &Phraser{Base: phrasing.New(NewGrammar(), NewTranslator(), phrasing.Options{UnboundedLimit: "-1"})}
	p.Bind(p)
	return p
}

// Begin opens the savepoint for level.
func (p *Phraser) Begin(level int) (phrasing.Phrase, error) {
	return p.savepoint("SAVEPOINT", level)
}

// Commit releases the savepoint for level.
func (p *Phraser) Commit(level int) (phrasing.Phrase, error) {
	return p.savepoint("RELEASE", level)
}

// Rollback rolls back to the savepoint for level. Nested savepoints stay
// open until released; level 0 ends the transaction its savepoint opened.
func (p *Phraser) Rollback(level int) (phrasing.Phrase, error) {
	if level == 0 {
		return phrasing.StatementPhrase(fragment.Raw("ROLLBACK")), nil
	}
	return p.savepoint("ROLLBACK TO", level)
}

func (p *Phraser) savepoint(verb string, level int) (phrasing.Phrase, error) {
	if level < 0 {
		return phrasing.Phrase{}, fmt.Errorf("%w: %d", phrasing.ErrInvalidLevel, level)
	}
	return phrasing.StatementPhrase(fragment.Raw(verb + " " + p.Grammar.Quote(phrasing.SavepointName(level)))), nil
}

// AlterTable rebuilds the table when columns are dropped or renamed.
// Otherwise several changes run as a procedure of single statements.
func (p *Phraser) AlterTable(d phrasing.AlterTableData) (phrasing.Phrase, error) {
	switch {
	case d.Name == "":
		return phrasing.Phrase{}, phrasing.ErrMissingTable
	case d.Operations() == 0:
		return phrasing.Phrase{}, nil
	case len(d.DropColumns)+len(d.RenameColumns) > 0:
		return phrasing.ProcedurePhrase(p.rebuild(d)), nil
	case d.Operations() == 1:
		return p.Base.AlterTable(d)
	}

	var phrases []phrasing.Phrase
	collect := func(ph phrasing.Phrase, err error) error {
		if err != nil {
			return err
		}
		phrases = append(phrases, ph)
		return nil
	}

	for _, name := range d.DropIndexes {
		if err := collect(p.DropIndex(phrasing.DropIndexData{Table: d.Name, Name: name})); err != nil {
			return phrasing.Phrase{}, err
		}
	}
	for _, r := range d.RenameIndexes {
		if err := collect(p.RenameIndex(phrasing.RenameIndexData{Table: d.Name, From: r.From, To: r.To})); err != nil {
			return phrasing.Phrase{}, err
		}
	}
	for _, c := range d.AddColumns {
		if err := collect(p.Base.AlterTable(phrasing.AlterTableData{Name: d.Name, AddColumns: []phrasing.Column{c}})); err != nil {
			return phrasing.Phrase{}, err
		}
	}
	for _, idx := range d.AddIndexes {
		if err := collect(p.CreateIndex(phrasing.CreateIndexData{Table: d.Name, Index: idx})); err != nil {
			return phrasing.Phrase{}, err
		}
	}

	proc := procedure.New(fmt.Sprintf("alter table %s", d.Name))
	for _, ph := range phrases {
		switch {
		case ph.Statement != nil:
			proc = proc.Then(procedure.Statements("", *ph.Statement))
		case ph.Procedure != nil:
			proc = proc.Then(ph.Procedure)
		}
	}
	return phrasing.ProcedurePhrase(proc), nil
}

// RenameIndex recreates the index under the new name, since SQLite has no
// rename for indexes.
func (p *Phraser) RenameIndex(d phrasing.RenameIndexData) (phrasing.Phrase, error) {
	if d.Table == "" {
		return phrasing.Phrase{}, phrasing.ErrMissingTable
	}
	name := fmt.Sprintf("rename index %s on %s", d.From, d.Table)
	return phrasing.ProcedurePhrase(procedure.New(name, func(ctx context.Context, q procedure.Queryer) error {
		indexes, err := inspectIndexes(ctx, q, p.Grammar, d.Table)
		if err != nil {
			return err
		}
		for _, idx := range indexes {
			if idx.name != d.From {
				continue
			}
			if idx.origin != "c" || idx.partial || idx.expression {
				return fmt.Errorf("%w: %s was not created by CREATE INDEX", ErrUnsupportedIndex, d.From)
			}
			create, err := p.CreateIndex(phrasing.CreateIndexData{
				Table: d.Table,
				Index: phrasing.Index{Name: d.To, Columns: idx.columns, Unique: idx.unique},
			})
			if err != nil {
				return err
			}
			if _, err := q.Raw(ctx, "DROP INDEX "+p.Grammar.Quote(d.From)); err != nil {
				return err
			}
			_, err = q.Raw(ctx, create.Statement.SQL)
			return err
		}
		return fmt.Errorf("%w: %s on %s", ErrIndexNotFound, d.From, d.Table)
	})), nil
}

// Ensure Phraser implements phrasing.Phraser interface.
var _ phrasing.Phraser = (*Phraser)(nil)
