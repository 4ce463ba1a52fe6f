package mysql

import (
	"fmt"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/phrasing"
	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
)

// UnboundedLimit is the largest LIMIT MySQL accepts.
const UnboundedLimit = "18446744073709551615"

// Phraser phrases MySQL statements. Foreign keys are emitted as separate
// constraints because MySQL parses but ignores inline REFERENCES.
type Phraser struct {
	*phrasing.Base
}

// NewPhraser creates a phraser with the MySQL grammar and translator.
func NewPhraser() *Phraser {
	p := &Phraser{Base: phrasing.New(NewGrammar(), NewTranslator(), phrasing.Options{
		SeparateForeignKeys: true,
		UnboundedLimit:      UnboundedLimit,
		EmptyInsert:         "() VALUES ()",
	})}
	p.Bind(p)
	return p
}

// DropIndex phrases DROP INDEX `name` ON `table`.
func (p *Phraser) DropIndex(d phrasing.DropIndexData) (phrasing.Phrase, error) {
	if d.Table == "" {
		return phrasing.Phrase{}, phrasing.ErrMissingTable
	}
	return phrasing.StatementPhrase(fragment.Raw(fmt.Sprintf("DROP INDEX %s ON %s",
		p.Grammar.Quote(d.Name), p.Grammar.Field(d.Table)))), nil
}

// RenameIndex phrases the rename as a procedure: servers with RENAME INDEX
// use it, older ones recreate the index under the new name.
func (p *Phraser) RenameIndex(d phrasing.RenameIndexData) (phrasing.Phrase, error) {
	if d.Table == "" {
		return phrasing.Phrase{}, phrasing.ErrMissingTable
	}
	if d.From == "" || d.To == "" {
		return phrasing.Phrase{}, fmt.Errorf("%w: rename requires both names", ErrIndexNotFound)
	}
	if d.From == primaryKeyName {
		return phrasing.Phrase{}, ErrPrimaryKeyIndex
	}
	name := fmt.Sprintf("rename index %s on %s", d.From, d.Table)
	return phrasing.ProcedurePhrase(procedure.New(name, p.renameIndex(d))), nil
}

// AlterTable runs index renames as procedures after the remaining changes,
// all in one transaction.
func (p *Phraser) AlterTable(d phrasing.AlterTableData) (phrasing.Phrase, error) {
	if len(d.RenameIndexes) == 0 || d.Operations() == 1 {
		return p.Base.AlterTable(d)
	}

	rest := d
	rest.RenameIndexes = nil
	first, err := p.Base.AlterTable(rest)
	if err != nil {
		return phrasing.Phrase{}, err
	}

	proc := procedure.New(fmt.Sprintf("alter table %s", d.Name))
	if first.Statement != nil {
		proc = proc.Then(procedure.Statements("", *first.Statement))
	}
	if first.Procedure != nil {
		proc = proc.Then(first.Procedure)
	}
	for _, r := range d.RenameIndexes {
		ph, err := p.RenameIndex(phrasing.RenameIndexData{Table: d.Name, From: r.From, To: r.To})
		if err != nil {
			return phrasing.Phrase{}, err
		}
		proc = proc.Then(ph.Procedure)
	}
	return phrasing.ProcedurePhrase(proc), nil
}

// Ensure Phraser implements phrasing.Phraser interface.
var _ phrasing.Phraser = (*Phraser)(nil)
