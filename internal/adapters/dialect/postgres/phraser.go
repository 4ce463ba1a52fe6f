package postgres

import (
	"fmt"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/phrasing"
	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
)

// Phraser phrases PostgreSQL statements. Inserts support RETURNING.
type Phraser struct {
	*phrasing.Base
}

// NewPhraser creates a phraser with the PostgreSQL grammar and translator.
func NewPhraser() *Phraser {
	p := &Phraser{Base: phrasing.New(NewGrammar(), NewTranslator(), phrasing.Options{Returning: true})}
	p.Bind(p)
	return p
}

// AlterTable runs column additions and drops as one ALTER TABLE. Column
// renames and index changes cannot share that statement, so when there is
// more than one statement to run they are phrased as a procedure.
func (p *Phraser) AlterTable(d phrasing.AlterTableData) (phrasing.Phrase, error) {
	if d.Operations() <= 1 {
		return p.Base.AlterTable(d)
	}

	var stmts []fragment.Statement
	add := func(ph phrasing.Phrase, err error) error {
		if err != nil {
			return err
		}
		if ph.Statement != nil {
			stmts = append(stmts, *ph.Statement)
		}
		return nil
	}

	if len(d.AddColumns)+len(d.DropColumns) > 0 {
		changes, err := p.AlterChanges(phrasing.AlterTableData{
			Name:        d.Name,
			AddColumns:  d.AddColumns,
			DropColumns: d.DropColumns,
		})
		if err != nil {
			return phrasing.Phrase{}, err
		}
		stmts = append(stmts, p.AlterStatement(d.Name, changes).Statement())
	}
	for _, r := range d.RenameColumns {
		changes, err := p.AlterChanges(phrasing.AlterTableData{Name: d.Name, RenameColumns: []phrasing.Rename{r}})
		if err != nil {
			return phrasing.Phrase{}, err
		}
		stmts = append(stmts, p.AlterStatement(d.Name, changes).Statement())
	}
	for _, idx := range d.AddIndexes {
		if err := add(p.CreateIndex(phrasing.CreateIndexData{Table: d.Name, Index: idx})); err != nil {
			return phrasing.Phrase{}, err
		}
	}
	for _, name := range d.DropIndexes {
		if err := add(p.DropIndex(phrasing.DropIndexData{Table: d.Name, Name: name})); err != nil {
			return phrasing.Phrase{}, err
		}
	}
	for _, r := range d.RenameIndexes {
		if err := add(p.RenameIndex(phrasing.RenameIndexData{Table: d.Name, From: r.From, To: r.To})); err != nil {
			return phrasing.Phrase{}, err
		}
	}

	if len(stmts) == 1 {
		stmt := stmts[0]
		return phrasing.Phrase{Statement: &stmt}, nil
	}
	return phrasing.ProcedurePhrase(procedure.Statements(fmt.Sprintf("alter table %s", d.Name), stmts...)), nil
}

// Ensure Phraser implements phrasing.Phraser interface.
var _ phrasing.Phraser = (*Phraser)(nil)
