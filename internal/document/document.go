// Package document decodes YAML statement documents into phrasing data.
//
// A document names its statement with kind and carries the fields of the
// matching phrasing data type:
//
//	kind: select
//	table: users
//	columns: [id, email]
//	where: age$gte = 18 and not email$endsWith = "@example.com"
//	order:
//	  - field: id
//	    desc: true
//	limit: 10
//
// where and join on accept the textual condition syntax or a YAML list of
// condition parts.
package document

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/satishbabariya/sqlphrase/internal/core/phrasing"
)

// Kinds of statement a document can describe.
const (
	KindSelect      = "select"
	KindInsert      = "insert"
	KindUpdate      = "update"
	KindDelete      = "delete"
	KindCreateTable = "createTable"
	KindAlterTable  = "alterTable"
	KindDropTable   = "dropTable"
	KindRenameTable = "renameTable"
	KindCreateIndex = "createIndex"
	KindDropIndex   = "dropIndex"
	KindRenameIndex = "renameIndex"
	KindBegin       = "begin"
	KindCommit      = "commit"
	KindRollback    = "rollback"
)

var (
	ErrMissingKind = errors.New("document kind required")
	ErrUnknownKind = errors.New("unknown document kind")
)

// Document is one decoded statement document.
type Document struct {
	Kind string
	node *yaml.Node
}

// Level returns the savepoint level of a begin, commit or rollback
// document, and 0 for any other kind.
func (d *Document) Level() (int, error) {
	switch d.Kind {
	case KindBegin, KindCommit, KindRollback:
		var s transactionDoc
		if err := d.node.Decode(&s); err != nil {
			return 0, err
		}
		return s.Level, nil
	}
	return 0, nil
}

// Decode reads every document in r. Empty documents are skipped.
func Decode(r io.Reader) ([]*Document, error) {
	dec := yaml.NewDecoder(r)
	var docs []*Document
	for i := 0; ; i++ {
		var node yaml.Node
		if err := dec.Decode(&node); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if len(node.Content) == 0 || node.Content[0].ShortTag() == "!!null" {
			continue
		}

		var head struct {
			Kind string `yaml:"kind"`
		}
		if err := node.Decode(&head); err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		if head.Kind == "" {
			return nil, fmt.Errorf("document %d: %w", i, ErrMissingKind)
		}
		docs = append(docs, &Document{Kind: head.Kind, node: &node})
	}
}

// Phrase phrases the document with ph.
func (d *Document) Phrase(ph phrasing.Phraser) (phrasing.Phrase, error) {
	switch d.Kind {
	case KindSelect:
		var s selectDoc
		if err := d.node.Decode(&s); err != nil {
			return phrasing.Phrase{}, err
		}
		return ph.Select(s.data())
	case KindInsert:
		var s insertDoc
		if err := d.node.Decode(&s); err != nil {
			return phrasing.Phrase{}, err
		}
		return ph.Insert(phrasing.InsertData{Table: s.Table, Rows: s.Rows, Returning: s.Returning})
	case KindUpdate:
		var s updateDoc
		if err := d.node.Decode(&s); err != nil {
			return phrasing.Phrase{}, err
		}
		return ph.Update(phrasing.UpdateData{Table: s.Table, Values: s.Values, Where: s.Where.Condition})
	case KindDelete:
		var s deleteDoc
		if err := d.node.Decode(&s); err != nil {
			return phrasing.Phrase{}, err
		}
		return ph.Delete(phrasing.DeleteData{Table: s.Table, Where: s.Where.Condition})
	case KindCreateTable:
		var s createTableDoc
		if err := d.node.Decode(&s); err != nil {
			return phrasing.Phrase{}, err
		}
		return ph.CreateTable(phrasing.CreateTableData{Name: s.Name, IfNotExists: s.IfNotExists, Columns: s.Columns})
	case KindAlterTable:
		var s alterTableDoc
		if err := d.node.Decode(&s); err != nil {
			return phrasing.Phrase{}, err
		}
		return ph.AlterTable(phrasing.AlterTableData(s))
	case KindDropTable:
		var s dropTableDoc
		if err := d.node.Decode(&s); err != nil {
			return phrasing.Phrase{}, err
		}
		return ph.DropTable(phrasing.DropTableData{Name: s.Name, IfExists: s.IfExists})
	case KindRenameTable:
		var s renameDoc
		if err := d.node.Decode(&s); err != nil {
			return phrasing.Phrase{}, err
		}
		return ph.RenameTable(phrasing.RenameTableData{From: s.From, To: s.To})
	case KindCreateIndex:
		var s createIndexDoc
		if err := d.node.Decode(&s); err != nil {
			return phrasing.Phrase{}, err
		}
		return ph.CreateIndex(phrasing.CreateIndexData{Table: s.Table, Index: s.Index})
	case KindDropIndex:
		var s dropIndexDoc
		if err := d.node.Decode(&s); err != nil {
			return phrasing.Phrase{}, err
		}
		return ph.DropIndex(phrasing.DropIndexData{Table: s.Table, Name: s.Name})
	case KindRenameIndex:
		var s renameDoc
		if err := d.node.Decode(&s); err != nil {
			return phrasing.Phrase{}, err
		}
		return ph.RenameIndex(phrasing.RenameIndexData{Table: s.Table, From: s.From, To: s.To})
	case KindBegin, KindCommit, KindRollback:
		var s transactionDoc
		if err := d.node.Decode(&s); err != nil {
			return phrasing.Phrase{}, err
		}
		switch d.Kind {
		case KindBegin:
			return ph.Begin(s.Level)
		case KindCommit:
			return ph.Commit(s.Level)
		default:
			return ph.Rollback(s.Level)
		}
	default:
		return phrasing.Phrase{}, fmt.Errorf("%w: %q", ErrUnknownKind, d.Kind)
	}
}
