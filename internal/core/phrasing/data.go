package phrasing

import (
	"strings"

	"github.com/satishbabariya/sqlphrase/internal/core/condition"
	"github.com/satishbabariya/sqlphrase/internal/core/translator"
)

// SelectData describes a SELECT statement.
type SelectData struct {
	Table    string
	Alias    string
	Distinct bool
	// Columns holds column names, fragment.Field or fragment.Literal
	// values. Empty selects *.
	Columns []interface{}
	Joins   []Join
	Where   *condition.Condition
	GroupBy []string
	Order   []Order
	Limit   *int
	Offset  *int
}

// Join is one JOIN clause.
type Join struct {
	// Type is inner, left, right, full or cross. Empty means inner.
	Type  string
	Table string
	Alias string
	On    *condition.Condition
}

// Order is one ORDER BY term.
type Order struct {
	Field      string
	Descending bool
}

// InsertData describes a possibly multi-row INSERT. The column list is the
// union of the row keys.
type InsertData struct {
	Table     string
	Rows      []map[string]interface{}
	Returning string
}

// UpdateData describes an UPDATE. Values may hold fragment.Field values to
// assign one column from another.
type UpdateData struct {
	Table  string
	Values map[string]interface{}
	Where  *condition.Condition
}

// DeleteData describes a DELETE. A nil Where deletes every row.
type DeleteData struct {
	Table string
	Where *condition.Condition
}

// Column is a column definition.
type Column struct {
	Name       string                 `yaml:"name"`
	Type       translator.ColumnType  `yaml:"type"`
	Options    translator.TypeOptions `yaml:"options"`
	PrimaryKey bool                   `yaml:"primaryKey"`
	NotNull    bool                   `yaml:"notNull"`
	Unique     bool                   `yaml:"unique"`
	// Default is inlined with Grammar.Escape. A fragment.Literal is
	// emitted as is.
	Default interface{} `yaml:"default"`
	// References is "table.column", or "column" for a reference into the
	// owning table.
	References string `yaml:"references"`
	OnDelete   string `yaml:"onDelete"`
	OnUpdate   string `yaml:"onUpdate"`
}

// Index is an index definition.
type Index struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique"`
}

// NameFor returns the index name, defaulting to table_col1_col2_idx.
func (i Index) NameFor(table string) string {
	if i.Name != "" {
		return i.Name
	}
	parts := append([]string{table}, i.Columns...)
	return strings.ReplaceAll(strings.Join(parts, "_"), ".", "_") + "_idx"
}

// Rename maps an old name to a new one.
type Rename struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// CreateTableData describes CREATE TABLE.
type CreateTableData struct {
	Name        string
	IfNotExists bool
	Columns     []Column
}

// AlterTableData describes the changes of an ALTER TABLE.
type AlterTableData struct {
	Name          string
	AddColumns    []Column
	DropColumns   []string
	RenameColumns []Rename
	AddIndexes    []Index
	DropIndexes   []string
	RenameIndexes []Rename
}

// ColumnOperations returns the number of column changes.
func (d AlterTableData) ColumnOperations() int {
	return len(d.AddColumns) + len(d.DropColumns) + len(d.RenameColumns)
}

// IndexOperations returns the number of index changes.
func (d AlterTableData) IndexOperations() int {
	return len(d.AddIndexes) + len(d.DropIndexes) + len(d.RenameIndexes)
}

// Operations returns the total number of changes.
func (d AlterTableData) Operations() int {
	return d.ColumnOperations() + d.IndexOperations()
}

// DropTableData describes DROP TABLE.
type DropTableData struct {
	Name     string
	IfExists bool
}

// RenameTableData describes a table rename.
type RenameTableData struct {
	From string
	To   string
}

// CreateIndexData describes CREATE INDEX.
type CreateIndexData struct {
	Table string
	Index Index
}

// DropIndexData describes DROP INDEX.
type DropIndexData struct {
	Table string
	Name  string
}

// RenameIndexData describes an index rename.
type RenameIndexData struct {
	Table string
	From  string
	To    string
}
