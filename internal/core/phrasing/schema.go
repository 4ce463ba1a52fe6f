package phrasing

import (
	"fmt"
	"strings"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
)

var referentialActions = map[string]string{
	"cascade":  "CASCADE",
	"restrict": "RESTRICT",
	"nullify":  "SET NULL",
}

// ReferentialAction maps an action name to its SQL.
func ReferentialAction(name string) (string, error) {
	action, ok := referentialActions[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return action, nil
}

// ParseReference splits a "table.column" reference. A bare "column"
// refers to the owning table.
func ParseReference(owner, ref string) (table, column string, err error) {
	parts := strings.Split(ref, ".")
	switch {
	case len(parts) == 1 && parts[0] != "":
		return owner, parts[0], nil
	case len(parts) == 2 && parts[0] != "" && parts[1] != "":
		return parts[0], parts[1], nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrInvalidReference, ref)
}

// References renders REFERENCES "table" ("column") with its actions.
func (b *Base) References(owner string, c Column) (fragment.Fragment, error) {
	table, column, err := ParseReference(owner, c.References)
	if err != nil {
		return fragment.Fragment{}, err
	}
	sql := fmt.Sprintf("REFERENCES %s (%s)", b.Grammar.Field(table), b.Grammar.Quote(column))
	if c.OnDelete != "" {
		action, err := ReferentialAction(c.OnDelete)
		if err != nil {
			return fragment.Fragment{}, err
		}
		sql += " ON DELETE " + action
	}
	if c.OnUpdate != "" {
		action, err := ReferentialAction(c.OnUpdate)
		if err != nil {
			return fragment.Fragment{}, err
		}
		sql += " ON UPDATE " + action
	}
	return fragment.Raw(sql), nil
}

// ForeignKey renders a FOREIGN KEY ("column") REFERENCES constraint.
func (b *Base) ForeignKey(owner string, c Column) (fragment.Fragment, error) {
	ref, err := b.References(owner, c)
	if err != nil {
		return fragment.Fragment{}, err
	}
	return fragment.Concat(" ", fragment.Raw("FOREIGN KEY ("+b.Grammar.Quote(c.Name)+")"), ref), nil
}

// ColumnDefinition renders "name" type [constraints]. The REFERENCES
// clause is omitted when the dialect uses separate foreign keys.
func (b *Base) ColumnDefinition(owner string, c Column) (fragment.Fragment, error) {
	if c.Name == "" {
		return fragment.Fragment{}, ErrMissingColumn
	}
	typ, err := b.Translator.Type(c.Type, c.Options)
	if err != nil {
		return fragment.Fragment{}, fmt.Errorf("column %s: %w", c.Name, err)
	}

	parts := []fragment.Fragment{b.quote(c.Name), fragment.Raw(typ)}
	if c.PrimaryKey && !strings.Contains(strings.ToUpper(typ), "PRIMARY KEY") {
		parts = append(parts, fragment.Raw("PRIMARY KEY"))
	}
	if c.NotNull {
		parts = append(parts, fragment.Raw("NOT NULL"))
	}
	if c.Unique {
		parts = append(parts, fragment.Raw("UNIQUE"))
	}
	if c.Default != nil {
		def, err := b.defaultValue(c.Default)
		if err != nil {
			return fragment.Fragment{}, fmt.Errorf("column %s default: %w", c.Name, err)
		}
		parts = append(parts, fragment.Raw("DEFAULT "+def))
	}
	if c.References != "" && !b.opts.SeparateForeignKeys {
		ref, err := b.References(owner, c)
		if err != nil {
			return fragment.Fragment{}, fmt.Errorf("column %s: %w", c.Name, err)
		}
		parts = append(parts, ref)
	}
	return fragment.Concat(" ", parts...), nil
}

func (b *Base) defaultValue(v interface{}) (string, error) {
	if lit, ok := v.(fragment.Literal); ok {
		return lit.SQL(), nil
	}
	return b.Grammar.Escape(v)
}

// CreateTable phrases CREATE TABLE with inline column constraints.
func (b *Base) CreateTable(d CreateTableData) (Phrase, error) {
	if d.Name == "" {
		return Phrase{}, ErrMissingTable
	}
	if len(d.Columns) == 0 {
		return Phrase{}, fmt.Errorf("%w: %s", ErrNoColumns, d.Name)
	}

	defs, err := b.TableElements(d.Name, d.Columns)
	if err != nil {
		return Phrase{}, err
	}

	head := "CREATE TABLE"
	if d.IfNotExists {
		head += " IF NOT EXISTS"
	}
	return StatementPhrase(b.Grammar.Join(
		fragment.Raw(head),
		b.field(d.Name),
		b.Grammar.Group(b.Grammar.Delimit(defs)),
	)), nil
}

// TableElements renders the column definitions of a table followed by its
// separate foreign key constraints, if the dialect uses them.
func (b *Base) TableElements(table string, columns []Column) ([]fragment.Fragment, error) {
	defs := make([]fragment.Fragment, 0, len(columns))
	var keys []fragment.Fragment
	for _, c := range columns {
		def, err := b.ColumnDefinition(table, c)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
		if c.References != "" && b.opts.SeparateForeignKeys {
			fk, err := b.ForeignKey(table, c)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Name, err)
			}
			keys = append(keys, fk)
		}
	}
	return append(defs, keys...), nil
}

// AlterTable phrases one ALTER TABLE with every change comma separated.
// A request with no changes yields an empty phrase, and a request whose
// only change is to an index is phrased as the standalone index
// statement.
func (b *Base) AlterTable(d AlterTableData) (Phrase, error) {
	if d.Name == "" {
		return Phrase{}, ErrMissingTable
	}
	switch d.Operations() {
	case 0:
		return Phrase{}, nil
	case 1:
		switch {
		case len(d.AddIndexes) == 1:
			return b.outer.CreateIndex(CreateIndexData{Table: d.Name, Index: d.AddIndexes[0]})
		case len(d.DropIndexes) == 1:
			return b.outer.DropIndex(DropIndexData{Table: d.Name, Name: d.DropIndexes[0]})
		case len(d.RenameIndexes) == 1:
			r := d.RenameIndexes[0]
			return b.outer.RenameIndex(RenameIndexData{Table: d.Name, From: r.From, To: r.To})
		}
	}

	changes, err := b.AlterChanges(d)
	if err != nil {
		return Phrase{}, err
	}
	return StatementPhrase(b.AlterStatement(d.Name, changes)), nil
}

// AlterStatement joins changes into ALTER TABLE "table" change, change.
func (b *Base) AlterStatement(table string, changes []fragment.Fragment) fragment.Fragment {
	return b.Grammar.Join(fragment.Raw("ALTER TABLE"), b.field(table), b.Grammar.Delimit(changes))
}

// AlterChanges renders the ALTER TABLE sub-clauses of d: added, dropped and
// renamed columns, then added, dropped and renamed indexes.
func (b *Base) AlterChanges(d AlterTableData) ([]fragment.Fragment, error) {
	var changes []fragment.Fragment
	for _, c := range d.AddColumns {
		def, err := b.ColumnDefinition(d.Name, c)
		if err != nil {
			return nil, err
		}
		changes = append(changes, fragment.Concat(" ", fragment.Raw("ADD COLUMN"), def))
		if c.References != "" && b.opts.SeparateForeignKeys {
			fk, err := b.ForeignKey(d.Name, c)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", c.Name, err)
			}
			changes = append(changes, fragment.Concat(" ", fragment.Raw("ADD"), fk))
		}
	}
	for _, name := range d.DropColumns {
		changes = append(changes, fragment.Raw("DROP COLUMN "+b.Grammar.Quote(name)))
	}
	for _, r := range d.RenameColumns {
		changes = append(changes, fragment.Raw(fmt.Sprintf("RENAME COLUMN %s TO %s", b.Grammar.Quote(r.From), b.Grammar.Quote(r.To))))
	}
	for _, idx := range d.AddIndexes {
		if len(idx.Columns) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidIndex, idx.NameFor(d.Name))
		}
		kind := "ADD INDEX"
		if idx.Unique {
			kind = "ADD UNIQUE INDEX"
		}
		changes = append(changes, fragment.Raw(fmt.Sprintf("%s %s (%s)", kind, b.Grammar.Quote(idx.NameFor(d.Name)), b.fields(idx.Columns).SQL)))
	}
	for _, name := range d.DropIndexes {
		changes = append(changes, fragment.Raw("DROP INDEX "+b.Grammar.Quote(name)))
	}
	for _, r := range d.RenameIndexes {
		changes = append(changes, fragment.Raw(fmt.Sprintf("RENAME INDEX %s TO %s", b.Grammar.Quote(r.From), b.Grammar.Quote(r.To))))
	}
	return changes, nil
}

// DropTable phrases DROP TABLE.
func (b *Base) DropTable(d DropTableData) (Phrase, error) {
	if d.Name == "" {
		return Phrase{}, ErrMissingTable
	}
	head := "DROP TABLE"
	if d.IfExists {
		head += " IF EXISTS"
	}
	return StatementPhrase(b.Grammar.Join(fragment.Raw(head), b.field(d.Name))), nil
}

// RenameTable phrases ALTER TABLE ... RENAME TO.
func (b *Base) RenameTable(d RenameTableData) (Phrase, error) {
	if d.From == "" || d.To == "" {
		return Phrase{}, ErrMissingTable
	}
	return StatementPhrase(b.Grammar.Join(
		fragment.Raw("ALTER TABLE"), b.field(d.From),
		fragment.Raw("RENAME TO"), b.field(d.To),
	)), nil
}

// CreateIndex phrases CREATE [UNIQUE] INDEX "name" ON "table" (columns).
func (b *Base) CreateIndex(d CreateIndexData) (Phrase, error) {
	if d.Table == "" {
		return Phrase{}, ErrMissingTable
	}
	if len(d.Index.Columns) == 0 {
		return Phrase{}, fmt.Errorf("%w: %s", ErrInvalidIndex, d.Index.NameFor(d.Table))
	}
	head := "CREATE INDEX"
	if d.Index.Unique {
		head = "CREATE UNIQUE INDEX"
	}
	return StatementPhrase(b.Grammar.Join(
		fragment.Raw(head), b.quote(d.Index.NameFor(d.Table)),
		fragment.Raw("ON"), b.field(d.Table),
		b.Grammar.Group(b.fields(d.Index.Columns)),
	)), nil
}

// DropIndex phrases DROP INDEX "name".
func (b *Base) DropIndex(d DropIndexData) (Phrase, error) {
	return StatementPhrase(b.Grammar.Join(fragment.Raw("DROP INDEX"), b.quote(d.Name))), nil
}

// RenameIndex phrases ALTER INDEX ... RENAME TO.
func (b *Base) RenameIndex(d RenameIndexData) (Phrase, error) {
	return StatementPhrase(b.Grammar.Join(
		fragment.Raw("ALTER INDEX"), b.quote(d.From),
		fragment.Raw("RENAME TO"), b.quote(d.To),
	)), nil
}
