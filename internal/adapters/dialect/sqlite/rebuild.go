package sqlite

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/satishbabariya/sqlphrase/internal/core/phrasing"
	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
	"github.com/satishbabariya/sqlphrase/internal/debug"
)

// rebuild recreates the table to apply d: a new table with the surviving,
// renamed and added columns and the preserved foreign keys is created
// under a temporary name, rows are copied over, the old table is dropped,
// the new one takes its name and the surviving indexes are recreated.
//
// Foreign key enforcement is switched off around the transaction so the
// DROP does not cascade into referencing tables; the whole schema is
// checked with foreign_key_check before commit instead.
func (p *Phraser) rebuild(d phrasing.AlterTableData) *procedure.Procedure {
	exec := func(ctx context.Context, q procedure.Queryer, sql string) error {
		debug.Debug("Rebuild statement", "table", d.Name, "sql", sql)
		_, err := q.Raw(ctx, sql)
		return err
	}

	return procedure.New("rebuild table "+d.Name, func(ctx context.Context, q procedure.Queryer) error {
		if err := exec(ctx, q, "PRAGMA legacy_alter_table = ON"); err != nil {
			return err
		}

		info, err := inspectTable(ctx, q, p.Grammar, d.Name)
		if err != nil {
			return err
		}
		if len(info.columns) == 0 {
			return fmt.Errorf("%w: %s", ErrTableNotFound, d.Name)
		}

		stmts, err := p.rebuildStatements(d, info)
		if err != nil {
			return err
		}
		for _, stmt := range stmts {
			if err := exec(ctx, q, stmt); err != nil {
				return err
			}
		}

		violations, err := q.Raw(ctx, "PRAGMA foreign_key_check")
		if err != nil {
			return err
		}
		if len(violations) > 0 {
			v := violations[0]
			return fmt.Errorf("%w: %d row(s), first in %s referencing %s",
				ErrForeignKeyViolation, len(violations), v.String("table"), v.String("parent"))
		}
		return exec(ctx, q, "PRAGMA legacy_alter_table = OFF")
	}).WithSetup(func(ctx context.Context, q procedure.Queryer) (procedure.Step, error) {
		rows, err := q.Raw(ctx, "PRAGMA foreign_keys")
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 || rows[0].Int("foreign_keys") == 0 {
			return nil, nil
		}
		if err := exec(ctx, q, "PRAGMA foreign_keys = OFF"); err != nil {
			return nil, err
		}
		return func(ctx context.Context, q procedure.Queryer) error {
			return exec(ctx, q, "PRAGMA foreign_keys = ON")
		}, nil
	})
}

func (p *Phraser) rebuildStatements(d phrasing.AlterTableData, info *tableInfo) ([]string, error) {
	g := p.Grammar
	table := d.Name
	tmp := "_" + table + "_new"

	existing := make(map[string]bool, len(info.columns))
	for _, c := range info.columns {
		existing[c.name] = true
	}
	dropped := make(map[string]bool, len(d.DropColumns))
	for _, name := range d.DropColumns {
		if !existing[name] {
			return nil, fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, name)
		}
		dropped[name] = true
	}
	renamed := make(map[string]string, len(d.RenameColumns))
	for _, r := range d.RenameColumns {
		if !existing[r.From] {
			return nil, fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, r.From)
		}
		renamed[r.From] = r.To
	}
	// newName maps a surviving column to its new name.
	newName := func(name string) (string, bool) {
		if dropped[name] {
			return "", false
		}
		if to, ok := renamed[name]; ok {
			return to, true
		}
		return name, true
	}

	var defs []string
	var selectCols, insertCols []string
	var pk []columnInfo
	for _, c := range info.columns {
		if c.pkOrder > 0 && !dropped[c.name] {
			pk = append(pk, c)
		}
	}
	sort.SliceStable(pk, func(i, j int) bool { return pk[i].pkOrder < pk[j].pkOrder })

	for _, c := range info.columns {
		name, ok := newName(c.name)
		if !ok {
			continue
		}
		def := g.Quote(name)
		if c.typ != "" {
			def += " " + c.typ
		}
		if len(pk) == 1 && pk[0].name == c.name {
			def += " PRIMARY KEY"
			if info.autoIncrement() {
				def += " AUTOINCREMENT"
			}
		}
		if c.notNull {
			def += " NOT NULL"
		}
		if c.hasDflt {
			def += " DEFAULT " + c.dflt
		}
		defs = append(defs, def)
		selectCols = append(selectCols, g.Quote(c.name))
		insertCols = append(insertCols, g.Quote(name))
	}

	for _, c := range d.AddColumns {
		def, err := p.ColumnDefinition(table, c)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def.SQL)
	}

	if len(pk) > 1 {
		cols := make([]string, len(pk))
		for i, c := range pk {
			name, _ := newName(c.name)
			cols[i] = g.Quote(name)
		}
		defs = append(defs, "PRIMARY KEY ("+strings.Join(cols, ", ")+")")
	}

	for _, fk := range info.foreignKeys {
		def, ok := rebuildForeignKey(g.Quote, table, fk, newName)
		if !ok {
			debug.Warn("Dropping foreign key on removed column", "table", table, "columns", fk.from)
			continue
		}
		defs = append(defs, def)
	}

	stmts := []string{
		fmt.Sprintf("CREATE TABLE %s (%s)", g.Quote(tmp), strings.Join(defs, ", ")),
		fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s",
			g.Quote(tmp), strings.Join(insertCols, ", "), strings.Join(selectCols, ", "), g.Quote(table)),
		fmt.Sprintf("DROP TABLE %s", g.Quote(table)),
		fmt.Sprintf("ALTER TABLE %s RENAME TO %s", g.Quote(tmp), g.Quote(table)),
	}

	indexes, err := p.rebuildIndexes(d, info, newName)
	if err != nil {
		return nil, err
	}
	return append(stmts, indexes...), nil
}

func rebuildForeignKey(quote func(string) string, table string, fk foreignKeyInfo, newName func(string) (string, bool)) (string, bool) {
	from := make([]string, len(fk.from))
	for i, col := range fk.from {
		name, ok := newName(col)
		if !ok {
			return "", false
		}
		from[i] = quote(name)
	}

	var to []string
	for _, col := range fk.to {
		if col == "" {
			continue
		}
		if fk.table == table {
			name, ok := newName(col)
			if !ok {
				return "", false
			}
			col = name
		}
		to = append(to, quote(col))
	}

	def := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s", strings.Join(from, ", "), quote(fk.table))
	if len(to) > 0 {
		def += " (" + strings.Join(to, ", ") + ")"
	}
	if action := strings.ToUpper(fk.onDelete); action != "" && action != "NO ACTION" {
		def += " ON DELETE " + action
	}
	if action := strings.ToUpper(fk.onUpdate); action != "" && action != "NO ACTION" {
		def += " ON UPDATE " + action
	}
	return def, true
}

func (p *Phraser) rebuildIndexes(d phrasing.AlterTableData, info *tableInfo, newName func(string) (string, bool)) ([]string, error) {
	table := d.Name
	byName := make(map[string]bool, len(info.indexes))
	for _, idx := range info.indexes {
		byName[idx.name] = true
	}

	drop := make(map[string]bool, len(d.DropIndexes))
	for _, name := range d.DropIndexes {
		if !byName[name] {
			return nil, fmt.Errorf("%w: %s on %s", ErrIndexNotFound, name, table)
		}
		drop[name] = true
	}
	rename := make(map[string]string, len(d.RenameIndexes))
	for _, r := range d.RenameIndexes {
		if !byName[r.From] {
			return nil, fmt.Errorf("%w: %s on %s", ErrIndexNotFound, r.From, table)
		}
		rename[r.From] = r.To
	}

	var wanted []phrasing.Index
	for _, idx := range info.indexes {
		if drop[idx.name] {
			continue
		}
		if idx.partial || idx.expression {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedIndex, idx.name)
		}
		cols := make([]string, 0, len(idx.columns))
		survives := true
		for _, col := range idx.columns {
			name, ok := newName(col)
			if !ok {
				survives = false
				break
			}
			cols = append(cols, name)
		}
		if !survives {
			debug.Warn("Dropping index on removed column", "table", table, "index", idx.name)
			continue
		}

		next := phrasing.Index{Columns: cols, Unique: idx.unique}
		switch {
		case rename[idx.name] != "":
			next.Name = rename[idx.name]
		case idx.origin == "c":
			next.Name = idx.name
		}
		wanted = append(wanted, next)
	}
	wanted = append(wanted, d.AddIndexes...)

	stmts := make([]string, 0, len(wanted))
	for _, idx := range wanted {
		ph, err := p.CreateIndex(phrasing.CreateIndexData{Table: table, Index: idx})
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, ph.Statement.SQL)
	}
	return stmts, nil
}
