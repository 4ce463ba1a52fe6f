package sqlite

import (
	"context"
	"sort"
	"strings"

	"github.com/satishbabariya/sqlphrase/internal/core/grammar"
	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
)

type columnInfo struct {
	name    string
	typ     string
	notNull bool
	dflt    string
	hasDflt bool
	pkOrder int
}

type foreignKeyInfo struct {
	table    string
	from     []string
	to       []string
	onUpdate string
	onDelete string
}

type indexInfo struct {
	name    string
	unique  bool
	origin  string
	partial bool
	columns []string

	// expression indexes report a NULL column name
	expression bool
}

type tableInfo struct {
	sql         string
	columns     []columnInfo
	foreignKeys []foreignKeyInfo
	indexes     []indexInfo
}

func (t *tableInfo) autoIncrement() bool {
	return strings.Contains(strings.ToUpper(t.sql), "AUTOINCREMENT")
}

func inspectTable(ctx context.Context, q procedure.Queryer, g grammar.Grammar, table string) (*tableInfo, error) {
	info := &tableInfo{}

	rows, err := q.Raw(ctx, "SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", table)
	if err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		info.sql = rows[0].String("sql")
	}

	rows, err = q.Raw(ctx, "PRAGMA table_info("+g.Quote(table)+")")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Int("cid") < rows[j].Int("cid") })
	for _, row := range rows {
		info.columns = append(info.columns, columnInfo{
			name:    row.String("name"),
			typ:     row.String("type"),
			notNull: row.Int("notnull") == 1,
			dflt:    row.String("dflt_value"),
			hasDflt: !row.IsNull("dflt_value"),
			pkOrder: row.Int("pk"),
		})
	}

	rows, err = q.Raw(ctx, "PRAGMA foreign_key_list("+g.Quote(table)+")")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Int("id") != rows[j].Int("id") {
			return rows[i].Int("id") < rows[j].Int("id")
		}
		return rows[i].Int("seq") < rows[j].Int("seq")
	})
	byID := make(map[int]int)
	for _, row := range rows {
		id := row.Int("id")
		pos, ok := byID[id]
		if !ok {
			pos = len(info.foreignKeys)
			byID[id] = pos
			info.foreignKeys = append(info.foreignKeys, foreignKeyInfo{
				table:    row.String("table"),
				onUpdate: row.String("on_update"),
				onDelete: row.String("on_delete"),
			})
		}
		fk := &info.foreignKeys[pos]
		fk.from = append(fk.from, row.String("from"))
		fk.to = append(fk.to, row.String("to"))
	}

	info.indexes, err = inspectIndexes(ctx, q, g, table)
	if err != nil {
		return nil, err
	}
	return info, nil
}

func inspectIndexes(ctx context.Context, q procedure.Queryer, g grammar.Grammar, table string) ([]indexInfo, error) {
	rows, err := q.Raw(ctx, "PRAGMA index_list("+g.Quote(table)+")")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Int("seq") < rows[j].Int("seq") })

	var indexes []indexInfo
	for _, row := range rows {
		idx := indexInfo{
			name:    row.String("name"),
			unique:  row.Int("unique") == 1,
			origin:  row.String("origin"),
			partial: row.Int("partial") == 1,
		}
		if idx.origin == "pk" {
			continue
		}
		cols, err := q.Raw(ctx, "PRAGMA index_info("+g.Quote(idx.name)+")")
		if err != nil {
			return nil, err
		}
		sort.SliceStable(cols, func(i, j int) bool { return cols[i].Int("seqno") < cols[j].Int("seqno") })
		for _, col := range cols {
			if col.IsNull("name") {
				idx.expression = true
			}
			idx.columns = append(idx.columns, col.String("name"))
		}
		indexes = append(indexes, idx)
	}
	return indexes, nil
}
