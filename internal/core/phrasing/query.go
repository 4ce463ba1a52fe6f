package phrasing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/grammar"
)

// Select phrases SELECT columns FROM table joins WHERE GROUP BY ORDER BY
// LIMIT OFFSET. Absent clauses are omitted.
func (b *Base) Select(d SelectData) (Phrase, error) {
	if d.Table == "" {
		return Phrase{}, ErrMissingTable
	}
	g := b.Grammar

	parts := []fragment.Fragment{fragment.Raw("SELECT")}
	if d.Distinct {
		parts = append(parts, fragment.Raw("DISTINCT"))
	}
	parts = append(parts, b.columns(d.Columns), fragment.Raw("FROM"), b.table(d.Table, d.Alias))

	for _, j := range d.Joins {
		join, err := b.join(j)
		if err != nil {
			return Phrase{}, err
		}
		parts = append(parts, join)
	}

	if d.Where != nil {
		where, err := b.Condition(d.Where)
		if err != nil {
			return Phrase{}, err
		}
		parts = append(parts, fragment.Raw("WHERE"), where)
	}

	if len(d.GroupBy) > 0 {
		parts = append(parts, fragment.Raw("GROUP BY"), b.fields(d.GroupBy))
	}

	if len(d.Order) > 0 {
		terms := make([]fragment.Fragment, len(d.Order))
		for i, o := range d.Order {
			dir := "ASC"
			if o.Descending {
				dir = "DESC"
			}
			terms[i] = fragment.Raw(g.Field(o.Field) + " " + dir)
		}
		parts = append(parts, fragment.Raw("ORDER BY"), g.Delimit(terms))
	}

	limit, err := b.limit(d.Limit, d.Offset)
	if err != nil {
		return Phrase{}, err
	}
	parts = append(parts, limit...)

	return StatementPhrase(g.Join(parts...)), nil
}

func (b *Base) columns(columns []interface{}) fragment.Fragment {
	if len(columns) == 0 {
		return fragment.Raw("*")
	}
	parts := make([]fragment.Fragment, len(columns))
	for i, c := range columns {
		if name, ok := c.(string); ok {
			parts[i] = b.field(name)
			continue
		}
		parts[i] = grammar.Mixed(b.Grammar, c)
	}
	return b.Grammar.Delimit(parts)
}

func (b *Base) table(name, alias string) fragment.Fragment {
	if alias == "" {
		return b.field(name)
	}
	return fragment.Raw(b.Grammar.Field(name) + " AS " + b.Grammar.Quote(alias))
}

func (b *Base) join(j Join) (fragment.Fragment, error) {
	if j.Table == "" {
		return fragment.Fragment{}, fmt.Errorf("join: %w", ErrMissingTable)
	}
	kind := strings.ToUpper(strings.TrimSpace(j.Type))
	switch kind {
	case "":
		kind = "INNER"
	case "INNER", "CROSS":
	case "LEFT", "RIGHT", "FULL":
		kind += " OUTER"
	case "LEFT OUTER", "RIGHT OUTER", "FULL OUTER":
	default:
		return fragment.Fragment{}, fmt.Errorf("join: unknown join type %q", j.Type)
	}

	parts := []fragment.Fragment{fragment.Raw(kind + " JOIN"), b.table(j.Table, j.Alias)}
	if j.On != nil {
		on, err := b.Condition(j.On)
		if err != nil {
			return fragment.Fragment{}, err
		}
		parts = append(parts, fragment.Raw("ON"), on)
	}
	return fragment.Concat(" ", parts...), nil
}

func (b *Base) limit(limit, offset *int) ([]fragment.Fragment, error) {
	if (limit != nil && *limit < 0) || (offset != nil && *offset < 0) {
		return nil, ErrInvalidLimit
	}
	var parts []fragment.Fragment
	switch {
	case limit != nil:
		parts = append(parts, fragment.Raw("LIMIT"), b.Grammar.Value(*limit))
	case offset != nil && b.opts.UnboundedLimit != "":
		parts = append(parts, fragment.Raw("LIMIT "+b.opts.UnboundedLimit))
	}
	if offset != nil {
		parts = append(parts, fragment.Raw("OFFSET"), b.Grammar.Value(*offset))
	}
	return parts, nil
}

// Insert phrases a multi-row INSERT. Rows missing a column bind nil.
func (b *Base) Insert(d InsertData) (Phrase, error) {
	if d.Table == "" {
		return Phrase{}, ErrMissingTable
	}
	g := b.Grammar
	columns := insertColumns(d.Rows)

	parts := []fragment.Fragment{fragment.Raw("INSERT INTO"), b.field(d.Table)}
	if len(columns) == 0 {
		parts = append(parts, fragment.Raw(b.opts.EmptyInsert))
	} else {
		groups := make([]fragment.Fragment, len(d.Rows))
		for i, row := range d.Rows {
			values := make([]fragment.Fragment, len(columns))
			for j, col := range columns {
				values[j] = g.Mixed(row[col])
			}
			groups[i] = g.Group(g.Delimit(values))
		}
		parts = append(parts,
			g.Group(b.fields(columns)),
			fragment.Raw("VALUES"),
			g.Delimit(groups),
		)
	}

	if b.opts.Returning && d.Returning != "" {
		parts = append(parts, fragment.Raw("RETURNING"), b.field(d.Returning))
	}
	return StatementPhrase(g.Join(parts...)), nil
}

func insertColumns(rows []map[string]interface{}) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, row := range rows {
		for col := range row {
			if !seen[col] {
				seen[col] = true
				columns = append(columns, col)
			}
		}
	}
	sort.Strings(columns)
	return columns
}

// Update phrases UPDATE table SET ... WHERE. Assignments are rendered in
// column name order.
func (b *Base) Update(d UpdateData) (Phrase, error) {
	if d.Table == "" {
		return Phrase{}, ErrMissingTable
	}
	if len(d.Values) == 0 {
		return Phrase{}, ErrNoValues
	}
	g := b.Grammar

	keys := make([]string, 0, len(d.Values))
	for k := range d.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	sets := make([]fragment.Fragment, len(keys))
	for i, k := range keys {
		sets[i] = fragment.Concat(" = ", b.field(k), g.Mixed(d.Values[k]))
	}

	parts := []fragment.Fragment{fragment.Raw("UPDATE"), b.field(d.Table), fragment.Raw("SET"), g.Delimit(sets)}
	if d.Where != nil {
		where, err := b.Condition(d.Where)
		if err != nil {
			return Phrase{}, err
		}
		parts = append(parts, fragment.Raw("WHERE"), where)
	}
	return StatementPhrase(g.Join(parts...)), nil
}

// Delete phrases DELETE FROM table WHERE.
func (b *Base) Delete(d DeleteData) (Phrase, error) {
	if d.Table == "" {
		return Phrase{}, ErrMissingTable
	}
	parts := []fragment.Fragment{fragment.Raw("DELETE FROM"), b.field(d.Table)}
	if d.Where != nil {
		where, err := b.Condition(d.Where)
		if err != nil {
			return Phrase{}, err
		}
		parts = append(parts, fragment.Raw("WHERE"), where)
	}
	return StatementPhrase(b.Grammar.Join(parts...)), nil
}
