package ui_test

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
	"github.com/satishbabariya/sqlphrase/internal/ui"
)

func withColor(t *testing.T, enabled bool) {
	t.Helper()
	prev := color.NoColor
	color.NoColor = !enabled
	t.Cleanup(func() { color.NoColor = prev })
}

func TestHighlight_NoColor(t *testing.T) {
	withColor(t, false)
	sql := `SELECT * FROM "t" WHERE "a" = ?`
	assert.Equal(t, sql, ui.Highlight(sql))
}

func TestHighlight_SkipsQuotedText(t *testing.T) {
	withColor(t, true)
	got := ui.Highlight(`SELECT "FROM" FROM "t" WHERE "a" = 'AND' AND "b" = $1`)

	assert.Contains(t, got, `"FROM"`)
	assert.Contains(t, got, `'AND'`)
	assert.Contains(t, got, color.New(color.FgCyan, color.Bold).Sprint("SELECT"))
	assert.Contains(t, got, color.New(color.FgYellow).Sprint("$1"))
}

func TestPrinter_Statement(t *testing.T) {
	withColor(t, false)
	var buf bytes.Buffer
	p := ui.NewPrinter(&buf)

	p.Statement(fragment.Statement{SQL: `DELETE FROM "t" WHERE "id" = ?`, Args: []interface{}{7}})
	p.Statement(fragment.Statement{SQL: "COMMIT"})
	assert.Equal(t, "DELETE FROM \"t\" WHERE \"id\" = ?\n-- args: [7]\nCOMMIT\n", buf.String())
}

func TestTable(t *testing.T) {
	data := ui.Table([]procedure.Row{
		{"name": "Ann", "id": int64(1)},
		{"id": int64(2), "name": nil, "email": "b@x"},
	})
	require.Len(t, data, 3)
	assert.Equal(t, []string{"email", "id", "name"}, data[0])
	assert.Equal(t, []string{"NULL", "1", "Ann"}, data[1])
	assert.Equal(t, []string{"b@x", "2", "NULL"}, data[2])
}

func TestPrinter_Rows(t *testing.T) {
	withColor(t, false)
	var buf bytes.Buffer
	p := ui.NewPrinter(&buf)

	require.NoError(t, p.Rows(nil))
	assert.Contains(t, buf.String(), "(no rows)")

	buf.Reset()
	require.NoError(t, p.Rows([]procedure.Row{{"id": int64(1), "name": "Ann"}}))
	assert.Contains(t, buf.String(), "Ann")
	assert.Contains(t, buf.String(), "name")
}

func TestPrinter_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ui.NewPrinter(&buf).Markdown("# Predicates\n\n`contains`\n"))
	assert.Contains(t, buf.String(), "Predicates")
	assert.Contains(t, buf.String(), "contains")
}
