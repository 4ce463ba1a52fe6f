package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlphrase/internal/adapters/dialect"
	"github.com/satishbabariya/sqlphrase/internal/config"
	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/phrasing"
	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
	"github.com/satishbabariya/sqlphrase/internal/document"
	"github.com/satishbabariya/sqlphrase/internal/ui"
)

func setup(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	color.NoColor = true
	for _, key := range []string{"DATABASE_URL", "SQLPHRASE_DATABASE_URL", "SQLPHRASE_DIALECT", "SQLPHRASE_DEBUG"} {
		t.Setenv(key, "")
	}

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	prev := config.AppFs
	config.AppFs = fs
	t.Cleanup(func() { config.AppFs = prev })
	return fs
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestWhere(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "default dialect is postgres",
			args: []string{"where", "a = 1 and b$gt = 2"},
			want: []string{`"a" = $1 AND "b" > $2`, "-- args: [1 2]"},
		},
		{
			name: "explicit dialect",
			args: []string{"--dialect", "mysql", "where", "name$contains = 'go'"},
			want: []string{"`name` LIKE BINARY ?", "-- args: [%go%]"},
		},
		{
			name: "dialect inferred from url",
			args: []string{"--url", "app.db", "where", "a = 1"},
			want: []string{`"a" = ?`},
		},
		{
			name: "explicit dialect wins over url",
			args: []string{"--url", "app.db", "--dialect", "pg", "where", "a = 1"},
			want: []string{`"a" = $1`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setup(t, nil)
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestWhere_Errors(t *testing.T) {
	setup(t, nil)

	_, err := execute(t, "--dialect", "oracle", "where", "a = 1")
	assert.ErrorIs(t, err, dialect.ErrUnknownDialect)

	_, err = execute(t, "where", "a = 1 and")
	assert.Error(t, err)

	_, err = execute(t, "where")
	assert.Error(t, err)
}

func TestWhere_DialectFromConfigFile(t *testing.T) {
	setup(t, map[string]string{"/etc/sqlphrase.yaml": "dialect: sqlite\n"})

	out, err := execute(t, "--config", "/etc/sqlphrase.yaml", "where", "a = 1")
	require.NoError(t, err)
	assert.Contains(t, out, `"a" = ?`)
}

func TestPhrase(t *testing.T) {
	setup(t, map[string]string{"/work/statements.yaml": `
kind: begin
---
kind: select
table: users
columns: [id, email]
where: "age$gte = 18"
limit: 10
---
kind: delete
table: sessions
where:
  expires$lt: 100
---
kind: commit
`})

	out, err := execute(t, "--dialect", "mysql", "phrase", "/work/statements.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "BEGIN")
	assert.Contains(t, out, "SELECT `id`, `email` FROM `users` WHERE `age` >= ? LIMIT ?")
	assert.Contains(t, out, "-- args: [18 10]")
	assert.Contains(t, out, "DELETE FROM `sessions` WHERE `expires` < ?")
	assert.Contains(t, out, "COMMIT")
}

func TestPhrase_ProcedureDryRun(t *testing.T) {
	setup(t, map[string]string{"/work/alter.yaml": `
kind: alterTable
name: users
dropColumns: [legacy]
`})

	out, err := execute(t, "--dialect", "sqlite", "phrase", "/work/alter.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "-- procedure")
	assert.Contains(t, out, "PRAGMA legacy_alter_table = ON")
	// the recorder knows no tables, so the rebuild stops after inspection
	assert.Contains(t, out, "dry run stopped")
	assert.NotContains(t, out, "RENAME TO")
}

func TestPhrase_Errors(t *testing.T) {
	setup(t, map[string]string{
		"/work/bad.yaml":  "kind: frobnicate\n",
		"/work/none.yaml": "table: users\n",
	})

	_, err := execute(t, "phrase", "/work/missing.yaml")
	assert.Error(t, err)

	_, err = execute(t, "phrase", "/work/bad.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "frobnicate")

	_, err = execute(t, "phrase", "/work/none.yaml")
	assert.Error(t, err)
}

func TestPredicates(t *testing.T) {
	setup(t, nil)

	out, err := execute(t, "--dialect", "sqlite", "predicates", "--raw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# Predicates (sqlite)"))
	assert.Contains(t, out, "| in | `in` | `%s IN (%s)` |")
	assert.Contains(t, out, "`regex\\|matches`")
	assert.Contains(t, out, "REGEXP")
}

func TestInit(t *testing.T) {
	fs := setup(t, nil)

	out, err := execute(t, "--dialect", "mysql", "--url", "mysql://u@localhost/app", "init", "--dir", "/project")
	require.NoError(t, err)
	assert.Contains(t, out, "/project/.sqlphrase.yaml")

	written, err := afero.ReadFile(fs, "/project/.sqlphrase.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(written), "dialect: mysql")
	assert.Contains(t, string(written), "database_url: mysql://u@localhost/app")
}

func TestApply_RequiresURL(t *testing.T) {
	setup(t, map[string]string{"/work/s.yaml": "kind: begin\n"})

	_, err := execute(t, "apply", "/work/s.yaml", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no database URL")
}

func TestApply_Cancelled(t *testing.T) {
	setup(t, map[string]string{"/work/s.yaml": "kind: begin\n"})
	prev := confirm
	confirm = func(string) (bool, error) { return false, nil }
	t.Cleanup(func() { confirm = prev })

	out, err := execute(t, "--url", ":memory:", "apply", "/work/s.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled")
}

func TestApply_SQLite(t *testing.T) {
	setup(t, map[string]string{"/work/s.yaml": `
kind: createTable
name: notes
columns:
  - name: id
    type: serial
    primaryKey: true
  - name: body
    type: text
    notNull: true
---
kind: insert
table: notes
rows:
  - body: hello
  - body: world
---
kind: select
table: notes
columns: [body]
where: "body$startsWith = 'wor'"
`})

	out, err := execute(t, "--url", ":memory:", "apply", "/work/s.yaml", "--yes")
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED=0") {
		t.Skip("sqlite3 requires cgo")
	}
	require.NoError(t, err)
	assert.Contains(t, out, "world")
	assert.Contains(t, out, "Applied 3 document(s)")
}

func TestApply_TransactionSpansDocuments(t *testing.T) {
	setup(t, map[string]string{"/work/s.yaml": `
kind: createTable
name: notes
columns:
  - name: body
    type: text
---
kind: begin
---
kind: insert
table: notes
rows:
  - body: discarded
---
kind: rollback
---
kind: select
table: notes
columns: [body]
`})

	out, err := execute(t, "--url", ":memory:", "apply", "/work/s.yaml", "--yes")
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED=0") {
		t.Skip("sqlite3 requires cgo")
	}
	require.NoError(t, err)
	// only the insert's args mention the row; the select returns nothing
	assert.Equal(t, 1, strings.Count(out, "discarded"))
	assert.Contains(t, out, "Applied 5 document(s)")
}

func TestApply_RollsBackOpenTransaction(t *testing.T) {
	setup(t, map[string]string{"/work/s.yaml": `
kind: begin
---
kind: createTable
name: notes
columns:
  - name: body
    type: text
`})

	out, err := execute(t, "--url", ":memory:", "apply", "/work/s.yaml", "--yes")
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED=0") {
		t.Skip("sqlite3 requires cgo")
	}
	require.NoError(t, err)
	assert.Contains(t, out, "Rolled back the unfinished transaction")
}

func TestApplyAll(t *testing.T) {
	d, err := dialect.New("sqlite")
	require.NoError(t, err)
	begin, err := d.Phraser.Begin(0)
	require.NoError(t, err)
	insert := phrasing.StatementPhrase(fragment.Raw("INSERT INTO t VALUES (1)"))
	proc := phrasing.ProcedurePhrase(procedure.New("noop"))

	t.Run("unbalanced begin is rolled back", func(t *testing.T) {
		rec := procedure.NewRecorder()
		p := ui.NewPrinter(&bytes.Buffer{})
		err := applyAll(context.Background(), p, d, rec, []phrased{
			{kind: document.KindBegin, Phrase: begin},
			{kind: document.KindInsert, Phrase: insert},
		})
		require.NoError(t, err)
		queries := rec.Queries()
		require.Len(t, queries, 3)
		assert.Equal(t, "ROLLBACK", queries[2].SQL)
	})

	t.Run("nested levels close with the outer rollback", func(t *testing.T) {
		nested, err := d.Phraser.Begin(1)
		require.NoError(t, err)
		rollback, err := d.Phraser.Rollback(0)
		require.NoError(t, err)

		rec := procedure.NewRecorder()
		p := ui.NewPrinter(&bytes.Buffer{})
		err = applyAll(context.Background(), p, d, rec, []phrased{
			{kind: document.KindBegin, Phrase: begin},
			{kind: document.KindBegin, level: 1, Phrase: nested},
			{kind: document.KindRollback, Phrase: rollback},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{`SAVEPOINT "sp_0"`, `SAVEPOINT "sp_1"`, "ROLLBACK"}, rec.SQL())
	})

	t.Run("procedure inside a transaction", func(t *testing.T) {
		rec := procedure.NewRecorder()
		p := ui.NewPrinter(&bytes.Buffer{})
		err := applyAll(context.Background(), p, d, rec, []phrased{
			{kind: document.KindBegin, Phrase: begin},
			{kind: document.KindAlterTable, Phrase: proc},
		})
		assert.ErrorIs(t, err, ErrProcedureInTransaction)
		queries := rec.Queries()
		require.Len(t, queries, 2)
		assert.Equal(t, "ROLLBACK", queries[1].SQL)
	})
}

func TestVersion(t *testing.T) {
	setup(t, nil)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlphrase version dev")
	assert.Contains(t, out, "Go Version:")
}
