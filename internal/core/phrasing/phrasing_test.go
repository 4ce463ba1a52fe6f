package phrasing_test

import (
	"context"
	"testing"

	"github.com/satishbabariya/sqlphrase/internal/core/condition"
	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/grammar"
	"github.com/satishbabariya/sqlphrase/internal/core/phrasing"
	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
	"github.com/satishbabariya/sqlphrase/internal/core/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type obj = map[string]interface{}

func newBase(opts phrasing.Options) *phrasing.Base {
	return phrasing.New(grammar.New(grammar.Options{}), translator.New(translator.Options{}), opts)
}

func intp(n int) *int { return &n }

func statement(t *testing.T) func(phrasing.Phrase, error) fragment.Statement {
	return func(p phrasing.Phrase, err error) fragment.Statement {
		t.Helper()
		require.NoError(t, err)
		require.NotNil(t, p.Statement)
		return *p.Statement
	}
}

func TestBase_Select(t *testing.T) {
	b := newBase(phrasing.Options{})

	stmt := statement(t)(b.Select(phrasing.SelectData{
		Table:   "users",
		Alias:   "u",
		Columns: []interface{}{"u.id", "u.name", fragment.Literal("COUNT(p.id) AS posts")},
		Joins: []phrasing.Join{{
			Type:  "left",
			Table: "posts",
			Alias: "p",
			On:    condition.MustNew("p.author_id = u.id", obj{"p.published": true}),
		}},
		Where:   condition.MustNew(obj{"u.age$gte": 18}),
		GroupBy: []string{"u.id", "u.name"},
		Order:   []phrasing.Order{{Field: "u.name"}, {Field: "u.id", Descending: true}},
		Limit:   intp(10),
		Offset:  intp(20),
	}))

	assert.Equal(t, `SELECT "u"."id", "u"."name", COUNT(p.id) AS posts FROM "users" AS "u" `+
		`LEFT OUTER JOIN "posts" AS "p" ON "p"."author_id" = "u"."id" AND "p"."published" = ? `+
		`WHERE "u"."age" >= ? GROUP BY "u"."id", "u"."name" ORDER BY "u"."name" ASC, "u"."id" DESC `+
		`LIMIT ? OFFSET ?`, stmt.SQL)
	assert.Equal(t, []interface{}{true, 18, 10, 20}, stmt.Args)
}

func TestBase_SelectOmitsAbsentClauses(t *testing.T) {
	b := newBase(phrasing.Options{})
	stmt := statement(t)(b.Select(phrasing.SelectData{Table: "users", Distinct: true}))
	assert.Equal(t, `SELECT DISTINCT * FROM "users"`, stmt.SQL)
	assert.Empty(t, stmt.Args)
}

func TestBase_SelectOffsetOnly(t *testing.T) {
	stmt := statement(t)(newBase(phrasing.Options{}).Select(phrasing.SelectData{Table: "t", Offset: intp(5)}))
	assert.Equal(t, `SELECT * FROM "t" OFFSET ?`, stmt.SQL)

	stmt = statement(t)(newBase(phrasing.Options{UnboundedLimit: "-1"}).Select(phrasing.SelectData{Table: "t", Offset: intp(5)}))
	assert.Equal(t, `SELECT * FROM "t" LIMIT -1 OFFSET ?`, stmt.SQL)
	assert.Equal(t, []interface{}{5}, stmt.Args)

	_, err := newBase(phrasing.Options{}).Select(phrasing.SelectData{Table: "t", Limit: intp(-1)})
	assert.ErrorIs(t, err, phrasing.ErrInvalidLimit)
}

func TestBase_Insert(t *testing.T) {
	b := newBase(phrasing.Options{Returning: true})

	stmt := statement(t)(b.Insert(phrasing.InsertData{
		Table: "users",
		Rows: []map[string]interface{}{
			{"name": "ann", "age": 30},
			{"name": "bob", "email": "bob@example.com"},
		},
		Returning: "id",
	}))
	assert.Equal(t, `INSERT INTO "users" ("age", "email", "name") VALUES (?, ?, ?), (?, ?, ?) RETURNING "id"`, stmt.SQL)
	assert.Equal(t, []interface{}{30, nil, "ann", nil, "bob@example.com", "bob"}, stmt.Args)
}

func TestBase_InsertWithoutColumns(t *testing.T) {
	stmt := statement(t)(newBase(phrasing.Options{}).Insert(phrasing.InsertData{Table: "counters", Returning: "id"}))
	assert.Equal(t, `INSERT INTO "counters" DEFAULT VALUES`, stmt.SQL)
}

func TestBase_Update(t *testing.T) {
	b := newBase(phrasing.Options{})
	stmt := statement(t)(b.Update(phrasing.UpdateData{
		Table:  "accounts",
		Values: obj{"balance": 0, "previous": fragment.Field("balance")},
		Where:  condition.MustNew(obj{"id$in": []int{1, 2}}),
	}))
	assert.Equal(t, `UPDATE "accounts" SET "balance" = ?, "previous" = "balance" WHERE "id" IN (?, ?)`, stmt.SQL)
	assert.Equal(t, []interface{}{0, 1, 2}, stmt.Args)

	_, err := b.Update(phrasing.UpdateData{Table: "accounts"})
	assert.ErrorIs(t, err, phrasing.ErrNoValues)
}

func TestBase_Delete(t *testing.T) {
	b := newBase(phrasing.Options{})

	stmt := statement(t)(b.Delete(phrasing.DeleteData{Table: "sessions"}))
	assert.Equal(t, `DELETE FROM "sessions"`, stmt.SQL)

	stmt = statement(t)(b.Delete(phrasing.DeleteData{Table: "sessions", Where: condition.MustNew(obj{"expires$lt": 100})}))
	assert.Equal(t, `DELETE FROM "sessions" WHERE "expires" < ?`, stmt.SQL)
	assert.Equal(t, []interface{}{100}, stmt.Args)
}

func TestBase_CreateTable(t *testing.T) {
	b := newBase(phrasing.Options{})
	stmt := statement(t)(b.CreateTable(phrasing.CreateTableData{
		Name: "posts",
		Columns: []phrasing.Column{
			{Name: "id", Type: translator.Serial, PrimaryKey: true},
			{Name: "title", Type: translator.String, Options: translator.TypeOptions{Length: 80}, NotNull: true},
			{Name: "status", Type: translator.String, Default: "draft"},
			{Name: "created", Type: translator.DateTime, Default: fragment.Literal("CURRENT_TIMESTAMP")},
			{Name: "author_id", Type: translator.Integer, References: "users.id", OnDelete: "cascade", OnUpdate: "nullify"},
			{Name: "parent_id", Type: translator.Integer, References: "id"},
		},
	}))
	assert.Equal(t, `CREATE TABLE "posts" (`+
		`"id" serial PRIMARY KEY, `+
		`"title" varchar(80) NOT NULL, `+
		`"status" varchar(255) DEFAULT 'draft', `+
		`"created" timestamp DEFAULT CURRENT_TIMESTAMP, `+
		`"author_id" integer REFERENCES "users" ("id") ON DELETE CASCADE ON UPDATE SET NULL, `+
		`"parent_id" integer REFERENCES "posts" ("id"))`, stmt.SQL)
	assert.Empty(t, stmt.Args)
}

func TestBase_CreateTableSeparateForeignKeys(t *testing.T) {
	b := newBase(phrasing.Options{SeparateForeignKeys: true})
	stmt := statement(t)(b.CreateTable(phrasing.CreateTableData{
		Name: "posts",
		Columns: []phrasing.Column{
			{Name: "id", Type: translator.Integer, PrimaryKey: true},
			{Name: "author_id", Type: translator.Integer, References: "users.id", OnDelete: "restrict"},
		},
	}))
	assert.Equal(t, `CREATE TABLE "posts" ("id" integer PRIMARY KEY, "author_id" integer, `+
		`FOREIGN KEY ("author_id") REFERENCES "users" ("id") ON DELETE RESTRICT)`, stmt.SQL)
}

func TestBase_ColumnErrors(t *testing.T) {
	b := newBase(phrasing.Options{})

	tests := []struct {
		name    string
		column  phrasing.Column
		wantErr error
	}{
		{"reference shape", phrasing.Column{Name: "a", Type: translator.Integer, References: "a.b.c"}, phrasing.ErrInvalidReference},
		{"empty reference part", phrasing.Column{Name: "a", Type: translator.Integer, References: "users."}, phrasing.ErrInvalidReference},
		{"unknown action", phrasing.Column{Name: "a", Type: translator.Integer, References: "users.id", OnDelete: "explode"}, phrasing.ErrUnknownAction},
		{"unknown type", phrasing.Column{Name: "a", Type: "money"}, translator.ErrUnknownColumnType},
		{"bad decimal", phrasing.Column{Name: "a", Type: translator.Decimal, Options: translator.TypeOptions{Scale: 2}}, translator.ErrInvalidTypeOptions},
		{"unescapable default", phrasing.Column{Name: "a", Type: translator.Bool, Default: true}, grammar.ErrUnescapable},
		{"missing name", phrasing.Column{Type: translator.Integer}, phrasing.ErrMissingColumn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.CreateTable(phrasing.CreateTableData{Name: "t", Columns: []phrasing.Column{tt.column}})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := b.CreateTable(phrasing.CreateTableData{Name: "t"})
	assert.ErrorIs(t, err, phrasing.ErrNoColumns)
}

func TestBase_AlterTable(t *testing.T) {
	b := newBase(phrasing.Options{})

	p, err := b.AlterTable(phrasing.AlterTableData{Name: "users"})
	require.NoError(t, err)
	assert.True(t, p.IsEmpty())

	stmt := statement(t)(b.AlterTable(phrasing.AlterTableData{
		Name:          "users",
		AddColumns:    []phrasing.Column{{Name: "bio", Type: translator.Text}},
		DropColumns:   []string{"legacy"},
		RenameColumns: []phrasing.Rename{{From: "mail", To: "email"}},
		AddIndexes:    []phrasing.Index{{Columns: []string{"email"}, Unique: true}},
		DropIndexes:   []string{"old_idx"},
		RenameIndexes: []phrasing.Rename{{From: "a_idx", To: "b_idx"}},
	}))
	assert.Equal(t, `ALTER TABLE "users" ADD COLUMN "bio" text, DROP COLUMN "legacy", `+
		`RENAME COLUMN "mail" TO "email", ADD UNIQUE INDEX "users_email_idx" ("email"), `+
		`DROP INDEX "old_idx", RENAME INDEX "a_idx" TO "b_idx"`, stmt.SQL)
}

func TestBase_AlterTableSingleIndexOperation(t *testing.T) {
	b := newBase(phrasing.Options{})

	stmt := statement(t)(b.AlterTable(phrasing.AlterTableData{
		Name:       "users",
		AddIndexes: []phrasing.Index{{Name: "by_name", Columns: []string{"last", "first"}}},
	}))
	assert.Equal(t, `CREATE INDEX "by_name" ON "users" ("last", "first")`, stmt.SQL)

	stmt = statement(t)(b.AlterTable(phrasing.AlterTableData{Name: "users", DropIndexes: []string{"by_name"}}))
	assert.Equal(t, `DROP INDEX "by_name"`, stmt.SQL)

	stmt = statement(t)(b.AlterTable(phrasing.AlterTableData{Name: "users", RenameIndexes: []phrasing.Rename{{From: "a", To: "b"}}}))
	assert.Equal(t, `ALTER INDEX "a" RENAME TO "b"`, stmt.SQL)
}

// renamer overrides RenameIndex to check that AlterTable delegates to the
// bound phraser.
type renamer struct {
	*phrasing.Base
}

func (r *renamer) RenameIndex(d phrasing.RenameIndexData) (phrasing.Phrase, error) {
	return phrasing.ProcedurePhrase(procedure.Statements("rename " + d.From)), nil
}

func TestBase_BindDelegates(t *testing.T) {
	r := &renamer{Base: newBase(phrasing.Options{})}
	r.Bind(r)

	p, err := r.AlterTable(phrasing.AlterTableData{Name: "users", RenameIndexes: []phrasing.Rename{{From: "a", To: "b"}}})
	require.NoError(t, err)
	require.NotNil(t, p.Procedure)
	assert.Equal(t, "rename a", p.Procedure.Name())
}

func TestBase_TableStatements(t *testing.T) {
	b := newBase(phrasing.Options{})

	stmt := statement(t)(b.DropTable(phrasing.DropTableData{Name: "users", IfExists: true}))
	assert.Equal(t, `DROP TABLE IF EXISTS "users"`, stmt.SQL)

	stmt = statement(t)(b.RenameTable(phrasing.RenameTableData{From: "users", To: "people"}))
	assert.Equal(t, `ALTER TABLE "users" RENAME TO "people"`, stmt.SQL)

	_, err := b.CreateIndex(phrasing.CreateIndexData{Table: "users"})
	assert.ErrorIs(t, err, phrasing.ErrInvalidIndex)
}

func TestBase_Transactions(t *testing.T) {
	b := newBase(phrasing.Options{})

	for _, tt := range []struct {
		phrase func(int) (phrasing.Phrase, error)
		level  int
		want   string
	}{
		{b.Begin, 0, "BEGIN"},
		{b.Commit, 0, "COMMIT"},
		{b.Rollback, 0, "ROLLBACK"},
		{b.Begin, 2, `SAVEPOINT "sp_2"`},
		{b.Commit, 2, `RELEASE SAVEPOINT "sp_2"`},
		{b.Rollback, 1, `ROLLBACK TO SAVEPOINT "sp_1"`},
	} {
		assert.Equal(t, tt.want, statement(t)(tt.phrase(tt.level)).SQL)
	}

	_, err := b.Begin(-1)
	assert.ErrorIs(t, err, phrasing.ErrInvalidLevel)
}

func TestPhrase_Execute(t *testing.T) {
	rec := procedure.NewRecorder().Respond("SELECT", procedure.Row{"n": 1})
	b := newBase(phrasing.Options{})

	p, err := b.Select(phrasing.SelectData{Table: "t", Where: condition.MustNew(obj{"a": 1})})
	require.NoError(t, err)
	rows, err := p.Execute(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, []procedure.Row{{"n": 1}}, rows)
	assert.Equal(t, []interface{}{1}, rec.Queries()[0].Args)

	empty := phrasing.Phrase{}
	rows, err = empty.Execute(context.Background(), rec)
	assert.NoError(t, err)
	assert.Nil(t, rows)
	assert.Equal(t, "", empty.String())
}
