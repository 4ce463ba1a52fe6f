package postgres_test

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlphrase/internal/adapters/dialect/postgres"
	"github.com/satishbabariya/sqlphrase/internal/core/condition"
	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/phrasing"
	"github.com/satishbabariya/sqlphrase/internal/core/procedure"
	"github.com/satishbabariya/sqlphrase/internal/core/translator"
)

type obj = map[string]interface{}

func intp(n int) *int { return &n }

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
}

func render(stmt *fragment.Statement) []byte {
	return []byte(fmt.Sprintf("%s\n-- args: %v\n", stmt.SQL, stmt.Args))
}

func TestPhraser_SelectGolden(t *testing.T) {
	p := postgres.NewPhraser()

	ph, err := p.Select(phrasing.SelectData{
		Table:   "users",
		Alias:   "u",
		Columns: []interface{}{"u.id", "u.email"},
		Where: condition.MustNew(
			[]interface{}{obj{"u.age$gt": 18}, condition.Or, obj{"u.vip": true}},
			obj{"u.id$in": []int{1, 2, 3}},
			condition.And,
			condition.Not,
			obj{"u.email$iEndsWith": "@example.com"},
		),
		Order:  []phrasing.Order{{Field: "u.id", Descending: true}},
		Limit:  intp(10),
		Offset: intp(20),
	})
	require.NoError(t, err)
	golden(t).Assert(t, "select_nested", render(ph.Statement))
}

func TestPhraser_CreateTableGolden(t *testing.T) {
	p := postgres.NewPhraser()

	ph, err := p.CreateTable(phrasing.CreateTableData{
		Name: "posts",
		Columns: []phrasing.Column{
			{Name: "id", Type: translator.Serial, PrimaryKey: true},
			{Name: "title", Type: translator.String, Options: translator.TypeOptions{Length: 120}, NotNull: true},
			{Name: "body", Type: translator.Text},
			{Name: "score", Type: translator.Float, Default: 0},
			{Name: "published_at", Type: translator.DateTime},
			{Name: "author_id", Type: translator.Integer, NotNull: true, References: "users.id", OnDelete: "cascade"},
		},
	})
	require.NoError(t, err)
	golden(t).Assert(t, "create_table", render(ph.Statement))
}

func TestRenumber(t *testing.T) {
	assert.Equal(t, `SELECT '$1', "$2", $1, $2`, postgres.Renumber(`SELECT '$1', "$2", $1, $1`))
	assert.Equal(t, `a = 'it''s $1' AND b = $1`, postgres.Renumber(`a = 'it''s $1' AND b = $7`))
	assert.Equal(t, `price > $1 AND tag = '$'`, postgres.Renumber(`price > $1 AND tag = '$'`))
}

var placeholder = regexp.MustCompile(`\$(\d+)`)

func TestGrammar_PlaceholdersStaySequentialAcrossNesting(t *testing.T) {
	g := postgres.NewGrammar()
	tr := postgres.NewTranslator()

	inner := condition.MustNew(obj{"a": 1}, condition.Or, obj{"b$between": []int{2, 3}})
	middle := condition.MustNew(inner, condition.And, []interface{}{condition.Not, obj{"c$in": []int{4, 5, 6}}})
	outer := condition.MustNew(obj{"d": 7}, condition.Or, middle, []interface{}{inner, obj{"e": 8}})

	// each sub-condition restarts at $1 when built alone
	alone, err := inner.Build(g, tr)
	require.NoError(t, err)
	assert.Equal(t, `"a" = $1 OR "b" BETWEEN $2 AND $3`, alone.SQL)

	stmt, err := outer.Build(g, tr)
	require.NoError(t, err)

	matches := placeholder.FindAllStringSubmatch(stmt.SQL, -1)
	require.Len(t, matches, len(stmt.Args))
	for i, m := range matches {
		n, err := strconv.Atoi(m[1])
		require.NoError(t, err)
		assert.Equal(t, i+1, n)
	}
	assert.Equal(t, []interface{}{7, 1, 2, 3, 4, 5, 6, 1, 2, 3, 8}, stmt.Args)
}

func TestPhraser_SelectEmbedsConditionWithSequentialPlaceholders(t *testing.T) {
	p := postgres.NewPhraser()

	ph, err := p.Select(phrasing.SelectData{
		Table: "posts",
		Joins: []phrasing.Join{{Table: "users", On: condition.MustNew("users.id = posts.author_id", obj{"users.active": true})}},
		Where: condition.MustNew(obj{"posts.title$contains": "go"}),
		Limit: intp(5),
	})
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "posts" INNER JOIN "users" ON "users"."id" = "posts"."author_id" AND "users"."active" = $1 `+
		`WHERE "posts"."title"::text LIKE $2 LIMIT $3`, ph.Statement.SQL)
	assert.Equal(t, []interface{}{true, "%go%", 5}, ph.Statement.Args)
}

func TestPhraser_InsertReturning(t *testing.T) {
	p := postgres.NewPhraser()

	ph, err := p.Insert(phrasing.InsertData{
		Table:     "users",
		Rows:      []map[string]interface{}{{"name": "ann", "email": "a@x"}, {"name": "bob", "email": "b@x"}},
		Returning: "id",
	})
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "users" ("email", "name") VALUES ($1, $2), ($3, $4) RETURNING "id"`, ph.Statement.SQL)
	assert.Equal(t, []interface{}{"a@x", "ann", "b@x", "bob"}, ph.Statement.Args)
}

func TestTranslator(t *testing.T) {
	tr := postgres.NewTranslator()

	p, err := tr.Predicate("iExact", fragment.Field("name"), "a_b")
	require.NoError(t, err)
	assert.Equal(t, "%s::text ILIKE %s", p.Format)
	assert.Equal(t, `a\_b`, p.Args[1])

	p, err = tr.Predicate("regex", fragment.Field("name"), regexp.MustCompile(`^\d+$`))
	require.NoError(t, err)
	assert.Equal(t, "%s::text ~ %s", p.Format)
	assert.Equal(t, `^\d+$`, p.Args[1])

	for ct, want := range map[translator.ColumnType]string{
		translator.Binary:  "bytea",
		translator.Float:   "double precision",
		translator.Integer: "integer",
		translator.Serial:  "serial",
	} {
		got, err := tr.Type(ct, translator.TypeOptions{})
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := tr.Type(translator.Decimal, translator.TypeOptions{Precision: 10, Scale: 2})
	require.NoError(t, err)
	assert.Equal(t, "numeric(10, 2)", got)
}

func TestPhraser_AlterTable(t *testing.T) {
	p := postgres.NewPhraser()

	ph, err := p.AlterTable(phrasing.AlterTableData{
		Name:        "users",
		AddColumns:  []phrasing.Column{{Name: "bio", Type: translator.Text}},
		DropColumns: []string{"legacy"},
	})
	require.NoError(t, err)
	require.NotNil(t, ph.Statement)
	assert.Equal(t, `ALTER TABLE "users" ADD COLUMN "bio" text, DROP COLUMN "legacy"`, ph.Statement.SQL)

	ph, err = p.AlterTable(phrasing.AlterTableData{
		Name:          "users",
		AddColumns:    []phrasing.Column{{Name: "bio", Type: translator.Text}},
		DropColumns:   []string{"legacy"},
		RenameColumns: []phrasing.Rename{{From: "mail", To: "email"}},
		AddIndexes:    []phrasing.Index{{Columns: []string{"email"}, Unique: true}},
		RenameIndexes: []phrasing.Rename{{From: "a", To: "b"}},
	})
	require.NoError(t, err)
	require.NotNil(t, ph.Procedure)

	rec := procedure.NewRecorder()
	require.NoError(t, ph.Procedure.Run(context.Background(), rec))
	assert.Equal(t, []string{
		`ALTER TABLE "users" ADD COLUMN "bio" text, DROP COLUMN "legacy"`,
		`ALTER TABLE "users" RENAME COLUMN "mail" TO "email"`,
		`CREATE UNIQUE INDEX "users_email_idx" ON "users" ("email")`,
		`ALTER INDEX "a" RENAME TO "b"`,
	}, rec.SQL())
	assert.Equal(t, 1, rec.Committed)
}

func TestPhraser_SingleIndexOperation(t *testing.T) {
	p := postgres.NewPhraser()

	ph, err := p.AlterTable(phrasing.AlterTableData{Name: "users", DropIndexes: []string{"users_email_idx"}})
	require.NoError(t, err)
	assert.Equal(t, `DROP INDEX "users_email_idx"`, ph.Statement.SQL)
}
