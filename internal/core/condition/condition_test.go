package condition_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/satishbabariya/sqlphrase/internal/core/condition"
	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
	"github.com/satishbabariya/sqlphrase/internal/core/grammar"
	"github.com/satishbabariya/sqlphrase/internal/core/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type obj = map[string]interface{}

func build(t *testing.T, parts ...interface{}) fragment.Statement {
	t.Helper()
	c, err := condition.New(parts...)
	require.NoError(t, err)
	stmt, err := c.Build(grammar.New(grammar.Options{}), translator.New(translator.Options{}))
	require.NoError(t, err)
	return stmt
}

func TestCondition_Build(t *testing.T) {
	tests := []struct {
		name     string
		parts    []interface{}
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "single key",
			parts:    []interface{}{obj{"a": 1}},
			wantSQL:  `"a" = ?`,
			wantArgs: []interface{}{1},
		},
		{
			name:     "map keys are sorted",
			parts:    []interface{}{obj{"b": 2, "a": 1}},
			wantSQL:  `"a" = ? AND "b" = ?`,
			wantArgs: []interface{}{1, 2},
		},
		{
			name:     "pairs keep their order",
			parts:    []interface{}{condition.Pairs{{Key: "b", Value: 2}, {Key: "a", Value: 1}}},
			wantSQL:  `"b" = ? AND "a" = ?`,
			wantArgs: []interface{}{2, 1},
		},
		{
			name:     "double negation",
			parts:    []interface{}{condition.Not, condition.Not, obj{"a": 1}},
			wantSQL:  `NOT NOT "a" = ?`,
			wantArgs: []interface{}{1},
		},
		{
			name: "nested group",
			parts: []interface{}{
				[]interface{}{obj{"a": 1}, condition.Or, obj{"a": 2}},
				condition.And,
				obj{"b": 3},
			},
			wantSQL:  `("a" = ? OR "a" = ?) AND "b" = ?`,
			wantArgs: []interface{}{1, 2, 3},
		},
		{
			name:     "string operator synonyms",
			parts:    []interface{}{obj{"a": 1}, "||", "!", obj{"b": 2}},
			wantSQL:  `"a" = ? OR NOT "b" = ?`,
			wantArgs: []interface{}{1, 2},
		},
		{
			name:     "left associative",
			parts:    []interface{}{obj{"a": 1}, condition.Or, obj{"b": 2}, condition.And, obj{"c": 3}},
			wantSQL:  `"a" = ? OR "b" = ? AND "c" = ?`,
			wantArgs: []interface{}{1, 2, 3},
		},
		{
			name: "mixed operators with explicit group",
			parts: []interface{}{
				obj{"a": 1}, condition.Or,
				[]interface{}{obj{"b": 2}, condition.And, obj{"c": 3}},
			},
			wantSQL:  `"a" = ? OR ("b" = ? AND "c" = ?)`,
			wantArgs: []interface{}{1, 2, 3},
		},
		{
			name:     "in expands to one placeholder per value",
			parts:    []interface{}{obj{"id$in": []int{5, 7, 9}}},
			wantSQL:  `"id" IN (?, ?, ?)`,
			wantArgs: []interface{}{5, 7, 9},
		},
		{
			name:     "between binds low then high",
			parts:    []interface{}{obj{"age[between]": []interface{}{18, 30}}},
			wantSQL:  `"age" BETWEEN ? AND ?`,
			wantArgs: []interface{}{18, 30},
		},
		{
			name:     "contains escapes like wildcards",
			parts:    []interface{}{obj{"name$contains": "50%"}},
			wantSQL:  `"name" LIKE ?`,
			wantArgs: []interface{}{`%50\%%`},
		},
		{
			name:    "isNull renders literal",
			parts:   []interface{}{obj{"deleted_at$isNull": true}},
			wantSQL: `"deleted_at" IS NULL`,
		},
		{
			name:    "isNull false",
			parts:   []interface{}{obj{"deleted_at$isNull": false}},
			wantSQL: `"deleted_at" IS NOT NULL`,
		},
		{
			name:    "field equality",
			parts:   []interface{}{"posts.author_id = users.id"},
			wantSQL: `"posts"."author_id" = "users"."id"`,
		},
		{
			name:     "predicate alias",
			parts:    []interface{}{obj{"a$eql": 1}},
			wantSQL:  `"a" = ?`,
			wantArgs: []interface{}{1},
		},
		{
			name:     "weekday name",
			parts:    []interface{}{obj{"created$weekday": "tuesday"}},
			wantSQL:  `EXTRACT(DOW FROM "created") = ?`,
			wantArgs: []interface{}{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := build(t, tt.parts...)
			assert.Equal(t, tt.wantSQL, stmt.SQL)
			if tt.wantArgs == nil {
				assert.Empty(t, stmt.Args)
			} else {
				assert.Equal(t, tt.wantArgs, stmt.Args)
			}
			assert.Equal(t, strings.Count(stmt.SQL, "?"), len(stmt.Args))
		})
	}
}

func TestCondition_ImplicitAndEqualsExplicitAnd(t *testing.T) {
	implicit := build(t, obj{"a": 1}, obj{"b": 2})
	explicit := build(t, obj{"a": 1}, condition.And, obj{"b": 2})
	assert.Equal(t, explicit, implicit)
}

func TestCondition_NewReturnsSameInstance(t *testing.T) {
	c := condition.MustNew(obj{"a": 1})
	same, err := condition.New(c)
	require.NoError(t, err)
	assert.Same(t, c, same)
}

func TestCondition_EmbeddedCondition(t *testing.T) {
	left := condition.MustNew(obj{"a": 1}, condition.Or, obj{"b": 2})
	stmt := build(t, left, obj{"c": 3})
	assert.Equal(t, `("a" = ? OR "b" = ?) AND "c" = ?`, stmt.SQL)
	assert.Equal(t, []interface{}{1, 2, 3}, stmt.Args)
}

func TestCondition_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		parts   []interface{}
		wantErr error
	}{
		{"empty", nil, condition.ErrConditionRequired},
		{"leading binary", []interface{}{condition.And, obj{"a": 1}}, condition.ErrMissingOperand},
		{"trailing binary", []interface{}{obj{"a": 1}, condition.Or}, condition.ErrMissingOperand},
		{"trailing unary", []interface{}{obj{"a": 1}, condition.And, condition.Not}, condition.ErrMissingOperand},
		{"implicit unary", []interface{}{obj{"a": 1}, condition.Not, obj{"a": 2}}, condition.ErrImplicitUnary},
		{"adjacent binary", []interface{}{obj{"a": 1}, condition.And, condition.Or, obj{"a": 2}}, condition.ErrOperatorAdjacency},
		{"unary before binary", []interface{}{obj{"a": 1}, condition.Not, condition.And, obj{"a": 2}}, condition.ErrImplicitUnary},
		{"empty object", []interface{}{obj{}}, condition.ErrEmptyObject},
		{"bare string", []interface{}{"nonsense"}, condition.ErrUnsupportedArgument},
		{"number", []interface{}{42}, condition.ErrUnsupportedArgument},
		{"nested error", []interface{}{[]interface{}{condition.Or}}, condition.ErrMissingOperand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := condition.New(tt.parts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCondition_AdjacencyErrorsAreDistinct(t *testing.T) {
	_, leading := condition.New(condition.And, obj{"a": 1})
	_, trailing := condition.New(obj{"a": 1}, condition.Or)
	_, implicit := condition.New(obj{"a": 1}, condition.Not, obj{"a": 2})

	require.Error(t, leading)
	require.Error(t, trailing)
	require.Error(t, implicit)
	assert.Contains(t, leading.Error(), "left hand side")
	assert.Contains(t, trailing.Error(), "right hand side")
	assert.NotEqual(t, leading.Error(), trailing.Error())
	assert.NotEqual(t, trailing.Error(), implicit.Error())
}

func TestCondition_UnresolvedPredicate(t *testing.T) {
	c := condition.MustNew(obj{"name$bogus": "x"})
	_, err := c.Build(grammar.New(grammar.Options{}), translator.New(translator.Options{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, translator.ErrUnresolvedPredicate)
	assert.Contains(t, err.Error(), "bogus")
}

func TestCondition_InvalidPredicateValues(t *testing.T) {
	g := grammar.New(grammar.Options{})
	tr := translator.New(translator.Options{})

	_, err := condition.MustNew(obj{"id$in": []int{}}).Build(g, tr)
	assert.ErrorIs(t, err, translator.ErrInvalidPredicateValue)

	_, err = condition.MustNew(obj{"age$between": []int{1}}).Build(g, tr)
	assert.ErrorIs(t, err, translator.ErrInvalidPredicateValue)
}

func TestCondition_BuildIsRepeatable(t *testing.T) {
	c := condition.MustNew(obj{"id$in": []int{1, 2}}, condition.Or, obj{"name$startsWith": "a"})
	g := grammar.New(grammar.Options{})
	tr := translator.New(translator.Options{})

	first, err := c.Build(g, tr)
	require.NoError(t, err)
	second, err := c.Build(g, tr)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCondition_ConcurrentBuild(t *testing.T) {
	c := condition.MustNew(obj{"a$gt": 1}, obj{"b$iContains": "x"})
	g := grammar.New(grammar.Options{})
	tr := translator.New(translator.Options{})

	var wg sync.WaitGroup
	results := make([]fragment.Statement, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stmt, err := c.Build(g, tr)
			assert.NoError(t, err)
			results[i] = stmt
		}(i)
	}
	wg.Wait()

	for _, stmt := range results[1:] {
		assert.Equal(t, results[0], stmt)
	}
}

func TestCondition_TransformExpressions(t *testing.T) {
	original := condition.MustNew(obj{"author": "ann"}, condition.Or, obj{"title$contains": "go"})
	g := grammar.New(grammar.Options{})
	tr := translator.New(translator.Options{})

	before, err := original.Build(g, tr)
	require.NoError(t, err)

	transformed := original.TransformExpressions(func(predicate, field string, value interface{}) (string, interface{}) {
		if field == "author" {
			return "users.name", strings.ToUpper(value.(string))
		}
		return field, value
	})
	require.NotSame(t, original, transformed)

	got, err := transformed.Build(g, tr)
	require.NoError(t, err)
	assert.Equal(t, `"users"."name" = ? OR "title" LIKE ?`, got.SQL)
	assert.Equal(t, []interface{}{"ANN", "%go%"}, got.Args)

	after, err := original.Build(g, tr)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, original.Parts(), transformed.Parts())
}

func TestCondition_ReduceFields(t *testing.T) {
	c := condition.MustNew(
		obj{"a": 1, "b$gt": 2},
		condition.Or,
		[]interface{}{condition.Not, obj{"a$lt": 0}},
	)

	count := condition.ReduceFields(c, func(acc int, _, _ string, _ interface{}) int {
		return acc + 1
	}, 0)
	assert.Equal(t, 3, count)

	predicates := condition.ReduceFields(c, func(acc []string, predicate, field string, _ interface{}) []string {
		return append(acc, field+":"+predicate)
	}, nil)
	assert.Equal(t, []string{"a:exact", "b:gt", "a:lt"}, predicates)

	assert.Equal(t, []string{"a", "b"}, c.Fields())
}
