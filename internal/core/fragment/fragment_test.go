package fragment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satishbabariya/sqlphrase/internal/core/fragment"
)

func TestConcat(t *testing.T) {
	f := fragment.Concat(" AND ",
		fragment.New("a = ?", 1),
		fragment.Raw("b IS NULL"),
		fragment.New("c IN (?, ?)", 2, 3),
	)
	assert.Equal(t, "a = ? AND b IS NULL AND c IN (?, ?)", f.SQL)
	assert.Equal(t, []interface{}{1, 2, 3}, f.Args)
}

func TestFragment_IsEmpty(t *testing.T) {
	assert.True(t, fragment.Raw("").IsEmpty())
	assert.True(t, fragment.Raw("  ").IsEmpty())
	assert.False(t, fragment.Raw("1").IsEmpty())
}

func TestStatement_CopiesArgs(t *testing.T) {
	f := fragment.New("a = ?", 1)
	stmt := f.Statement()
	stmt.Args[0] = 2
	assert.Equal(t, []interface{}{1}, f.Args)

	back := stmt.Fragment()
	back.Args[0] = 3
	assert.Equal(t, []interface{}{2}, stmt.Args)

	assert.Nil(t, fragment.Raw("x").Statement().Args)
}

func TestMarkers(t *testing.T) {
	assert.Equal(t, "users.id", fragment.Field("users.id").Name())
	assert.Equal(t, "COUNT(*)", fragment.Literal("COUNT(*)").SQL())
}
