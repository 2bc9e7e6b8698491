package pgtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderPositionsAreSequential(t *testing.T) {
	var b Builder
	b.Begin(QualifiedName{"public", "actor"})
	require.NoError(t, b.PushColumn("actor_id", "integer NOT NULL"))
	require.NoError(t, b.PushColumn("first_name", "text NOT NULL"))

	tbl := b.Seal()
	require.Len(t, tbl.Columns, 2)
	assert.Equal(t, 0, tbl.Columns[0].Position)
	assert.Equal(t, 1, tbl.Columns[1].Position)
	assert.Equal(t, "actor_id", tbl.Columns[0].Name)
	assert.Equal(t, "integer NOT NULL", tbl.Columns[0].DeclaredType)
}

func TestBuilderRejectsDuplicateColumnName(t *testing.T) {
	var b Builder
	b.Begin(QualifiedName{"public", "actor"})
	require.NoError(t, b.PushColumn("id", "integer"))
	err := b.PushColumn("id", "text")
	assert.Error(t, err)
}

func TestBuilderUnquotesColumnNames(t *testing.T) {
	var b Builder
	b.Begin(QualifiedName{"public", "actor"})
	require.NoError(t, b.PushColumn(`"order"`, "text"))
	tbl := b.Seal()
	assert.Equal(t, "order", tbl.Columns[0].Name)
}
