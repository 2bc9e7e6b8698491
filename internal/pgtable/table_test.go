package pgtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnquote(t *testing.T) {
	assert.Equal(t, "actor", Unquote("actor"))
	assert.Equal(t, "actor", Unquote(`"actor"`))
	assert.Equal(t, `"actor`, Unquote(`"actor`))
}

func TestNewQualifiedName(t *testing.T) {
	qn := NewQualifiedName(`"public"`, `"actor"`)
	assert.Equal(t, QualifiedName{Schema: "public", Name: "actor"}, qn)
	assert.Equal(t, "public.actor", qn.String())
}

func TestTableEqualByQualifiedNameOnly(t *testing.T) {
	t1 := &Table{QualifiedName: QualifiedName{"public", "actor"}, Columns: []Column{{Name: "a"}}}
	t2 := &Table{QualifiedName: QualifiedName{"public", "actor"}, Columns: []Column{{Name: "b"}, {Name: "c"}}}
	assert.True(t, t1.Equal(t2))
}

func TestSameColumnOrder(t *testing.T) {
	tbl := &Table{Columns: []Column{{Name: "actor_id"}, {Name: "first_name"}}}
	assert.True(t, tbl.SameColumnOrder([]string{"actor_id", "first_name"}))
	assert.False(t, tbl.SameColumnOrder([]string{"first_name", "actor_id"}))
	assert.False(t, tbl.SameColumnOrder([]string{"actor_id"}))
}

func TestColumnByName(t *testing.T) {
	tbl := &Table{Columns: []Column{{Name: "actor_id"}, {Name: "first_name"}}}

	col, ok := tbl.ColumnByName("first_name")
	require.True(t, ok)
	assert.Equal(t, "first_name", col.Name)

	col, ok = tbl.ColumnByName(`"first_name"`)
	require.True(t, ok, "ColumnByName must unquote before comparing")
	assert.Equal(t, "first_name", col.Name)

	_, ok = tbl.ColumnByName("frist_name")
	assert.False(t, ok)
}

func TestRegistrySealsOnce(t *testing.T) {
	r := NewRegistry()
	qn := QualifiedName{"public", "actor"}
	first := &Table{QualifiedName: qn, Columns: []Column{{Name: "a"}}}
	second := &Table{QualifiedName: qn, Columns: []Column{{Name: "a"}, {Name: "b"}}}

	got := r.Seal(first)
	require.Same(t, first, got)

	got2 := r.Seal(second)
	assert.Same(t, first, got2, "second CREATE TABLE for the same name must be ignored")

	found, ok := r.Find(qn)
	require.True(t, ok)
	assert.Same(t, first, found)
}

func TestRegistryFindMissing(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Find(QualifiedName{"public", "missing"})
	assert.False(t, ok)
}
