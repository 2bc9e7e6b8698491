package dumpfilter

import (
	"testing"

	"github.com/mbeynon/datanymizer/internal/pgtable"
	"github.com/stretchr/testify/assert"
)

func TestMatchCreateTable(t *testing.T) {
	qn, ok := matchCreateTable("CREATE TABLE public.actor (")
	assert.True(t, ok)
	assert.Equal(t, pgtable.NewQualifiedName("public", "actor"), qn)

	_, ok = matchCreateTable("CREATE TABLE public.actor")
	assert.False(t, ok)

	_, ok = matchCreateTable("ALTER TABLE public.actor ADD COLUMN x int;")
	assert.False(t, ok)
}

func TestMatchCreateTableQuotedIdentifiers(t *testing.T) {
	qn, ok := matchCreateTable(`CREATE TABLE "public"."actor" (`)
	assert.True(t, ok)
	assert.Equal(t, pgtable.NewQualifiedName("public", "actor"), qn)
}

func TestMatchColumnDeclaration(t *testing.T) {
	name, declaredType, ok := matchColumnDeclaration("    actor_id integer NOT NULL,")
	assert.True(t, ok)
	assert.Equal(t, "actor_id", name)
	assert.Equal(t, "integer NOT NULL", declaredType)
}

func TestMatchColumnDeclarationRejectsConstraints(t *testing.T) {
	_, _, ok := matchColumnDeclaration("    CONSTRAINT actor_pkey PRIMARY KEY (actor_id)")
	assert.False(t, ok)
}

func TestIsTableDefinitionTerminator(t *testing.T) {
	assert.True(t, isTableDefinitionTerminator(");"))
	assert.False(t, isTableDefinitionTerminator(");  "))
}

func TestMatchCopyFrom(t *testing.T) {
	qn, cols, ok := matchCopyFrom("COPY public.actor (actor_id, first_name) FROM STDIN;")
	assert.True(t, ok)
	assert.Equal(t, pgtable.NewQualifiedName("public", "actor"), qn)
	assert.Equal(t, []string{"actor_id", "first_name"}, cols)
}

func TestIsCopyTerminator(t *testing.T) {
	assert.True(t, isCopyTerminator(`\.`))
	assert.False(t, isCopyTerminator(`\. `))
}
