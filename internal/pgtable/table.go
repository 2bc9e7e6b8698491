// Package pgtable is the in-memory representation of a PostgreSQL table's
// identity and column schema, learned on the fly from a dump's DDL. See
// QualifiedName, Column, Table, and Registry.
package pgtable

import "strings"

// QualifiedName is a (schema, name) pair identifying a table. Two qualified
// names compare equal iff both components compare byte-equal after
// unquoting.
type QualifiedName struct {
	Schema string
	Name   string
}

// String renders "schema.name".
func (q QualifiedName) String() string {
	return q.Schema + "." + q.Name
}

// Unquote strips at most one pair of surrounding double quotes from an
// identifier, matching the dump's quoting convention for identifiers that
// need escaping.
func Unquote(ident string) string {
	if len(ident) >= 2 && ident[0] == '"' && ident[len(ident)-1] == '"' {
		return ident[1 : len(ident)-1]
	}
	return ident
}

// NewQualifiedName builds a QualifiedName from possibly-quoted identifier
// parts, unquoting each.
func NewQualifiedName(schema, name string) QualifiedName {
	return QualifiedName{Schema: Unquote(schema), Name: Unquote(name)}
}

// Column is one ordered field of a Table: its zero-based declaration
// position, its unquoted identifier, and the free-form declared type taken
// verbatim from the DDL.
type Column struct {
	Position     int
	Name         string
	DeclaredType string
}

// Table is a sealed table's identity plus its ordered columns. Two tables
// compare equal on qualified name only.
type Table struct {
	QualifiedName QualifiedName
	Columns       []Column
}

// Equal compares tables by qualified name only.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.QualifiedName == other.QualifiedName
}

// ColumnNames returns the column identifiers in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// ColumnByName looks up a column by its unquoted name.
func (t *Table) ColumnByName(name string) (Column, bool) {
	name = Unquote(name)
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// SameColumnOrder reports whether names, in order, matches the table's
// column names exactly (same length, same identifiers, same order) —
// the column alignment check a COPY header must pass.
func (t *Table) SameColumnOrder(names []string) bool {
	if len(names) != len(t.Columns) {
		return false
	}
	for i, n := range names {
		if Unquote(strings.TrimSpace(n)) != t.Columns[i].Name {
			return false
		}
	}
	return true
}

// Registry is a set of sealed tables keyed by qualified name. A table may be
// sealed at most once; Seal on an already-present name is a no-op, matching
// "subsequent CREATE TABLE lines for the same qualified name are ignored."
type Registry struct {
	tables map[QualifiedName]*Table
}

// NewRegistry creates an empty table registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[QualifiedName]*Table)}
}

// Seal commits a table to the registry if no table with the same qualified
// name is already sealed. Returns the table that ends up registered (either
// the new one, or the pre-existing one if this call was ignored).
func (r *Registry) Seal(t *Table) *Table {
	if existing, ok := r.tables[t.QualifiedName]; ok {
		return existing
	}
	r.tables[t.QualifiedName] = t
	return t
}

// Find returns the sealed table for a qualified name, if any.
func (r *Registry) Find(qn QualifiedName) (*Table, bool) {
	t, ok := r.tables[qn]
	return t, ok
}
