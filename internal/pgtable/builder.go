package pgtable

import "fmt"

// Builder is the small helper the filter's TableDefinition state drives:
// Begin, PushColumn, Seal. It enforces that no two columns in one table
// share a name and that column position is monotonically increasing;
// violations are fatal parse errors.
type Builder struct {
	qn      QualifiedName
	columns []Column
	seen    map[string]bool
}

// Begin starts a new table definition.
func (b *Builder) Begin(qn QualifiedName) {
	b.qn = qn
	b.columns = nil
	b.seen = make(map[string]bool)
}

// PushColumn appends a column at the next position. It returns an error if
// a column with the same name was already declared in this table.
func (b *Builder) PushColumn(name, declaredType string) error {
	name = Unquote(name)
	if b.seen[name] {
		return fmt.Errorf("duplicate column %q in table %s", name, b.qn)
	}
	b.seen[name] = true
	b.columns = append(b.columns, Column{
		Position:     len(b.columns),
		Name:         name,
		DeclaredType: declaredType,
	})
	return nil
}

// Seal finalizes the in-progress definition into an immutable Table.
func (b *Builder) Seal() *Table {
	t := &Table{QualifiedName: b.qn, Columns: b.columns}
	b.columns = nil
	b.seen = nil
	return t
}
