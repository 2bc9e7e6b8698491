// Package transform implements the library of value transformers: pure
// rules that, given a field name, a textual value, and an optional context,
// return either a replacement string, signal absence, or fail. The set of
// rule kinds is closed by configuration schema and modeled as a tagged
// union (Rule) dispatched by the variant present in YAML.
package transform

// Context carries optional bindings a rule may consult: a seed for
// controlled randomness (so runs can be made reproducible) and arbitrary
// named values a template rule can reference alongside field_name and
// field_value.
type Context struct {
	Seed   int64
	Values map[string]string
}

// Transformer is the common contract every rule kind implements.
// Transform returns (replacement, nil) to replace the field, (nil, nil) to
// keep the original value (Absent), or (nil, err) to fail the row.
type Transformer interface {
	Transform(fieldName, fieldValue string, ctx *Context) (*string, error)
	// Init primes stateful generators (template compilation, random seeding)
	// exactly once; it must be idempotent.
	Init() error
}

// present is a small helper mirroring the original's Result::present.
func present(s string) (*string, error) {
	return &s, nil
}

// absent mirrors Result::absent: keep the original value.
func absent() (*string, error) {
	return nil, nil
}
