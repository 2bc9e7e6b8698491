package transform

import "github.com/google/uuid"

// UUIDRule replaces the field with a freshly generated random UUID (v4).
// Not one of spec.md's named kinds, but a common anonymization primitive
// for primary/foreign-key-shaped text columns; see SPEC_FULL.md §12.5.
type UUIDRule struct{}

// Init holds no state.
func (UUIDRule) Init() error { return nil }

// Transform returns a new random UUID, ignoring the original value.
func (UUIDRule) Transform(fieldName, fieldValue string, ctx *Context) (*string, error) {
	return present(uuid.NewString())
}
