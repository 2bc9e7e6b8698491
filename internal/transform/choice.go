package transform

import (
	"errors"
	"math/rand"
)

// ChoiceRule uniformly selects one element from a non-empty list.
type ChoiceRule struct {
	Values []string `yaml:"values"`
}

// Init validates the list is non-empty.
func (c *ChoiceRule) Init() error {
	if len(c.Values) == 0 {
		return errors.New("choice: values list must not be empty")
	}
	return nil
}

// Transform picks one of Values uniformly at random.
func (c *ChoiceRule) Transform(fieldName, fieldValue string, ctx *Context) (*string, error) {
	if len(c.Values) == 0 {
		return nil, errors.New("choice: values list must not be empty")
	}
	var idx int
	if ctx != nil && ctx.Seed != 0 {
		idx = rand.New(rand.NewSource(ctx.Seed)).Intn(len(c.Values))
	} else {
		idx = rand.Intn(len(c.Values))
	}
	return present(c.Values[idx])
}
