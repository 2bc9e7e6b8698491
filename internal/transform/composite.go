package transform

import (
	"errors"
	"math/rand"
)

// SequenceRule chains a list of rules: each sees the previous rule's
// replacement (or the original value, for the first rule), and the final
// replacement wins. Stops and surfaces the first error encountered. If a
// sub-rule reports Absent, the value carried into the next stage is left
// unchanged.
type SequenceRule struct {
	Rules []Rule `yaml:"rules"`
}

func (s *SequenceRule) Init() error {
	for i := range s.Rules {
		if err := s.Rules[i].Init(); err != nil {
			return err
		}
	}
	return nil
}

func (s *SequenceRule) Transform(fieldName, fieldValue string, ctx *Context) (*string, error) {
	if len(s.Rules) == 0 {
		return nil, errors.New("sequence: rules list must not be empty")
	}
	current := fieldValue
	changed := false
	for i := range s.Rules {
		out, err := s.Rules[i].Transform(fieldName, current, ctx)
		if err != nil {
			return nil, err
		}
		if out != nil {
			current = *out
			changed = true
		}
	}
	if !changed {
		return absent()
	}
	return present(current)
}

// AlternativesRule picks one of its sub-rules uniformly at random and
// applies it.
type AlternativesRule struct {
	Rules []Rule `yaml:"rules"`
}

func (a *AlternativesRule) Init() error {
	if len(a.Rules) == 0 {
		return errors.New("alternatives: rules list must not be empty")
	}
	for i := range a.Rules {
		if err := a.Rules[i].Init(); err != nil {
			return err
		}
	}
	return nil
}

func (a *AlternativesRule) Transform(fieldName, fieldValue string, ctx *Context) (*string, error) {
	if len(a.Rules) == 0 {
		return nil, errors.New("alternatives: rules list must not be empty")
	}
	var idx int
	if ctx != nil && ctx.Seed != 0 {
		idx = rand.New(rand.NewSource(ctx.Seed)).Intn(len(a.Rules))
	} else {
		idx = rand.Intn(len(a.Rules))
	}
	return a.Rules[idx].Transform(fieldName, fieldValue, ctx)
}
