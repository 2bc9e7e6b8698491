package transform

import (
	"fmt"
	"math/rand"
	"strconv"

	"gopkg.in/yaml.v3"
)

// RandomNumRule returns a uniform integer in [Min, Max] inclusive. Both
// bounds are required. When a Context carries a Seed, the generator is
// seeded from it so runs are reproducible; otherwise it draws from the
// package-level source.
type RandomNumRule struct {
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max"`
}

// UnmarshalYAML decodes min and max, rejecting a mapping that omits either.
func (r *RandomNumRule) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Min *int64 `yaml:"min"`
		Max *int64 `yaml:"max"`
	}
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decoding random_num: %w", err)
	}
	if raw.Min == nil || raw.Max == nil {
		return fmt.Errorf("random_num: both min and max are required")
	}
	r.Min, r.Max = *raw.Min, *raw.Max
	return nil
}

// Init validates the bounds once; RandomNumRule holds no other state.
func (r *RandomNumRule) Init() error {
	if r.Max < r.Min {
		return fmt.Errorf("random_num: max %d is less than min %d", r.Max, r.Min)
	}
	return nil
}

// Transform draws a uniform integer in [Min, Max].
func (r *RandomNumRule) Transform(fieldName, fieldValue string, ctx *Context) (*string, error) {
	span := r.Max - r.Min + 1
	var n int64
	if ctx != nil && ctx.Seed != 0 {
		n = r.Min + rand.New(rand.NewSource(ctx.Seed)).Int63n(span)
	} else {
		n = r.Min + rand.Int63n(span)
	}
	return present(strconv.FormatInt(n, 10))
}
