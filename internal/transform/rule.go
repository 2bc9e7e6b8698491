package transform

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Rule is a tagged sum over the closed set of transformer kinds, dispatched
// by whichever single key is present under it in YAML (template,
// random_num, choice, faker, uuid, json, sequence, alternatives). Modeling
// the set as a tagged sum with per-variant payload is preferable to open
// polymorphism here because the set is closed by configuration schema.
type Rule struct {
	variant Transformer
}

// ruleYAML is used only to decode the YAML mapping. The first non-nil field,
// in the order UnmarshalYAML checks them, selects the variant; any other
// field set alongside it is ignored.
type ruleYAML struct {
	Template     *TemplateRule     `yaml:"template"`
	RandomNum    *RandomNumRule    `yaml:"random_num"`
	Choice       *ChoiceRule       `yaml:"choice"`
	Faker        *FakerRule        `yaml:"faker"`
	UUID         *struct{}         `yaml:"uuid"`
	JSON         *JSONRule         `yaml:"json"`
	Sequence     *SequenceRule     `yaml:"sequence"`
	Alternatives *AlternativesRule `yaml:"alternatives"`
}

// UnmarshalYAML decodes a rule's single variant.
func (r *Rule) UnmarshalYAML(value *yaml.Node) error {
	var raw ruleYAML
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decoding rule: %w", err)
	}

	switch {
	case raw.Template != nil:
		r.variant = raw.Template
	case raw.RandomNum != nil:
		r.variant = raw.RandomNum
	case raw.Choice != nil:
		r.variant = raw.Choice
	case raw.Faker != nil:
		r.variant = raw.Faker
	case raw.UUID != nil:
		r.variant = UUIDRule{}
	case raw.JSON != nil:
		r.variant = raw.JSON
	case raw.Sequence != nil:
		r.variant = raw.Sequence
	case raw.Alternatives != nil:
		r.variant = raw.Alternatives
	default:
		return fmt.Errorf("rule at line %d: no recognized variant (want one of template, random_num, choice, faker, uuid, json, sequence, alternatives)", value.Line)
	}
	return nil
}

// Init delegates to the selected variant.
func (r Rule) Init() error {
	if r.variant == nil {
		return fmt.Errorf("rule has no variant set")
	}
	return r.variant.Init()
}

// Transform delegates to the selected variant.
func (r Rule) Transform(fieldName, fieldValue string, ctx *Context) (*string, error) {
	if r.variant == nil {
		return nil, fmt.Errorf("rule has no variant set")
	}
	return r.variant.Transform(fieldName, fieldValue, ctx)
}
