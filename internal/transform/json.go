package transform

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// jsonField is one field descriptor of a JSONRule: a selector identifying
// sub-nodes, the inner rule applied to each match's stringified form, and
// whether the rule's output is re-wrapped as a JSON string (Quote) or
// parsed as JSON and spliced in directly.
type jsonField struct {
	Name     string
	Selector Selector
	Rule     Rule
	Quote    bool
}

type jsonFieldYAML struct {
	Name     string   `yaml:"name"`
	Selector Selector `yaml:"selector"`
	Rule     Rule     `yaml:"rule"`
	Quote    bool     `yaml:"quote"`
}

func (f *jsonField) UnmarshalYAML(value *yaml.Node) error {
	var raw jsonFieldYAML
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decoding json field: %w", err)
	}
	f.Name = raw.Name
	f.Selector = raw.Selector
	f.Rule = raw.Rule
	f.Quote = raw.Quote
	return nil
}

// onInvalidKind enumerates the four on_invalid policies from §4.4.
type onInvalidKind int

const (
	onInvalidAsIs onInvalidKind = iota
	onInvalidError
	onInvalidReplaceJSON
	onInvalidReplaceRule
)

// OnInvalidPolicy governs what happens when a field's value fails to parse
// as JSON.
type OnInvalidPolicy struct {
	kind onInvalidKind
	json string
	rule Rule
}

// DefaultOnInvalid is ReplaceWith(Json("{}")), the default when a json rule
// omits on_invalid.
func DefaultOnInvalid() OnInvalidPolicy {
	return OnInvalidPolicy{kind: onInvalidReplaceJSON, json: "{}"}
}

// AsIsOnInvalid returns the original value unchanged.
func AsIsOnInvalid() OnInvalidPolicy { return OnInvalidPolicy{kind: onInvalidAsIs} }

// ErrorOnInvalid propagates the JSON parse error.
func ErrorOnInvalid() OnInvalidPolicy { return OnInvalidPolicy{kind: onInvalidError} }

// ReplaceWithJSON returns the literal string s on invalid input.
func ReplaceWithJSON(s string) OnInvalidPolicy {
	return OnInvalidPolicy{kind: onInvalidReplaceJSON, json: s}
}

// ReplaceWithRule applies r to the original (invalid) value.
func ReplaceWithRule(r Rule) OnInvalidPolicy {
	return OnInvalidPolicy{kind: onInvalidReplaceRule, rule: r}
}

func (o *OnInvalidPolicy) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		switch value.Value {
		case "as_is":
			*o = AsIsOnInvalid()
			return nil
		case "error":
			*o = ErrorOnInvalid()
			return nil
		default:
			return fmt.Errorf("on_invalid: unknown policy %q", value.Value)
		}
	}

	var raw struct {
		ReplaceWith struct {
			JSON *string `yaml:"json"`
			Rule *Rule   `yaml:"rule"`
		} `yaml:"replace_with"`
	}
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decoding on_invalid: %w", err)
	}
	switch {
	case raw.ReplaceWith.JSON != nil:
		*o = ReplaceWithJSON(*raw.ReplaceWith.JSON)
	case raw.ReplaceWith.Rule != nil:
		*o = ReplaceWithRule(*raw.ReplaceWith.Rule)
	default:
		return fmt.Errorf("on_invalid: expected as_is, error, or replace_with")
	}
	return nil
}

// JSONRule parses a field's value as JSON, rewrites matched sub-nodes
// through each field's inner rule in declaration order, and serializes the
// result back to a canonical (non-pretty-printed) JSON string.
type JSONRule struct {
	Fields    []jsonField
	OnInvalid OnInvalidPolicy
}

type jsonRuleYAML struct {
	Fields    []jsonField      `yaml:"fields"`
	OnInvalid *OnInvalidPolicy `yaml:"on_invalid"`
}

func (j *JSONRule) UnmarshalYAML(value *yaml.Node) error {
	var raw jsonRuleYAML
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decoding json rule: %w", err)
	}
	j.Fields = raw.Fields
	if raw.OnInvalid != nil {
		j.OnInvalid = *raw.OnInvalid
	} else {
		j.OnInvalid = DefaultOnInvalid()
	}
	return nil
}

// Init primes every field's inner rule, plus the on_invalid rule if present.
func (j *JSONRule) Init() error {
	for i := range j.Fields {
		if err := j.Fields[i].Rule.Init(); err != nil {
			return err
		}
	}
	if j.OnInvalid.kind == onInvalidReplaceRule {
		return j.OnInvalid.rule.Init()
	}
	return nil
}

// Transform implements the §4.4 procedure.
func (j *JSONRule) Transform(fieldName, fieldValue string, ctx *Context) (*string, error) {
	value, err := decodeJSON(fieldValue)
	if err != nil {
		return j.handleInvalid(fieldName, fieldValue, ctx, err)
	}

	for i := range j.Fields {
		f := &j.Fields[i]
		newValue, walkErr := f.Selector.Replace(value, func(node interface{}) (interface{}, bool, error) {
			nodeStr, merr := marshalNode(node)
			if merr != nil {
				return nil, false, fmt.Errorf("field %q: stringifying matched node: %w", f.Name, merr)
			}
			out, terr := f.Rule.Transform(fieldName, nodeStr, ctx)
			if terr != nil {
				return nil, false, terr
			}
			if out == nil {
				return nil, false, nil
			}
			if f.Quote {
				return *out, true, nil
			}
			parsed, perr := decodeJSON(*out)
			if perr != nil {
				return nil, false, fmt.Errorf("field %q: rule output %q is not valid JSON: %w", f.Name, *out, perr)
			}
			return parsed, true, nil
		})
		if walkErr != nil {
			return nil, walkErr
		}
		value = newValue
	}

	out, err := marshalNode(value)
	if err != nil {
		return nil, fmt.Errorf("serializing transformed JSON: %w", err)
	}
	return present(out)
}

func (j *JSONRule) handleInvalid(fieldName, fieldValue string, ctx *Context, parseErr error) (*string, error) {
	switch j.OnInvalid.kind {
	case onInvalidAsIs:
		return present(fieldValue)
	case onInvalidError:
		return nil, fmt.Errorf("invalid JSON in field %q: %w", fieldName, parseErr)
	case onInvalidReplaceRule:
		return j.OnInvalid.rule.Transform(fieldName, fieldValue, ctx)
	default: // onInvalidReplaceJSON
		return present(j.OnInvalid.json)
	}
}

func decodeJSON(s string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func marshalNode(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
