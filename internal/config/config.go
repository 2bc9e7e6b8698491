// Package config compiles declarative YAML rule configuration into a
// lookup the streaming filter can consult table-by-table: which columns of
// which qualified table get rewritten, and by which transform.Rule.
package config

import (
	"fmt"
	"os"

	"github.com/mbeynon/datanymizer/internal/anonerr"
	"github.com/mbeynon/datanymizer/internal/pgtable"
	"github.com/mbeynon/datanymizer/internal/transform"
	"gopkg.in/yaml.v3"
)

// ColumnRule binds one column of a table to the rule that rewrites it.
type ColumnRule struct {
	Column string        `yaml:"column"`
	Rule   transform.Rule `yaml:"rule"`
}

// TableConfig holds the ordered column→rule bindings configured for one
// qualified table, plus that table's parsed qualified name.
type TableConfig struct {
	QualifiedName pgtable.QualifiedName
	Rules         []ColumnRule
}

type tableConfigYAML struct {
	TableName string       `yaml:"table_name"`
	Rules     []ColumnRule `yaml:"rules"`
}

// Settings is the parsed form of a rules file: an ordered list of per-table
// configurations. Table names are written "schema.name" or bare "name"
// (defaulting to the "public" schema, matching dump convention).
type Settings struct {
	tables map[pgtable.QualifiedName]*TableConfig
	// order preserves configuration order for diagnostics and deterministic
	// initialization.
	order []pgtable.QualifiedName
}

type settingsYAML struct {
	Tables []tableConfigYAML `yaml:"tables"`
}

// Load parses a YAML rules file from path into Settings.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, anonerr.Config(fmt.Sprintf("reading config %q", path), err)
	}
	return Parse(data)
}

// Parse parses YAML rule configuration bytes into Settings.
func Parse(data []byte) (*Settings, error) {
	var raw settingsYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, anonerr.Config("parsing rule configuration", err)
	}

	s := &Settings{tables: make(map[pgtable.QualifiedName]*TableConfig)}
	for i, t := range raw.Tables {
		if t.TableName == "" {
			return nil, anonerr.Config(fmt.Sprintf("tables[%d]: table_name is required", i), nil)
		}
		qn := parseQualifiedName(t.TableName)
		if _, exists := s.tables[qn]; exists {
			return nil, anonerr.Config(fmt.Sprintf("tables[%d]: duplicate table_name %q", i, t.TableName), nil)
		}
		tc := &TableConfig{QualifiedName: qn, Rules: t.Rules}
		s.tables[qn] = tc
		s.order = append(s.order, qn)
	}
	return s, nil
}

// parseQualifiedName splits "schema.name" on the first dot, defaulting to
// the "public" schema when no dot is present.
func parseQualifiedName(s string) pgtable.QualifiedName {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return pgtable.NewQualifiedName(s[:i], s[i+1:])
		}
	}
	return pgtable.NewQualifiedName("public", s)
}

// TableCount returns the number of tables configured, for progress
// reporting totals known upfront.
func (s *Settings) TableCount() int {
	return len(s.order)
}

// FindTable performs an exact-match lookup of a table's configuration.
func (s *Settings) FindTable(qn pgtable.QualifiedName) (*TableConfig, bool) {
	tc, ok := s.tables[qn]
	return tc, ok
}

// RuleFor returns the rule bound to columnName within tc, if any.
func RuleFor(tc *TableConfig, columnName string) (transform.Rule, bool) {
	if tc == nil {
		return transform.Rule{}, false
	}
	for _, cr := range tc.Rules {
		if cr.Column == columnName {
			return cr.Rule, true
		}
	}
	return transform.Rule{}, false
}

// Engine owns Settings and every rule compiled from it, and primes every
// rule's stateful generators exactly once via Initialize.
type Engine struct {
	settings    *Settings
	initialized bool
}

// NewEngine wraps parsed Settings in an Engine.
func NewEngine(settings *Settings) *Engine {
	return &Engine{settings: settings}
}

// FindTable delegates to Settings.FindTable.
func (e *Engine) FindTable(qn pgtable.QualifiedName) (*TableConfig, bool) {
	return e.settings.FindTable(qn)
}

// RuleFor delegates to the package-level RuleFor.
func (e *Engine) RuleFor(tc *TableConfig, columnName string) (transform.Rule, bool) {
	return RuleFor(tc, columnName)
}

// Initialize primes every configured rule's stateful generators. It is
// idempotent: a second call is a no-op.
func (e *Engine) Initialize() error {
	if e.initialized {
		return nil
	}
	for _, qn := range e.settings.order {
		tc := e.settings.tables[qn]
		for _, cr := range tc.Rules {
			if err := cr.Rule.Init(); err != nil {
				return anonerr.Config(fmt.Sprintf("table %s, column %q: initializing rule", qn, cr.Column), err)
			}
		}
	}
	e.initialized = true
	return nil
}
