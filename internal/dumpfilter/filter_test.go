package dumpfilter

import (
	"strings"
	"testing"

	"github.com/mbeynon/datanymizer/internal/anonerr"
	"github.com/mbeynon/datanymizer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const actorConfig = `
tables:
  - table_name: public.actor
    rules:
      - column: first_name
        rule:
          template:
            format: "X"
`

func buildEngine(t *testing.T, yamlConfig string) (*config.Engine, *config.Settings) {
	t.Helper()
	settings, err := config.Parse([]byte(yamlConfig))
	require.NoError(t, err)
	e := config.NewEngine(settings)
	require.NoError(t, e.Initialize())
	return e, settings
}

func run(t *testing.T, yamlConfig, input string) (string, error) {
	t.Helper()
	engine, settings := buildEngine(t, yamlConfig)
	f := New(engine, settings, nil)
	var out strings.Builder
	err := f.Run(strings.NewReader(input), &out)
	return out.String(), err
}

// Scenario #1: a full DDL + COPY block with two rows, anonymizing
// first_name.
func TestScenario1FullTableAnonymized(t *testing.T) {
	input := "CREATE TABLE public.actor (\n" +
		"    actor_id integer NOT NULL,\n" +
		"    first_name text NOT NULL\n" +
		");\n" +
		"COPY public.actor (actor_id, first_name) FROM STDIN;\n" +
		"1\tAlice\n" +
		"2\tBob\n" +
		`\.` + "\n"

	out, err := run(t, actorConfig, input)
	require.NoError(t, err)

	assert.Contains(t, out, "pg_datanymizer anonymized database dump")
	assert.Contains(t, out, "CREATE TABLE public.actor (")
	assert.Contains(t, out, "    actor_id integer NOT NULL,")
	assert.Contains(t, out, "    first_name text NOT NULL")
	assert.Contains(t, out, ");")
	assert.Contains(t, out, "pg_datanymizer: ANON TABLE; Name: actor; Schema: public")
	assert.Contains(t, out, "COPY public.actor (actor_id, first_name) FROM STDIN;")
	assert.Contains(t, out, "1\tX")
	assert.Contains(t, out, "2\tX")
	assert.Contains(t, out, `\.`)
	assert.NotContains(t, out, "Alice")
	assert.NotContains(t, out, "Bob")
}

// Scenario #2: COPY column order differs from the sealed definition.
func TestScenario2ColumnOrderMismatchIsFatal(t *testing.T) {
	input := "CREATE TABLE public.actor (\n" +
		"    actor_id integer NOT NULL,\n" +
		"    first_name text NOT NULL\n" +
		");\n" +
		"COPY public.actor (first_name, actor_id) FROM STDIN;\n" +
		"Alice\t1\n" +
		`\.` + "\n"

	_, err := run(t, actorConfig, input)
	require.Error(t, err)
	var anonErr *anonerr.Error
	require.ErrorAs(t, err, &anonErr)
	assert.Equal(t, anonerr.KindSchemaMismatch, anonErr.Kind)
}

// Scenario #3: a table absent from configuration passes through byte for
// byte.
func TestScenario3UnconfiguredTablePassesThrough(t *testing.T) {
	input := "CREATE TABLE public.other (\n" +
		"    id integer NOT NULL\n" +
		");\n" +
		"COPY public.other (id) FROM STDIN;\n" +
		"1\tfoo\n" +
		`\.` + "\n"

	out, err := run(t, actorConfig, input)
	require.NoError(t, err)

	// Passthrough output is the input verbatim, after the prepended banner.
	withoutBanner := strings.TrimPrefix(out, "\n---\n--- pg_datanymizer anonymized database dump\n---\n")
	assert.Equal(t, input, withoutBanner)
}

// Scenario #6: a data row's field count disagrees with the sealed table's
// column count.
func TestScenario6RowFieldCountMismatchIsFatal(t *testing.T) {
	input := "CREATE TABLE public.actor (\n" +
		"    actor_id integer NOT NULL,\n" +
		"    first_name text NOT NULL\n" +
		");\n" +
		"COPY public.actor (actor_id, first_name) FROM STDIN;\n" +
		"1\tAlice\tExtra\n" +
		`\.` + "\n"

	_, err := run(t, actorConfig, input)
	require.Error(t, err)
	var anonErr *anonerr.Error
	require.ErrorAs(t, err, &anonErr)
	assert.Equal(t, anonerr.KindSchemaMismatch, anonErr.Kind)
}

// A rule bound to a column name that does not exist in the sealed table
// (e.g. a typo'd column in the config) must fail fatally at COPY
// detection rather than being silently skipped, per §3's rule-binding
// invariant and §4.2's SchemaMismatch error condition.
func TestRuleBoundToUnknownColumnIsFatal(t *testing.T) {
	typoConfig := `
tables:
  - table_name: public.actor
    rules:
      - column: frist_name
        rule:
          template:
            format: "X"
`
	input := "CREATE TABLE public.actor (\n" +
		"    actor_id integer NOT NULL,\n" +
		"    first_name text NOT NULL\n" +
		");\n" +
		"COPY public.actor (actor_id, first_name) FROM STDIN;\n" +
		"1\tAlice\n" +
		`\.` + "\n"

	_, err := run(t, typoConfig, input)
	require.Error(t, err)
	var anonErr *anonerr.Error
	require.ErrorAs(t, err, &anonErr)
	assert.Equal(t, anonerr.KindSchemaMismatch, anonErr.Kind)
	assert.Contains(t, anonErr.Detail, "frist_name")
}

func TestColumnDeclarationWithTrailingCommaAdvancesPosition(t *testing.T) {
	input := "CREATE TABLE public.actor (\n" +
		"    actor_id integer NOT NULL,\n" +
		"    first_name text NOT NULL\n" +
		");\n" +
		"COPY public.actor (actor_id, first_name) FROM STDIN;\n" +
		`\.` + "\n"

	out, err := run(t, actorConfig, input)
	require.NoError(t, err)
	assert.Contains(t, out, "pg_datanymizer: ANON TABLE")
}

func TestCopyWithZeroRowsEmitsNoDataLines(t *testing.T) {
	input := "CREATE TABLE public.actor (\n" +
		"    actor_id integer NOT NULL,\n" +
		"    first_name text NOT NULL\n" +
		");\n" +
		"COPY public.actor (actor_id, first_name) FROM STDIN;\n" +
		`\.` + "\n"

	out, err := run(t, actorConfig, input)
	require.NoError(t, err)
	assert.Contains(t, out, "pg_datanymizer: ANON TABLE; Name: actor; Schema: public")
	assert.Contains(t, out, `\.`)
	assert.Contains(t, out, "COPY public.actor (actor_id, first_name) FROM STDIN;\n"+`\.`+"\n")
}

func TestBackslashNFieldIsPassedToRuleLiterally(t *testing.T) {
	capture := `
tables:
  - table_name: public.actor
    rules:
      - column: first_name
        rule:
          template:
            format: "CAPTURED:{{.FieldValue}}"
`
	dataRow := "1\t" + nullSentinel + "\n"
	input := "CREATE TABLE public.actor (\n" +
		"    actor_id integer NOT NULL,\n" +
		"    first_name text NOT NULL\n" +
		");\n" +
		"COPY public.actor (actor_id, first_name) FROM STDIN;\n" +
		dataRow +
		`\.` + "\n"

	out, err := run(t, capture, input)
	require.NoError(t, err)
	assert.Contains(t, out, "1\tCAPTURED:"+nullSentinel)
}

func TestReparsingOutputWithEmptyConfigIsByteIdentical(t *testing.T) {
	input := "CREATE TABLE public.actor (\n" +
		"    actor_id integer NOT NULL,\n" +
		"    first_name text NOT NULL\n" +
		");\n" +
		"COPY public.actor (actor_id, first_name) FROM STDIN;\n" +
		"1\tAlice\n" +
		`\.` + "\n"

	first, err := run(t, actorConfig, input)
	require.NoError(t, err)

	second, err := run(t, "tables: []", first)
	require.NoError(t, err)

	// Re-running with an empty config only ever adds a banner; running it
	// once more should leave the body past the second banner untouched.
	withoutSecondBanner := strings.TrimPrefix(second, "\n---\n--- pg_datanymizer anonymized database dump\n---\n")
	assert.Equal(t, first, withoutSecondBanner)
}
