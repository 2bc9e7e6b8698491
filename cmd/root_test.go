package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDump = "CREATE TABLE public.actor (\n" +
	"    actor_id integer NOT NULL,\n" +
	"    first_name text NOT NULL\n" +
	");\n" +
	"COPY public.actor (actor_id, first_name) FROM STDIN;\n" +
	"1\tAlice\n" +
	`\.` + "\n"

const testRules = `
tables:
  - table_name: public.actor
    rules:
      - column: first_name
        rule:
          template:
            format: "X"
`

func TestRootCommandRequiresConfigFlag(t *testing.T) {
	RootCmd.SetArgs([]string{})
	err := RootCmd.Execute()
	assert.Error(t, err)
}

func TestRootCommandAnonymizesFileToFile(t *testing.T) {
	dir := t.TempDir()
	dumpPath := filepath.Join(dir, "in.sql")
	rulesPath := filepath.Join(dir, "rules.yaml")
	outPath := filepath.Join(dir, "out.sql")

	require.NoError(t, os.WriteFile(dumpPath, []byte(testDump), 0o644))
	require.NoError(t, os.WriteFile(rulesPath, []byte(testRules), 0o644))

	RootCmd.SetArgs([]string{
		"--file", dumpPath,
		"--config", rulesPath,
		"--output", outPath,
	})
	var stderr bytes.Buffer
	RootCmd.SetErr(&stderr)
	require.NoError(t, RootCmd.Execute())

	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(out), "1\tX")
	assert.NotContains(t, string(out), "Alice")
}
