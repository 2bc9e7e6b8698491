package dumpfilter

import "strings"

const nullSentinel = `\N`

// splitRow splits a COPY data line into its tab-separated raw fields.
func splitRow(line string) []string {
	return strings.Split(line, "\t")
}

// joinRow re-joins transformed fields with a single tab, the inverse of
// splitRow.
func joinRow(fields []string) string {
	return strings.Join(fields, "\t")
}
