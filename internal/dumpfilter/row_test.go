package dumpfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAndJoinRowRoundTrip(t *testing.T) {
	line := "1\tAlice\t\\N"
	fields := splitRow(line)
	assert.Equal(t, []string{"1", "Alice", `\N`}, fields)
	assert.Equal(t, line, joinRow(fields))
}
