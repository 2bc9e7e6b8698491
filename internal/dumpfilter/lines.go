package dumpfilter

import (
	"regexp"
	"strings"

	"github.com/mbeynon/datanymizer/internal/pgtable"
)

var (
	createTableRE = regexp.MustCompile(`(?i)^CREATE\s+TABLE\s+("?\w+"?)\.("?\w+"?)\s+\(\s*$`)
	createColRE   = regexp.MustCompile(`(?i)^\s+("?\w+"?)\s+([^,]+)`)
	copyFromRE    = regexp.MustCompile(`(?i)^COPY\s+("?\w+"?)\.("?\w+"?)\s*\(\s*(.*)\s*\)\s+FROM\s+STDIN\s*;\s*$`)
)

// nonColumnKeywords are the first tokens of table-level clauses that share
// the column declaration's "<ident> <rest>" shape but are not columns:
// constraints, LIKE clauses, and the like. Matching one means the line is
// ambiguous and must be treated as passthrough inside the definition,
// consuming no column position.
var nonColumnKeywords = map[string]bool{
	"CONSTRAINT": true,
	"PRIMARY":    true,
	"UNIQUE":     true,
	"FOREIGN":    true,
	"CHECK":      true,
	"EXCLUDE":    true,
	"LIKE":       true,
}

// matchCreateTable recognizes "CREATE TABLE <ident>.<ident> (" headers.
func matchCreateTable(line string) (pgtable.QualifiedName, bool) {
	m := createTableRE.FindStringSubmatch(line)
	if m == nil {
		return pgtable.QualifiedName{}, false
	}
	return pgtable.NewQualifiedName(m[1], m[2]), true
}

// matchColumnDeclaration recognizes an indented "<ident> <type>" line within
// a table definition. Lines whose leading identifier is a known non-column
// keyword (CONSTRAINT, PRIMARY KEY, …) are reported as not matching.
func matchColumnDeclaration(line string) (name, declaredType string, ok bool) {
	m := createColRE.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	if nonColumnKeywords[strings.ToUpper(pgtable.Unquote(m[1]))] {
		return "", "", false
	}
	return m[1], strings.TrimRight(m[2], " \t"), true
}

// isTableDefinitionTerminator reports whether line is the literal ");" line
// that closes a CREATE TABLE block.
func isTableDefinitionTerminator(line string) bool {
	return line == ");"
}

// matchCopyFrom recognizes "COPY <ident>.<ident> (<cols>) FROM STDIN;"
// headers and returns the declared column list in order, unquoted and
// trimmed.
func matchCopyFrom(line string) (qn pgtable.QualifiedName, columns []string, ok bool) {
	m := copyFromRE.FindStringSubmatch(line)
	if m == nil {
		return pgtable.QualifiedName{}, nil, false
	}
	qn = pgtable.NewQualifiedName(m[1], m[2])
	for _, c := range strings.Split(m[3], ",") {
		columns = append(columns, pgtable.Unquote(strings.TrimSpace(c)))
	}
	return qn, columns, true
}

// isCopyTerminator reports whether line is the literal "\." line that ends
// a COPY … FROM STDIN data block.
func isCopyTerminator(line string) bool {
	return line == `\.`
}
