// Package dumpfilter is the streaming state machine that reads a
// PostgreSQL plain-text dump line by line, learns table schemas from its
// DDL, and rewrites COPY data rows through a config.Engine, emitting a
// dump that is byte-identical to the input outside of transformed rows.
package dumpfilter

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/mbeynon/datanymizer/internal/anonerr"
	"github.com/mbeynon/datanymizer/internal/config"
	"github.com/mbeynon/datanymizer/internal/pgtable"
	"github.com/mbeynon/datanymizer/internal/progress"
	"github.com/mbeynon/datanymizer/internal/transform"
)

type state int

const (
	passthrough state = iota
	tableDefinition
	tableData
)

const bannerMessage = "pg_datanymizer anonymized database dump"

// Filter drives the Passthrough/TableDefinition/TableData state machine
// described for the streaming dump anonymizer. It is single-use: construct
// one per Run.
type Filter struct {
	engine   *config.Engine
	settings *config.Settings
	reporter progress.Reporter

	state    state
	builder  pgtable.Builder
	registry *pgtable.Registry

	currentTable  *pgtable.Table
	currentConfig *config.TableConfig
	rowsSoFar     int
	tableStarted  time.Time
	tablesSeen    int
}

// New builds a Filter around an initialized Engine and its Settings. If
// reporter is nil, progress.Silent is used.
func New(engine *config.Engine, settings *config.Settings, reporter progress.Reporter) *Filter {
	if reporter == nil {
		reporter = progress.Silent{}
	}
	return &Filter{
		engine:   engine,
		settings: settings,
		reporter: reporter,
		registry: pgtable.NewRegistry(),
	}
}

// Run consumes r line by line and writes the anonymized dump to w. It
// returns the first fatal error encountered (*anonerr.Error), leaving
// whatever output was already written in place.
func (f *Filter) Run(r io.Reader, w io.Writer) error {
	out := bufio.NewWriter(w)
	if err := writeLogBlock(out, bannerMessage); err != nil {
		return anonerr.IO("writing banner", err)
	}

	in := bufio.NewReaderSize(r, 64*1024)
	lineNo := 0
	for {
		content, term, err := readLine(in)
		if err == io.EOF {
			break
		}
		if err != nil {
			return anonerr.IO("reading input", err)
		}
		lineNo++

		toWrite, err := f.step(lineNo, content, out)
		if err != nil {
			_ = out.Flush()
			return err
		}

		if _, werr := out.WriteString(toWrite); werr != nil {
			return anonerr.IO("writing output", werr)
		}
		if _, werr := out.WriteString(term); werr != nil {
			return anonerr.IO("writing output", werr)
		}
	}

	if err := out.Flush(); err != nil {
		return anonerr.IO("flushing output", err)
	}
	return nil
}

// step advances the state machine by one line, writing any out-of-band
// annotation blocks directly to out, and returns the content this line's
// output should carry (verbatim, or the transformed row).
func (f *Filter) step(lineNo int, line string, out *bufio.Writer) (string, error) {
	switch f.state {
	case passthrough:
		return line, f.stepPassthrough(lineNo, line, out)
	case tableDefinition:
		return line, f.stepTableDefinition(lineNo, line)
	case tableData:
		return f.stepTableData(lineNo, line)
	default:
		return line, nil
	}
}

func (f *Filter) stepPassthrough(lineNo int, line string, out *bufio.Writer) error {
	if qn, ok := matchCreateTable(line); ok {
		if _, configured := f.engine.FindTable(qn); configured {
			f.builder.Begin(qn)
			f.state = tableDefinition
		}
		return nil
	}

	if qn, cols, ok := matchCopyFrom(line); ok {
		table, sealed := f.registry.Find(qn)
		if !sealed {
			return nil
		}
		if !table.SameColumnOrder(cols) {
			return anonerr.SchemaMismatch(lineNo, qn.String(), fmt.Sprintf(
				"COPY column list does not match the sealed table definition:\n\tCREATE TABLE: %v\n\tCOPY INTO:    %v",
				table.ColumnNames(), cols,
			))
		}
		tc, _ := f.engine.FindTable(qn)
		if tc != nil {
			for _, cr := range tc.Rules {
				if _, exists := table.ColumnByName(cr.Column); !exists {
					return anonerr.SchemaMismatch(lineNo, qn.String(), fmt.Sprintf(
						"rule bound to unknown column %q; table has columns %v", cr.Column, table.ColumnNames(),
					))
				}
			}
		}

		f.currentTable = table
		f.currentConfig = tc
		f.rowsSoFar = 0
		f.tableStarted = time.Now()
		f.tablesSeen++

		f.reporter.TableStarted(f.tablesSeen-1, f.settings.TableCount(), qn)
		if err := writeLogBlock(out, fmt.Sprintf("pg_datanymizer: ANON TABLE; Name: %s; Schema: %s", qn.Name, qn.Schema)); err != nil {
			return anonerr.IO("writing table annotation", err)
		}
		f.state = tableData
		return nil
	}

	return nil
}

func (f *Filter) stepTableDefinition(lineNo int, line string) error {
	if isTableDefinitionTerminator(line) {
		sealed := f.builder.Seal()
		f.registry.Seal(sealed)
		f.state = passthrough
		return nil
	}
	if name, declaredType, ok := matchColumnDeclaration(line); ok {
		if err := f.builder.PushColumn(name, declaredType); err != nil {
			return anonerr.Parse(lineNo, "parsing table definition", err)
		}
	}
	return nil
}

func (f *Filter) stepTableData(lineNo int, line string) (string, error) {
	if isCopyTerminator(line) {
		f.reporter.TableFinished(f.rowsSoFar, time.Since(f.tableStarted))
		f.currentTable = nil
		f.currentConfig = nil
		f.state = passthrough
		return line, nil
	}

	transformed, err := f.transformRow(lineNo, line)
	if err != nil {
		return "", err
	}
	f.rowsSoFar++
	f.reporter.RowProcessed(f.rowsSoFar)
	return transformed, nil
}

func (f *Filter) transformRow(lineNo int, line string) (string, error) {
	table := f.currentTable
	fields := splitRow(line)
	if len(fields) != len(table.Columns) {
		return "", anonerr.SchemaMismatch(lineNo, table.QualifiedName.String(), fmt.Sprintf(
			"row has %d fields, table %s has %d columns", len(fields), table.QualifiedName, len(table.Columns),
		))
	}

	ctx := &transform.Context{Seed: int64(lineNo)}
	for i, col := range table.Columns {
		rule, ok := f.engine.RuleFor(f.currentConfig, col.Name)
		if !ok {
			continue
		}
		out, err := rule.Transform(col.Name, fields[i], ctx)
		if err != nil {
			return "", anonerr.Transform(lineNo, table.QualifiedName.String(), col.Name, fields[i], err)
		}
		if out != nil {
			fields[i] = *out
		}
	}
	return joinRow(fields), nil
}

// writeLogBlock writes the three-line annotation block the original dumper
// emits around its banner and per-table markers.
func writeLogBlock(w *bufio.Writer, message string) error {
	_, err := fmt.Fprintf(w, "\n---\n--- %s\n---\n", message)
	return err
}
