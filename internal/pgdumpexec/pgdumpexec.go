// Package pgdumpexec is the minimal external-collaborator boundary for
// producing a dump to feed the streaming filter: spawning pg_dump and
// streaming its stdout. It performs no schema introspection of its own —
// that stays entirely out of scope for the core.
package pgdumpexec

import (
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Options configures a pg_dump invocation. ConnString is passed through to
// pg_dump verbatim (e.g. a libpq URI); ExtraArgs allows callers to add
// dump-tool flags (schema filters, format selection, …) without this
// package needing to know about them.
type Options struct {
	ConnString string
	ExtraArgs  []string
}

// Stream spawns pg_dump with the given options and returns its stdout as a
// reader, along with a wait function the caller must call after it has
// finished reading to reap the process and surface any execution error.
func Stream(ctx context.Context, opts Options) (stdout io.ReadCloser, wait func() error, err error) {
	args := append([]string{}, opts.ExtraArgs...)
	if opts.ConnString != "" {
		args = append(args, opts.ConnString)
	}

	cmd := exec.CommandContext(ctx, "pg_dump", args...)
	stdout, err = cmd.StdoutPipe()
	if err != nil {
		return nil, nil, fmt.Errorf("pgdumpexec: obtaining stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, nil, fmt.Errorf("pgdumpexec: starting pg_dump: %w", err)
	}

	wait = func() error {
		if err := cmd.Wait(); err != nil {
			return fmt.Errorf("pgdumpexec: pg_dump exited: %w", err)
		}
		return nil
	}
	return stdout, wait, nil
}
