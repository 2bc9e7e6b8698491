// Package progress defines the passive event-observer boundary the
// streaming filter reports lifecycle events to. The core never renders
// anything itself; it only emits table_started/row_processed/table_finished/
// debug events, matching the "core only emits, rendering is external"
// boundary.
package progress

import (
	"time"

	"github.com/mbeynon/datanymizer/internal/pgtable"
)

// Reporter receives lifecycle events from the streaming filter. No event
// carries transformed data, only counts and identifiers.
type Reporter interface {
	TableStarted(index, total int, qn pgtable.QualifiedName)
	RowProcessed(rowsSoFar int)
	TableFinished(totalRows int, elapsed time.Duration)
	Debug(message string)
}

// Silent discards every event.
type Silent struct{}

func (Silent) TableStarted(int, int, pgtable.QualifiedName) {}
func (Silent) RowProcessed(int)                             {}
func (Silent) TableFinished(int, time.Duration)             {}
func (Silent) Debug(string)                                 {}
