package progress

import (
	"fmt"
	"time"

	"github.com/mbeynon/datanymizer/internal/pgtable"
	"github.com/pterm/pterm"
)

// Console renders progress to the terminal with a pterm progress bar, one
// bar per table, plus debug lines when verbose is set.
type Console struct {
	verbose bool
	bar     *pterm.ProgressbarPrinter
}

// NewConsole builds a Console reporter. When verbose is true, Debug events
// are printed; otherwise they are discarded.
func NewConsole(verbose bool) *Console {
	return &Console{verbose: verbose}
}

func (c *Console) TableStarted(index, total int, qn pgtable.QualifiedName) {
	bar, err := pterm.DefaultProgressbar.
		WithTitle(fmt.Sprintf("[%d/%d] %s", index+1, total, qn)).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		pterm.Warning.Printfln("progress bar unavailable for %s: %v", qn, err)
		return
	}
	c.bar = bar
}

func (c *Console) RowProcessed(rowsSoFar int) {
	if c.bar == nil {
		return
	}
	c.bar.Increment()
}

func (c *Console) TableFinished(totalRows int, elapsed time.Duration) {
	if c.bar != nil {
		_, _ = c.bar.Stop()
		c.bar = nil
	}
	pterm.Success.Printfln("anonymized %d rows in %s", totalRows, elapsed.Round(time.Millisecond))
}

func (c *Console) Debug(message string) {
	if !c.verbose {
		return
	}
	pterm.Debug.Println(message)
}
