package sdk

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// ConsoleMonitor is a ProgressMonitor that prints one line per status
// update. Whether color is used is decided once, by NewConsoleMonitor,
// from whether os.Stdout is a terminal; replacing Writer afterwards does
// not change that decision.
type ConsoleMonitor struct {
	Writer io.Writer
}

// NewConsoleMonitor returns a ConsoleMonitor writing to os.Stdout, with
// color enabled only when stdout is a terminal. It sets the process-wide
// color.NoColor flag accordingly.
func NewConsoleMonitor() *ConsoleMonitor {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	color.NoColor = !isTTY
	return &ConsoleMonitor{Writer: os.Stdout}
}

// SetStatus prints text prefixed with a cyan arrow, matching the one
// call per about-to-initialize plugin the manager makes.
func (m *ConsoleMonitor) SetStatus(text string) {
	fmt.Fprintf(m.Writer, "%s %s\n", color.CyanString("→"), text)
}

// Done prints a one-line "plugins-initialized" notification, matching
// the manager's one call per InitializePlugins pass.
func (m *ConsoleMonitor) Done() {
	fmt.Fprintf(m.Writer, "%s plugins-initialized\n", color.GreenString("✓"))
}

// nullMonitor discards every status update; it is the default used when
// no monitor is supplied.
type nullMonitor struct{}

func (nullMonitor) SetStatus(text string) {}
func (nullMonitor) Done()                 {}
