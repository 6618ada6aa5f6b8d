package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console is the interactive debug surface over a reporter. It is
// installed only in development mode; production builds never construct
// one. The usage hint prints once, on first activation.
type Console struct {
	reporter *Reporter
	hintOnce sync.Once
}

// NewConsole wraps a reporter.
func NewConsole(r *Reporter) *Console {
	return &Console{reporter: r}
}

const consoleHint = `debug console, commands:
  perf-report     named-interval report
  vitals-report   core web vitals
  shift-report    layout-shift report
  full-report     all of the above
  perf-clear      clear all collector state
  quit            leave the console`

// Run reads commands from in until EOF or quit.
func (c *Console) Run(in io.Reader) error {
	out := c.reporter.writer()
	c.hintOnce.Do(func() { fmt.Fprintln(out, consoleHint) })

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		switch cmd := strings.TrimSpace(scanner.Text()); cmd {
		case "":
		case "perf-report":
			c.reporter.PrintCustom()
		case "vitals-report":
			c.reporter.PrintVitals()
		case "shift-report":
			c.reporter.PrintShifts()
		case "full-report":
			c.reporter.PrintFull()
		case "perf-clear":
			c.reporter.ClearAll()
		case "help":
			fmt.Fprintln(out, consoleHint)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q (try help)\n", cmd)
		}
	}
}
