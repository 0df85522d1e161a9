// Package terminal is the command-line front-end of the catalog console.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/erp/catalogconsole/internal/application/console"
	"github.com/fatih/color"
)

// Notifier prints one coloured line per notice
type Notifier struct {
	mu      sync.Mutex
	out     io.Writer
	noColor bool
}

// NewNotifier creates a Notifier writing to out
func NewNotifier(out io.Writer, noColor bool) *Notifier {
	return &Notifier{out: out, noColor: noColor}
}

// Notify implements console.Notifier
func (n *Notifier) Notify(message string, severity console.Severity) {
	c := severityColor(severity)
	if n.noColor {
		c.DisableColor()
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	c.Fprint(n.out, severityTag(severity))
	fmt.Fprintf(n.out, " %s\n", message)
}

func severityColor(s console.Severity) *color.Color {
	switch s {
	case console.SeveritySuccess:
		return color.New(color.FgGreen, color.Bold)
	case console.SeverityWarning:
		return color.New(color.FgYellow, color.Bold)
	case console.SeverityDanger:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}

func severityTag(s console.Severity) string {
	switch s {
	case console.SeveritySuccess:
		return "[ok]"
	case console.SeverityWarning:
		return "[aviso]"
	case console.SeverityDanger:
		return "[error]"
	default:
		return "[info]"
	}
}

// Confirmer asks yes/no questions on the terminal. The default answer is no.
type Confirmer struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

// NewConfirmer creates a Confirmer. With assumeYes every question is
// answered yes without reading input.
func NewConfirmer(in io.Reader, out io.Writer, assumeYes bool) *Confirmer {
	return &Confirmer{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

// Confirm implements console.Confirmer
func (c *Confirmer) Confirm(_ context.Context, prompt string) bool {
	if c.assumeYes {
		return true
	}
	fmt.Fprintf(c.out, "%s [s/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(c.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí", "y", "yes":
		return true
	default:
		return false
	}
}
