package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	colorAccent = lipgloss.Color("#2CD7C7")
	colorMuted  = lipgloss.Color("#6C7A89")
	colorGood   = lipgloss.Color("#2ECC71")
	colorBad    = lipgloss.Color("#E74C3C")
	colorWarn   = lipgloss.Color("#F4D03F")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle = lipgloss.NewStyle().Foreground(colorMuted)
	goodStyle  = lipgloss.NewStyle().Foreground(colorGood)
	badStyle   = lipgloss.NewStyle().Foreground(colorBad)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarn)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
)

// printer writes command output, styled only when it goes to a terminal.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(cmd *cobra.Command) *printer {
	w := cmd.OutOrStdout()
	p := &printer{w: w}
	if f, ok := w.(*os.File); ok {
		p.color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p *printer) box(text string) string {
	if !p.color {
		return text
	}
	return boxStyle.Render(text)
}

func (p *printer) println(a ...any) { fmt.Fprintln(p.w, a...) }

func (p *printer) printf(format string, a ...any) { fmt.Fprintf(p.w, format, a...) }

// bar draws a proportional histogram bar at most width cells wide.
func bar(n, most, width int) string {
	if most <= 0 {
		return ""
	}
	cells := n * width / most
	if n > 0 && cells == 0 {
		cells = 1
	}
	return strings.Repeat("█", cells)
}
