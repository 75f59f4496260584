package main

import (
	"fmt"
	"io"

	"runebind/cmd/runebind/markup"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleWarn = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	styleError = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))

	styleFile = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99"))

	styleDim = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// printDiagnostics writes one line per diagnostic, e.g.
//
//	page.rb:12: warning: found array item '-' without a sequence parent
func printDiagnostics(w io.Writer, path string, diag *markup.Diagnostics) {
	for _, d := range diag.Items() {
		fmt.Fprintln(w, formatDiagnostic(path, d))
	}
}

func formatDiagnostic(path string, d markup.Diagnostic) string {
	loc := path
	if d.Line > 0 {
		loc = fmt.Sprintf("%s:%d", path, d.Line)
	}
	sev := styleWarn.Render(d.Severity.String())
	if d.Severity == markup.SeverityError {
		sev = styleError.Render(d.Severity.String())
	}
	return fmt.Sprintf("%s: %s: %s", styleFile.Render(loc), sev, d.Message)
}
