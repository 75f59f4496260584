package main

import (
	"bytes"
	"strings"
	"testing"

	"runebind/cmd/runebind/markup"
)

func TestFormatDiagnostic(t *testing.T) {
	tests := []struct {
		name string
		d    markup.Diagnostic
		want string
	}{
		{"with line", markup.Diagnostic{Line: 12, Message: "stray item"}, "page.rb:12: warning: stray item"},
		{"no line", markup.Diagnostic{Message: "only 'A' is rendered"}, "page.rb: warning: only 'A' is rendered"},
		{"error", markup.Diagnostic{Severity: markup.SeverityError, Line: 3, Message: "bad tag"}, "page.rb:3: error: bad tag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Tests run without a terminal, so lipgloss renders plain text.
			if got := formatDiagnostic("page.rb", tt.d); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintDiagnostics_OnePerLine(t *testing.T) {
	diag := &markup.Diagnostics{}
	diag.Warnf("first")
	diag.Errorf("second")

	var buf bytes.Buffer
	printDiagnostics(&buf, "x.rb", diag)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", buf.String())
	}
	if !strings.HasSuffix(lines[1], "error: second") {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}
