package markup

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic. Both severities are recoverable: fatal
// problems are returned as errors, never recorded here.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Diagnostic is one recoverable problem found during a pass.
// Line is 1-based; 0 means the problem is not tied to a source line.
type Diagnostic struct {
	Severity Severity
	Line     int
	Message  string
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", d.Severity, d.Line, d.Message)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Message)
}

// Diagnostics collects the diagnostics of a single pass in emission order.
// A nil *Diagnostics discards everything.
type Diagnostics struct {
	items []Diagnostic
	line  int
}

// Warnf records a warning against the current line.
func (d *Diagnostics) Warnf(format string, args ...any) {
	d.add(SeverityWarning, format, args...)
}

// Errorf records a recoverable error against the current line.
func (d *Diagnostics) Errorf(format string, args ...any) {
	d.add(SeverityError, format, args...)
}

func (d *Diagnostics) add(sev Severity, format string, args ...any) {
	if d == nil {
		return
	}
	d.items = append(d.items, Diagnostic{
		Severity: sev,
		Line:     d.line,
		Message:  fmt.Sprintf(format, args...),
	})
}

// setLine tags subsequent diagnostics with line n (0 clears it).
func (d *Diagnostics) setLine(n int) {
	if d != nil {
		d.line = n
	}
}

// Items returns the recorded diagnostics.
func (d *Diagnostics) Items() []Diagnostic {
	if d == nil {
		return nil
	}
	return d.items
}

// Warnings returns only the warnings.
func (d *Diagnostics) Warnings() []Diagnostic {
	return d.filter(SeverityWarning)
}

// Errors returns only the recoverable errors.
func (d *Diagnostics) Errors() []Diagnostic {
	return d.filter(SeverityError)
}

func (d *Diagnostics) filter(sev Severity) []Diagnostic {
	var out []Diagnostic
	for _, it := range d.Items() {
		if it.Severity == sev {
			out = append(out, it)
		}
	}
	return out
}

// Len returns the number of diagnostics.
func (d *Diagnostics) Len() int {
	return len(d.Items())
}

func (d *Diagnostics) String() string {
	var b strings.Builder
	for _, it := range d.Items() {
		b.WriteString(it.String())
		b.WriteByte('\n')
	}
	return b.String()
}
