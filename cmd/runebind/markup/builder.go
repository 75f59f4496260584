package markup

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// DefaultMaxDepth bounds the parsing stack.
const DefaultMaxDepth = 256

// frame is one entry of the parsing stack. A line nests under a frame only
// while its indentation is strictly greater than the frame's level.
type frame struct {
	level     int
	container Value // *Definitions (root sentinel), *Map or *Sequence
}

// BuildOption configures Build and Parse.
type BuildOption func(*builder)

// WithMaxDepth bounds how deep scopes may nest. Lines that would exceed the
// bound are skipped with a warning.
func WithMaxDepth(n int) BuildOption {
	return func(b *builder) {
		if n > 0 {
			b.maxDepth = n
		}
	}
}

type builder struct {
	defs     *Definitions
	diag     *Diagnostics
	stack    []frame
	maxDepth int

	// trace observes the stack depth after each processed line (tests only).
	trace func(line, depth int)
}

// Parse reads DSL source line by line and builds its Definitions.
func Parse(r io.Reader, opts ...BuildOption) (*Definitions, *Diagnostics, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading source: %w", err)
	}
	return Build(lines, opts...)
}

// Build turns an ordered sequence of lines into Definitions. Malformed lines
// are skipped and reported as warnings; only an indentation stack underflow is
// fatal.
//
// Indentation is the length of the leading whitespace run, counted in runes:
// a tab is one column, like a space. Values are quote-stripped and coerced but
// keep their {{name}} placeholders.
func Build(lines []string, opts ...BuildOption) (*Definitions, *Diagnostics, error) {
	defs := NewDefinitions()
	diag := &Diagnostics{}
	b := &builder{
		defs:     defs,
		diag:     diag,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.stack = []frame{{level: -1, container: defs}}

	for i, line := range lines {
		if err := b.line(i+1, line); err != nil {
			return nil, diag, err
		}
		if b.trace != nil {
			b.trace(i+1, len(b.stack))
		}
	}
	diag.setLine(0)
	b.finish()
	return defs, diag, nil
}

func (b *builder) top() frame {
	return b.stack[len(b.stack)-1]
}

func (b *builder) push(level int, container Value) bool {
	if len(b.stack) > b.maxDepth {
		b.diag.Warnf("nesting deeper than %d levels; line skipped", b.maxDepth)
		return false
	}
	b.stack = append(b.stack, frame{level: level, container: container})
	return true
}

func (b *builder) line(n int, raw string) error {
	content := strings.TrimSpace(raw)
	if content == "" || strings.HasPrefix(content, "#") {
		return nil
	}
	b.diag.setLine(n)
	indent := indentation(raw)

	for len(b.stack) > 1 && indent <= b.top().level {
		b.stack = b.stack[:len(b.stack)-1]
	}
	if len(b.stack) == 0 || indent <= b.top().level {
		return fmt.Errorf("line %d: %w", n, ErrIndentation)
	}

	if strings.HasPrefix(content, "-") {
		b.arrayItem(indent, content, raw)
		return nil
	}
	b.keyValue(indent, content, raw)
	return nil
}

// arrayItem handles `- value` and `- name:` lines.
func (b *builder) arrayItem(indent int, content, raw string) {
	seq, ok := b.top().container.(*Sequence)
	if !ok {
		b.diag.Warnf("found array item '-' without a sequence parent: %q", raw)
		return
	}
	item := strings.TrimSpace(content[1:])
	key, value, isKey := splitKey(item)
	if !isKey {
		seq.Append(Coerce(item))
		return
	}
	if value != "" {
		b.diag.Warnf("array item '%s' ignores inline value %q", key, value)
	}
	inner := NewMap()
	wrapper := NewMap()
	wrapper.Set(key, inner)
	if !b.push(indent, inner) {
		return
	}
	seq.Append(wrapper)
}

// keyValue handles section headers, nested scopes and leaf assignments.
func (b *builder) keyValue(indent int, content, raw string) {
	key, value, ok := splitKey(content)
	if !ok {
		b.diag.Warnf("invalid format, expected 'key: value' or a section definition: %q", raw)
		return
	}

	parent := b.top()
	if defs, isRoot := parent.container.(*Definitions); isRoot {
		if !isSection(key) {
			b.diag.Warnf("unknown top-level section '%s'; ignoring", key)
			return
		}
		if value != "" {
			b.diag.Warnf("top-level section '%s' should not have a value on the same line; ignoring %q", key, value)
		}
		sec, _ := defs.section(key)
		b.push(indent, sec)
		return
	}

	m, ok := parent.container.(*Map)
	if !ok {
		if value == "" {
			b.diag.Warnf("cannot define nested scope '%s' under a sequence parent: %q", key, raw)
		} else {
			b.diag.Warnf("cannot define key-value pair '%s' directly inside a sequence: %q", key, raw)
		}
		return
	}

	if value != "" {
		m.Set(key, Coerce(value))
		return
	}

	var scope Value
	if key == "children" {
		scope = &Sequence{}
	} else {
		scope = NewMap()
	}
	if b.push(indent, scope) {
		m.Set(key, scope)
	}
}

// finish normalizes the page section once all lines are consumed.
func (b *builder) finish() {
	page := b.defs.Page
	if page == nil {
		return
	}
	switch {
	case page.Len() == 0:
		b.defs.Page = nil
	case page.Len() > 1:
		name, _, _ := page.First()
		b.diag.Warnf("page section defines %d elements; only '%s' is rendered", page.Len(), name)
	}
}

func isSection(key string) bool {
	switch key {
	case SectionPage, SectionComponents, SectionVariables, SectionStyles:
		return true
	}
	return false
}

// indentation returns the number of leading whitespace runes of line.
func indentation(line string) int {
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return n
}

// splitKey splits "key: value" at the first colon. A key wrapped in matching
// quotes may itself contain colons; the quotes are removed. ok is false when
// there is no colon after a non-empty key.
func splitKey(content string) (key, value string, ok bool) {
	if content != "" && (content[0] == '"' || content[0] == '\'') {
		end := strings.IndexByte(content[1:], content[0])
		if end < 0 {
			return "", "", false
		}
		end++
		rest := strings.TrimLeft(content[end+1:], " \t")
		if !strings.HasPrefix(rest, ":") {
			return "", "", false
		}
		key = content[1:end]
		return key, strings.TrimSpace(rest[1:]), key != ""
	}
	idx := strings.IndexByte(content, ':')
	if idx <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(content[:idx])
	return key, strings.TrimSpace(content[idx+1:]), key != ""
}
