package markup

import (
	"fmt"
	"sort"
	"strings"
	"testing"
)

// recNode is a node built by recordSink.
type recNode struct {
	tag       string
	text      string
	class     string
	styles    []string
	attrs     []string
	children  []*recNode
	listeners map[string][]Listener
}

// recordSink is an in-memory Sink used to observe materializer calls.
type recordSink struct {
	css []string
}

func (s *recordSink) CreateNode(tag string) Handle {
	return &recNode{tag: tag, listeners: map[string][]Listener{}}
}

func (s *recordSink) SetText(h Handle, text string) { h.(*recNode).text = text }

func (s *recordSink) SetStyleProperty(h Handle, name, value string) {
	n := h.(*recNode)
	n.styles = append(n.styles, name+"="+value)
}

func (s *recordSink) SetClass(h Handle, class string) { h.(*recNode).class = class }

func (s *recordSink) SetAttribute(h Handle, name string, value Scalar) {
	n := h.(*recNode)
	n.attrs = append(n.attrs, fmt.Sprintf("%s=%#v", name, value))
}

func (s *recordSink) AppendChild(parent, child Handle) {
	p := parent.(*recNode)
	p.children = append(p.children, child.(*recNode))
}

func (s *recordSink) AddEventListener(h Handle, event string, l Listener) {
	n := h.(*recNode)
	n.listeners[event] = append(n.listeners[event], l)
}

func (s *recordSink) InjectGlobalCSS(css string) { s.css = append(s.css, css) }

// snapshot renders a recNode tree one node per line, children indented.
func snapshot(h Handle) string {
	var b strings.Builder
	var walk func(n *recNode, depth int)
	walk = func(n *recNode, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.tag)
		if n.class != "" {
			fmt.Fprintf(&b, " class=%q", n.class)
		}
		if n.text != "" {
			fmt.Fprintf(&b, " text=%q", n.text)
		}
		for _, s := range n.styles {
			b.WriteString(" style:" + s)
		}
		for _, a := range n.attrs {
			b.WriteString(" " + a)
		}
		events := make([]string, 0, len(n.listeners))
		for ev := range n.listeners {
			events = append(events, ev)
		}
		sort.Strings(events)
		for _, ev := range events {
			b.WriteString(" on:" + ev)
		}
		b.WriteByte('\n')
		for _, c := range n.children {
			walk(c, depth+1)
		}
	}
	if n, ok := h.(*recNode); ok && n != nil {
		walk(n, 0)
	}
	return b.String()
}

// dump renders any definition value deterministically.
func dump(v Value) string {
	switch x := v.(type) {
	case *Map:
		parts := make([]string, 0, x.Len())
		x.Each(func(k string, v Value) {
			parts = append(parts, k+":"+dump(v))
		})
		return "{" + strings.Join(parts, ",") + "}"
	case *Sequence:
		parts := make([]string, 0, x.Len())
		for _, it := range x.Items {
			parts = append(parts, dump(it))
		}
		return "[" + strings.Join(parts, ",") + "]"
	case nil:
		return "null"
	}
	return fmt.Sprintf("%#v", v)
}

func dumpDefs(d *Definitions) string {
	var page Value
	if d.Page != nil {
		page = d.Page
	}
	return fmt.Sprintf("page=%s components=%s variables=%s styles=%s",
		dump(page), dump(d.Components), dump(d.Variables), dump(d.Styles))
}

func lines(src string) []string {
	return strings.Split(strings.TrimPrefix(src, "\n"), "\n")
}

func mustBuild(t *testing.T, src string) (*Definitions, *Diagnostics) {
	t.Helper()
	defs, diag, err := Build(lines(src))
	if err != nil {
		t.Fatalf("unexpected build error: %v", err)
	}
	return defs, diag
}

func mustContain(t *testing.T, got string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(got, sub) {
			t.Fatalf("expected %q to contain %q", got, sub)
		}
	}
}

func diagContains(diag *Diagnostics, sub string) bool {
	for _, d := range diag.Items() {
		if strings.Contains(d.Message, sub) {
			return true
		}
	}
	return false
}
