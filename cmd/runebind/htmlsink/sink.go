// Package htmlsink renders markup trees as HTML through golang.org/x/net/html.
package htmlsink

import (
	"errors"
	"fmt"
	"strings"

	"runebind/cmd/runebind/markup"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sink implements markup.Sink over *html.Node. Handles are *html.Node.
// A Sink serves one render pass and is not safe for concurrent use.
type Sink struct {
	css       []string
	styles    map[*html.Node]*orderedmap.OrderedMap[string, string]
	listeners map[*html.Node]*orderedmap.OrderedMap[string, []markup.Listener]
}

var _ markup.Sink = (*Sink)(nil)

// New returns an empty Sink.
func New() *Sink {
	return &Sink{
		styles:    make(map[*html.Node]*orderedmap.OrderedMap[string, string]),
		listeners: make(map[*html.Node]*orderedmap.OrderedMap[string, []markup.Listener]),
	}
}

func node(h markup.Handle) *html.Node {
	n, ok := h.(*html.Node)
	if !ok {
		panic(fmt.Sprintf("htmlsink: foreign handle %T", h))
	}
	return n
}

// CreateNode returns a detached element. Tag names are lowercased as an HTML
// document would.
func (s *Sink) CreateNode(tag string) markup.Handle {
	tag = strings.ToLower(tag)
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// SetText replaces every child of the node with a single text node.
func (s *Sink) SetText(h markup.Handle, text string) {
	n := node(h)
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// SetStyleProperty sets one inline declaration. Setting a property again
// keeps its position; an empty value removes it.
func (s *Sink) SetStyleProperty(h markup.Handle, name, value string) {
	n := node(h)
	decls, ok := s.styles[n]
	if !ok {
		decls = orderedmap.New[string, string]()
		s.styles[n] = decls
	}
	name = markup.KebabCase(name)
	if value == "" {
		decls.Delete(name)
	} else {
		decls.Set(name, value)
	}

	parts := make([]string, 0, decls.Len())
	for p := decls.Oldest(); p != nil; p = p.Next() {
		parts = append(parts, p.Key+": "+p.Value)
	}
	if len(parts) == 0 {
		removeAttr(n, "style")
		return
	}
	setAttr(n, "style", strings.Join(parts, "; "))
}

func (s *Sink) SetClass(h markup.Handle, class string) {
	setAttr(node(h), "class", class)
}

// SetAttribute stores the canonical text of value under the lowercased name.
func (s *Sink) SetAttribute(h markup.Handle, name string, value markup.Scalar) {
	setAttr(node(h), strings.ToLower(name), markup.FormatScalar(value))
}

// AppendChild moves child to the end of parent's children.
func (s *Sink) AppendChild(parent, child markup.Handle) {
	p, c := node(parent), node(child)
	if c.Parent != nil {
		c.Parent.RemoveChild(c)
	}
	p.AppendChild(c)
}

func (s *Sink) AddEventListener(h markup.Handle, event string, l markup.Listener) {
	n := node(h)
	events, ok := s.listeners[n]
	if !ok {
		events = orderedmap.New[string, []markup.Listener]()
		s.listeners[n] = events
	}
	prev, _ := events.Get(event)
	events.Set(event, append(prev, l))
}

func (s *Sink) InjectGlobalCSS(css string) {
	s.css = append(s.css, css)
}

// CSS returns the injected style blocks in injection order.
func (s *Sink) CSS() []string {
	return s.css
}

// Events returns the events n has listeners for, in registration order.
func (s *Sink) Events(n *html.Node) []string {
	events, ok := s.listeners[n]
	if !ok {
		return nil
	}
	out := make([]string, 0, events.Len())
	for p := events.Oldest(); p != nil; p = p.Next() {
		out = append(out, p.Key)
	}
	return out
}

// Dispatch fires event on n. Every listener runs, in registration order;
// their errors are joined.
func (s *Sink) Dispatch(n *html.Node, event string, payload any) error {
	events, ok := s.listeners[n]
	if !ok {
		return nil
	}
	ls, _ := events.Get(event)
	var errs []error
	for _, l := range ls {
		if err := l(payload); err != nil {
			errs = append(errs, fmt.Errorf("event=%s: %w", event, err))
		}
	}
	return errors.Join(errs...)
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key && n.Attr[i].Namespace == "" {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// TextContent concatenates the text of n and its descendants.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
