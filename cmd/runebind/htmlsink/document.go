package htmlsink

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"runebind/cmd/runebind/markup"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document hosts the result of the latest render pass. It is safe for
// concurrent use, so a file watcher can re-render while a viewer reads it.
type Document struct {
	mu    sync.Mutex
	title string
	sink  *Sink
	root  *html.Node
}

// NewDocument returns an empty document titled title.
func NewDocument(title string) *Document {
	return &Document{title: title, sink: New()}
}

// Reset clears the mounted tree and injected CSS and returns the sink the
// next pass must render into.
func (d *Document) Reset() *Sink {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sink = New()
	d.root = nil
	return d.sink
}

// Mount makes root the document body content. root must come from the sink
// returned by the latest Reset.
func (d *Document) Mount(root markup.Handle) error {
	n, ok := root.(*html.Node)
	if !ok {
		return fmt.Errorf("mount: unexpected handle type %T", root)
	}
	if n.Parent != nil {
		return fmt.Errorf("mount: <%s> is already attached", n.Data)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.root = n
	return nil
}

// Root returns the mounted node, or nil.
func (d *Document) Root() *html.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.root
}

// Dispatch fires event on n through the current sink.
func (d *Document) Dispatch(n *html.Node, event string, payload any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sink.Dispatch(n, event, payload)
}

// Render writes the document. With fragment set only the mounted root is
// written; otherwise a complete page with the injected CSS in <head>.
func (d *Document) Render(w io.Writer, fragment bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	bw := bufio.NewWriter(w)
	if fragment {
		if d.root != nil {
			if err := html.Render(bw, d.root); err != nil {
				return err
			}
			bw.WriteByte('\n')
		}
		return bw.Flush()
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	htmlEl := element(atom.Html)
	doc.AppendChild(htmlEl)

	head := element(atom.Head)
	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head.AppendChild(meta)
	if d.title != "" {
		title := element(atom.Title)
		title.AppendChild(&html.Node{Type: html.TextNode, Data: d.title})
		head.AppendChild(title)
	}
	for _, css := range d.sink.CSS() {
		style := element(atom.Style)
		style.AppendChild(&html.Node{Type: html.TextNode, Data: "\n" + css})
		head.AppendChild(style)
	}
	htmlEl.AppendChild(head)

	body := element(atom.Body)
	htmlEl.AppendChild(body)
	if d.root != nil {
		body.AppendChild(d.root)
		defer body.RemoveChild(d.root)
	}

	if err := html.Render(bw, doc); err != nil {
		return err
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}

// Outline returns an indented outline of the mounted tree, one element per
// line, including the events each element listens to.
func (d *Document) Outline() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.root == nil {
		return ""
	}
	return outline(d.root, d.sink.Events)
}

// Outline returns an indented outline of the tree rooted at n.
func Outline(n *html.Node) string {
	return outline(n, nil)
}

func outline(n *html.Node, events func(*html.Node) []string) string {
	var b strings.Builder
	var walk func(n *html.Node, depth int)
	walk = func(n *html.Node, depth int) {
		switch n.Type {
		case html.ElementNode:
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				fmt.Fprintf(&b, "%s%q\n", strings.Repeat("  ", depth), t)
			}
			return
		default:
			return
		}

		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.Data)
		if class, ok := Attr(n, "class"); ok && class != "" {
			b.WriteString("." + strings.Join(strings.Fields(class), "."))
		}
		var attrs []string
		for _, a := range n.Attr {
			if a.Key == "class" {
				continue
			}
			attrs = append(attrs, fmt.Sprintf("%s=%q", a.Key, a.Val))
		}
		sort.Strings(attrs)
		if len(attrs) > 0 {
			b.WriteString(" [" + strings.Join(attrs, " ") + "]")
		}
		if events != nil {
			for _, ev := range events(n) {
				b.WriteString(" @" + ev)
			}
		}
		b.WriteByte('\n')
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, depth+1)
		}
	}
	walk(n, 0)
	return b.String()
}
