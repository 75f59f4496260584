package htmlsink

import (
	"errors"
	"strings"
	"testing"

	"runebind/cmd/runebind/markup"

	"golang.org/x/net/html"
)

func render(t *testing.T, src string, handlers markup.HandlerCompiler) (*Document, *markup.Result) {
	t.Helper()
	doc := NewDocument("test")
	res, err := markup.Render(strings.NewReader(src), doc.Reset(), markup.WithHandlers(handlers))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if err := doc.Mount(res.Root); err != nil {
		t.Fatal(err)
	}
	return doc, res
}

func fragment(t *testing.T, doc *Document) string {
	t.Helper()
	var b strings.Builder
	if err := doc.Render(&b, true); err != nil {
		t.Fatal(err)
	}
	return b.String()
}

func TestRender_Greeting(t *testing.T) {
	doc, _ := render(t, `
variables:
  name: World
page:
  Greeting:
    element: div
    text: "Hello {{name}}"
`, nil)
	if got := fragment(t, doc); got != "<div>Hello World</div>\n" {
		t.Fatalf("got %q", got)
	}
}

func TestRender_FullDocument(t *testing.T) {
	doc, _ := render(t, `
styles:
  .box:
    backgroundColor: red
page:
  Root:
    element: section
    class: box
    children:
      - Link:
          element: a
          href: "https://example.com/?a=1&b=2"
          text: "<go>"
`, nil)
	var b strings.Builder
	if err := doc.Render(&b, false); err != nil {
		t.Fatal(err)
	}
	want := `<!DOCTYPE html><html><head><meta charset="utf-8"/><title>test</title>` +
		"<style>\n.box {\n  background-color: red;\n}\n\n</style></head>" +
		`<body><section class="box"><a href="https://example.com/?a=1&amp;b=2">&lt;go&gt;</a></section></body></html>` + "\n"
	if got := b.String(); got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
	if doc.Root().Parent != nil {
		t.Fatal("root must stay detached after rendering")
	}
}

func TestSink_TextReplacesChildren(t *testing.T) {
	s := New()
	parent := s.CreateNode("ul")
	s.AppendChild(parent, s.CreateNode("li"))
	s.AppendChild(parent, s.CreateNode("li"))
	s.SetText(parent, "flat")

	n := parent.(*html.Node)
	if n.FirstChild == nil || n.FirstChild != n.LastChild || n.FirstChild.Type != html.TextNode {
		t.Fatalf("expected a single text child")
	}
	if TextContent(n) != "flat" {
		t.Fatalf("got %q", TextContent(n))
	}
	s.SetText(parent, "")
	if n.FirstChild != nil {
		t.Fatal("empty text must clear children")
	}
}

func TestSink_Styles(t *testing.T) {
	s := New()
	h := s.CreateNode("p")
	n := h.(*html.Node)

	s.SetStyleProperty(h, "fontSize", "12px")
	s.SetStyleProperty(h, "color", "red")
	s.SetStyleProperty(h, "fontSize", "14px")
	if got, _ := Attr(n, "style"); got != "font-size: 14px; color: red" {
		t.Fatalf("got %q", got)
	}

	s.SetStyleProperty(h, "fontSize", "")
	s.SetStyleProperty(h, "color", "")
	if _, ok := Attr(n, "style"); ok {
		t.Fatal("expected style attribute to be removed")
	}
}

func TestSink_Attributes(t *testing.T) {
	s := New()
	h := s.CreateNode("INPUT")
	n := h.(*html.Node)
	if n.Data != "input" {
		t.Fatalf("tag not lowercased: %q", n.Data)
	}
	s.SetAttribute(h, "tabIndex", 3.0)
	s.SetAttribute(h, "disabled", true)
	s.SetAttribute(h, "tabindex", 4.0)
	s.SetClass(h, "a b")

	var got []string
	for _, a := range n.Attr {
		got = append(got, a.Key+"="+a.Val)
	}
	if strings.Join(got, " ") != "tabindex=4 disabled=true class=a b" {
		t.Fatalf("got %v", got)
	}
}

func TestSink_AppendChildMoves(t *testing.T) {
	s := New()
	a, b, c := s.CreateNode("div"), s.CreateNode("div"), s.CreateNode("span")
	s.AppendChild(a, c)
	s.AppendChild(b, c)
	if a.(*html.Node).FirstChild != nil || c.(*html.Node).Parent != b.(*html.Node) {
		t.Fatal("child was not moved")
	}
}

func TestDispatch(t *testing.T) {
	handlers := markup.NewNamedHandlers()
	boom := errors.New("boom")
	_ = handlers.Register("press", func(this *markup.Target, ev any) error {
		this.SetText("pressed").SetAttribute("aria-pressed", true)
		return nil
	})
	_ = handlers.Register("fail", func(*markup.Target, any) error { return boom })

	doc, _ := render(t, `
page:
  Button:
    element: button
    text: idle
    onClick: press
    onKeyDown: fail
`, handlers)

	root := doc.Root()
	if err := doc.Dispatch(root, "click", nil); err != nil {
		t.Fatal(err)
	}
	if got := fragment(t, doc); got != `<button aria-pressed="true">pressed</button>`+"\n" {
		t.Fatalf("got %q", got)
	}
	if err := doc.Dispatch(root, "keydown", nil); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if err := doc.Dispatch(root, "scroll", nil); err != nil {
		t.Fatalf("unbound event: %v", err)
	}
}

func TestDispatch_JoinsErrors(t *testing.T) {
	s := New()
	h := s.CreateNode("div")
	e1, e2 := errors.New("one"), errors.New("two")
	calls := 0
	s.AddEventListener(h, "click", func(any) error { calls++; return e1 })
	s.AddEventListener(h, "click", func(any) error { calls++; return e2 })

	err := s.Dispatch(h.(*html.Node), "click", nil)
	if calls != 2 || !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Fatalf("calls=%d err=%v", calls, err)
	}
}

func TestDocument_ResetAndMount(t *testing.T) {
	doc := NewDocument("")
	if got := fragment(t, doc); got != "" {
		t.Fatalf("empty document rendered %q", got)
	}
	s := doc.Reset()
	parent, child := s.CreateNode("div"), s.CreateNode("p")
	s.AppendChild(parent, child)
	if err := doc.Mount(child); err == nil {
		t.Fatal("expected attached node to be rejected")
	}
	if err := doc.Mount("not a node"); err == nil {
		t.Fatal("expected foreign handle to be rejected")
	}
	if err := doc.Mount(parent); err != nil {
		t.Fatal(err)
	}
	doc.Reset()
	if doc.Root() != nil {
		t.Fatal("reset must unmount")
	}
}

func TestOutline(t *testing.T) {
	handlers := markup.NewNamedHandlers()
	_ = handlers.Register("go", func(*markup.Target, any) error { return nil })
	doc, _ := render(t, `
page:
  App:
    element: main
    class: "app  dark"
    children:
      - Title:
          element: h1
          text: Hi
          id: top
      - Btn:
          element: button
          onClick: go
          style:
            color: red
`, handlers)

	want := "main.app.dark\n" +
		"  h1 [id=\"top\"]\n" +
		"    \"Hi\"\n" +
		"  button [style=\"color: red\"] @click\n"
	if got := doc.Outline(); got != want {
		t.Fatalf("got\n%s\nwant\n%s", got, want)
	}
	if got := Outline(doc.Root()); strings.Contains(got, "@click") {
		t.Fatalf("package Outline has no sink to read events from: %s", got)
	}
}
