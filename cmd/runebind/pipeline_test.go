package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"runebind/cmd/runebind/htmlsink"
	"runebind/cmd/runebind/markup"
	"runebind/pkg/lib"
)

const greeting = `variables:
  name: World
page:
  Greeting:
    element: div
    text: "Hello {{name}}"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func defaultFlags() *renderFlags {
	return &renderFlags{handlers: handlersExpr, maxDepth: markup.DefaultMaxDepth}
}

func TestRenderPage(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hello"+pageExt, greeting)
	p, err := renderPage(path, htmlsink.NewDocument("hello"), defaultFlags())
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.html(true)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "<div>Hello World</div>\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderPage_YAML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hello.yml", `
variables:
  name: YAML
page:
  Greeting:
    element: p
    text: "Hello {{name}}"
`)
	p, err := renderPage(path, htmlsink.NewDocument(""), defaultFlags())
	if err != nil {
		t.Fatal(err)
	}
	out, _ := p.html(true)
	if string(out) != "<p>Hello YAML</p>\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRenderPage_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := renderPage(filepath.Join(dir, "absent"+pageExt), htmlsink.NewDocument(""), defaultFlags())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	path := writeFile(t, dir, "nopage"+pageExt, "variables:\n  a: 1\n")
	p, err := renderPage(path, htmlsink.NewDocument(""), defaultFlags())
	if !errors.Is(err, markup.ErrMissingPage) {
		t.Fatalf("expected ErrMissingPage, got %v", err)
	}
	if p.diagnostics() == nil {
		t.Fatal("diagnostics must never be nil")
	}

	f := defaultFlags()
	f.handlers = "js"
	if _, err := renderPage(path, htmlsink.NewDocument(""), f); err == nil {
		t.Fatal("expected unknown handlers error")
	}
}

func TestRenderAll_ManyFilesToDirectory(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for _, name := range []string{"one", "two", "three"} {
		files = append(files, writeFile(t, dir, name+pageExt, strings.Replace(greeting, "World", name, 1)))
	}
	out := filepath.Join(dir, "site")

	f := defaultFlags()
	f.fragment = true
	if err := renderAll(files, f, out); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"one", "two", "three"} {
		data, err := os.ReadFile(filepath.Join(out, name+".html"))
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "<div>Hello "+name+"</div>\n" {
			t.Fatalf("%s: got %q", name, data)
		}
	}
}

func TestRenderAll_Strict(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantCode int
	}{
		{"warnings pass", greeting + "  Extra:\n    element: p\n", 0},
		{"errors fail", greeting + "    children:\n      - Bad:\n          element: 5\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "page"+pageExt, tt.src)
			out := filepath.Join(dir, "out.html")
			f := defaultFlags()
			f.strict = true

			err := renderAll([]string{path}, f, out)
			if got := lib.ExitCode(err); got != tt.wantCode {
				t.Fatalf("exit code %d, want %d (err: %v)", got, tt.wantCode, err)
			}
			_, statErr := os.Stat(out)
			if tt.wantCode != 0 && !errors.Is(statErr, os.ErrNotExist) {
				t.Fatal("strict failure must not write output")
			}
			if tt.wantCode == 0 && statErr != nil {
				t.Fatalf("expected output: %v", statErr)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		src, out string
		many     bool
		want     string
	}{
		{"pages/a.rb", "", false, filepath.Join("pages", "a.html")},
		{"pages/a.rb", "", true, filepath.Join("pages", "a.html")},
		{"pages/a.rb", "site", true, filepath.Join("site", "a.html")},
		{"pages/a.rb", "x.html", false, "x.html"},
		{"pages/a.yml", "site", true, filepath.Join("site", "a.html")},
	}
	for _, tt := range tests {
		if got := outputPath(tt.src, tt.out, tt.many); got != tt.want {
			t.Errorf("outputPath(%q, %q, %v) = %q, want %q", tt.src, tt.out, tt.many, got, tt.want)
		}
	}
}

func TestRenderTo(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hello"+pageExt, greeting)
	out := filepath.Join(dir, "hello.html")
	doc := htmlsink.NewDocument("hello")

	if err := renderTo(path, out, doc, defaultFlags()); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<title>hello</title>") || !strings.Contains(string(data), "<div>Hello World</div>") {
		t.Fatalf("got %s", data)
	}

	// A second pass into the same document replaces the first.
	writeFile(t, dir, "hello"+pageExt, strings.Replace(greeting, "World", "again", 1))
	if err := renderTo(path, out, doc, defaultFlags()); err != nil {
		t.Fatal(err)
	}
	data, _ = os.ReadFile(out)
	if strings.Contains(string(data), "World") || !strings.Contains(string(data), "Hello again") {
		t.Fatalf("got %s", data)
	}
}

func TestRenderTo_Stdout(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "hello"+pageExt, greeting)
	capture, err := os.Create(filepath.Join(dir, "stdout"))
	if err != nil {
		t.Fatal(err)
	}
	defer capture.Close()
	stdout := os.Stdout
	os.Stdout = capture
	defer func() { os.Stdout = stdout }()

	f := defaultFlags()
	f.fragment = true
	if err := renderTo(path, "", htmlsink.NewDocument("hello"), f); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(capture.Name())
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "<div>Hello World</div>\n" {
		t.Fatalf("got %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, "hello.html")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("no file must be written next to the page")
	}
}

func TestStarterPageRendersClean(t *testing.T) {
	path := writeFile(t, t.TempDir(), "index"+pageExt, string(initPage))
	doc := htmlsink.NewDocument("index")
	p, err := renderPage(path, doc, defaultFlags())
	if err != nil {
		t.Fatal(err)
	}
	if p.diagnostics().Len() != 0 {
		t.Fatalf("starter page has diagnostics: %v", p.diagnostics().Items())
	}
	button := doc.Root().LastChild.PrevSibling
	if err := doc.Dispatch(button, "click", 2); err != nil {
		t.Fatal(err)
	}
	if got := htmlsink.TextContent(button); got != "Clicked 2 times" {
		t.Fatalf("got %q", got)
	}
}
