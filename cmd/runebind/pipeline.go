package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"runebind/cmd/runebind/htmlsink"
	"runebind/cmd/runebind/markup"
	"runebind/cmd/runebind/markupyaml"
)

// page is the outcome of rendering one file.
type page struct {
	path   string
	doc    *htmlsink.Document
	result *markup.Result
}

// diagnostics returns the diagnostics of the pass, never nil.
func (p *page) diagnostics() *markup.Diagnostics {
	if p.result == nil || p.result.Diagnostics == nil {
		return &markup.Diagnostics{}
	}
	return p.result.Diagnostics
}

// html renders the document to a byte slice.
// strictFailure reports whether --strict rejects the page. Warnings pass.
func (p *page) strictFailure() bool {
	return len(p.diagnostics().Errors()) > 0
}

func (p *page) html(fragment bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.doc.Render(&buf, fragment); err != nil {
		return nil, fmt.Errorf("%s: %w", p.path, err)
	}
	return buf.Bytes(), nil
}

// loadDefinitions parses a markup page, or decodes a YAML one.
func loadDefinitions(path string, opts ...markup.BuildOption) (*markup.Definitions, *markup.Diagnostics, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("page file %s: %w", path, err)
	}
	if isYAML(path) {
		defs, err := markupyaml.Decode(data)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		return defs, &markup.Diagnostics{}, nil
	}
	defs, diag, err := markup.Parse(bytes.NewReader(data), opts...)
	if err != nil {
		return nil, diag, fmt.Errorf("%s: %w", path, err)
	}
	return defs, diag, nil
}

// renderPage renders path into doc, replacing what doc held before. The
// returned page is non-nil even on error so its diagnostics can be reported.
func renderPage(path string, doc *htmlsink.Document, f *renderFlags) (*page, error) {
	p := &page{path: path, doc: doc}
	opts, err := f.options()
	if err != nil {
		return p, err
	}
	defs, diag, err := loadDefinitions(path, markup.WithMaxDepth(f.maxDepth))
	if err != nil {
		p.result = &markup.Result{Diagnostics: diag}
		return p, err
	}
	res, err := markup.RenderDefinitions(defs, diag, doc.Reset(), opts...)
	p.result = res
	if err != nil {
		return p, fmt.Errorf("%s: %w", path, err)
	}
	if err := doc.Mount(res.Root); err != nil {
		return p, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// pageTitle derives a document title from a file name: "about-us.rb" → "about-us".
func pageTitle(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// outputPath decides where the HTML for src goes. With several sources, out
// names a directory; with none, files are written next to their source.
func outputPath(src, out string, many bool) string {
	name := pageTitle(src) + ".html"
	switch {
	case out == "":
		return filepath.Join(filepath.Dir(src), name)
	case many:
		return filepath.Join(out, name)
	default:
		return out
	}
}
