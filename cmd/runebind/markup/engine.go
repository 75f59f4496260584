package markup

import (
	"fmt"
	"io"
)

// Result is the outcome of a successful render pass.
type Result struct {
	Root        Handle
	Definitions *Definitions
	Diagnostics *Diagnostics
	CSS         string
}

type renderConfig struct {
	handlers  HandlerCompiler
	buildOpts []BuildOption
}

// RenderOption configures Render.
type RenderOption func(*renderConfig)

// WithHandlers sets the compiler used for on<event> bindings.
func WithHandlers(c HandlerCompiler) RenderOption {
	return func(rc *renderConfig) { rc.handlers = c }
}

// WithBuildOptions forwards options to the structure builder.
func WithBuildOptions(opts ...BuildOption) RenderOption {
	return func(rc *renderConfig) { rc.buildOpts = append(rc.buildOpts, opts...) }
}

// Render parses src and materializes its page through sink. Every call works
// on its own Definitions; nothing is shared between calls.
//
// The first fatal error aborts the pass. Nodes already handed to the sink are
// not rolled back.
func Render(src io.Reader, sink Sink, opts ...RenderOption) (*Result, error) {
	var rc renderConfig
	for _, opt := range opts {
		opt(&rc)
	}

	defs, diag, err := Parse(src, rc.buildOpts...)
	if err != nil {
		return &Result{Diagnostics: diag}, err
	}
	return RenderDefinitions(defs, diag, sink, opts...)
}

// RenderDefinitions materializes already-built definitions. diag may be nil,
// in which case a fresh collector is used.
func RenderDefinitions(defs *Definitions, diag *Diagnostics, sink Sink, opts ...RenderOption) (*Result, error) {
	var rc renderConfig
	for _, opt := range opts {
		opt(&rc)
	}
	if diag == nil {
		diag = &Diagnostics{}
	}
	res := &Result{Definitions: defs, Diagnostics: diag}

	if defs.Page == nil || defs.Page.Len() == 0 {
		return res, ErrMissingPage
	}

	if defs.Styles.Len() > 0 {
		res.CSS = EmitCSS(defs.Styles, NewResolver(defs.Variables, diag))
		sink.InjectGlobalCSS(res.CSS)
	}

	name, props, _ := defs.Page.First()
	root, err := NewMaterializer(defs, sink, rc.handlers, diag).MaterializeElement(ElementDef{Name: name, Props: props})
	if err != nil {
		return res, fmt.Errorf("failed to create root element from 'page' definition: %w", err)
	}
	res.Root = root
	return res, nil
}
