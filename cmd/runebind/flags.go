package main

import (
	"fmt"

	"runebind/cmd/runebind/exprhandler"
	"runebind/cmd/runebind/markup"

	"github.com/spf13/pflag"
)

const (
	handlersExpr  = "expr"
	handlersNamed = "named"
	handlersNone  = "none"
)

// renderFlags are the options shared by every command that materializes a page.
type renderFlags struct {
	handlers string
	fragment bool
	strict   bool
	maxDepth int
}

func bindRenderFlags(fs *pflag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.handlers, "handlers", handlersExpr,
		"event handler compiler: "+handlersExpr+", "+handlersNamed+" or "+handlersNone)
	fs.BoolVar(&f.fragment, "fragment", false, "write only the root element, not a full HTML page")
	fs.BoolVar(&f.strict, "strict", false, "fail when any error diagnostic is reported")
	fs.IntVar(&f.maxDepth, "max-depth", markup.DefaultMaxDepth, "maximum nesting depth of the markup")
}

// merge fills every flag the user did not set from the config file.
func (f *renderFlags) merge(fs *pflag.FlagSet, cfg fileConfig) {
	if !fs.Changed("handlers") && cfg.Handlers != "" {
		f.handlers = cfg.Handlers
	}
	if !fs.Changed("fragment") {
		f.fragment = cfg.Fragment
	}
	if !fs.Changed("strict") {
		f.strict = cfg.Strict
	}
}

func (f *renderFlags) options() ([]markup.RenderOption, error) {
	compiler, err := handlerCompiler(f.handlers)
	if err != nil {
		return nil, err
	}
	return []markup.RenderOption{
		markup.WithHandlers(compiler),
		markup.WithBuildOptions(markup.WithMaxDepth(f.maxDepth)),
	}, nil
}

// handlerCompiler maps a --handlers value to its compiler. "none" yields a nil
// compiler, which rejects every binding.
func handlerCompiler(name string) (markup.HandlerCompiler, error) {
	switch name {
	case handlersExpr, "":
		return exprhandler.New(), nil
	case handlersNamed:
		return builtinHandlers(), nil
	case handlersNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown handlers %q (want %s, %s or %s)", name, handlersExpr, handlersNamed, handlersNone)
	}
}

// builtinHandlers are the handlers available with --handlers named.
func builtinHandlers() *markup.NamedHandlers {
	h := markup.NewNamedHandlers()
	builtins := []struct {
		name string
		fn   markup.Handler
	}{
		{"noop", func(*markup.Target, any) error { return nil }},
		{"activate", func(this *markup.Target, _ any) error {
			this.SetClass("active")
			return nil
		}},
		{"mark", func(this *markup.Target, event any) error {
			this.SetAttribute("data-fired", fmt.Sprint(event))
			return nil
		}},
	}
	for _, b := range builtins {
		if err := h.Register(b.name, b.fn); err != nil {
			panic(fmt.Sprintf("builtin handler %s: %v", b.name, err))
		}
	}
	return h
}
