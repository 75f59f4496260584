package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"runebind/cmd/runebind/htmlsink"
	"runebind/cmd/runebind/markup"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl [file]",
	Short: "Resolve values interactively against a page's variables",
	Long: "Start an interactive shell. Every line is resolved the way a property\n" +
		"value is: quotes stripped, {{name}} placeholders substituted, then coerced\n" +
		"to a number or boolean where possible.\n\n" +
		"Commands:\n" +
		"  :load <file>        load variables, styles and page from a file\n" +
		"  :set <name> <value> define or replace a variable\n" +
		"  :vars               list variables\n" +
		"  :css                print the emitted stylesheet\n" +
		"  :page               print the element tree of the page\n" +
		"  :quit               leave",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: pageCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := &replSession{defs: markup.NewDefinitions(), out: os.Stdout}
		if len(args) > 0 {
			if err := s.load(args[0]); err != nil {
				return err
			}
		}

		cfg := &readline.Config{
			Prompt:          appName + "> ",
			InterruptPrompt: "^C",
			EOFPrompt:       ":quit",
			AutoComplete: readline.NewPrefixCompleter(
				readline.PcItem(":load"),
				readline.PcItem(":set"),
				readline.PcItem(":vars"),
				readline.PcItem(":css"),
				readline.PcItem(":page"),
				readline.PcItem(":quit"),
			),
		}
		if dir, err := resolveConfigDir(); err == nil {
			if err := os.MkdirAll(dir, 0o755); err == nil {
				cfg.HistoryFile = filepath.Join(dir, "repl_history")
			}
		}
		rl, err := readline.NewEx(cfg)
		if err != nil {
			return err
		}
		defer rl.Close()

		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				if line == "" {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if quit := s.exec(line); quit {
				return nil
			}
		}
	},
}

// replSession holds the state of one repl.
type replSession struct {
	path string
	defs *markup.Definitions
	out  io.Writer
}

func (s *replSession) load(path string) error {
	defs, diag, err := loadDefinitions(path)
	printDiagnostics(os.Stderr, path, diag)
	if err != nil {
		return err
	}
	s.path, s.defs = path, defs
	fmt.Fprintf(s.out, "loaded %s (%d variables)\n", path, defs.Variables.Len())
	return nil
}

// exec runs one input line and reports whether the session should end.
func (s *replSession) exec(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ":") {
		s.resolve(line)
		return false
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	switch name {
	case ":quit", ":q":
		return true
	case ":load":
		if rest == "" {
			fmt.Fprintln(s.out, "usage: :load <file>")
			break
		}
		if err := s.load(rest); err != nil {
			fmt.Fprintln(s.out, styleError.Render("Error: "+err.Error()))
		}
	case ":set":
		key, value, ok := strings.Cut(rest, " ")
		if !ok || key == "" {
			fmt.Fprintln(s.out, "usage: :set <name> <value>")
			break
		}
		s.defs.Variables.Set(key, markup.Coerce(value))
	case ":vars":
		if s.defs.Variables.Len() == 0 {
			fmt.Fprintln(s.out, "no variables")
		}
		s.defs.Variables.Each(func(k string, v markup.Value) {
			fmt.Fprintf(s.out, "%s = %s\n", k, describe(v))
		})
	case ":css":
		fmt.Fprint(s.out, markup.EmitCSS(s.defs.Styles, s.resolver()))
	case ":page":
		s.page()
	default:
		fmt.Fprintf(s.out, "unknown command %s\n", name)
	}
	return false
}

func (s *replSession) resolver() *markup.Resolver {
	return markup.NewResolver(s.defs.Variables, &markup.Diagnostics{})
}

// resolve prints the value line resolves to, and any warnings.
func (s *replSession) resolve(line string) {
	diag := &markup.Diagnostics{}
	v := markup.NewResolver(s.defs.Variables, diag).Resolve(line)
	fmt.Fprintln(s.out, describe(v))
	for _, d := range diag.Items() {
		fmt.Fprintln(s.out, styleDim.Render(d.String()))
	}
}

func (s *replSession) page() {
	doc := htmlsink.NewDocument("")
	diag := &markup.Diagnostics{}
	res, err := markup.RenderDefinitions(s.defs, diag, doc.Reset())
	if err == nil {
		err = doc.Mount(res.Root)
	}
	if err != nil {
		fmt.Fprintln(s.out, styleError.Render("Error: "+err.Error()))
	} else {
		fmt.Fprint(s.out, doc.Outline())
	}
	for _, d := range diag.Items() {
		fmt.Fprintln(s.out, styleDim.Render(d.String()))
	}
}

// describe renders a value with its kind: 42 (number), "x" (string).
func describe(v markup.Value) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q (string)", x)
	case float64:
		return markup.FormatScalar(x) + " (number)"
	case bool:
		return markup.FormatScalar(x) + " (boolean)"
	case *markup.Map:
		return fmt.Sprintf("{%s} (map)", strings.Join(x.Keys(), ", "))
	case *markup.Sequence:
		return fmt.Sprintf("[%d items] (sequence)", x.Len())
	default:
		return fmt.Sprintf("%v", v)
	}
}
