package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"

	"runebind/cmd/runebind/htmlsink"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	watchOpts   renderFlags
	watchOutput string
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-render a page whenever it changes",
	Long: "Render a page, then render it again every time the file is saved.\n" +
		"Each pass is tagged with a short id in the log. Stop with Ctrl+C.",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: pageCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadRenderFlags(cmd, &watchOpts); err != nil {
			return err
		}
		path := args[0]
		out := watchOutput

		doc := htmlsink.NewDocument(pageTitle(path))
		var mu sync.Mutex
		pass := func() {
			mu.Lock()
			defer mu.Unlock()
			id := uuid.NewString()[:8]
			if err := renderTo(path, out, doc, &watchOpts); err != nil {
				fmt.Fprintf(os.Stderr, "[%s] %s\n", id, styleError.Render(err.Error()))
				return
			}
			dst := out
			if dst == "" {
				dst = "stdout"
			}
			fmt.Fprintf(os.Stderr, "[%s] rendered %s → %s\n", id, path, dst)
		}
		pass()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		fmt.Fprintf(os.Stderr, "watching %s (Ctrl+C to stop)\n", path)
		return watchFile(ctx, path, pass)
	},
}

// renderTo renders path into doc and writes the HTML to out, or to stdout
// when out is empty. Diagnostics go to stderr.
func renderTo(path, out string, doc *htmlsink.Document, f *renderFlags) error {
	p, err := renderPage(path, doc, f)
	printDiagnostics(os.Stderr, path, p.diagnostics())
	if err != nil {
		return err
	}
	if f.strict && p.strictFailure() {
		return fmt.Errorf("%d error diagnostic(s) reported (strict mode); output not updated", len(p.diagnostics().Errors()))
	}
	data, err := p.html(f.fragment)
	if err != nil {
		return err
	}
	if out == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}

func init() {
	bindRenderFlags(watchCmd.Flags(), &watchOpts)
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "output file (default: stdout)")
}
