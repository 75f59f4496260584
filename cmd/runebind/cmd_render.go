package main

import (
	"fmt"
	"os"
	"runtime"

	"runebind/cmd/runebind/htmlsink"
	"runebind/pkg/lib"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	renderOpts   renderFlags
	renderOutput string
	renderPick   bool
)

var renderCmd = &cobra.Command{
	Use:   "render [files...]",
	Short: "Render pages to HTML",
	Long: "Render each page to HTML. A single page without --output is written to\n" +
		"stdout. With several pages --output names a directory; without it each\n" +
		"page is written next to its source as <name>.html.\n\n" +
		"Pages render concurrently, each in its own pass. Files ending in .yml or\n" +
		".yaml are read as YAML definitions (see `" + appName + " parse`).\n\n" +
		"Without arguments, or with --pick, pages are chosen interactively.",
	ValidArgsFunction: pageCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadRenderFlags(cmd, &renderOpts); err != nil {
			return err
		}
		files := args
		if len(files) == 0 || renderPick {
			picked, err := pickPages(true)
			if err != nil {
				return err
			}
			files = append(files, picked...)
		}
		return renderAll(files, &renderOpts, renderOutput)
	},
}

func renderAll(files []string, f *renderFlags, output string) error {
	many := len(files) > 1
	if many && output != "" {
		if err := os.MkdirAll(output, 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", output, err)
		}
	}

	pages := make([]*page, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			p, err := renderPage(file, htmlsink.NewDocument(pageTitle(file)), f)
			pages[i] = p
			if err != nil {
				return err
			}
			if f.strict && p.strictFailure() {
				return nil
			}
			out, err := p.html(f.fragment)
			if err != nil {
				return err
			}
			if !many && output == "" {
				_, err = os.Stdout.Write(out)
				return err
			}
			dst := outputPath(file, output, many)
			if err := os.WriteFile(dst, out, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", dst, err)
			}
			fmt.Fprintf(os.Stderr, "rendered %s → %s\n", file, dst)
			return nil
		})
	}
	err := g.Wait()

	failed := 0
	for _, p := range pages {
		if p == nil {
			continue
		}
		printDiagnostics(os.Stderr, p.path, p.diagnostics())
		failed += len(p.diagnostics().Errors())
	}
	if err != nil {
		return err
	}
	if f.strict && failed > 0 {
		return &lib.StatusError{Code: 2, Err: fmt.Errorf("%d error diagnostic(s) reported (strict mode)", failed)}
	}
	return nil
}

func init() {
	bindRenderFlags(renderCmd.Flags(), &renderOpts)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "output file, or directory when rendering several pages")
	renderCmd.Flags().BoolVar(&renderPick, "pick", false, "choose pages interactively, in addition to any given")
}
