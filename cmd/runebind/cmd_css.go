package main

import (
	"fmt"
	"os"

	"runebind/cmd/runebind/markup"

	"github.com/spf13/cobra"
)

var cssCmd = &cobra.Command{
	Use:               "css [file]",
	Short:             "Print the stylesheet a page injects",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: pageCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := pageArg(args)
		if err != nil {
			return err
		}
		defs, diag, err := loadDefinitions(path)
		if err != nil {
			printDiagnostics(os.Stderr, path, diag)
			return err
		}
		css := markup.EmitCSS(defs.Styles, markup.NewResolver(defs.Variables, diag))
		printDiagnostics(os.Stderr, path, diag)
		fmt.Print(css)
		return nil
	},
}
