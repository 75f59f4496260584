package main

import (
	"os"

	"runebind/cmd/runebind/markupyaml"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Print the definitions of a page as YAML",
	Long: "Parse a page and print its definitions (page, components, variables and\n" +
		"styles) as YAML, after parse-time variable substitution. The output can be\n" +
		"rendered again with `" + appName + " render file.yml`.",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: pageCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := pageArg(args)
		if err != nil {
			return err
		}
		defs, diag, err := loadDefinitions(path)
		printDiagnostics(os.Stderr, path, diag)
		if err != nil {
			return err
		}
		out, err := markupyaml.Encode(defs)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}
