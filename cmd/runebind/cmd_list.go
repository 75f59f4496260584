package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all known pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		pages, err := resolvePages(configDir)
		if err != nil {
			return err
		}
		printPages(pages)
		return nil
	},
}

// printPages prints page titles aligned with their paths.
func printPages(pages []string) {
	if len(pages) == 0 {
		fmt.Println("no pages found")
		return
	}

	maxLen := 0
	for _, p := range pages {
		if n := len(pageTitle(p)); n > maxLen {
			maxLen = n
		}
	}
	for _, p := range pages {
		fmt.Printf("%-*s  %s\n", maxLen, pageTitle(p), styleDim.Render(p))
	}
}
