package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "Render declarative " + pageExt + " markup pages",
	Long: appName + " interprets indentation-structured markup pages (page, components,\n" +
		"variables and styles sections) and renders them as HTML.\n\n" +
		"Pages are looked up in <config>/pages/*" + pageExt + " and $" + envPages + ".\n" +
		"The config directory is resolved as:\n" +
		"  $" + envConfigDir + " > $XDG_CONFIG_HOME/" + appName + " > ~/.config/" + appName,
}

// pageCompletion completes page arguments with the known page files.
func pageCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	pages, err := resolvePages(configDir)
	if err != nil || len(pages) == 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	return pages, cobra.ShellCompDirectiveDefault
}

// loadRenderFlags merges the config file into flags the user left unset.
func loadRenderFlags(cmd *cobra.Command, f *renderFlags) error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	f.merge(cmd.Flags(), cfg)
	return nil
}
