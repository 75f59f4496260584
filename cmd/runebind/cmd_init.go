package main

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

//go:embed cmd_init_page.rb
var initPage []byte

//go:embed cmd_init_config.yml
var initConfig []byte

var errInitAborted = errors.New("aborted")

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter page and config file",
	Long: "Write a starter page to path, or to <config>/pages/index" + pageExt + " when no\n" +
		"path is given, and create <config>/config.yml if it does not exist.\n\n" +
		"An existing page is only overwritten after confirmation, or with --force.\n\n" +
		"The default config directory follows the same priority as every command:\n" +
		"  $" + envConfigDir + " > $XDG_CONFIG_HOME/" + appName + " > ~/.config/" + appName,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		dir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		target := filepath.Join(dir, "pages", "index"+pageExt)
		if len(args) > 0 {
			target = args[0]
		}

		if err := writeInitFile(target, initPage, force, confirmOverwrite); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", target)

		configFile := filepath.Join(dir, "config.yml")
		if _, err := os.Stat(configFile); errors.Is(err, os.ErrNotExist) {
			if err := writeInitFile(configFile, initConfig, true, nil); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %s\n", configFile)
		}

		fmt.Fprintf(os.Stderr, "\nRun `%s render %s` to see it.\n", appName, target)
		return nil
	},
}

// confirmOverwrite asks the user whether path may be replaced.
func confirmOverwrite(path string) (bool, error) {
	ok := false
	err := huh.NewConfirm().
		Title(fmt.Sprintf("%s already exists. Overwrite?", path)).
		Affirmative("Overwrite").
		Negative("Keep").
		Value(&ok).
		Run()
	return ok, err
}

// writeInitFile writes content to path, creating parent directories. An
// existing file is kept unless force is set or confirm approves.
func writeInitFile(path string, content []byte, force bool, confirm func(string) (bool, error)) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			if confirm == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			ok, err := confirm(path)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: %w", path, errInitAborted)
			}
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing page without asking")
}
