package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"
)

// pickPages lets the user select pages from the known page files in the
// terminal. With multi unset exactly one page is returned.
func pickPages(multi bool) ([]string, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	pages, err := resolvePages(configDir)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf(
			"no pages found: add *%s files to %s, set $%s, or pass a file",
			pageExt, filepath.Join(configDir, "pages"), envPages,
		)
	}

	label := func(i int) string { return pageTitle(pages[i]) + "  " + pages[i] }
	preview := fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
		if i < 0 {
			return ""
		}
		return head(pages[i], h)
	})
	prompt := fuzzyfinder.WithPromptString("Select page: ")

	if !multi {
		idx, err := fuzzyfinder.Find(pages, label, prompt, preview)
		if err != nil {
			return nil, err
		}
		return []string{pages[idx]}, nil
	}
	idxs, err := fuzzyfinder.FindMulti(pages, label, prompt, preview)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(idxs))
	for i, idx := range idxs {
		out[i] = pages[idx]
	}
	return out, nil
}

// head returns up to n lines of the file at path.
func head(path string, n int) string {
	f, err := os.Open(path)
	if err != nil {
		return err.Error()
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for len(lines) < n && scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return strings.Join(lines, "\n")
}

// pageArg returns args[0], or lets the user pick a page when args is empty.
func pageArg(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	picked, err := pickPages(false)
	if err != nil {
		return "", err
	}
	return picked[0], nil
}
