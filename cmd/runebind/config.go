package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// appName is the single source of truth for the application name.
// All derived identifiers (env vars, config paths, error messages) are computed from it.
const appName = "runebind"

// pageExt is the file extension of markup pages.
const pageExt = ".rb"

// Derived env var names, computed once at init from appName.
var (
	envConfigDir = strings.ToUpper(appName) + "_CONFIG_DIR"
	envPages     = strings.ToUpper(appName) + "_PAGES"
)

// fileConfig mirrors <config>/config.yml. Every field is optional.
type fileConfig struct {
	Handlers string `yaml:"handlers"`
	Fragment bool   `yaml:"fragment"`
	Strict   bool   `yaml:"strict"`
}

func defaultConfig() fileConfig {
	return fileConfig{Handlers: handlersExpr}
}

// resolveConfigDir returns the base config directory for the application.
// Priority: $<APPNAME>_CONFIG_DIR > $XDG_CONFIG_HOME/<appName> > ~/.config/<appName>
func resolveConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadConfig reads configDir/config.yml. A missing file yields the defaults.
func loadConfig(configDir string) (fileConfig, error) {
	cfg := defaultConfig()
	path := filepath.Join(configDir, "config.yml")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if _, err := handlerCompiler(cfg.Handlers); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// resolvePages returns every known page.
// Order: configDir/pages/*.rb → $<APPNAME>_PAGES
func resolvePages(configDir string) ([]string, error) {
	files, err := globPages(filepath.Join(configDir, "pages"))
	if err != nil {
		return nil, err
	}
	return append(files, splitColon(os.Getenv(envPages))...), nil
}

// globPages returns sorted *.rb files in dir.
// Returns nil without error if dir does not exist.
func globPages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), pageExt) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// splitColon splits a colon-separated string, filtering empty parts.
func splitColon(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ":")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// isYAML reports whether path holds YAML definitions rather than markup.
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}
