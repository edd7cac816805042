package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	noq "github.com/frexsdev/noq"
)

// config is the optional per-user configuration, read from
// ~/.config/noq/config.yaml. Every field has a working default, so the
// file is never required.
type config struct {
	// DeepLimit caps `apply deep` rewrites per statement.
	DeepLimit int `yaml:"deep_limit"`
	// HistoryFile is where the REPL keeps its line history.
	HistoryFile string `yaml:"history_file"`
	// Color is "auto", "always" or "never".
	Color string `yaml:"color"`
}

func defaultConfig() config {
	home, _ := os.UserHomeDir()
	return config{
		DeepLimit:   noq.DefaultDeepLimit,
		HistoryFile: filepath.Join(home, ".noq_history"),
		Color:       "auto",
	}
}

// loadConfig reads the config file if it exists. A malformed file is
// reported once and the defaults are used; a missing file is silent.
func loadConfig() config {
	cfg := defaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	path := filepath.Join(home, ".config", appName, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s: ignoring malformed config %s: %v\n", appName, path, err)
		return defaultConfig()
	}
	if cfg.DeepLimit <= 0 {
		cfg.DeepLimit = noq.DefaultDeepLimit
	}
	if cfg.HistoryFile == "" {
		cfg.HistoryFile = defaultConfig().HistoryFile
	}
	return cfg
}
