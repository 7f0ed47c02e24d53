// Package handlers implements the business logic behind each CLI command.
package handlers

import (
	"fmt"
	"log"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/rentwise/internal/config"
)

// Factory function variables shared by the handlers - can be replaced in tests.
var (
	// resolveConfig loads the configuration file, or defaults when none exists.
	resolveConfig = config.Resolve

	// isInteractiveTTY reports whether stdout is a terminal.
	isInteractiveTTY = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

// loadConfig resolves the configuration and applies an --api override.
func loadConfig(configPath, apiURL string) (*config.Config, string, error) {
	cfg, path, err := resolveConfig(configPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	if path != "" {
		log.Printf("Using config: %s", path)
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	return cfg, path, nil
}
