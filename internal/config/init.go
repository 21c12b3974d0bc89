package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Example returns the configuration written by Init.
func Example() *Config {
	cfg := Default()
	cfg.Site = SiteConfig{
		Title:       "Jane Doe",
		Description: "Notes on Go, infrastructure and the occasional side project",
		BaseURL:     "https://example.com",
		Language:    "en-us",
		BlogPath:    "/blog",
		Owner: OwnerConfig{
			Name:     "Jane Doe",
			URL:      "https://example.com",
			JobTitle: "Software Engineer",
			Image:    "https://example.com/avatar.png",
			SameAs:   []string{"https://github.com/janedoe"},
		},
	}
	cfg.Build.MetricsFile = ""
	cfg.Logging.Level = LogLevelInfo
	return cfg
}

// Init writes an example configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	// #nosec G306 -- configuration is not secret
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
