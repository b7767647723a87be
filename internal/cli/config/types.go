// Package config provides configuration management for the leapdata CLI.
package config

import "fmt"

// Config holds all CLI configuration options.
type Config struct {
	// Catalog is the path of the data catalog file.
	Catalog string `koanf:"catalog"`
	// Credentials is the path of an optional credentials file.
	Credentials  string `koanf:"credentials"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
}

// Default configuration values.
const (
	DefaultCatalog = "catalog.yml"
	DefaultOutput  = "auto" // Auto-detect: TTY=table, non-TTY=csv
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}
	switch c.OutputFormat {
	case "", DefaultOutput, "table", "text", "csv", "json", "yaml", "yml":
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected auto, table, csv, json or yaml)", c.OutputFormat)
	}
}
