// Package config provides configuration file support for tcpvalidator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the tcpvalidator configuration file structure.
type Config struct {
	// Defaults are applied when flags are not specified
	Defaults Defaults `yaml:"defaults"`

	// Log configures the diagnostics logger
	Log LogConfig `yaml:"log"`
}

// Defaults holds default values for a validation run.
type Defaults struct {
	// Directory scanned when no files are given
	Dir string `yaml:"dir"`

	// Output mode
	Verbose bool   `yaml:"verbose"`
	Format  string `yaml:"format"`
	NoColor bool   `yaml:"no_color"`

	// Run parameters
	Workers int  `yaml:"workers"`
	Strict  bool `yaml:"strict"`
}

// LogConfig holds diagnostics logging settings.
type LogConfig struct {
	// Level: panic, fatal, error, warn, info, debug, trace
	Level string `yaml:"level"`

	// Format: text or json
	Format string `yaml:"format"`

	// File also receives log entries when set, with size based rotation
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Defaults: Defaults{
			Dir:     "packets",
			Verbose: false,
			Format:  "text",
			NoColor: false,
			Workers: 4,
			Strict:  false,
		},
		Log: LogConfig{
			Level:      "warn",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads configuration from the default config file locations.
// It searches in order:
//  1. ./tcpvalidator.yaml (current directory)
//  2. ~/.config/tcpvalidator/config.yaml (Linux/macOS)
//  3. %APPDATA%\tcpvalidator\config.yaml (Windows)
//
// If no config file is found, returns default configuration.
func Load() (*Config, error) {
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return LoadFrom(path)
		}
	}

	return DefaultConfig(), nil
}

// LoadFrom reads configuration from a specific file path. Keys missing from
// the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return config, nil
}

// SaveExample writes the commented example configuration to path,
// creating its directory when needed.
func SaveExample(path string) error {
	if path == "" {
		return fmt.Errorf("cannot determine user config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(GenerateExample()), 0644)
}

// getConfigPaths returns the list of config file paths to search.
func getConfigPaths() []string {
	paths := []string{
		"tcpvalidator.yaml",
		"tcpvalidator.yml",
		".tcpvalidator.yaml",
		".tcpvalidator.yml",
	}

	if userPath := getUserConfigPath(); userPath != "" {
		paths = append(paths, userPath)
	}

	return paths
}

// getUserConfigPath returns the user-specific config file path.
func getUserConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "tcpvalidator", "config.yaml")
		}
	default: // Linux, macOS, etc.
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, "tcpvalidator", "config.yaml")
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config", "tcpvalidator", "config.yaml")
		}
	}
	return ""
}

// GetConfigPath returns the path where user config would be saved.
func GetConfigPath() string {
	return getUserConfigPath()
}

// GenerateExample generates an example configuration file content.
func GenerateExample() string {
	return `# tcpvalidator Configuration File
# Location: ~/.config/tcpvalidator/config.yaml (Linux/macOS)
#           %APPDATA%\tcpvalidator\config.yaml (Windows)
#           ./tcpvalidator.yaml (current directory)

defaults:
  dir: packets            # Directory scanned when no files are given

  # Output
  verbose: false          # Print "<addr> and <data> -> PASS" lines
  format: text            # text, table, json, csv, html
  no_color: false         # Disable colors

  # Run parameters
  workers: 4              # Concurrent validations (1-256)
  strict: false           # Stop at the first segment that cannot be validated

# Diagnostics, written to stderr
log:
  level: warn             # error, warn, info, debug
  format: text            # text or json
  file: ""                # Also write to this file when set
  max_size_mb: 10         # Rotate the file after this size
  max_backups: 3          # Rotated files to keep
  max_age_days: 28        # Days to keep rotated files
  compress: false         # Gzip rotated files
`
}
