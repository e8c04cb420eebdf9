// Package config loads the optional application configuration file.
// The file provides defaults for paths and frontend selection; CLI
// flags override file values.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Common errors returned by the config package.
var (
	// ErrConfigNotFound is returned when an explicitly requested config
	// file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidUI is returned when the ui selector is not recognized.
	ErrInvalidUI = errors.New("invalid ui: must be auto, fyne, or tui")

	// ErrInvalidOverlay is returned when the overlay mode is not recognized.
	ErrInvalidOverlay = errors.New("invalid overlay: must be off or compact")

	// ErrInvalidLogLevel is returned when the log level is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log_level: must be debug, info, warn, or error")
)

// Config is the application configuration. Zero values mean "use the
// built-in default".
type Config struct {
	CSVDir      string `yaml:"csv_dir"`
	LogPath     string `yaml:"log_path"`
	MappingPath string `yaml:"mapping_path"`
	StatsPath   string `yaml:"stats_path"`
	SoundsDir   string `yaml:"sounds_dir"`
	UI          string `yaml:"ui"`      // auto|fyne|tui
	Overlay     string `yaml:"overlay"` // off|compact
	LogLevel    string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CSVDir:      ".",
		LogPath:     "d2runner.log",
		MappingPath: "controller_mapping.json",
		StatsPath:   "d2runner_stats.db",
		SoundsDir:   "sounds",
		UI:          "auto",
		Overlay:     "off",
		LogLevel:    "info",
	}
}

// Load reads a YAML config file over the defaults. An empty path means
// "no file": defaults are returned. A named file that does not exist is
// ErrConfigNotFound.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enum fields.
func (c Config) Validate() error {
	switch c.UI {
	case "auto", "fyne", "tui":
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidUI, c.UI)
	}
	switch c.Overlay {
	case "off", "compact":
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidOverlay, c.Overlay)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w (got %q)", ErrInvalidLogLevel, c.LogLevel)
	}
	return nil
}
