// Package config loads and merges tt settings from a global config file and
// an optional project-local override.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds all configurable tt settings.
type Config struct {
	DataFile      string `json:"data_file"`      // override ~/.timetracker
	HistoryWindow int    `json:"history_window"` // completion scan window, in lines
	DefaultReport string `json:"default_report"` // "report" | "calendar"
	NoColor       bool   `json:"no_color"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		HistoryWindow: 25,
		DefaultReport: "report",
	}
}

// Dir returns the tt config directory, $XDG_CONFIG_HOME/tt or ~/.config/tt.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "tt"), nil
}

// LoadGlobal reads the global config file.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return loadFile(filepath.Join(dir, "config.json"), true)
}

// LoadProject reads .ttconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".ttconfig", false)
}

// loadFile reads and parses a JSON config file at path.
// If returnDefaults is true, returns defaults when the file is absent.
// If returnDefaults is false, returns nil when the file is absent.
func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// SaveGlobal writes cfg as the global config file, creating the config
// directory if needed.
func SaveGlobal(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), append(data, '\n'), 0o644)
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	// Apply global values over defaults.
	if global != nil {
		if global.DataFile != "" {
			result.DataFile = global.DataFile
		}
		if global.HistoryWindow > 0 {
			result.HistoryWindow = global.HistoryWindow
		}
		if global.DefaultReport != "" {
			result.DefaultReport = global.DefaultReport
		}
		if global.NoColor {
			result.NoColor = true
		}
	}

	// Apply project values over global.
	if project != nil {
		if project.DataFile != "" {
			result.DataFile = project.DataFile
		}
		if project.HistoryWindow > 0 {
			result.HistoryWindow = project.HistoryWindow
		}
		if project.DefaultReport != "" {
			result.DefaultReport = project.DefaultReport
		}
		if project.NoColor {
			result.NoColor = true
		}
	}

	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
