// Package config resolves the tasks file location and CLI settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

const (
	// AppName is the application directory name.
	AppName = "task-cli"

	// ConfigFile is the optional settings file inside the config directory.
	// It may contain comments and trailing commas.
	ConfigFile = "config.json"

	// DefaultTasksFile is the tasks file used when nothing else is configured.
	// Relative paths resolve against the working directory.
	DefaultTasksFile = "tasks.json"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// File is the tasks file path.
	File string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileSettings is the shape of ConfigFile.
type fileSettings struct {
	File  string `json:"file"`
	Quiet bool   `json:"quiet"`
}

// New creates a Config for the given config directory, applying ConfigFile
// if it exists. If configDir is empty, uses XDG_CONFIG_HOME/task-cli or
// $HOME/.config/task-cli.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir, File: DefaultTasksFile}

	settings, err := readSettings(cfg.SettingsPath())
	if err != nil {
		return nil, err
	}
	if settings.File != "" {
		cfg.File = settings.File
	}
	cfg.Quiet = settings.Quiet

	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SettingsPath returns the path to the optional settings file.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// TasksPath returns the tasks file path, defaulting to DefaultTasksFile.
func (c *Config) TasksPath() string {
	if c.File == "" {
		return DefaultTasksFile
	}
	return c.File
}

// readSettings loads ConfigFile. A missing file yields zero settings.
func readSettings(path string) (fileSettings, error) {
	var s fileSettings

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read config: %w", err)
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return s, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	if err := json.Unmarshal(std, &s); err != nil {
		return s, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	return s, nil
}
