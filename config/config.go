package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Mode gates the instrumentation layer. Development activates the interval
// tracker, the layout analyzer and the debug console; the vitals collector
// runs in every mode.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// Config holds user-configurable defaults.
type Config struct {
	Mode        Mode   `json:"mode"`
	IntervalSec int    `json:"interval_sec"`
	HistorySize int    `json:"history_size"`
	WindowMs    int    `json:"shift_window_ms"`
	LogLevel    string `json:"log_level"`
}

// Default returns a config with sensible defaults.
func Default() Config {
	return Config{
		Mode:        ModeDevelopment,
		IntervalSec: 1,
		HistorySize: 300,
		WindowMs:    5000,
		LogLevel:    "info",
	}
}

// Development reports whether instrumentation is active.
func (c Config) Development() bool {
	return c.Mode == ModeDevelopment
}

// Path returns ~/.config/vitaltop/config.json (or XDG_CONFIG_HOME).
// Returns empty string if the home directory cannot be determined.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "vitaltop", "config.json")
}

// Load loads config from disk; returns defaults on any error.
func Load() Config {
	cfg := Default()
	p := Path()
	if p == "" {
		return cfg
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return cfg
	}
	// Decode into a scratch copy so a parse error partway through cannot
	// leave a half-applied config behind.
	parsed := cfg
	if err := json.Unmarshal(data, &parsed); err != nil {
		log.Printf("vitaltop: warning: config parse error: %v", err)
		return cfg
	}
	return parsed
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
