// Package config loads the regfix YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the home directory.
const FileName = ".regfix.yaml"

// Config is the decoded configuration file.
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Color   bool          `yaml:"color"`
	Scan    ScanConfig    `yaml:"scan"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig controls the rotating debug log.
type LogConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Dir        string `yaml:"dir"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
	Level      string `yaml:"level"`
}

// ScanConfig controls the scan command.
type ScanConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// MetricsConfig controls metrics export.
type MetricsConfig struct {
	// Textfile, when set, receives the metrics registry on exit.
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg := Config{Color: true}
	cfg.applyDefaults()
	return cfg
}

// DefaultPath returns $HOME/.regfix.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the config file at path. A missing file yields Default().
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses YAML from r. Keys that are absent keep their default value;
// unknown keys are an error.
func Decode(r io.Reader) (Config, error) {
	cfg := Config{Color: true}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	if _, err := cfg.Log.SlogLevel(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Log.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Log.Dir = filepath.Join(home, ".regfix", "logs")
		} else {
			c.Log.Dir = filepath.Join(os.TempDir(), "regfix-logs")
		}
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 10
	}
	if c.Log.MaxAgeDays <= 0 {
		c.Log.MaxAgeDays = 30
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = 5
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = "info"
	}
	if c.Scan.Concurrency <= 0 {
		c.Scan.Concurrency = runtime.NumCPU()
	}
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Level))); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.Level, err)
	}
	return level, nil
}
