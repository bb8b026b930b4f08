// Package config holds the jobfraud runtime configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file name inside the app home directory.
	FileName = "config.yaml"

	dirMode  = 0700
	fileMode = 0600
)

// Config represents app config object.
type Config struct {
	ArtifactDir      string `yaml:"artifact_dir" json:"artifact_dir"`
	FailSafeLabel    int    `yaml:"fail_safe_label" json:"fail_safe_label"`
	HistoryDSN       string `yaml:"history_dsn,omitempty" json:"history_dsn,omitempty"`
	LogLevel         string `yaml:"log_level" json:"log_level"`
	BatchConcurrency int    `yaml:"batch_concurrency" json:"batch_concurrency"`

	Server Server `yaml:"server" json:"server"`
	Fetch  Fetch  `yaml:"fetch" json:"fetch"`
}

// Server configures the local HTTP server.
type Server struct {
	Port          int     `yaml:"port" json:"port"`
	RatePerSecond float64 `yaml:"rate_per_second" json:"rate_per_second"`
	Burst         int     `yaml:"burst" json:"burst"`
}

// Fetch configures page retrieval for the URL command.
type Fetch struct {
	TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds"`
	RatePerSecond  float64 `yaml:"rate_per_second" json:"rate_per_second"`
}

// Timeout returns the fetch timeout as a duration.
func (f Fetch) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ArtifactDir:      ".",
		FailSafeLabel:    1,
		LogLevel:         "info",
		BatchConcurrency: 4,
		Server: Server{
			Port:          8080,
			RatePerSecond: 10,
			Burst:         20,
		},
		Fetch: Fetch{
			TimeoutSeconds: 15,
			RatePerSecond:  1,
		},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config required")
	}
	if c.ArtifactDir == "" {
		return errors.New("artifact_dir required")
	}
	if c.FailSafeLabel != 0 && c.FailSafeLabel != 1 {
		return fmt.Errorf("fail_safe_label must be 0 or 1, got %d", c.FailSafeLabel)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("batch_concurrency must be positive, got %d", c.BatchConcurrency)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RatePerSecond <= 0 || c.Server.Burst < 1 {
		return errors.New("server rate_per_second and burst must be positive")
	}
	if c.Fetch.TimeoutSeconds < 1 {
		return fmt.Errorf("fetch timeout_seconds must be positive, got %d", c.Fetch.TimeoutSeconds)
	}
	if c.Fetch.RatePerSecond <= 0 {
		return errors.New("fetch rate_per_second must be positive")
	}
	return nil
}

// Load reads the config file at path on top of the defaults.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("config file not found, using defaults", "path", path)
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return c, nil
}

// Save writes c to path, creating the parent directory when needed.
func Save(path string, c *Config) error {
	if path == "" {
		return errors.New("config path required")
	}
	if err := c.Validate(); err != nil {
		return err
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// GetOrCreateHomeDir returns the app directory under the user home.
// The created flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, fmt.Errorf("getting user home dir: %w", err)
	}

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, fmt.Errorf("creating dir %s: %w", dir, err)
		}
		created = true
	}
	return dir, created, nil
}
