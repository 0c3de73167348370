// Package config loads the server configuration.
//
// Configuration covers the outer shell only: transport, logging, and the
// optional history and watcher subsystems. Prompt resolution itself has
// no knobs; the override layout and the line ceiling are fixed.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DirName is the per-user directory for config and history.
	DirName = ".project-memory-mcp"
	// FileName is the config filename inside DirName.
	FileName = "config.yaml"
	// HistoryFile is the default history database filename.
	HistoryFile = "history.db"
)

// Transport names.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Config is the YAML server configuration.
type Config struct {
	Transport string        `yaml:"transport"` // "stdio" or "sse"
	Addr      string        `yaml:"addr,omitempty"`
	LogLevel  string        `yaml:"log_level"`
	Watch     bool          `yaml:"watch"`
	History   HistoryConfig `yaml:"history"`
}

// HistoryConfig controls the invocation journal.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Transport: TransportStdio,
		Addr:      "127.0.0.1:8765",
		LogLevel:  "info",
		History: HistoryConfig{
			Path: filepath.Join(Dir(), HistoryFile),
		},
	}
}

// Dir returns ~/.project-memory-mcp, or a relative path when the home
// directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), FileName)
}

// Load reads the config at path. An empty path means DefaultPath, and a
// missing default file yields Default(). A missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(Dir(), HistoryFile)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg as YAML, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks field combinations.
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio:
	case TransportSSE:
		if c.Addr == "" {
			return errors.New("addr is required for the sse transport")
		}
	default:
		return fmt.Errorf("unknown transport %q (want %s or %s)", c.Transport, TransportStdio, TransportSSE)
	}
	if c.History.Enabled && c.History.Path == "" {
		return errors.New("history.path is required when history is enabled")
	}
	return nil
}
