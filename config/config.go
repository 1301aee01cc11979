package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"newsdesk/models"
)

const (
	defaultFeedTimeout  = 10 * time.Second
	defaultImageTimeout = 5 * time.Second
	defaultPort         = 3000
)

// Timeouts bound the two blocking operations of the pipeline. The image
// timeout is independent of the feed timeout: a slow preview-image lookup
// may only degrade a single item, never a feed.
type Timeouts struct {
	FeedSeconds  int `toml:"feed_seconds"`
	ImageSeconds int `toml:"image_seconds"`
}

// Server holds the HTTP server settings.
type Server struct {
	Port int `toml:"port"`
}

// Config is the top-level configuration: the feed registry plus
// operational settings.
type Config struct {
	Sources  []models.Source `toml:"sources"`
	Timeouts Timeouts        `toml:"timeouts"`
	Server   Server          `toml:"server"`
}

// FeedTimeout returns the per-feed fetch timeout.
func (c *Config) FeedTimeout() time.Duration {
	if c.Timeouts.FeedSeconds > 0 {
		return time.Duration(c.Timeouts.FeedSeconds) * time.Second
	}
	return defaultFeedTimeout
}

// ImageTimeout returns the per-item image lookup timeout.
func (c *Config) ImageTimeout() time.Duration {
	if c.Timeouts.ImageSeconds > 0 {
		return time.Duration(c.Timeouts.ImageSeconds) * time.Second
	}
	return defaultImageTimeout
}

// Port returns the HTTP listen port.
func (c *Config) Port() int {
	if c.Server.Port > 0 {
		return c.Server.Port
	}
	return defaultPort
}

// Load reads and validates a TOML config file. The registry is trusted
// input to the pipeline, so a malformed source is a load error rather
// than something to skip at runtime.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks every registry entry against the source contract:
// a non-empty name, an absolute endpoint URL and a known region.
func (c *Config) Validate() error {
	for i, source := range c.Sources {
		if source.Name == "" {
			return fmt.Errorf("source %d: name must not be empty", i)
		}
		u, err := url.Parse(source.URL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("source %q: invalid feed url %q", source.Name, source.URL)
		}
		if !source.Region.Valid() {
			return fmt.Errorf("source %q: unknown region %q", source.Name, source.Region)
		}
	}
	return nil
}

// Write persists the config back to disk, creating parent directories as
// needed. Used by the add command.
func Write(path string, config *Config) error {
	if err := config.Validate(); err != nil {
		return err
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}
