package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sanonone/roadgrid/pkg/core"
	"github.com/sanonone/roadgrid/pkg/engine"
	"github.com/sanonone/roadgrid/pkg/signal"
)

type Config struct {
	// Server Settings
	HTTPAddr   string `yaml:"http_addr"`   // ":9191"
	AuthToken  string `yaml:"auth_token"`  // empty disables auth
	MCPEnabled bool   `yaml:"mcp_enabled"` // mounts the MCP endpoint on /mcp

	// Logging
	LogLevel  string `yaml:"log_level"`  // "debug", "info", "warn", "error"
	LogFormat string `yaml:"log_format"` // "text" or "json"

	// Network
	SignalInterval          time.Duration `yaml:"signal_interval"`
	MaxIntersections        int           `yaml:"max_intersections"`
	AutoCreateIntersections bool          `yaml:"auto_create_intersections"`

	// Initial layout, applied once at startup.
	Network engine.Layout `yaml:"network"`
}

// DefaultConfig returns a working configuration with an empty network.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:                ":9191",
		MCPEnabled:              true,
		LogLevel:                "info",
		LogFormat:               "text",
		SignalInterval:          signal.DefaultInterval,
		MaxIntersections:        core.DefaultMaxIntersections,
		AutoCreateIntersections: true,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.HTTPAddr == "" {
		return fmt.Errorf("http_addr must not be empty")
	}
	if c.SignalInterval <= 0 {
		return fmt.Errorf("signal_interval must be positive, got %s", c.SignalInterval)
	}
	if c.MaxIntersections <= 0 {
		return fmt.Errorf("max_intersections must be positive, got %d", c.MaxIntersections)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// EngineOptions converts the network settings into engine options.
func (c Config) EngineOptions(logger *slog.Logger) engine.Options {
	return engine.Options{
		Network: core.Options{
			MaxIntersections: c.MaxIntersections,
			AutoCreate:       c.AutoCreateIntersections,
		},
		SignalInterval: c.SignalInterval,
		Logger:         logger,
	}
}
