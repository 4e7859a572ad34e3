// Package config provides configuration loading for thinkd.
//
// Configuration is merged from three layers, highest precedence first:
//
//  1. Environment variables (SERVER_PORT, THINKING_MAX_BRANCHES, ...)
//  2. YAML config file (~/.config/thinkd/config.yaml)
//  3. Hardcoded defaults
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/fyrsmithlabs/thinkd/internal/thinking"
)

// Config holds the complete thinkd configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Thinking ThinkingConfig `koanf:"thinking"`
}

// ServerConfig holds the HTTP dashboard/API server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ServiceName     string        `koanf:"service_name"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LoggingConfig holds structured-logging configuration.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `koanf:"level"`
	// Format is json or console.
	Format string `koanf:"format"`
}

// ThinkingConfig holds the reasoning-trace store bounds.
//
// EnableAutoCleanup and CleanupOnComplete are pointers so that an explicit
// `false` in config is distinguishable from "not set" (both default to true).
type ThinkingConfig struct {
	MaxThoughtHistory    int   `koanf:"max_thought_history"`
	MaxBranches          int   `koanf:"max_branches"`
	MaxThoughtsPerBranch int   `koanf:"max_thoughts_per_branch"`
	EnableAutoCleanup    *bool `koanf:"enable_auto_cleanup"`
	// CleanupOnComplete is reserved; it is accepted but not consulted.
	CleanupOnComplete *bool `koanf:"cleanup_on_complete"`
}

// StoreOptions materializes the store options from the merged configuration.
func (c *ThinkingConfig) StoreOptions() thinking.Options {
	opts := thinking.Options{
		MaxThoughtHistory:    c.MaxThoughtHistory,
		MaxBranches:          c.MaxBranches,
		MaxThoughtsPerBranch: c.MaxThoughtsPerBranch,
		EnableAutoCleanup:    true,
		CleanupOnComplete:    true,
	}
	if c.EnableAutoCleanup != nil {
		opts.EnableAutoCleanup = *c.EnableAutoCleanup
	}
	if c.CleanupOnComplete != nil {
		opts.CleanupOnComplete = *c.CleanupOnComplete
	}
	return opts
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 9190
	}
	if cfg.Server.ServiceName == "" {
		cfg.Server.ServiceName = "thinkd"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Thinking.MaxThoughtHistory == 0 {
		cfg.Thinking.MaxThoughtHistory = thinking.DefaultMaxThoughtHistory
	}
	if cfg.Thinking.MaxBranches == 0 {
		cfg.Thinking.MaxBranches = thinking.DefaultMaxBranches
	}
	if cfg.Thinking.MaxThoughtsPerBranch == 0 {
		cfg.Thinking.MaxThoughtsPerBranch = thinking.DefaultMaxThoughtsPerBranch
	}
}

// Validate validates the merged configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %q", c.Logging.Format)
	}

	if c.Thinking.MaxThoughtHistory < 1 {
		return fmt.Errorf("thinking.max_thought_history must be positive, got %d", c.Thinking.MaxThoughtHistory)
	}
	if c.Thinking.MaxBranches < 1 {
		return fmt.Errorf("thinking.max_branches must be positive, got %d", c.Thinking.MaxBranches)
	}
	if c.Thinking.MaxThoughtsPerBranch < 1 {
		return fmt.Errorf("thinking.max_thoughts_per_branch must be positive, got %d", c.Thinking.MaxThoughtsPerBranch)
	}

	return nil
}
