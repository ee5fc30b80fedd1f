// Package config handles configuration loading for a discovery session.
//
// Configuration is loaded from a YAML file with support for environment
// variable expansion (${VAR} or $VAR syntax).
//
// # Configuration Sections
//
//   - log: slog level and output format
//   - correlation: response timeout, identifier prefix, duplicate window
//   - responder: static answer to inbound disco#info queries
//   - metrics: Prometheus collectors
//
// # Example Configuration
//
//	log:
//	  level: debug
//	  format: json
//
//	correlation:
//	  timeout: 30s
//	  idPrefix: disco-
//
//	responder:
//	  enabled: true
//	  features:
//	    - kind: identity
//	      category: client
//	      type: bot
//	      name: ${DISCO_NAME}
//	    - kind: feature
//	      var: http://jabber.org/protocol/disco#info
//
// See [Load] for loading configuration from a file.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sirosfoundation/go-disco/pkg/correlation"
	"github.com/sirosfoundation/go-disco/pkg/disco"
)

// Config is the root configuration structure
type Config struct {
	Log         LogConfig         `yaml:"log"`
	Correlation CorrelationConfig `yaml:"correlation"`
	Responder   ResponderConfig   `yaml:"responder"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

// LogConfig holds logging settings
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
	// Format is text or json
	Format string `yaml:"format"`
}

// CorrelationConfig holds request tracking settings
type CorrelationConfig struct {
	// Timeout bounds how long a query waits for its response.
	// Zero waits forever.
	Timeout time.Duration `yaml:"timeout"`
	// IDPrefix switches to sequential identifiers with this prefix
	IDPrefix        string        `yaml:"idPrefix"`
	DuplicateWindow time.Duration `yaml:"duplicateWindow"`
}

// ResponderConfig holds the static disco#info answer
type ResponderConfig struct {
	Enabled  bool                       `yaml:"enabled"`
	Features []disco.Feature            `yaml:"features"`
	Nodes    map[string][]disco.Feature `yaml:"nodes"`
}

// MetricsConfig holds metrics settings
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse reads configuration from YAML data
func Parse(data []byte) (*Config, error) {
	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Correlation.DuplicateWindow == 0 {
		c.Correlation.DuplicateWindow = time.Minute
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "disco"
	}
}

func (c *Config) validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}

	switch c.Log.Format {
	case "text", "json":
		// Valid formats
	default:
		return fmt.Errorf("log.format must be 'text' or 'json', got '%s'", c.Log.Format)
	}

	if c.Correlation.Timeout < 0 {
		return fmt.Errorf("correlation.timeout must not be negative")
	}
	if c.Correlation.DuplicateWindow < 0 {
		return fmt.Errorf("correlation.duplicateWindow must not be negative")
	}

	if c.Responder.Enabled {
		for i, f := range c.Responder.Features {
			if f.Kind == "" {
				return fmt.Errorf("responder.features[%d].kind is required", i)
			}
		}
		for node, features := range c.Responder.Nodes {
			if node == "" {
				return fmt.Errorf("responder.nodes keys must not be empty")
			}
			for i, f := range features {
				if f.Kind == "" {
					return fmt.Errorf("responder.nodes[%s][%d].kind is required", node, i)
				}
			}
		}
	}

	return nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("log.level must be 'debug', 'info', 'warn' or 'error', got '%s'", s)
}

// NewLogger builds the configured slog logger writing to w
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// TrackerConfig returns the correlation tracker settings
func (c *Config) TrackerConfig(logger *slog.Logger) correlation.Config {
	return correlation.Config{
		Timeout:         c.Correlation.Timeout,
		DuplicateWindow: c.Correlation.DuplicateWindow,
		Logger:          logger,
	}
}

// IDSource returns the configured identifier source
func (c *Config) IDSource() correlation.IDSource {
	if c.Correlation.IDPrefix != "" {
		return correlation.NewSequenceSource(c.Correlation.IDPrefix)
	}
	return correlation.NewUUIDSource()
}
