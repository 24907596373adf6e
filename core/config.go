package core

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile = "bodensee.config.yml"

	EnvLogFormat = "BODENSEE_LOG_FORMAT"
)

type Config struct {
	OutputDir       string `yaml:"outputDir" toml:"outputDir"`
	StaticDir       string `yaml:"staticDir" toml:"staticDir"`
	DebugHeaders    bool   `yaml:"debugHeaders" toml:"debugHeaders"`
	DebugLogs       bool   `yaml:"debugLogs" toml:"debugLogs"`
	LogFormat       string `yaml:"logFormat" toml:"logFormat"`
	ShutdownTimeout string `yaml:"shutdownTimeout" toml:"shutdownTimeout"`

	// parseErr is set when the config file exists but cannot be decoded.
	parseErr error
}

func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// Validate reports settings that would prevent the server from starting cleanly.
func (c *Config) Validate() error {
	if c.parseErr != nil {
		return c.parseErr
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid logFormat: %s (must be text or json)", c.LogFormat)
	}
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdownTimeout: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "./cache"
	}
	if c.StaticDir == "" {
		c.StaticDir = "./static"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
}

var LoadConfig = func(path string) *Config {
	cfg := &Config{}

	if data, err := os.ReadFile(path); err == nil {
		if filepath.Ext(path) == ".toml" {
			err = toml.Unmarshal(data, cfg)
		} else {
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			cfg.parseErr = fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.loadDefaults()
	cfg.loadEnv()
	return cfg
}
