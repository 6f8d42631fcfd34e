// Package config defines configuration structures for the shop bot.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Log output formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// Config is the complete configuration structure for the shop bot.
// Scalar settings come from the environment; the optional YAML file
// only describes the menu and the command list.
type Config struct {
	// Bot contains the bot-level configuration including token and commands.
	Bot BotConfig `yaml:"bot"`

	// Backend describes how to reach the backend REST service.
	Backend BackendConfig `yaml:"-"`

	// Menu is the reply keyboard and the labels the dialog router matches.
	Menu MenuConfig `yaml:"menu"`

	// LogFormat is either "console" or "json".
	LogFormat string `yaml:"-" env:"LOG_FORMAT" envDefault:"console"`

	// MetricsAddr enables the ops HTTP server when non-empty.
	MetricsAddr string `yaml:"-" env:"METRICS_ADDR"`
}

// BackendConfig holds the backend base URL and per-call timeout.
type BackendConfig struct {
	// URL is the API base, e.g. http://localhost:6070/api.
	URL string `env:"BACKEND_API_URL" envDefault:"http://localhost:6070/api"`

	// Timeout bounds every single backend call.
	Timeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"10s"`
}

// NewConfig creates a configuration with the default menu and commands.
func NewConfig() *Config {
	return &Config{
		Bot:  NewDefaultBotConfig(),
		Menu: NewDefaultMenuConfig(),
	}
}

// Load builds the configuration: defaults, then the optional YAML file at path,
// then environment variables (a .env file in the working directory is honoured).
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := NewConfig()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile loads the menu and command configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes loads configuration from YAML data on top of the defaults.
// Sections missing from the document keep their default values.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Validate checks if all configuration components are valid.
func (c *Config) Validate() error {
	if err := c.Bot.Validate(); err != nil {
		return err
	}

	u, err := url.Parse(c.Backend.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: bad url %q", ErrInvalidBackend, c.Backend.URL)
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidBackend)
	}

	if err := c.Menu.Validate(); err != nil {
		return err
	}

	switch c.LogFormat {
	case "", LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}
	return nil
}
