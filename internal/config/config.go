// Package config loads server configuration from an optional YAML file and
// the environment. Environment variables override file values, which override
// the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/groupsplit/internal/bankdir"
	"github.com/mmynk/groupsplit/internal/qrimage"
)

// Config is the server configuration.
type Config struct {
	Addr       string `yaml:"addr" env:"ADDR"`
	DBPath     string `yaml:"db_path" env:"DB_PATH"`
	StaticPath string `yaml:"static_path" env:"STATIC_PATH"`
	LogLevel   string `yaml:"log_level" env:"LOG_LEVEL"`

	Timeouts TimeoutConfig `yaml:"timeouts" envPrefix:"TIMEOUT_"`
	Banks    BankConfig    `yaml:"banks" envPrefix:"BANKS_"`

	// OTELEndpoint enables trace export when set (URL of an OTLP/HTTP collector).
	OTELEndpoint string `yaml:"otel_endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// TimeoutConfig bounds request handling.
type TimeoutConfig struct {
	// Default applies to ordinary requests.
	Default time.Duration `yaml:"default" env:"DEFAULT"`
	// LargePayload applies to requests carrying an embedded image longer than
	// LargePayloadThreshold characters.
	LargePayload          time.Duration `yaml:"large_payload" env:"LARGE_PAYLOAD"`
	LargePayloadThreshold int           `yaml:"large_payload_threshold" env:"LARGE_PAYLOAD_THRESHOLD"`
}

// BankConfig configures the bank directory.
type BankConfig struct {
	URL      string        `yaml:"url" env:"URL"`
	TTL      time.Duration `yaml:"ttl" env:"TTL"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`
	MaxTries uint          `yaml:"max_tries" env:"MAX_TRIES"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Addr:       ":8080",
		DBPath:     "./data/groupsplit.db",
		StaticPath: "./web/static",
		LogLevel:   "info",
		Timeouts: TimeoutConfig{
			Default:               10 * time.Second,
			LargePayload:          30 * time.Second,
			LargePayloadThreshold: qrimage.DefaultMaxLength,
		},
		Banks: BankConfig{
			URL:      bankdir.DefaultURL,
			TTL:      bankdir.DefaultTTL,
			Timeout:  bankdir.DefaultTimeout,
			MaxTries: bankdir.DefaultMaxTries,
		},
	}
}

// Load builds the configuration. path names an optional YAML file; a missing
// file is not an error when path is empty.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "GROUPSPLIT_"}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if c.Timeouts.Default <= 0 || c.Timeouts.LargePayload <= 0 {
		errs = append(errs, errors.New("timeouts must be positive"))
	}
	if c.Timeouts.LargePayload < c.Timeouts.Default {
		errs = append(errs, errors.New("large_payload timeout must not be shorter than the default timeout"))
	}
	if c.Timeouts.LargePayloadThreshold <= 0 {
		errs = append(errs, errors.New("large_payload_threshold must be positive"))
	}
	if c.Banks.TTL <= 0 {
		errs = append(errs, errors.New("banks.ttl must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
