// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/countervm/pebble"
	"github.com/ava-labs/countervm/trace"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel string `json:"logLevel" yaml:"logLevel"`
	LogDir   string `json:"logDir"   yaml:"logDir"`
	DataDir  string `json:"dataDir"  yaml:"dataDir"`

	HTTPAddress           string        `json:"httpAddress"           yaml:"httpAddress"`
	HTTPReadTimeout       time.Duration `json:"httpReadTimeout"       yaml:"httpReadTimeout"`
	HTTPReadHeaderTimeout time.Duration `json:"httpReadHeaderTimeout" yaml:"httpReadHeaderTimeout"`
	HTTPWriteTimeout      time.Duration `json:"httpWriteTimeout"      yaml:"httpWriteTimeout"`
	HTTPIdleTimeout       time.Duration `json:"httpIdleTimeout"       yaml:"httpIdleTimeout"`
	AllowedOrigins        []string      `json:"allowedOrigins"        yaml:"allowedOrigins"`

	MetricsEnabled bool          `json:"metricsEnabled" yaml:"metricsEnabled"`
	TraceConfig    trace.Config  `json:"traceConfig"    yaml:"traceConfig"`
	PebbleConfig   pebble.Config `json:"pebbleConfig"   yaml:"pebbleConfig"`
}

func NewDefaultConfig() Config {
	traceConfig := trace.NewDefaultConfig()
	traceConfig.AppName = "countervm"
	traceConfig.Agent = "countervm"
	return Config{
		LogLevel:              logging.Info.LowerString(),
		LogDir:                "logs",
		DataDir:               "db",
		HTTPAddress:           "127.0.0.1:9650",
		HTTPReadTimeout:       30 * time.Second,
		HTTPReadHeaderTimeout: 30 * time.Second,
		HTTPWriteTimeout:      30 * time.Second,
		HTTPIdleTimeout:       120 * time.Second,
		AllowedOrigins:        []string{"*"},
		MetricsEnabled:        true,
		TraceConfig:           traceConfig,
		PebbleConfig:          pebble.NewDefaultConfig(),
	}
}

// Load reads a YAML or JSON file over the defaults. Fields missing from the
// file keep their default value.
func Load(path string) (Config, error) {
	cfg := NewDefaultConfig()
	if len(path) == 0 {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(b, cfg)
}

// Parse decodes [b] over [cfg]. YAML is a superset of JSON so both are
// accepted.
func Parse(b []byte, cfg Config) (Config, error) {
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, cfg.Verify()
}

func (c *Config) Verify() error {
	if _, err := logging.ToLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q: %w", ErrInvalidConfig, c.LogLevel, err)
	}
	if len(strings.TrimSpace(c.DataDir)) == 0 {
		return fmt.Errorf("%w: empty data dir", ErrInvalidConfig)
	}
	if len(strings.TrimSpace(c.HTTPAddress)) == 0 {
		return fmt.Errorf("%w: empty http address", ErrInvalidConfig)
	}
	if c.TraceConfig.Enabled && (c.TraceConfig.TraceSampleRate < 0 || c.TraceConfig.TraceSampleRate > 1) {
		return fmt.Errorf("%w: trace sample rate %f", ErrInvalidConfig, c.TraceConfig.TraceSampleRate)
	}
	return nil
}

func (c *Config) GetLogLevel() logging.Level {
	level, err := logging.ToLevel(c.LogLevel)
	if err != nil {
		return logging.Info
	}
	return level
}
