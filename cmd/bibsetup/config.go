// Copyright 2026 Shelfworks
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/shelfworks/bibsetup/pkg/setup"
)

// DefaultConfigFile is the config file looked up when --config is not given.
const DefaultConfigFile = "bibsetup.yaml"

// Config is the bibsetup.yaml file contents. Every field has a default, so
// the file is optional; flags override whatever the file says.
type Config struct {
	// URI is the MongoDB connection string.
	URI string `yaml:"uri"`

	// Database is the logical database to provision.
	Database string `yaml:"database"`

	// OutputDir is where JSON snapshots are written.
	OutputDir string `yaml:"output_dir"`

	// ConnectTimeoutSeconds bounds the initial connect-and-ping.
	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		URI:                   setup.DefaultURI,
		Database:              setup.DefaultDatabase,
		OutputDir:             "data",
		ConnectTimeoutSeconds: int(setup.DefaultConnectTimeout / time.Second),
	}
}

// LoadConfig reads the config file at path, falling back to
// ./bibsetup.yaml. A missing file is not an error: defaults apply. A file
// that exists but cannot be parsed is an error.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if path == "" {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the --config flag
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML to path.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// ConnectTimeout returns the configured timeout as a duration.
func (c *Config) ConnectTimeout() time.Duration {
	if c.ConnectTimeoutSeconds <= 0 {
		return setup.DefaultConnectTimeout
	}
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// setupOptions maps the file config onto pipeline options.
func (c *Config) setupOptions() setup.Options {
	return setup.Options{
		URI:            c.URI,
		Database:       c.Database,
		OutDir:         c.OutputDir,
		ConnectTimeout: c.ConnectTimeout(),
	}
}
