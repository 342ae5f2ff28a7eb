/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads the settings of the entitycodec command: which store
// backend to use, how to log, and which plugin manifest to install.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/entitycodec/errors"
)

// Backend names
const (
	BackendFile     = "file"
	BackendDynamoDB = "ddb"
)

// Config is the root configuration
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
	Plugins PluginsConfig `yaml:"plugins"`
}

// StoreConfig selects the store backend.
type StoreConfig struct {
	// Backend is "file" or "ddb"
	Backend  string         `yaml:"backend"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
}

// DynamoDBConfig holds the settings of the ddb backend.
type DynamoDBConfig struct {
	Region     string `yaml:"region"`
	Table      string `yaml:"table"`
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
	Endpoint   string `yaml:"endpoint"`
	MaxRetries int    `yaml:"max_retries"`
	// NoOverwrite refuses to replace an existing tree
	NoOverwrite bool `yaml:"no_overwrite"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `yaml:"level"`
	// Format: console or json
	Format string `yaml:"format"`
	// File, if set, receives the log through a rotating writer instead of stderr
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// PluginsConfig points at an extra plugin manifest.
type PluginsConfig struct {
	Manifest string `yaml:"manifest"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend: BackendFile,
			DynamoDB: DynamoDBConfig{
				MaxRetries: 5,
			},
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// Load reads the YAML file at path over the defaults, or only the defaults if
// path is empty. A .env file in the working directory is loaded next, then
// environment variables override individual settings:
//
//	ENTITYCODEC_BACKEND    store.backend
//	AWS_ACCESS_KEY         store.dynamodb.access_key
//	AWS_SECRET_KEY         store.dynamodb.secret_key
//	AWS_REGION             store.dynamodb.region
//	AWS_DDB_TABLE          store.dynamodb.table
//	AWS_DDB_ENDPOINT       store.dynamodb.endpoint
//	AWS_DDB_MAX_RETRIES    store.dynamodb.max_retries
//	ENTITYCODEC_LOG_LEVEL  log.level
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewNotFoundError("config", path)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, errors.NewValidationError(path, err.Error())
		}
	}

	// a missing .env is not an error
	_ = godotenv.Load()

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(c)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ENTITYCODEC_BACKEND":   &c.Store.Backend,
		"AWS_ACCESS_KEY":        &c.Store.DynamoDB.AccessKey,
		"AWS_SECRET_KEY":        &c.Store.DynamoDB.SecretKey,
		"AWS_REGION":            &c.Store.DynamoDB.Region,
		"AWS_DDB_TABLE":         &c.Store.DynamoDB.Table,
		"AWS_DDB_ENDPOINT":      &c.Store.DynamoDB.Endpoint,
		"ENTITYCODEC_LOG_LEVEL": &c.Log.Level,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := lookup("AWS_DDB_MAX_RETRIES"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewValidationError("AWS_DDB_MAX_RETRIES", fmt.Sprintf("not an integer: %q", v))
		}
		c.Store.DynamoDB.MaxRetries = n
	}
	return nil
}

// Validate checks the backend name, the DynamoDB settings when that backend is
// selected, and the log settings.
func (c *Config) Validate() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch c.Store.Backend {
	case BackendFile:
	case BackendDynamoDB:
		if c.Store.DynamoDB.Table == "" {
			return errors.NewValidationError("store.dynamodb.table", "required for the ddb backend")
		}
		if c.Store.DynamoDB.Region == "" {
			return errors.NewValidationError("store.dynamodb.region", "required for the ddb backend")
		}
		if c.Store.DynamoDB.MaxRetries < 0 {
			return errors.NewValidationError("store.dynamodb.max_retries", "must not be negative")
		}
	default:
		return errors.NewValidationError("store.backend", fmt.Sprintf("unknown backend %q", c.Store.Backend))
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.NewValidationError("log.level", fmt.Sprintf("invalid level %q", c.Log.Level))
	}
	switch c.Log.Format {
	case "":
		c.Log.Format = "console"
	case "console", "json":
	default:
		return errors.NewValidationError("log.format", fmt.Sprintf("invalid format %q", c.Log.Format))
	}
	return nil
}
