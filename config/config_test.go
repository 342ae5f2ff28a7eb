/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/entitycodec/errors"
)

// chdir moves the test into dir so no stray .env file is picked up.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entitycodec.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Store.DynamoDB.MaxRetries)
}

func TestLoadFile(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, `
store:
  backend: DDB
  dynamodb:
    region: eu-central-1
    table: trees
    max_retries: 2
log:
  level: debug
  format: json
plugins:
  manifest: plugins.yaml
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, BackendDynamoDB, cfg.Store.Backend)
	assert.Equal(t, "trees", cfg.Store.DynamoDB.Table)
	assert.Equal(t, 2, cfg.Store.DynamoDB.MaxRetries)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "plugins.yaml", cfg.Plugins.Manifest)
	assert.Equal(t, 3, cfg.Log.MaxBackups, "unset values keep their defaults")
}

func TestEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	path := writeConfig(t, "store:\n  backend: ddb\n  dynamodb:\n    region: us-east-1\n    table: from-file\n")

	t.Setenv("AWS_DDB_TABLE", "from-env")
	t.Setenv("AWS_REGION", "")
	t.Setenv("ENTITYCODEC_LOG_LEVEL", "warn")
	t.Setenv("AWS_DDB_MAX_RETRIES", "9")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Store.DynamoDB.Table)
	assert.Equal(t, "us-east-1", cfg.Store.DynamoDB.Region, "empty variables are ignored")
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 9, cfg.Store.DynamoDB.MaxRetries)

	t.Setenv("AWS_DDB_MAX_RETRIES", "many")
	_, err = Load(path)
	assert.True(t, errors.IsValidationError(err))
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ENTITYCODEC_LOG_LEVEL=error\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("ENTITYCODEC_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	chdir(t, t.TempDir())

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("UnknownField", func(t *testing.T) {
		_, err := Load(writeConfig(t, "store:\n  bakend: file\n"))
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("EmptyFile", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "\n"))
		require.NoError(t, err)
		assert.Equal(t, BackendFile, cfg.Store.Backend)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "s3" }, "store.backend"},
		{"ddb without table", func(c *Config) { c.Store.Backend = BackendDynamoDB; c.Store.DynamoDB.Region = "r" }, "store.dynamodb.table"},
		{"ddb without region", func(c *Config) { c.Store.Backend = BackendDynamoDB; c.Store.DynamoDB.Table = "t" }, "store.dynamodb.region"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			var ve *errors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})
}
