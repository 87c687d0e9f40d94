package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("invalid listen address", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.ListenAddress = "rando-address" // doesn't follow the format

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidListenAddress)
	})

	t.Run("no allowed origins", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.CORSConfig.AllowedOrigins = nil

		assert.ErrorIs(t, ValidateConfig(cfg), ErrInvalidCORSConfig)
	})

	t.Run("no CORS config", func(t *testing.T) {
		t.Parallel()

		cfg := DefaultConfig()
		cfg.CORSConfig = nil

		assert.NoError(t, ValidateConfig(cfg))
	})

	t.Run("valid configuration", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, ValidateConfig(DefaultConfig()))
	})
}

func TestConfig_Read(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := Read(filepath.Join(t.TempDir(), "missing.toml"))
		assert.Error(t, err)
	})

	t.Run("invalid TOML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte("listen_address = "), 0o600))

		_, err := Read(path)
		assert.Error(t, err)
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(`listen_address = "127.0.0.1:9000"`), 0o600))

		cfg, err := Read(path)
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddress)
		assert.Equal(t, DefaultCORSConfig(), cfg.CORSConfig)
	})

	t.Run("CORS config", func(t *testing.T) {
		t.Parallel()

		content := `
listen_address = "0.0.0.0:10000"

[cors_config]
allowed_origins = ["https://quotes.example.com"]
allowed_methods = ["GET"]
allowed_headers = ["Content-Type"]
`

		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := Read(path)
		require.NoError(t, err)

		require.NotNil(t, cfg.CORSConfig)
		assert.Equal(t, []string{"https://quotes.example.com"}, cfg.CORSConfig.AllowedOrigins)
		assert.Equal(t, []string{"GET"}, cfg.CORSConfig.AllowedMethods)
		assert.Equal(t, []string{"Content-Type"}, cfg.CORSConfig.AllowedHeaders)
		assert.NoError(t, ValidateConfig(cfg))
	})
}
