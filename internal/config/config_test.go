package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "file", cfg.StorageDriver)
	assert.Equal(t, BackendHTTP, cfg.BackendKind)
	assert.Equal(t, "pdf-viewport", cfg.ViewportID)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BACKEND_KIND", "openai")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("APP_ENV", "production")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendOpenAI, cfg.BackendKind)
	assert.Equal(t, "sqlite", cfg.StorageDriver)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("BACKEND_KIND", "carrier-pigeon")
	_, err := Load()
	require.Error(t, err)
}
