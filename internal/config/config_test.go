package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("should fail without backend base url", func(t *testing.T) {
		// when
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

		// then
		assert.ErrorIs(t, err, ErrMissingBaseURL)
	})

	t.Run("should apply defaults and read yaml file", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := "backend:\n  baseurl: http://127.0.0.1:3107/\n  timeout: 5s\nsync:\n  schedule: \"@every 5m\"\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:3107", cfg.Backend.BaseURL)
		assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
		assert.Equal(t, "/register", cfg.Backend.RegisterPath)
		assert.Equal(t, "file", cfg.Session.Backend)
		assert.Equal(t, "access_token", cfg.Session.Key)
		assert.Equal(t, "@every 5m", cfg.Sync.Schedule)
		assert.False(t, cfg.Auth.AdoptOnRegister)
	})

	t.Run("should let environment override file", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "application.yaml")
		require.NoError(t, os.WriteFile(path, []byte("backend:\n  baseurl: http://file\n"), 0o600))
		t.Setenv("CLEANCAL_BACKEND_BASEURL", "http://env:8000")
		t.Setenv("CLEANCAL_SESSION_BACKEND", "memory")

		// when
		cfg, err := Load(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "http://env:8000", cfg.Backend.BaseURL)
		assert.Equal(t, "memory", cfg.Session.Backend)
	})
}
