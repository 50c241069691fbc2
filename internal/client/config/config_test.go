package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/keijiban-app/keijiban/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate clears KEIJIBAN_* variables and points the dotenv lookup at a
// file that does not exist.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAPIBaseURL, EnvDatabasePath, EnvRequestTimeout, EnvLogLevel} {
		t.Setenv(k, "")
	}
	orig := envFile
	envFile = filepath.Join(t.TempDir(), "missing.env")
	t.Cleanup(func() { envFile = orig })
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "", c.APIBaseURL)
	assert.Equal(t, "keijiban.db", c.DatabasePath)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, "info", c.LogLevel)
}

func TestValidate(t *testing.T) {
	var c Config
	c.LoadDefaults()
	require.ErrorIs(t, c.Validate(), common.ErrMissingBaseURL)

	c.APIBaseURL = "http://127.0.0.1:8080"
	require.NoError(t, c.Validate())

	c.DatabasePath = ""
	require.ErrorIs(t, c.Validate(), common.ErrValidation)
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)

	path := writeTempJSON(t, map[string]any{
		"api_base_url":    "http://json:1",
		"database_path":   "json.db",
		"request_timeout": "5s",
		"log_level":       "debug",
	})

	t.Run("json over defaults", func(t *testing.T) {
		cfg, err := Load([]string{"-c", path})
		require.NoError(t, err)
		want := &Config{APIBaseURL: "http://json:1", DatabasePath: "json.db", RequestTimeout: 5 * time.Second, LogLevel: "debug"}
		assert.Empty(t, cmp.Diff(want, cfg))
	})

	t.Run("env over json", func(t *testing.T) {
		t.Setenv(EnvAPIBaseURL, "http://env:2")
		t.Setenv(EnvRequestTimeout, "1500ms")

		cfg, err := Load([]string{"-config", path})
		require.NoError(t, err)
		assert.Equal(t, "http://env:2", cfg.APIBaseURL)
		assert.Equal(t, "json.db", cfg.DatabasePath)
		assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv(EnvAPIBaseURL, "http://env:2")

		cfg, err := Load([]string{"-c", path, "-a", "http://flag:3", "-d", "flag.db", "-t", "7", "ingest", "x.png"})
		require.NoError(t, err)
		assert.Equal(t, "http://flag:3", cfg.APIBaseURL)
		assert.Equal(t, "flag.db", cfg.DatabasePath)
		assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "debug", cfg.LogLevel)
	})
}

func TestLoad_Errors(t *testing.T) {
	isolate(t)

	t.Run("missing json file", func(t *testing.T) {
		_, err := Load([]string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		require.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		_, err := Load([]string{"-c", bad})
		require.Error(t, err)
	})

	t.Run("bad timeout flag", func(t *testing.T) {
		_, err := Load([]string{"-t", "abc"})
		require.Error(t, err)
	})

	t.Run("bad timeout env", func(t *testing.T) {
		t.Setenv(EnvRequestTimeout, "soon")
		_, err := Load(nil)
		require.Error(t, err)
	})
}
