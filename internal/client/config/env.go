package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvAPIBaseURL     = "KEIJIBAN_API_BASE_URL"
	EnvDatabasePath   = "KEIJIBAN_DB_PATH"
	EnvRequestTimeout = "KEIJIBAN_REQUEST_TIMEOUT"
	EnvLogLevel       = "KEIJIBAN_LOG_LEVEL"
)

var envFile = ".env"

// parseEnv overlays cfg with KEIJIBAN_* variables. Values from dotenv are
// used only for variables that are unset or empty in the process. A missing
// dotenv file is not an error.
func parseEnv(cfg *Config, dotenv string) error {
	fileVars := map[string]string{}
	if dotenv != "" {
		vars, err := godotenv.Read(dotenv)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("failed to read %s: %w", dotenv, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	if v, ok := lookup(EnvAPIBaseURL); ok && v != "" {
		cfg.APIBaseURL = v
	}
	if v, ok := lookup(EnvDatabasePath); ok && v != "" {
		cfg.DatabasePath = v
	}
	if v, ok := lookup(EnvRequestTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRequestTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	return nil
}
