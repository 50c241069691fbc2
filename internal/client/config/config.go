package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/keijiban-app/keijiban/internal/common"
)

// Config holds runtime settings for the Keijiban CLI.
type Config struct {
	APIBaseURL     string
	DatabasePath   string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with defaults. There is no default API base URL.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = ""
	c.DatabasePath = "keijiban.db"
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
}

// Validate reports settings the client cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return common.ErrMissingBaseURL
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("%w: database path must not be empty", common.ErrValidation)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("%w: request timeout must not be negative", common.ErrValidation)
	}
	return nil
}

// Load builds a Config from defaults, the JSON file named in args, the
// environment and finally the flags in args. args excludes the program name.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, envFile); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
