// Package config handles configuration for the development board server,
// including defaults, JSON overlay and command-line flags.
package config

import "os"

// Config holds runtime settings for the board server.
//
// Fields:
//   - EndpointAddr: bind address for the HTTP API.
//   - PageSize: entries returned when a request gives no count.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddr string
	PageSize     int
	LogLevel     string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.PageSize = 20
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags. It panics
// on an unreadable file or a malformed flag.
func LoadConfig() *Config {
	return loadConfig(os.Args[1:])
}

func loadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
