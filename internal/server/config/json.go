package config

import (
	"encoding/json"
	"os"

	"github.com/keijiban-app/keijiban/internal/flagx"
)

// JsonConfig is the on-disk form of Config. Zero values leave the
// corresponding setting unchanged.
type JsonConfig struct {
	EndpointAddr string `json:"endpoint_addr"`
	PageSize     int    `json:"page_size"`
	LogLevel     string `json:"log_level"`
}

// parseJson loads the file named by -c or -config into config. Nothing
// happens when neither flag is given; read and decode errors panic.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFileFlag(args)
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.PageSize != 0 {
		config.PageSize = c.PageSize
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
