// Package config loads runtime configuration for the Keijiban client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables, optionally seeded from a .env file in the
//     working directory. Variables already set in the process win over .env.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the board service API
//	-d string   path of the local SQLite database
//	-t int      request timeout (seconds)
//
// Environment
//
//	KEIJIBAN_API_BASE_URL, KEIJIBAN_DB_PATH,
//	KEIJIBAN_REQUEST_TIMEOUT (Go duration, e.g. "15s"), KEIJIBAN_LOG_LEVEL
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080",
//	  "database_path": "keijiban.db",
//	  "request_timeout": "30s",
//	  "log_level": "info"
//	}
package config
