// Package config loads runtime configuration for the wallet CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file and WALLET_* environment variables (see parseEnv).
//  3. Optional JSON or YAML file (see parseFile) selected with -c/-config
//     or $WALLET_CONFIG.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-d string   local state database path
//	-t int      request timeout (seconds)
//	-i int      session check interval (seconds)
//	-p int      movements page size
//	-l string   log level
//	-f string   log format
//
// # File schema
//
//	{
//	  "backend_url": "https://api.example.com",
//	  "state_path": "/home/ana/.config/chewallet/state.db",
//	  "request_timeout": "10s",
//	  "session_check_interval": "1m",
//	  "page_size": 10,
//	  "requests_per_second": 5,
//	  "log_level": "info",
//	  "log_format": "text"
//	}
package config
