// Package config provides configuration management for AskLens.
// Values are layered: built-in defaults, then asklens.yaml, then
// ASKLENS_-prefixed environment variables, then CLI flags.
package config

import "time"

// UIConfig holds configuration for the panel server.
type UIConfig struct {
	Port     int  `koanf:"port"`
	Watch    bool `koanf:"watch"`
	AutoOpen bool `koanf:"auto_open"`
}

// LocationConfig holds the location preference and an optional fixed
// position used by the CLI, which has no device geolocation.
type LocationConfig struct {
	Enabled   bool    `koanf:"enabled"`
	Latitude  float64 `koanf:"latitude"`
	Longitude float64 `koanf:"longitude"`
}

// Config holds all AskLens configuration options.
type Config struct {
	BackendURL     string         `koanf:"backend_url"`
	SchemaURL      string         `koanf:"schema_url"`
	SchemaFile     string         `koanf:"schema_file"` // local override, watched in serve mode
	RequestTimeout time.Duration  `koanf:"request_timeout"`
	HistoryLimit   int            `koanf:"history_limit"`
	Verbose        bool           `koanf:"verbose"`
	OutputFormat   string         `koanf:"output"`
	SessionSecret  string         `koanf:"session_secret"`
	UI             UIConfig       `koanf:"ui"`
	Location       LocationConfig `koanf:"location"`
}
