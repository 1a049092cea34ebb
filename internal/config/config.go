// Package config loads kernel settings from sqlkernel.toml, SQLKERNEL_*
// environment variables and defaults, in increasing order of precedence:
// defaults < file < environment.
package config

// Config is the complete kernel configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Output   OutputConfig   `mapstructure:"output"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig selects the database opened at startup
type DatabaseConfig struct {
	// Path is empty to start without a database
	Path string `mapstructure:"path"`
	// Mode is RW or R
	Mode            string `mapstructure:"mode"`
	CreateIfMissing bool   `mapstructure:"create_if_missing"`
}

// OutputConfig controls how result tables are rendered
type OutputConfig struct {
	// MaxRows limits rendered rows; 0 renders everything
	MaxRows int  `mapstructure:"max_rows"`
	HTML    bool `mapstructure:"html"`
}

// ServerConfig configures the websocket transport
type ServerConfig struct {
	Addr           string   `mapstructure:"addr"`
	Path           string   `mapstructure:"path"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// ReadLimit is the largest accepted message in bytes
	ReadLimit           int64 `mapstructure:"read_limit"`
	PingIntervalSeconds int   `mapstructure:"ping_interval_seconds"`
}

// LogConfig configures the global logger
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}
