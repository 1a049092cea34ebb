package config

import "github.com/spf13/viper"

// Default values shared with the CLI flags
const (
	DefaultMode         = "RW"
	DefaultMaxRows      = 1000
	DefaultAddr         = "127.0.0.1:8888"
	DefaultPath         = "/kernel"
	DefaultReadLimit    = 4 << 20
	DefaultPingInterval = 30
	DefaultLogLevel     = "info"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "")
	v.SetDefault("database.mode", DefaultMode)
	v.SetDefault("database.create_if_missing", false)

	v.SetDefault("output.max_rows", DefaultMaxRows)
	v.SetDefault("output.html", false)

	v.SetDefault("server.addr", DefaultAddr)
	v.SetDefault("server.path", DefaultPath)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})
	v.SetDefault("server.read_limit", DefaultReadLimit)
	v.SetDefault("server.ping_interval_seconds", DefaultPingInterval)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", DefaultLogLevel)
}
