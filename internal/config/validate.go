package config

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/nao1215/sqlkernel/engine"
	"github.com/nao1215/sqlkernel/internal/logger"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := engine.ParseMode(c.Database.Mode); err != nil {
		return errors.Wrap(err, "database.mode")
	}
	if c.Database.Path != "" {
		if err := engine.ValidatePath(c.Database.Path); err != nil {
			return errors.Wrap(err, "database.path")
		}
	}

	// 0 renders every row
	if c.Output.MaxRows < 0 {
		return errors.Newf("output.max_rows must be >= 0, got %d", c.Output.MaxRows)
	}

	if c.Server.Addr == "" {
		return errors.New("server.addr cannot be empty")
	}
	if !strings.HasPrefix(c.Server.Path, "/") {
		return errors.Newf("server.path must start with /, got %q", c.Server.Path)
	}
	if c.Server.ReadLimit <= 0 {
		return errors.Newf("server.read_limit must be > 0, got %d", c.Server.ReadLimit)
	}
	if c.Server.PingIntervalSeconds < 0 {
		return errors.Newf("server.ping_interval_seconds must be >= 0, got %d", c.Server.PingIntervalSeconds)
	}

	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	return nil
}

// DatabaseMode returns the parsed database mode.
func (c *Config) DatabaseMode() engine.Mode {
	mode, err := engine.ParseMode(c.Database.Mode)
	if err != nil {
		return engine.ModeReadWrite
	}
	return mode
}
