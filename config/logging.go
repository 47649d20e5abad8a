package config

import (
	"fmt"
)

// LoggingConfig defines settings for the application log output.
type LoggingConfig struct {
	// Level is the minimum severity to emit: "debug", "info", "warn" or
	// "error".
	Level string `json:"level"`
	// Console switches the output from JSON to a human-readable console
	// writer.
	Console bool `json:"console"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown log level %s", c.Level)
}
