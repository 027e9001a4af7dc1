package config

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	foundationerrors "git.home.luguber.info/inful/doclinks/internal/foundation/errors"
)

// Validate checks the configuration for values the validator cannot use.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return invalid("workers must not be negative", "workers", c.Workers)
	}
	switch c.Output.Format {
	case "text", "json":
	default:
		return invalid("unsupported output format", "output.format", c.Output.Format)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return invalid("extensions must start with '.'", "extensions", ext)
		}
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return invalid("invalid exclude pattern", "exclude", pattern)
		}
	}
	if c.Events.Enabled {
		if c.Events.NATSURL == "" {
			return invalid("events.nats_url is required when events are enabled", "events.nats_url", "")
		}
		if c.Events.Subject == "" {
			return invalid("events.subject is required when events are enabled", "events.subject", "")
		}
	}
	return nil
}

func invalid(message, field string, value any) error {
	return foundationerrors.ConfigError(message).
		WithContext("field", field).
		WithContext("value", value).
		Build()
}
