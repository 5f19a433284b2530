package config

import (
	"errors"
	"fmt"
	"strings"

	"aur/internal/aurerr"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWords(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWords() error {
	for key := range c.Words.Expand {
		if key == "" {
			return invalid("words.expand", errors.New("keys must not be empty"))
		}
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.Jobs < 0 {
		return invalid("sync.jobs", fmt.Errorf("must be zero or positive, got %d", c.Sync.Jobs))
	}
	if strings.ContainsAny(c.Sync.Preset, " \t/") {
		return invalid("sync.preset", fmt.Errorf("invalid preset %q", c.Sync.Preset))
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return invalid("log.format", fmt.Errorf("unsupported format %q", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return invalid("log.level", fmt.Errorf("unsupported level %q", c.Logging.Level))
	}
	return nil
}

func invalid(key string, err error) error {
	return aurerr.Wrap(aurerr.ErrParse, "config", key, err)
}
