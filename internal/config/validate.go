package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateInterview(); err != nil {
		return err
	}
	return c.validateReview()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DocsDir) == "" {
		return errors.New("paths.docs_dir must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateInterview() error {
	if c.Interview.TimeoutSeconds < 0 {
		return errors.New("interview.timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateReview() error {
	if strings.ContainsAny(c.Review.Base, " \t") {
		return fmt.Errorf("review.base must be a branch name, got %q", c.Review.Base)
	}
	return nil
}
