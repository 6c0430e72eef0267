package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProject(); err != nil {
		return err
	}
	if err := c.validateCompiler(); err != nil {
		return err
	}
	if err := c.validateRegistry(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateProject() error {
	name := c.Project.ManifestName
	if name == "" {
		return errors.New("project.manifest_name must be set")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("project.manifest_name must be a file name, got %q", name)
	}
	return nil
}

func (c *Config) validateCompiler() error {
	if len(c.Compiler.Args) == 0 {
		return errors.New("compiler.args must contain at least one argument")
	}
	if c.Compiler.TimeoutSeconds < 0 {
		return errors.New("compiler.timeout_seconds must be >= 0")
	}
	if c.Compiler.StderrTailLines < 0 {
		return errors.New("compiler.stderr_tail_lines must be >= 0")
	}
	return nil
}

func (c *Config) validateRegistry() error {
	if c.Registry.LockTimeoutSeconds < 0 {
		return errors.New("registry.lock_timeout_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
