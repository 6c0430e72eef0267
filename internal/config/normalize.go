package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeProject(); err != nil {
		return err
	}
	if err := c.normalizeCompiler(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeProject() error {
	if value, ok := os.LookupEnv("WCPACK_PROJECT_ROOT"); ok && strings.TrimSpace(value) != "" {
		c.Project.Root = value
	}
	var err error
	if c.Project.Root, err = ExpandPath(strings.TrimSpace(c.Project.Root)); err != nil {
		return fmt.Errorf("project.root: %w", err)
	}
	c.Project.ManifestName = strings.TrimSpace(c.Project.ManifestName)
	if c.Project.ManifestName == "" {
		c.Project.ManifestName = defaultManifestName
	}
	return nil
}

func (c *Config) normalizeCompiler() error {
	if value, ok := os.LookupEnv("WCPACK_COMPILER_INSTALL_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Compiler.InstallDir = value
	}
	var err error
	if c.Compiler.InstallDir, err = ExpandPath(strings.TrimSpace(c.Compiler.InstallDir)); err != nil {
		return fmt.Errorf("compiler.install_dir: %w", err)
	}
	c.Compiler.Runtime = strings.TrimSpace(c.Compiler.Runtime)
	if c.Compiler.Runtime == "" {
		c.Compiler.Runtime = defaultCompilerRuntime
	}
	c.Compiler.Script = strings.TrimSpace(c.Compiler.Script)
	if c.Compiler.Script == "" {
		c.Compiler.Script = defaultCompilerScript
	}
	if strings.HasPrefix(c.Compiler.Script, "~") {
		if c.Compiler.Script, err = ExpandPath(c.Compiler.Script); err != nil {
			return fmt.Errorf("compiler.script: %w", err)
		}
	}
	args := c.Compiler.Args[:0]
	for _, arg := range c.Compiler.Args {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}
	c.Compiler.Args = args
	return nil
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv("WCPACK_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = ExpandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
