package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"wcpack/internal/compiler"
	"wcpack/internal/config"
	"wcpack/internal/fileutil"
	"wcpack/internal/logging"
	"wcpack/internal/registry"
	"wcpack/internal/services"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	log        *slog.Logger
	logErr     error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "ensure directories", "", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// JSONMode reports whether --json was passed.
func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// logger writes to the command's stderr and, when configured, the log file.
// It is built once per invocation.
func (c *commandContext) logger(cmd *cobra.Command) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		c.log, c.logErr = logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	})
	return c.log, c.logErr
}

func (c *commandContext) registry(cmd *cobra.Command) (*registry.Registry, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return nil, err
	}
	return registry.New(
		fileutil.NewLocal(cfg.Project.Root),
		registry.WithManifestName(cfg.Project.ManifestName),
		registry.WithLockTimeout(time.Duration(cfg.Registry.LockTimeoutSeconds)*time.Second),
		registry.WithLogger(logger),
	)
}

func (c *commandContext) compiler(cmd *cobra.Command) (*compiler.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger(cmd)
	if err != nil {
		return nil, err
	}
	script, err := cfg.CompilerScriptPath()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "compiler", "resolve script", "", err)
	}
	return compiler.New(
		cfg.Compiler.Runtime,
		script,
		compiler.WithArgs(cfg.Compiler.Args...),
		compiler.WithTimeout(time.Duration(cfg.Compiler.TimeoutSeconds)*time.Second),
		compiler.WithStderrTail(cfg.Compiler.StderrTailLines),
		compiler.WithLogger(logger),
	)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
