package config

const (
	defaultConfigPath              = "~/.config/wcpack/config.toml"
	projectConfigName              = "wcpack.toml"
	defaultManifestName            = "package.json"
	defaultCompilerRuntime         = "node"
	defaultCompilerScript          = "node_modules/@stencil/core/bin/stencil"
	defaultCompilerStderrTailLines = 20
	defaultRegistryLockTimeout     = 10
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
)

// DefaultCompilerArgs requests a build plus documentation generation.
var DefaultCompilerArgs = []string{"build", "--docs"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	args := make([]string, len(DefaultCompilerArgs))
	copy(args, DefaultCompilerArgs)
	return Config{
		Project: Project{
			ManifestName: defaultManifestName,
		},
		Compiler: Compiler{
			Runtime:         defaultCompilerRuntime,
			Script:          defaultCompilerScript,
			Args:            args,
			StderrTailLines: defaultCompilerStderrTailLines,
		},
		Registry: Registry{
			LockTimeoutSeconds: defaultRegistryLockTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
