package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Project locates the web-component project and its manifest.
type Project struct {
	Root         string `toml:"root"`
	ManifestName string `toml:"manifest_name"`
}

// Compiler describes how the external component compiler is launched.
type Compiler struct {
	Runtime         string   `toml:"runtime"`
	Script          string   `toml:"script"`
	InstallDir      string   `toml:"install_dir"`
	Args            []string `toml:"args"`
	TimeoutSeconds  int      `toml:"timeout_seconds"`
	StderrTailLines int      `toml:"stderr_tail_lines"`
}

// Registry contains settings for manifest registration.
type Registry struct {
	LockTimeoutSeconds int `toml:"lock_timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for wcpack.
//
// Configuration sections by subsystem:
//   - Project: project root and manifest file name
//   - Compiler: runtime, script location, arguments, and timeouts for builds
//   - Registry: manifest lock behaviour
//   - Logging: log format, level, and optional file output
type Config struct {
	Project  Project  `toml:"project"`
	Compiler Compiler `toml:"compiler"`
	Registry Registry `toml:"registry"`
	Logging  Logging  `toml:"logging"`
}

// Load resolves the configuration file (see resolveConfigPath), overlays it
// on Default, applies environment overrides and validates the result. It
// returns the config, the path that was consulted, and whether that file
// existed. Unknown keys are rejected.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, resolved, true, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, resolved, exists, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, resolved, exists, err
	}
	return &cfg, resolved, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file).DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}
