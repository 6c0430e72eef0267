package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultConfigPath is the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// resolveConfigPath picks the file Load reads. An explicit path is used as
// given even when missing. Otherwise the per-user file wins over wcpack.toml
// in the working directory; when neither exists the per-user path is
// reported with exists=false.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		exists, err := isFile(expanded)
		return expanded, exists, err
	}

	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		if ok, _ := isFile(candidate); ok {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat config: %w", err)
	case info.IsDir():
		return false, fmt.Errorf("config path %s is a directory", path)
	}
	return true, nil
}

// ExpandPath resolves a leading "~" to the home directory and returns an
// absolute, cleaned path. Empty input stays empty.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = home + path[1:]
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", path, err)
	}
	return absolute, nil
}

// EnsureDirectories creates the log directory when file logging is enabled.
func (c *Config) EnsureDirectories() error {
	if c.Logging.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.Logging.Dir, 0o755); err != nil {
		return fmt.Errorf("create log directory %q: %w", c.Logging.Dir, err)
	}
	return nil
}

// ManifestPath joins the project root with the manifest file name. An empty
// root resolves against the current working directory.
func (c *Config) ManifestPath() (string, error) {
	root := c.Project.Root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		root = wd
	}
	return filepath.Join(root, c.Project.ManifestName), nil
}

// CompilerScriptPath returns the compiler entry point. Relative scripts are
// resolved against the install directory, which defaults to the parent of
// the directory holding the running executable.
func (c *Config) CompilerScriptPath() (string, error) {
	script := c.Compiler.Script
	if filepath.IsAbs(script) {
		return script, nil
	}
	installDir := c.Compiler.InstallDir
	if installDir == "" {
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("locate executable: %w", err)
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		installDir = filepath.Dir(filepath.Dir(exe))
	}
	return filepath.Join(installDir, filepath.FromSlash(script)), nil
}

// CreateSample writes the commented sample configuration to path, creating
// parent directories as needed.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
