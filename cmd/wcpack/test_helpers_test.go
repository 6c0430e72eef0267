package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testProject struct {
	root       string
	configPath string
	script     string
}

// newTestProject creates a project directory holding manifest and a config
// that runs script through sh.
func newTestProject(t *testing.T, manifest, script string) testProject {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("WCPACK_PROJECT_ROOT", "")
	t.Setenv("WCPACK_LOG_LEVEL", "")
	t.Setenv("WCPACK_COMPILER_INSTALL_DIR", "")

	root := t.TempDir()
	if manifest != "" {
		if err := os.WriteFile(filepath.Join(root, "package.json"), []byte(manifest), 0o644); err != nil {
			t.Fatalf("write manifest: %v", err)
		}
	}

	scriptPath := filepath.Join(t.TempDir(), "stencil")
	if script != "" {
		if err := os.WriteFile(scriptPath, []byte(script), 0o755); err != nil {
			t.Fatalf("write compiler stub: %v", err)
		}
	}

	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, root, "sh", scriptPath)
	return testProject{root: root, configPath: configPath, script: scriptPath}
}

func writeTestConfig(t *testing.T, path, root, runtime, script string) {
	t.Helper()
	content := fmt.Sprintf(`[project]
root = %q

[compiler]
runtime = %q
script = %q

[registry]
lock_timeout_seconds = 2

[logging]
format = "console"
level = "info"
`, root, runtime, script)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (p testProject) manifest(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(p.root, "package.json"))
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	return string(data)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected output to contain %q\nfull output:\n%s", substr, output)
	}
}
