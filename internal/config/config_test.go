package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"wcpack/internal/config"
)

func TestLoadDefaultConfigWithoutFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	wantPath := filepath.Join(tempHome, ".config", "wcpack", "config.toml")
	if resolved != wantPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, wantPath)
	}
	if cfg.Project.ManifestName != "package.json" {
		t.Fatalf("unexpected manifest name: %q", cfg.Project.ManifestName)
	}
	if cfg.Project.Root != "" {
		t.Fatalf("expected empty project root, got %q", cfg.Project.Root)
	}
	if cfg.Compiler.Runtime != "node" {
		t.Fatalf("unexpected runtime: %q", cfg.Compiler.Runtime)
	}
	if strings.Join(cfg.Compiler.Args, " ") != "build --docs" {
		t.Fatalf("unexpected compiler args: %v", cfg.Compiler.Args)
	}
	if cfg.Compiler.TimeoutSeconds != 0 {
		t.Fatalf("expected no compiler timeout by default, got %d", cfg.Compiler.TimeoutSeconds)
	}
	if cfg.Registry.LockTimeoutSeconds != config.Default().Registry.LockTimeoutSeconds {
		t.Fatalf("unexpected lock timeout: %d", cfg.Registry.LockTimeoutSeconds)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "wcpack.toml")

	type payload struct {
		Project struct {
			Root string `toml:"root"`
		} `toml:"project"`
		Compiler struct {
			Args           []string `toml:"args"`
			TimeoutSeconds int      `toml:"timeout_seconds"`
			InstallDir     string   `toml:"install_dir"`
		} `toml:"compiler"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Project.Root = filepath.Join(tempDir, "project")
	custom.Compiler.Args = []string{"build", " --prod ", ""}
	custom.Compiler.TimeoutSeconds = 300
	custom.Compiler.InstallDir = filepath.Join(tempDir, "install")
	custom.Logging.Format = "JSON"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Project.Root != filepath.Join(tempDir, "project") {
		t.Fatalf("unexpected project root: %q", cfg.Project.Root)
	}
	if strings.Join(cfg.Compiler.Args, " ") != "build --prod" {
		t.Fatalf("expected trimmed args, got %q", cfg.Compiler.Args)
	}
	if cfg.Compiler.TimeoutSeconds != 300 {
		t.Fatalf("expected timeout 300, got %d", cfg.Compiler.TimeoutSeconds)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", cfg.Logging.Format)
	}

	script, err := cfg.CompilerScriptPath()
	if err != nil {
		t.Fatalf("CompilerScriptPath: %v", err)
	}
	want := filepath.Join(tempDir, "install", "node_modules", "@stencil", "core", "bin", "stencil")
	if script != want {
		t.Fatalf("unexpected script path: got %q want %q", script, want)
	}

	manifest, err := cfg.ManifestPath()
	if err != nil {
		t.Fatalf("ManifestPath: %v", err)
	}
	if manifest != filepath.Join(tempDir, "project", "package.json") {
		t.Fatalf("unexpected manifest path: %q", manifest)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	root := t.TempDir()
	t.Setenv("WCPACK_PROJECT_ROOT", root)
	t.Setenv("WCPACK_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Project.Root != root {
		t.Fatalf("expected project root from env, got %q", cfg.Project.Root)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected debug level from env, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		want     string
	}{
		{name: "manifest path", contents: "[project]\nmanifest_name = \"sub/package.json\"\n", want: "project.manifest_name"},
		{name: "empty args", contents: "[compiler]\nargs = []\n", want: "compiler.args"},
		{name: "negative timeout", contents: "[compiler]\ntimeout_seconds = -1\n", want: "compiler.timeout_seconds"},
		{name: "negative lock timeout", contents: "[registry]\nlock_timeout_seconds = -5\n", want: "registry.lock_timeout_seconds"},
		{name: "log format", contents: "[logging]\nformat = \"xml\"\n", want: "logging.format"},
		{name: "unknown key", contents: "[compiler]\nbinary = \"stencil\"\n", want: "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "wcpack.toml")
			if err := os.WriteFile(path, []byte(tt.contents), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in error %q", tt.want, err.Error())
			}
		})
	}
}

func TestCreateSampleLoadsCleanly(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Compiler.Script != config.Default().Compiler.Script {
		t.Fatalf("unexpected script from sample: %q", cfg.Compiler.Script)
	}
}

func TestEnsureDirectoriesCreatesLogDir(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Dir = filepath.Join(t.TempDir(), "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	info, err := os.Stat(cfg.Logging.Dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected log dir to exist: %v", err)
	}
}

func TestLoadFallsBackToProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	t.Chdir(project)
	if err := os.WriteFile("wcpack.toml", []byte("[registry]\nlock_timeout_seconds = 3\n"), 0o644); err != nil {
		t.Fatalf("write project config: %v", err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != filepath.Join(project, "wcpack.toml") {
		t.Fatalf("expected project config, got %q (exists=%v)", resolved, exists)
	}
	if cfg.Registry.LockTimeoutSeconds != 3 {
		t.Fatalf("expected lock timeout from project config, got %d", cfg.Registry.LockTimeoutSeconds)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := map[string]string{
		"":                "",
		"~":               home,
		"~/projects/app":  filepath.Join(home, "projects", "app"),
		"/srv/app/../web": "/srv/web",
	}
	for in, want := range tests {
		got, err := config.ExpandPath(in)
		if err != nil {
			t.Fatalf("ExpandPath(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}
