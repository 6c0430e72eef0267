package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wcpack/internal/services"
)

func TestBuildCommandRunsCompilerInWorkingDirectory(t *testing.T) {
	script := "#!/bin/sh\necho \"compiled $*\"\npwd > build-dir.txt\necho 'warn: slow' >&2\n"
	project := newTestProject(t, `{}`, script)
	t.Chdir(project.root)

	out, errOut, err := runCLI(t, []string{"build"}, project.configPath)
	if err != nil {
		t.Fatalf("build: %v\nstderr:\n%s", err, errOut)
	}
	requireContains(t, out, "Build finished")
	requireContains(t, errOut, "compiled build --docs")
	requireContains(t, errOut, "warn: slow")
	requireContains(t, errOut, "compiler closed")

	data, err := os.ReadFile(filepath.Join(project.root, "build-dir.txt"))
	if err != nil {
		t.Fatalf("read build dir marker: %v", err)
	}
	gotDir, _ := filepath.EvalSymlinks(strings.TrimSpace(string(data)))
	wantDir, _ := filepath.EvalSymlinks(project.root)
	if gotDir != wantDir {
		t.Fatalf("compiler ran in %q, want %q", gotDir, wantDir)
	}
}

func TestBuildCommandReportsFailure(t *testing.T) {
	project := newTestProject(t, `{}`, "#!/bin/sh\necho 'error: missing stencil.config.ts' >&2\nexit 2\n")
	t.Chdir(project.root)

	_, errOut, err := runCLI(t, []string{"build"}, project.configPath)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	requireContains(t, err.Error(), "exit code 2")
	requireContains(t, err.Error(), "missing stencil.config.ts")
	requireContains(t, errOut, "compiler exited with failure")
}

func TestBuildCommandJSONSummary(t *testing.T) {
	project := newTestProject(t, `{}`, "#!/bin/sh\nexit 0\n")
	t.Chdir(project.root)

	out, _, err := runCLI(t, []string{"build", "--json"}, project.configPath)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var summary buildJSON
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary %q: %v", out, err)
	}
	if summary.RunID == "" || summary.ExitCode != 0 || summary.Error != "" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(summary.Command) == 0 || summary.Command[0] != "sh" {
		t.Fatalf("unexpected command %v", summary.Command)
	}
}

func TestBuildCommandMissingRuntimeIsSpawnFailure(t *testing.T) {
	project := newTestProject(t, `{}`, "#!/bin/sh\nexit 0\n")
	writeTestConfig(t, project.configPath, project.root, "wcpack-missing-runtime", project.script)
	t.Chdir(project.root)

	_, errOut, err := runCLI(t, []string{"build"}, project.configPath)
	if err == nil {
		t.Fatal("expected build to fail")
	}
	requireContains(t, err.Error(), "failed to start")
	requireContains(t, errOut, "compiler failed to start")
}
