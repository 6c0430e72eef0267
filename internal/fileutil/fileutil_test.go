package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalBaseDir(t *testing.T) {
	root := t.TempDir()
	got, err := NewLocal(root).BaseDir()
	if err != nil {
		t.Fatal(err)
	}
	if got != root {
		t.Fatalf("BaseDir() = %q, want %q", got, root)
	}

	wd := t.TempDir()
	t.Chdir(wd)
	got, err = NewLocal("").BaseDir()
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.EvalSymlinks(wd)
	if resolved, _ := filepath.EvalSymlinks(got); resolved != want {
		t.Fatalf("BaseDir() = %q, want working directory %q", got, wd)
	}
}

func TestLocalReadText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	if err := os.WriteFile(path, []byte(`{"name":"demo"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewLocal(dir).ReadText(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != `{"name":"demo"}` {
		t.Fatalf("content mismatch: got %q", got)
	}

	_, err = NewLocal(dir).ReadText(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestLocalWriteTextReplacesContentsAndKeepsMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	if err := os.WriteFile(path, []byte("old contents that are longer"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := NewLocal(dir).WriteText(path, "new"); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Fatalf("content mismatch: got %q", got)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected mode 0600 to be preserved, got %o", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, found %d entries", len(entries))
	}
}

func TestWriteFileAtomicFailsForMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "package.json")
	if err := WriteFileAtomic(path, []byte("{}"), 0o644); err == nil {
		t.Fatal("expected error writing into missing directory")
	}
}

func TestLocalWriteTextFollowsSymlink(t *testing.T) {
	shared := t.TempDir()
	target := filepath.Join(shared, "package.json")
	if err := os.WriteFile(target, []byte(`{"name":"x"}`), 0o640); err != nil {
		t.Fatal(err)
	}
	project := t.TempDir()
	link := filepath.Join(project, "package.json")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	if err := NewLocal(project).WriteText(link, `{"name":"y"}`); err != nil {
		t.Fatal(err)
	}

	info, err := os.Lstat(link)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		t.Fatal("expected manifest to remain a symlink")
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"name":"y"}` {
		t.Fatalf("target not updated: %q", got)
	}
	if st, _ := os.Stat(target); st.Mode().Perm() != 0o640 {
		t.Fatalf("expected target mode 0640, got %o", st.Mode().Perm())
	}
}

func TestLocalWriteTextCreatesMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "package.json")
	if err := NewLocal(dir).WriteText(path, "{}"); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Fatalf("expected default mode 0644, got %o", info.Mode().Perm())
	}
}
