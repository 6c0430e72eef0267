package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Access is the file collaborator used by the manifest registry.
type Access interface {
	BaseDir() (string, error)
	ReadText(path string) (string, error)
	WriteText(path, contents string) error
}

// Local implements Access against the local filesystem. An empty Root
// resolves to the process working directory at call time.
type Local struct {
	Root string
}

// NewLocal returns a Local rooted at root.
func NewLocal(root string) *Local {
	return &Local{Root: root}
}

// BaseDir resolves the project root.
func (l *Local) BaseDir() (string, error) {
	if l.Root != "" {
		return filepath.Abs(l.Root)
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	return wd, nil
}

// ReadText returns the full contents of path.
func (l *Local) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteText replaces the contents of path. A symlinked path is written
// through to its target, and the existing file's mode and owner are kept.
func (l *Local) WriteText(path, contents string) error {
	target, err := filepath.EvalSymlinks(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		target = path
	case err != nil:
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	mode := os.FileMode(0o644)
	info, err := os.Stat(target)
	switch {
	case err == nil:
		mode = info.Mode().Perm()
	case errors.Is(err, fs.ErrNotExist):
		info = nil
	default:
		return err
	}
	return writeAtomic(target, []byte(contents), mode, info)
}

// WriteFileAtomic writes data to a temp file beside path and renames it into
// place so readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, mode os.FileMode) error {
	return writeAtomic(path, data, mode, nil)
}

// writeAtomic applies mode and, when owner is set, copies its uid and gid
// where permitted.
func writeAtomic(path string, data []byte, mode os.FileMode, owner fs.FileInfo) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if owner != nil {
		copyOwner(tmpPath, owner)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
