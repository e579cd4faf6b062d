package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir and any missing parents with mode 0755.
// An already existing directory is not an error.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// EnsureDirForFile creates the parent directory of path so the file can be
// created without a missing-directory error.
func EnsureDirForFile(path string) error {
	return EnsureDir(filepath.Dir(path))
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// RemoveTree deletes path and everything under it. A path that does not
// exist is treated as success, so removal is idempotent.
func RemoveTree(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
