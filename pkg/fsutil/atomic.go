package fsutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileMode is the permission mode for generated documents.
const DefaultFileMode os.FileMode = 0o644

// DefaultDirMode is the permission mode for created output directories.
const DefaultDirMode os.FileMode = 0o755

// WriteAtomic writes content to path through a temp file in the same
// directory followed by a rename. If mode is 0, DefaultFileMode is used.
// On error the temp file is removed and any existing file is untouched.
func WriteAtomic(ctx context.Context, path string, content []byte, mode os.FileMode) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("write atomic: %w", ctx.Err())
	default:
	}

	if mode == 0 {
		mode = DefaultFileMode
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	success = true
	return nil
}

// WriteAtomicIfChanged writes content only when it differs from what is on
// disk. It reports whether the file was written.
func WriteAtomicIfChanged(ctx context.Context, path string, content []byte, mode os.FileMode) (bool, error) {
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("write atomic: %w", ctx.Err())
	default:
	}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && bytes.Equal(existing, content):
		return false, nil
	case err != nil && !os.IsNotExist(err):
		return false, fmt.Errorf("read existing: %w", err)
	}

	if err := WriteAtomic(ctx, path, content, mode); err != nil {
		return false, err
	}
	return true, nil
}

// EnsureDir creates dir and its parents when missing. It reports whether
// the directory already existed.
func EnsureDir(ctx context.Context, dir string) (bool, error) {
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("ensure dir: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(dir)
	switch {
	case err == nil && stat.IsDir():
		return true, nil
	case err == nil:
		return false, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	case !os.IsNotExist(err):
		return false, fmt.Errorf("stat %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, DefaultDirMode); err != nil {
		return false, fmt.Errorf("create %s: %w", dir, err)
	}
	return false, nil
}
