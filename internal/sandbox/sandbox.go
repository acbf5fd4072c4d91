package sandbox

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrSizeMismatch reports that the bytes copied differ from the size the source declared.
var ErrSizeMismatch = errors.New("size mismatch")

// ValidatePath checks if targetPath is safely within root.
// It resolves symlinks, normalizes paths, and verifies containment.
// Returns the resolved absolute path or an error.
func ValidatePath(root, targetPath string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving output root: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolving output root symlinks: %w", err)
	}

	candidate := filepath.Clean(filepath.Join(realRoot, targetPath))

	// The path may not exist yet, so resolve as much as we can.
	resolved, err := resolveExistingPath(candidate)
	if err != nil {
		return "", fmt.Errorf("resolving target path: %w", err)
	}

	// Trailing separator avoids prefix matching "out2" for "out".
	rootPrefix := realRoot + string(filepath.Separator)
	if resolved != realRoot && !strings.HasPrefix(resolved, rootPrefix) {
		return "", fmt.Errorf("path '%s' resolves to '%s' which is outside the output root '%s'", targetPath, resolved, realRoot)
	}

	return resolved, nil
}

// resolveExistingPath resolves symlinks for the longest existing prefix of the path,
// then appends the non-existing suffix.
func resolveExistingPath(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	if dir == path {
		return path, nil
	}

	resolvedDir, err := resolveExistingPath(dir)
	if err != nil {
		return "", err
	}

	return filepath.Join(resolvedDir, base), nil
}

// SafeMkdirAll creates directories within the sandbox. It succeeds if the
// directory already exists.
func SafeMkdirAll(root, relPath string, perm os.FileMode) (string, error) {
	resolved, err := ValidatePath(root, relPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(resolved, perm); err != nil {
		return "", err
	}
	return resolved, nil
}

// SafeReplace streams r into a temp file next to dst and renames it over dst.
// dst's parent directory must already exist. When size is non-negative the
// number of bytes copied must match it. The temp file is removed on any
// failure; readers of dst never observe a partially written file.
func SafeReplace(dst string, r io.Reader, size int64, perm os.FileMode, buf []byte) (int64, error) {
	dir := filepath.Dir(dst)

	tmp, err := os.CreateTemp(dir, ".sortbyext-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	n, err := io.CopyBuffer(tmp, r, buf)
	if err != nil {
		return n, fmt.Errorf("writing temp file: %w", err)
	}
	if size >= 0 && n != size {
		return n, fmt.Errorf("%w: expected %d bytes, copied %d", ErrSizeMismatch, size, n)
	}
	if err := tmp.Sync(); err != nil {
		return n, fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return n, fmt.Errorf("setting permissions: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return n, fmt.Errorf("renaming temp file to %s: %w", dst, err)
	}

	success = true
	return n, nil
}
