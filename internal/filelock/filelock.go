// Package filelock guards an output folder against concurrent sorting runs
// from other processes.
package filelock

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by Acquire when another process holds the lock.
var ErrLocked = errors.New("output folder is in use by another sortbyext process")

// FileLock wraps a flock file lock.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// NewFileLock creates a new file lock at path. The file is created on first
// lock.
func NewFileLock(path string) *FileLock {
	return &FileLock{
		flock: flock.New(path),
		path:  path,
	}
}

// PathFor returns the lock path for an output root: a sibling file named
// after the root, so the lock never shows up inside the sorted output.
func PathFor(outputRoot string) (string, error) {
	abs, err := filepath.Abs(outputRoot)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", outputRoot, err)
	}
	return filepath.Clean(abs) + ".lock", nil
}

// Path returns the lock file path.
func (fl *FileLock) Path() string {
	return fl.path
}

// TryLock attempts to acquire an exclusive lock without blocking.
// Returns true if the lock was acquired, false if it is held elsewhere.
func (fl *FileLock) TryLock() (bool, error) {
	acquired, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("failed to try lock on %s: %w", fl.path, err)
	}
	return acquired, nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release lock on %s: %w", fl.path, err)
	}
	return nil
}

// Acquire takes the lock for outputRoot or fails with ErrLocked.
// The returned lock must be released with Unlock.
func Acquire(outputRoot string) (*FileLock, error) {
	path, err := PathFor(outputRoot)
	if err != nil {
		return nil, err
	}

	fl := NewFileLock(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock file %s)", ErrLocked, path)
	}
	return fl, nil
}
