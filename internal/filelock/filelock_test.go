package filelock

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNewFileLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	lock := NewFileLock(lockPath)
	if lock == nil {
		t.Fatal("NewFileLock should not return nil")
	}
	if lock.Path() != lockPath {
		t.Errorf("Expected lock path %s, got %s", lockPath, lock.Path())
	}
}

func TestPathForIsSibling(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "sorted")

	got, err := PathFor(out + string(filepath.Separator))
	if err != nil {
		t.Fatal(err)
	}
	if got != out+".lock" {
		t.Errorf("PathFor = %s, want %s", got, out+".lock")
	}
	if filepath.Dir(got) != dir {
		t.Errorf("lock file should sit next to the output folder, got %s", got)
	}
}

func TestTryLock(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "test.lock")

	first := NewFileLock(lockPath)
	ok, err := first.TryLock()
	if err != nil || !ok {
		t.Fatalf("first TryLock = %v, %v", ok, err)
	}

	second := NewFileLock(lockPath)
	ok, err = second.TryLock()
	if err != nil {
		t.Fatalf("second TryLock: %v", err)
	}
	if ok {
		t.Fatal("second TryLock should fail while the first holds the lock")
	}

	if err := first.Unlock(); err != nil {
		t.Fatalf("Unlock: %v", err)
	}

	ok, err = second.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock after release = %v, %v", ok, err)
	}
	_ = second.Unlock()
}

func TestAcquire(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")

	held, err := Acquire(out)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	_, err = Acquire(out)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("second Acquire error = %v, want ErrLocked", err)
	}

	if err := held.Unlock(); err != nil {
		t.Fatal(err)
	}

	again, err := Acquire(out)
	if err != nil {
		t.Fatalf("Acquire after Unlock: %v", err)
	}
	_ = again.Unlock()
}
