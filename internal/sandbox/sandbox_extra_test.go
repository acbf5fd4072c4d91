package sandbox

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestValidatePathRootItself(t *testing.T) {
	root := t.TempDir()
	resolved, err := ValidatePath(root, ".")
	if err != nil {
		t.Fatalf("ValidatePath for root itself: %v", err)
	}

	realRoot, _ := filepath.EvalSymlinks(root)
	if resolved != realRoot {
		t.Errorf("got %q, want %q", resolved, realRoot)
	}
}

func TestValidatePathAllowsInternalSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test not reliable on Windows")
	}

	root := t.TempDir()
	realDir := filepath.Join(root, "text")
	if err := os.MkdirAll(realDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(realDir, filepath.Join(root, "txt")); err != nil {
		t.Fatal(err)
	}

	resolved, err := ValidatePath(root, "txt")
	if err != nil {
		t.Fatalf("ValidatePath should allow internal symlinks: %v", err)
	}

	realRoot, _ := filepath.EvalSymlinks(root)
	if want := filepath.Join(realRoot, "text"); resolved != want {
		t.Errorf("got %q, want %q", resolved, want)
	}
}

func TestResolveExistingPathPartiallyExists(t *testing.T) {
	dir := t.TempDir()

	resolved, err := resolveExistingPath(filepath.Join(dir, "a", "b", "file.txt"))
	if err != nil {
		t.Fatalf("resolveExistingPath: %v", err)
	}

	realDir, _ := filepath.EvalSymlinks(dir)
	if want := filepath.Join(realDir, "a", "b", "file.txt"); resolved != want {
		t.Errorf("got %q, want %q", resolved, want)
	}
}

func TestSafeReplacePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission test not reliable on Windows")
	}

	dst := filepath.Join(t.TempDir(), "run.sh")
	if _, err := SafeReplace(dst, strings.NewReader("#!/bin/sh\n"), -1, 0700, nil); err != nil {
		t.Fatalf("SafeReplace: %v", err)
	}

	info, err := os.Stat(dst)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0700 {
		t.Errorf("perm = %o, want 700", perm)
	}
}
