package sandbox

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestValidatePathWithinRoot(t *testing.T) {
	root := t.TempDir()

	resolved, err := ValidatePath(root, "txt")
	if err != nil {
		t.Fatalf("ValidatePath: %v", err)
	}

	realRoot, _ := filepath.EvalSymlinks(root)
	if want := filepath.Join(realRoot, "txt"); resolved != want {
		t.Errorf("got %q, want %q", resolved, want)
	}
}

func TestValidatePathRejectsEscapes(t *testing.T) {
	root := t.TempDir()

	for _, rel := range []string{"..", "../escape", "txt/../../escape", "a/b/c/../../../../x"} {
		_, err := ValidatePath(root, rel)
		if err == nil {
			t.Errorf("ValidatePath(%q): expected error", rel)
			continue
		}
		if !strings.Contains(err.Error(), "outside the output root") {
			t.Errorf("ValidatePath(%q): unexpected error: %v", rel, err)
		}
	}
}

func TestValidatePathRejectsSymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test not reliable on Windows")
	}

	root := t.TempDir()
	outside := t.TempDir()
	if err := os.Symlink(outside, filepath.Join(root, "md")); err != nil {
		t.Fatalf("creating symlink: %v", err)
	}

	if _, err := ValidatePath(root, "md"); err == nil {
		t.Fatal("expected error for symlinked segment pointing outside root")
	}
}

func TestValidatePathInvalidRoot(t *testing.T) {
	if _, err := ValidatePath("/nonexistent-root-dir-12345", "txt"); err == nil {
		t.Fatal("expected error for non-existent root")
	}
}

func TestSafeMkdirAllIdempotent(t *testing.T) {
	root := t.TempDir()

	first, err := SafeMkdirAll(root, "txt", 0755)
	if err != nil {
		t.Fatalf("SafeMkdirAll: %v", err)
	}
	second, err := SafeMkdirAll(root, "txt", 0755)
	if err != nil {
		t.Fatalf("SafeMkdirAll on existing dir: %v", err)
	}
	if first != second {
		t.Errorf("paths differ: %q vs %q", first, second)
	}

	info, err := os.Stat(first)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Error("should be a directory")
	}
}

func TestSafeMkdirAllRejectsEscape(t *testing.T) {
	root := t.TempDir()
	if _, err := SafeMkdirAll(root, "../escape", 0755); err == nil {
		t.Fatal("expected error for escape attempt")
	}
}

func TestSafeReplaceCreatesAndOverwrites(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "x.txt")

	n, err := SafeReplace(dst, strings.NewReader("original"), 8, 0644, nil)
	if err != nil {
		t.Fatalf("SafeReplace: %v", err)
	}
	if n != 8 {
		t.Errorf("n = %d, want 8", n)
	}

	if _, err := SafeReplace(dst, strings.NewReader("updated"), -1, 0644, make([]byte, 4)); err != nil {
		t.Fatalf("SafeReplace overwrite: %v", err)
	}

	data, _ := os.ReadFile(dst)
	if string(data) != "updated" {
		t.Errorf("content = %q, want %q", data, "updated")
	}
	assertNoTempFiles(t, dir)
}

func TestSafeReplaceSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "x.bin")

	_, err := SafeReplace(dst, bytes.NewReader([]byte("abc")), 10, 0644, nil)
	if !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}
	if _, statErr := os.Stat(dst); !os.IsNotExist(statErr) {
		t.Error("destination should not exist after a failed copy")
	}
	assertNoTempFiles(t, dir)
}

func TestSafeReplaceMissingParent(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "missing", "x.txt")
	if _, err := SafeReplace(dst, strings.NewReader("x"), 1, 0644, nil); err == nil {
		t.Fatal("expected error when parent directory is missing")
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".sortbyext-") {
			t.Errorf("leftover temp file %s", e.Name())
		}
	}
}
