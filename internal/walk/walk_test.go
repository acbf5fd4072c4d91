package walk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(f), 0644))
	}
}

func abs(t *testing.T, root string, rels ...string) []string {
	t.Helper()
	absRoot, err := filepath.Abs(root)
	require.NoError(t, err)
	out := make([]string, len(rels))
	for i, r := range rels {
		out[i] = filepath.Join(absRoot, filepath.FromSlash(r))
	}
	return out
}

func TestWalkYieldsAllFiles(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "a/x.txt", "a/b/y.txt", "c.md", "a/b/c/d/deep.bin")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty", "dir"), 0755))

	seq, err := Walk(context.Background(), root)
	require.NoError(t, err)

	paths, errs := Collect(seq)
	assert.Empty(t, errs)
	assert.ElementsMatch(t, abs(t, root, "a/x.txt", "a/b/y.txt", "c.md", "a/b/c/d/deep.bin"), paths)
}

func TestWalkIsRestartable(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "one.txt", "sub/two.txt")

	seq, err := Walk(context.Background(), root)
	require.NoError(t, err)

	first, _ := Collect(seq)
	second, _ := Collect(seq)
	assert.ElementsMatch(t, first, second)
	assert.Len(t, first, 2)
}

func TestWalkMissingRoot(t *testing.T) {
	seq, err := Walk(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Nil(t, seq)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceNotFound))

	var serr *SourceError
	assert.ErrorAs(t, err, &serr)
}

func TestWalkRootIsFile(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "file.txt")

	_, err := Walk(context.Background(), filepath.Join(root, "file.txt"))
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestWalkRelativeRootYieldsAbsolutePaths(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "sub/a.go")

	t.Chdir(root)
	seq, err := Walk(context.Background(), "sub")
	require.NoError(t, err)

	paths, _ := Collect(seq)
	require.Len(t, paths, 1)
	assert.True(t, filepath.IsAbs(paths[0]), paths[0])
}

func TestWalkSkipHidden(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "visible.txt", ".hidden.txt", ".git/config", "sub/.env", "sub/ok.md")

	seq, err := New(Options{SkipHidden: true}).Walk(context.Background(), root)
	require.NoError(t, err)
	paths, _ := Collect(seq)
	assert.ElementsMatch(t, abs(t, root, "visible.txt", "sub/ok.md"), paths)

	seq, err = New(Options{}).Walk(context.Background(), root)
	require.NoError(t, err)
	paths, _ = Collect(seq)
	assert.Len(t, paths, 5)
}

func TestWalkSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test not reliable on Windows")
	}

	root := t.TempDir()
	other := t.TempDir()
	makeTree(t, root, "real.txt")
	makeTree(t, other, "elsewhere/inside.txt")

	require.NoError(t, os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")))
	require.NoError(t, os.Symlink(filepath.Join(other, "elsewhere"), filepath.Join(root, "dirlink")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")))

	seq, err := Walk(context.Background(), root)
	require.NoError(t, err)
	paths, errs := Collect(seq)

	assert.ElementsMatch(t, abs(t, root, "real.txt", "link.txt"), paths)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], os.ErrNotExist)
}

func TestWalkUnreadableSubdirContinues(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission test needs a non-root unix user")
	}

	root := t.TempDir()
	makeTree(t, root, "ok.txt", "locked/secret.txt", "z/after.txt")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	seq, err := Walk(context.Background(), root)
	require.NoError(t, err)
	paths, errs := Collect(seq)

	assert.ElementsMatch(t, abs(t, root, "ok.txt", "z/after.txt"), paths)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], os.ErrPermission)
}

func TestWalkEarlyBreak(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "a.txt", "b.txt", "c.txt", "d/e.txt")

	seq, err := Walk(context.Background(), root)
	require.NoError(t, err)

	n := 0
	for range seq {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestWalkCancelled(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "a.txt", "b.txt")

	ctx, cancel := context.WithCancel(context.Background())
	seq, err := Walk(ctx, root)
	require.NoError(t, err)
	cancel()

	paths, errs := Collect(seq)
	assert.Empty(t, paths)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], context.Canceled)
}

func TestWalkSymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink test not reliable on Windows")
	}

	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	makeTree(t, target, "a/x.txt", "c.md")
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	seq, err := Walk(context.Background(), link)
	require.NoError(t, err)
	paths, errs := Collect(seq)

	assert.Empty(t, errs)
	assert.ElementsMatch(t, abs(t, link, "a/x.txt", "c.md"), paths)
}

func TestWalkExclude(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "keep.txt", "sub/keep.md", "out/txt/old.txt", "out.lock")

	seq, err := Walk(context.Background(), root,
		filepath.Join(root, "out"), filepath.Join(root, "out.lock"), filepath.Join(root, "not-there"))
	require.NoError(t, err)
	paths, errs := Collect(seq)

	assert.Empty(t, errs)
	assert.ElementsMatch(t, abs(t, root, "keep.txt", "sub/keep.md"), paths)
}

func TestWalkExcludeCreatedAfterWalk(t *testing.T) {
	root := t.TempDir()
	makeTree(t, root, "keep.txt")
	out := filepath.Join(root, "out")

	seq, err := Walk(context.Background(), root, out)
	require.NoError(t, err)
	makeTree(t, out, "txt/keep.txt")

	paths, _ := Collect(seq)
	assert.ElementsMatch(t, abs(t, root, "keep.txt"), paths)
}
