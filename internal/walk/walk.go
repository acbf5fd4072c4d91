// Package walk discovers the regular files below a source directory.
//
// Walk returns a lazy depth-first sequence: a subdirectory is fully expanded
// before the walk moves on to its later siblings. Nothing is read except
// directory entries and, for symlinks, the metadata of their targets.
// Callers must not rely on the order of siblings.
package walk

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrSourceNotFound is returned when the walk root does not exist.
	ErrSourceNotFound = errors.New("source folder does not exist")

	// ErrNotDirectory is returned when the walk root is not a directory.
	ErrNotDirectory = errors.New("source is not a directory")
)

// SourceError reports a walk root that cannot be walked at all.
type SourceError struct {
	Root string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Root, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Options controls which entries a Walker yields.
type Options struct {
	// SkipHidden skips files and directories whose name starts with a dot.
	SkipHidden bool
}

// Walker walks directory trees. It holds no cursor state, so one Walker may
// run any number of walks, concurrently or one after another.
type Walker struct {
	opts Options
}

// New returns a Walker using opts.
func New(opts Options) *Walker {
	return &Walker{opts: opts}
}

// Walk walks root with default options.
func Walk(ctx context.Context, root string, exclude ...string) (iter.Seq2[string, error], error) {
	return New(Options{}).Walk(ctx, root, exclude...)
}

// Walk validates root and returns a sequence of absolute paths of the regular
// files below it. A missing root yields ErrSourceNotFound immediately, wrapped
// in a *SourceError, and no sequence. A root that is a symlink to a directory
// is followed; yielded paths stay under root as given.
//
// Entries matching an exclude path (a file, or a directory and everything
// below it) are skipped. Exclude paths are resolved when iteration starts, so
// they may name folders created after Walk returns.
//
// Errors met while walking (an unreadable subdirectory, a dangling symlink)
// are yielded with the offending path and the walk continues. If ctx is
// cancelled the sequence yields ctx.Err() once and stops.
func (w *Walker) Walk(ctx context.Context, root string, exclude ...string) (iter.Seq2[string, error], error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &SourceError{Root: root, Err: err}
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &SourceError{Root: abs, Err: ErrSourceNotFound}
	case err != nil:
		return nil, &SourceError{Root: abs, Err: err}
	case !info.IsDir():
		return nil, &SourceError{Root: abs, Err: ErrNotDirectory}
	}

	// WalkDir does not descend a symlinked root, so walk its target.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, &SourceError{Root: abs, Err: err}
	}

	return func(yield func(string, error) bool) {
		skip := resolveAll(exclude)

		// display maps a path under resolved back under abs.
		display := func(path string) string {
			if resolved == abs {
				return path
			}
			rel, err := filepath.Rel(resolved, path)
			if err != nil {
				return path
			}
			return filepath.Join(abs, rel)
		}

		_ = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				yield(display(path), ctxErr)
				return filepath.SkipAll
			}
			if err != nil {
				if !yield(display(path), err) {
					return filepath.SkipAll
				}
				return nil
			}
			if path == resolved {
				return nil
			}

			if skip[path] || (w.opts.SkipHidden && strings.HasPrefix(d.Name(), ".")) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			regular, err := isRegular(path, d)
			if err != nil {
				if !yield(display(path), err) {
					return filepath.SkipAll
				}
				return nil
			}
			if !regular {
				return nil
			}
			if !yield(display(path), nil) {
				return filepath.SkipAll
			}
			return nil
		})
	}, nil
}

// resolveAll returns the symlink-free absolute form of every path that
// exists. Missing paths cannot appear in a walk and are dropped.
func resolveAll(paths []string) map[string]bool {
	out := make(map[string]bool, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		resolved, err := filepath.EvalSymlinks(abs)
		if err != nil {
			continue
		}
		out[resolved] = true
	}
	return out
}

// isRegular reports whether the entry is a regular file, following symlinks.
// Symlinked directories are reported as non-regular and never descended.
func isRegular(path string, d fs.DirEntry) (bool, error) {
	if d.Type()&fs.ModeSymlink == 0 {
		return d.Type().IsRegular(), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Collect drains seq into a slice of paths and a slice of per-entry errors.
func Collect(seq iter.Seq2[string, error]) ([]string, []error) {
	var paths []string
	var errs []error
	for path, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		paths = append(paths, path)
	}
	return paths, errs
}
