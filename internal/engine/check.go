package engine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/bianoble/sortbyext/internal/classify"
	"github.com/bianoble/sortbyext/internal/walk"
)

// CheckEngine verifies that an output root holds a copy of every file of a
// source tree.
type CheckEngine struct {
	Walker   *walk.Walker
	Log      *slog.Logger
	Sentinel string
}

// Check walks sourceRoot and compares each file with its expected
// destination under outputRoot. Returns Clean=true if every destination
// exists and matches one of the source files mapped to it.
func (e *CheckEngine) Check(ctx context.Context, sourceRoot, outputRoot string) (*CheckResult, error) {
	log := e.Log
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	w := e.Walker
	if w == nil {
		w = walk.New(walk.Options{})
	}
	sentinel := e.Sentinel
	if sentinel == "" {
		sentinel = classify.DefaultSentinel
	}

	out, err := filepath.Abs(outputRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving output folder %s: %w", outputRoot, err)
	}
	seq, err := w.Walk(ctx, sourceRoot, outputExcludes(out)...)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{Clean: true}

	// Destination (relative to out) -> source files mapped to it.
	expected := make(map[string][]string)
	for path, walkErr := range seq {
		if walkErr != nil {
			if errors.Is(walkErr, context.Canceled) || errors.Is(walkErr, context.DeadlineExceeded) {
				return nil, walkErr
			}
			result.Unreadable = append(result.Unreadable, path)
			result.Clean = false
			continue
		}
		rel := filepath.Join(classify.SegmentWith(path, sentinel), filepath.Base(path))
		expected[rel] = append(expected[rel], path)
	}

	dests := make([]string, 0, len(expected))
	for rel := range expected {
		dests = append(dests, rel)
	}
	sort.Strings(dests)

	for _, rel := range dests {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sources := expected[rel]
		sort.Strings(sources)
		result.Checked += len(sources)
		if len(sources) > 1 {
			result.Collisions = append(result.Collisions, Collision{
				Destination: filepath.Join(out, rel),
				Sources:     sources,
			})
		}

		actual, err := hashFile(filepath.Join(out, rel))
		if errors.Is(err, fs.ErrNotExist) {
			result.Missing = append(result.Missing, rel)
			result.Clean = false
			continue
		}
		if err != nil {
			log.Warn("cannot read destination", "path", rel, "error", err)
			result.Unreadable = append(result.Unreadable, filepath.Join(out, rel))
			result.Clean = false
			continue
		}

		var want []string
		matched := false
		for _, src := range sources {
			h, err := hashFile(src)
			if err != nil {
				log.Warn("cannot read source", "path", src, "error", err)
				result.Unreadable = append(result.Unreadable, src)
				result.Clean = false
				continue
			}
			want = append(want, h)
			if h == actual {
				matched = true
			}
		}
		if !matched && len(want) > 0 {
			result.Drifted = append(result.Drifted, DriftEntry{Path: rel, Expected: want, Actual: actual})
			result.Clean = false
		}
	}

	return result, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
