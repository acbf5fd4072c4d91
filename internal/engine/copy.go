package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/bianoble/sortbyext/internal/copier"
	"github.com/bianoble/sortbyext/internal/filelock"
	"github.com/bianoble/sortbyext/internal/walk"
)

// Unbounded disables the worker limit: every discovered file starts copying
// as soon as it is found.
const Unbounded = -1

// DefaultWorkers is the number of concurrent copies used when Workers is 0.
func DefaultWorkers() int {
	return 4 * runtime.NumCPU()
}

// CopyEngine walks a source tree and copies every file into per-extension
// folders of an output root.
type CopyEngine struct {
	Walker *walk.Walker
	Copier *copier.Copier
	Log    *slog.Logger

	// Workers caps concurrent copies. 0 means DefaultWorkers, Unbounded
	// removes the cap.
	Workers int

	// Guard, when set, runs once the output root exists and before any file
	// is copied. The returned release func is called when the batch ends.
	Guard func(outputRoot string) (release func() error, err error)
}

// Run copies every file below sourceRoot into outputRoot/<segment>/<name>.
//
// A missing or unusable source root, or an output root that cannot be
// created, stops the run before any file is touched and is returned as an
// error. Per-file failures never abort the batch: they are logged and
// recorded in the report, and Run still returns a nil error.
//
// Source files that share a name and extension land on the same destination;
// whichever copy finishes last wins.
func (e *CopyEngine) Run(ctx context.Context, sourceRoot, outputRoot string) (*Report, error) {
	log := e.logger()

	out, err := filepath.Abs(outputRoot)
	if err != nil {
		log.Error("cannot resolve output folder", "output", outputRoot, "error", err)
		return nil, fmt.Errorf("resolving output folder %s: %w", outputRoot, err)
	}

	// The output folder and its lock may sit inside the source tree.
	seq, err := e.walker().Walk(ctx, sourceRoot, outputExcludes(out)...)
	if err != nil {
		log.Error("cannot read source folder", "source", sourceRoot, "error", err)
		return nil, err
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		log.Error("cannot create output folder", "output", out, "error", err)
		return nil, fmt.Errorf("creating output folder %s: %w", out, err)
	}
	if e.Guard != nil {
		release, err := e.Guard(out)
		if err != nil {
			log.Error("cannot lock output folder", "output", out, "error", err)
			return nil, err
		}
		defer func() {
			if err := release(); err != nil {
				log.Warn("cannot release output folder lock", "output", out, "error", err)
			}
		}()
	}

	src, _ := filepath.Abs(sourceRoot)
	report := &Report{
		RunID:   uuid.NewString(),
		Source:  src,
		Output:  out,
		Started: time.Now(),
	}
	log = log.With("run", report.RunID)
	log.Debug("copy batch started", "source", src, "output", out, "workers", e.workers())

	cp := e.copier(log)

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(e.workers())

	for path, walkErr := range seq {
		if walkErr != nil {
			log.Error("cannot read source entry", "path", path, "error", walkErr)
			mu.Lock()
			report.add(copier.Result{Source: path, Outcome: copier.Failure, Err: walkErr})
			mu.Unlock()
			continue
		}

		g.Go(func() error {
			res := cp.Copy(ctx, path, out)
			mu.Lock()
			report.add(res)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report.Finished = time.Now()
	report.sortResults()
	e.logSummary(log, report)

	return report, nil
}

func (e *CopyEngine) logSummary(log *slog.Logger, r *Report) {
	log.Info("copy batch finished",
		"succeeded", r.Succeeded,
		"failed", r.Failed,
		"copied", humanize.Bytes(uint64(r.Bytes)),
		"folders", len(r.Segments()),
		"elapsed", r.Duration().Round(time.Millisecond).String(),
	)
	for _, res := range r.Failures() {
		log.Warn("file not copied", "source", res.Source, "reason", res.Err)
	}
	for _, c := range r.Collisions() {
		log.Warn("several files share one destination; last copy wins",
			"destination", c.Destination, "sources", len(c.Sources))
	}
}

// outputExcludes lists what a run writes itself: the output root, which also
// holds in-flight temp files, and its lock file.
func outputExcludes(out string) []string {
	lock, err := filelock.PathFor(out)
	if err != nil {
		return []string{out}
	}
	return []string{out, lock}
}

func (e *CopyEngine) logger() *slog.Logger {
	if e.Log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Log
}

func (e *CopyEngine) walker() *walk.Walker {
	if e.Walker == nil {
		return walk.New(walk.Options{})
	}
	return e.Walker
}

func (e *CopyEngine) copier(log *slog.Logger) *copier.Copier {
	if e.Copier == nil {
		return copier.New(nil, log, "")
	}
	return e.Copier
}

func (e *CopyEngine) workers() int {
	switch {
	case e.Workers == 0:
		return DefaultWorkers()
	case e.Workers < 0:
		return Unbounded
	default:
		return e.Workers
	}
}
