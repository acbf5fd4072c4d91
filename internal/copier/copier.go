// Package copier copies a single source file into its per-extension
// destination folder.
package copier

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/bianoble/sortbyext/internal/classify"
	"github.com/bianoble/sortbyext/internal/provision"
	"github.com/bianoble/sortbyext/internal/sandbox"
)

const bufferSize = 256 * 1024

// Outcome is the result of copying one file.
type Outcome int

const (
	Success Outcome = iota
	Failure
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result records what happened to one source file.
type Result struct {
	Source      string
	Destination string
	Segment     string
	Bytes       int64
	Outcome     Outcome
	Err         error
}

// OK reports whether the copy succeeded.
func (r Result) OK() bool {
	return r.Outcome == Success
}

// CopyError wraps a failure in one step of copying a file.
type CopyError struct {
	Source string
	Op     string // "provision", "open", "stat", "write"
	Err    error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Source, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// Copier copies files into outputRoot/<segment>/<name>.
type Copier struct {
	prov     *provision.Provisioner
	log      *slog.Logger
	sentinel string
	bufs     sync.Pool
}

// New returns a Copier. An empty sentinel means classify.DefaultSentinel.
func New(prov *provision.Provisioner, log *slog.Logger, sentinel string) *Copier {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if prov == nil {
		prov = provision.New(log)
	}
	if sentinel == "" {
		sentinel = classify.DefaultSentinel
	}
	c := &Copier{prov: prov, log: log, sentinel: sentinel}
	c.bufs.New = func() any {
		buf := make([]byte, bufferSize)
		return &buf
	}
	return c
}

// Copy classifies sourcePath, ensures its destination folder under outputRoot
// and copies the file there. Failures are logged and returned in the Result;
// Copy never panics on I/O errors.
func (c *Copier) Copy(ctx context.Context, sourcePath, outputRoot string) Result {
	segment := classify.SegmentWith(sourcePath, c.sentinel)

	folder, err := c.prov.Ensure(ctx, outputRoot, segment)
	if err != nil {
		return c.fail(Result{
			Source:      sourcePath,
			Destination: filepath.Join(outputRoot, segment, filepath.Base(sourcePath)),
			Segment:     segment,
		}, "provision", err)
	}
	return c.CopyInto(ctx, sourcePath, folder)
}

// CopyInto copies sourcePath to folder/<base name>, replacing any file already
// there. The bytes land in a temp file first and are renamed into place, so a
// destination is either the complete previous file or the complete new one.
func (c *Copier) CopyInto(ctx context.Context, sourcePath string, folder provision.Folder) Result {
	res := Result{
		Source:      sourcePath,
		Destination: filepath.Join(folder.Path, filepath.Base(sourcePath)),
		Segment:     folder.Segment,
	}

	if err := ctx.Err(); err != nil {
		return c.fail(res, "open", err)
	}

	in, err := os.Open(sourcePath)
	if err != nil {
		return c.fail(res, "open", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return c.fail(res, "stat", err)
	}
	if !info.Mode().IsRegular() {
		return c.fail(res, "stat", fmt.Errorf("not a regular file (%s)", info.Mode().Type()))
	}

	bufp := c.bufs.Get().(*[]byte)
	defer c.bufs.Put(bufp)

	n, err := sandbox.SafeReplace(res.Destination, in, info.Size(), info.Mode().Perm(), *bufp)
	res.Bytes = n
	if err != nil {
		return c.fail(res, "write", err)
	}

	res.Outcome = Success
	c.log.Info("copied file", "source", sourcePath, "destination", res.Destination, "bytes", n)
	return res
}

func (c *Copier) fail(res Result, op string, err error) Result {
	res.Outcome = Failure
	res.Err = &CopyError{Source: res.Source, Op: op, Err: err}
	c.log.Error("copy failed", "source", res.Source, "error", err)
	return res
}
