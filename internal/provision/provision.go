// Package provision creates per-extension destination folders under an output
// root. Creation is idempotent and safe to call from many goroutines for the
// same folder.
package provision

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/bianoble/sortbyext/internal/sandbox"
)

// Folder is a destination folder for one extension segment.
type Folder struct {
	Root    string // output root as given by the caller
	Segment string
	Path    string // Root/Segment
}

// ProvisionError reports a folder that could not be created.
type ProvisionError struct {
	Folder string
	Err    error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("provisioning folder %s: %s", e.Folder, e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// Provisioner ensures destination folders exist. The zero value is not usable;
// use New.
type Provisioner struct {
	log   *slog.Logger
	perm  os.FileMode
	group singleflight.Group
	ready sync.Map // Folder.Path -> struct{}
}

// New returns a Provisioner that logs folder creation to log.
func New(log *slog.Logger) *Provisioner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Provisioner{log: log, perm: 0755}
}

// Ensure creates outputRoot/segment (and any missing parent) if absent and
// returns it. An existing folder is not an error. Concurrent calls for the
// same folder share a single creation.
func (p *Provisioner) Ensure(ctx context.Context, outputRoot, segment string) (Folder, error) {
	folder := Folder{
		Root:    outputRoot,
		Segment: segment,
		Path:    filepath.Join(outputRoot, segment),
	}

	if err := validSegment(segment); err != nil {
		return folder, &ProvisionError{Folder: folder.Path, Err: err}
	}
	if _, ok := p.ready.Load(folder.Path); ok {
		return folder, nil
	}
	if err := ctx.Err(); err != nil {
		return folder, &ProvisionError{Folder: folder.Path, Err: err}
	}

	_, err, _ := p.group.Do(folder.Path, func() (any, error) {
		if err := os.MkdirAll(outputRoot, p.perm); err != nil {
			return nil, err
		}
		resolved, err := sandbox.SafeMkdirAll(outputRoot, segment, p.perm)
		if err != nil {
			return nil, err
		}
		p.ready.Store(folder.Path, struct{}{})
		p.log.Debug("destination folder ready", "folder", folder.Path, "resolved", resolved)
		return nil, nil
	})
	if err != nil {
		return folder, &ProvisionError{Folder: folder.Path, Err: err}
	}
	return folder, nil
}

// Forget drops the cached readiness of every folder so the next Ensure call
// touches the filesystem again.
func (p *Provisioner) Forget() {
	p.ready.Clear()
}

func validSegment(segment string) error {
	switch {
	case segment == "", segment == ".", segment == "..":
		return fmt.Errorf("invalid folder name %q", segment)
	case strings.ContainsAny(segment, `/\`):
		return fmt.Errorf("folder name %q must not contain path separators", segment)
	}
	return nil
}
