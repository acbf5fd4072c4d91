// Package sortbyext provides the public Go library API for sortbyext.
//
// sortbyext copies every file of a directory tree into folders of an output
// directory named after each file's extension. This package exposes the
// same behavior as the command line tool for embedding in other Go programs.
//
// # Basic Usage
//
//	client, err := sortbyext.New(sortbyext.Options{
//	    ConfigPath: "sortbyext.yaml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Copy src/a/x.txt to out/txt/x.txt and so on
//	report, err := client.Copy(ctx, "src", "out")
//
//	// Check that every file is in place
//	result, err := client.Check(ctx, "src", "out")
package sortbyext

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bianoble/sortbyext/internal/config"
	"github.com/bianoble/sortbyext/internal/copier"
	"github.com/bianoble/sortbyext/internal/engine"
	"github.com/bianoble/sortbyext/internal/filelock"
	"github.com/bianoble/sortbyext/internal/provision"
	"github.com/bianoble/sortbyext/internal/report"
	"github.com/bianoble/sortbyext/internal/walk"
)

// Sorter copies a source tree into per-extension folders.
type Sorter interface {
	Copy(ctx context.Context, sourceRoot, outputRoot string) (*Report, error)
}

// Checker verifies that an output folder holds every file of a source tree.
type Checker interface {
	Check(ctx context.Context, sourceRoot, outputRoot string) (*CheckResult, error)
}

// Options configures a sortbyext client. Non-zero fields override the
// config file.
type Options struct {
	// ConfigPath is an optional sortbyext.yaml to load. Empty means defaults.
	ConfigPath string

	// Logger receives progress and failure records. Nil discards them.
	Logger *slog.Logger

	// Workers caps concurrent copies. 0 keeps the configured value,
	// Unbounded removes the cap.
	Workers int

	// Sentinel names the folder for files without an extension.
	Sentinel string

	SkipHidden bool

	// LockOutput takes an exclusive lock on <output>.lock during Copy.
	LockOutput bool
}

// Client is the main entry point for the sortbyext library.
// It implements Sorter and Checker.
type Client struct {
	cfg *config.Config
	log *slog.Logger
}

// New creates a new sortbyext Client.
func New(opts Options) (*Client, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		if cfg, err = config.Merge(cfg, loaded); err != nil {
			return nil, err
		}
	}

	if opts.Workers != 0 {
		cfg.Workers = opts.Workers
	}
	if opts.Sentinel != "" {
		cfg.Sentinel = opts.Sentinel
	}
	if opts.SkipHidden {
		cfg.SkipHidden = config.Bool(true)
	}
	cfg.Lock = config.Bool(opts.LockOutput)

	if errs := config.Validate(cfg); len(errs) > 0 {
		return nil, &config.ValidationError{Errors: errs}
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Client{cfg: cfg, log: log}, nil
}

func (c *Client) walker() *walk.Walker {
	return walk.New(walk.Options{SkipHidden: c.cfg.ShouldSkipHidden()})
}

// Copy copies every file below sourceRoot into outputRoot/<extension>/<name>.
// Per-file failures are recorded in the report; the returned error is set
// only when the batch could not start.
func (c *Client) Copy(ctx context.Context, sourceRoot, outputRoot string) (*Report, error) {
	eng := &engine.CopyEngine{
		Walker:  c.walker(),
		Copier:  copier.New(provision.New(c.log), c.log, c.cfg.SentinelOrDefault()),
		Log:     c.log,
		Workers: c.cfg.Workers,
	}
	if c.cfg.LockEnabled() {
		eng.Guard = func(root string) (func() error, error) {
			fl, err := filelock.Acquire(root)
			if err != nil {
				return nil, err
			}
			return fl.Unlock, nil
		}
	}
	return eng.Run(ctx, sourceRoot, outputRoot)
}

// Check verifies that outputRoot holds a copy of every file of sourceRoot.
func (c *Client) Check(ctx context.Context, sourceRoot, outputRoot string) (*CheckResult, error) {
	eng := &engine.CheckEngine{
		Walker:   c.walker(),
		Log:      c.log,
		Sentinel: c.cfg.SentinelOrDefault(),
	}
	return eng.Check(ctx, sourceRoot, outputRoot)
}

// SaveReport writes r to path as YAML.
func SaveReport(path string, r *Report) error {
	if r == nil {
		return fmt.Errorf("saving report %s: nil report", path)
	}
	return report.Save(path, r)
}
