package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bianoble/sortbyext/internal/config"
	"github.com/bianoble/sortbyext/internal/filelock"
)

// ConfigLayerStatus describes a config layer's load status for display.
type ConfigLayerStatus struct {
	Level  string // "system", "user", "project"
	Path   string
	Loaded bool
}

// InfoResult holds the data shown by the info command.
type InfoResult struct {
	Version     string
	ConfigChain []ConfigLayerStatus

	Workers    int // effective limit, Unbounded for none
	Sentinel   string
	SkipHidden bool
	Strict     bool
	Lock       bool

	// Output folder details, set when Info is given an output root.
	Output   string
	LockPath string
	Busy     bool // another process holds the output lock
	Folders  []FolderInfo
}

// FolderInfo summarizes one extension folder of an output root.
type FolderInfo struct {
	Name  string
	Files int
	Bytes int64
}

// Info gathers the effective settings and, when outputRoot is not empty,
// the extension folders found there.
func Info(version string, cfg *config.Config, outputRoot string) (*InfoResult, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	r := &InfoResult{
		Version:    version,
		Workers:    (&CopyEngine{Workers: cfg.Workers}).workers(),
		Sentinel:   cfg.SentinelOrDefault(),
		SkipHidden: cfg.ShouldSkipHidden(),
		Strict:     cfg.IsStrict(),
		Lock:       cfg.LockEnabled(),
	}

	if outputRoot == "" {
		return r, nil
	}

	out, err := filepath.Abs(outputRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving output folder %s: %w", outputRoot, err)
	}
	r.Output = out

	entries, err := os.ReadDir(out)
	if err != nil {
		return nil, fmt.Errorf("reading output folder %s: %w", out, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		fi, err := folderInfo(filepath.Join(out, e.Name()))
		if err != nil {
			return nil, err
		}
		r.Folders = append(r.Folders, fi)
	}
	sort.Slice(r.Folders, func(i, j int) bool {
		return r.Folders[i].Name < r.Folders[j].Name
	})

	r.LockPath, err = filelock.PathFor(out)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(r.LockPath); err == nil {
		fl := filelock.NewFileLock(r.LockPath)
		ok, err := fl.TryLock()
		if err != nil {
			return nil, err
		}
		if ok {
			_ = fl.Unlock()
		}
		r.Busy = !ok
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking lock %s: %w", r.LockPath, err)
	}

	return r, nil
}

func folderInfo(dir string) (FolderInfo, error) {
	fi := FolderInfo{Name: filepath.Base(dir)}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fi, fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		st, err := e.Info()
		if err != nil {
			continue
		}
		fi.Files++
		fi.Bytes += st.Size()
	}
	return fi, nil
}
