package engine

import (
	"sort"
	"time"

	"github.com/bianoble/sortbyext/internal/copier"
)

// Report holds the outcome of one copy batch.
type Report struct {
	RunID    string
	Source   string
	Output   string
	Started  time.Time
	Finished time.Time

	// Results has one entry per discovered file plus one per walk error,
	// sorted by source path.
	Results []copier.Result

	Succeeded int
	Failed    int
	Bytes     int64
}

func (r *Report) add(res copier.Result) {
	r.Results = append(r.Results, res)
	if res.OK() {
		r.Succeeded++
		r.Bytes += res.Bytes
	} else {
		r.Failed++
	}
}

func (r *Report) sortResults() {
	sort.Slice(r.Results, func(i, j int) bool {
		return r.Results[i].Source < r.Results[j].Source
	})
}

// Failures returns the failed results.
func (r *Report) Failures() []copier.Result {
	var out []copier.Result
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Segments counts successful copies per destination folder.
func (r *Report) Segments() map[string]int {
	out := make(map[string]int)
	for _, res := range r.Results {
		if res.OK() {
			out[res.Segment]++
		}
	}
	return out
}

// Collisions returns destinations written by more than one source file.
// Which source's bytes ended up there is not defined.
func (r *Report) Collisions() []Collision {
	return collisions(r.Results, func(res copier.Result) (string, bool) {
		return res.Destination, res.OK()
	})
}

// Duration is the wall time of the batch.
func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Collision records several source files sharing one destination path.
type Collision struct {
	Destination string
	Sources     []string
}

// DriftEntry represents a destination file whose content matches none of its
// source files.
type DriftEntry struct {
	Path     string
	Expected []string
	Actual   string
}

// CheckResult holds the outcome of a check operation.
type CheckResult struct {
	Clean      bool
	Checked    int
	Missing    []string
	Drifted    []DriftEntry
	Collisions []Collision
	Unreadable []string
}

func collisions(results []copier.Result, key func(copier.Result) (string, bool)) []Collision {
	bySource := make(map[string][]string)
	for _, res := range results {
		dest, ok := key(res)
		if !ok {
			continue
		}
		bySource[dest] = append(bySource[dest], res.Source)
	}

	var out []Collision
	for dest, sources := range bySource {
		if len(sources) < 2 {
			continue
		}
		sort.Strings(sources)
		out = append(out, Collision{Destination: dest, Sources: sources})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Destination < out[j].Destination
	})
	return out
}
