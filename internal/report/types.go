package report

import "time"

// Document is the on-disk form of a copy batch report.
type Document struct {
	Version  int       `yaml:"version"`
	RunID    string    `yaml:"run_id"`
	Source   string    `yaml:"source"`
	Output   string    `yaml:"output"`
	Started  time.Time `yaml:"started"`
	Finished time.Time `yaml:"finished"`

	Summary Summary `yaml:"summary"`

	Files      []File      `yaml:"files"`
	Collisions []Collision `yaml:"collisions,omitempty"`
}

// Summary holds the batch totals.
type Summary struct {
	Succeeded int            `yaml:"succeeded"`
	Failed    int            `yaml:"failed"`
	Bytes     int64          `yaml:"bytes"`
	Folders   map[string]int `yaml:"folders,omitempty"`
}

// File records the outcome for one source file.
type File struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination,omitempty"`
	Status      string `yaml:"status"`
	Bytes       int64  `yaml:"bytes,omitempty"`
	Error       string `yaml:"error,omitempty"`
}

// Collision lists source files that were written to the same destination.
type Collision struct {
	Destination string   `yaml:"destination"`
	Sources     []string `yaml:"sources"`
}
