// Package report writes copy batch reports as YAML files.
package report

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bianoble/sortbyext/internal/copier"
	"github.com/bianoble/sortbyext/internal/engine"
)

// FromRun converts an engine report into its on-disk form.
func FromRun(r *engine.Report) *Document {
	doc := &Document{
		Version:  1,
		RunID:    r.RunID,
		Source:   r.Source,
		Output:   r.Output,
		Started:  r.Started,
		Finished: r.Finished,
		Summary: Summary{
			Succeeded: r.Succeeded,
			Failed:    r.Failed,
			Bytes:     r.Bytes,
			Folders:   r.Segments(),
		},
		Files: make([]File, 0, len(r.Results)),
	}

	for _, res := range r.Results {
		f := File{
			Source:      res.Source,
			Destination: res.Destination,
			Status:      res.Outcome.String(),
		}
		if res.Outcome == copier.Success {
			f.Bytes = res.Bytes
		}
		if res.Err != nil {
			f.Error = res.Err.Error()
		}
		doc.Files = append(doc.Files, f)
	}

	for _, c := range r.Collisions() {
		doc.Collisions = append(doc.Collisions, Collision{Destination: c.Destination, Sources: c.Sources})
	}

	return doc
}

// Save writes the report of r to path atomically using a temp file and rename.
func Save(path string, r *engine.Report) error {
	return Write(path, FromRun(r))
}

// Write writes doc to path atomically using a temp file and rename.
func Write(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing temp report %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming temp report to %s: %w", path, err)
	}

	return nil
}

// Load reads and validates a report file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report %s: %w", path, err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}

	if errs := Validate(&doc); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &doc, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("report validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Document for consistency.
// Returns a list of validation error messages (empty if valid).
func Validate(doc *Document) []string {
	var errs []string

	if doc.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version 1 is supported", doc.Version))
	}

	var ok, failed int
	for i, f := range doc.Files {
		prefix := fmt.Sprintf("files[%d]", i)
		if f.Source == "" {
			errs = append(errs, fmt.Sprintf("%s: 'source' is required", prefix))
		}
		switch f.Status {
		case copier.Success.String():
			ok++
			if f.Destination == "" {
				errs = append(errs, fmt.Sprintf("%s: copied file has no 'destination'", prefix))
			}
		case copier.Failure.String():
			failed++
		default:
			errs = append(errs, fmt.Sprintf("%s: unknown status %q", prefix, f.Status))
		}
	}

	if ok != doc.Summary.Succeeded || failed != doc.Summary.Failed {
		errs = append(errs, fmt.Sprintf("summary says %d succeeded and %d failed but files list %d and %d",
			doc.Summary.Succeeded, doc.Summary.Failed, ok, failed))
	}

	return errs
}
