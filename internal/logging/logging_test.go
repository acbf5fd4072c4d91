package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Info("copied file", "source", "/src/a.txt", "bytes", 12)
	log.Debug("hidden")

	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected exactly one line, got %q", out)
	}
	for _, want := range []string{"INFO", "copied file", "source=/src/a.txt", "bytes=12"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("non-terminal writer should not get ANSI codes: %q", out)
	}
}

func TestConsoleQuotesAndErrors(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	log.Error("copy failed", "source", "/src/with space.txt", "error", errors.New("permission denied"))

	out := buf.String()
	if !strings.Contains(out, `source="/src/with space.txt"`) {
		t.Errorf("expected quoted path: %q", out)
	}
	if !strings.Contains(out, `error="permission denied"`) {
		t.Errorf("expected error text: %q", out)
	}
	if !strings.Contains(out, "ERROR") {
		t.Errorf("expected ERROR level: %q", out)
	}
}

func TestConsoleWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	log.With("run", "abc").WithGroup("batch").Info("done", "failed", 0)

	out := buf.String()
	if !strings.Contains(out, "run=abc") {
		t.Errorf("missing run attr: %q", out)
	}
	if !strings.Contains(out, "batch.failed=0") {
		t.Errorf("missing grouped attr: %q", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Format: "json", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	log.Debug("destination folder ready", "folder", "/out/txt")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "destination folder ready" {
		t.Errorf("msg = %v", rec["msg"])
	}
	if rec["folder"] != "/out/txt" {
		t.Errorf("folder = %v", rec["folder"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{" INFO ", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer
	if ColorEnabled(&buf, false) {
		t.Error("bytes.Buffer is not a terminal")
	}
	if ColorEnabled(&buf, true) {
		t.Error("noColor must disable color")
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing happens")
}
