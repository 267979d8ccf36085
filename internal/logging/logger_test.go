package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func readFileT(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

func newTestLogger(buf *bytes.Buffer, level string) *slog.Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(level))
	return slog.New(newConsoleHandler(buf, levelVar))
}

func TestConsoleHandlerIncludesComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(newTestLogger(&buf, "info"), "runner")
	logger.Info("run complete", Args(Int("items_seen", 3), Bool("changed", true))...)

	out := buf.String()
	if !strings.Contains(out, "[runner]") {
		t.Fatalf("expected component tag in output: %q", out)
	}
	if !strings.Contains(out, "run complete") {
		t.Fatalf("expected message in output: %q", out)
	}
	if !strings.Contains(out, "items_seen=3") || !strings.Contains(out, "changed=true") {
		t.Fatalf("expected attributes in output: %q", out)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "warn")
	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info message leaked past warn level: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("warn message missing: %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestJSONFormatEmitsStructuredRecords(t *testing.T) {
	path := t.TempDir() + "/out.log"
	logger, err := New(Options{Level: "info", Format: "json", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("published", Args(String(FieldRunID, "abc"))...)

	data := readFileT(t, path)
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &record); err != nil {
		t.Fatalf("decode json record: %v (%q)", err, data)
	}
	if record["msg"] != "published" {
		t.Fatalf("unexpected message: %v", record["msg"])
	}
	if record[FieldRunID] != "abc" {
		t.Fatalf("unexpected run id: %v", record[FieldRunID])
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("nothing should happen", Args(Error(nil))...)
}
