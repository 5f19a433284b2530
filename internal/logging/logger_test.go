package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"aur/internal/logging"
)

func TestConsoleLoggerWritesSingleLine(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "syncflac").Info("transcoding", logging.Path("/a/01.x.y.flac"), logging.Int("files", 2))

	got := buf.String()
	want := "INFO syncflac: transcoding path=/a/01.x.y.flac files=2\n"
	if got != want {
		t.Fatalf("unexpected console line:\n got %q\nwant %q", got, want)
	}
}

func TestConsoleLoggerQuotesValues(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("renamed", logging.String("from", "a b.flac"), logging.String("to", ""), logging.Bool("noop", true))

	want := `DEBUG renamed from="a b.flac" to="" noop=true` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected console line:\n got %q\nwant %q", got, want)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", logging.Error(errors.New("boom")))
	if strings.Contains(buf.String(), "hidden") {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "error=boom") {
		t.Fatalf("expected error attribute, got %q", buf.String())
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode json line: %v", err)
	}
	if record["msg"] != "json message" || record["k"] != "v" || record["level"] != "info" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestLevelFromFlags(t *testing.T) {
	tests := []struct {
		configured     string
		verbose, quiet bool
		want           string
	}{
		{"", false, false, "info"},
		{"error", false, false, "error"},
		{"error", true, false, "debug"},
		{"info", false, true, "warn"},
		{"info", true, true, "debug"},
	}
	for _, tt := range tests {
		if got := logging.LevelFromFlags(tt.configured, tt.verbose, tt.quiet); got != tt.want {
			t.Errorf("LevelFromFlags(%q, %v, %v) = %q, want %q", tt.configured, tt.verbose, tt.quiet, got, tt.want)
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger, _ := logging.New(logging.Options{Writer: &buf})
	logging.WarnWithContext(logger, "cannot read", "metadata_read_failed")
	out := buf.String()
	for _, fragment := range []string{"event_type=metadata_read_failed", "error_hint=", "impact="} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in %q", fragment, out)
		}
	}
}

func TestNopLogger(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("discarded")
	if logging.NewComponentLogger(nil, "x") == nil {
		t.Fatal("expected component logger from nil base")
	}
}
