package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{DEBUG, "DEBUG"},
		{INFO, "INFO"},
		{WARN, "WARN"},
		{ERROR, "ERROR"},
		{FATAL, "FATAL"},
		{Level(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, WARN, TextFormat)

	l.Debug("debug message")
	l.Info("info message")
	if buf.Len() != 0 {
		t.Errorf("expected DEBUG and INFO to be filtered below WARN, got %q", buf.String())
	}

	l.Warn("warn message")
	if !strings.Contains(buf.String(), "warn message") {
		t.Errorf("expected WARN to be written, got %q", buf.String())
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG, TextFormat).WithComponent("ghcn")

	l.Info("fetched observations", map[string]interface{}{"rows": 42})

	out := buf.String()
	for _, want := range []string{"INFO", "[ghcn]", "fetched observations", "rows=42"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q: %q", want, out)
		}
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG, JSONFormat)

	l.Warn("index contains missing values", map[string]interface{}{"missing": 7})

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, buf.String())
	}
	if entry.Level != "WARN" {
		t.Errorf("expected level WARN, got %q", entry.Level)
	}
	if entry.Message != "index contains missing values" {
		t.Errorf("unexpected message %q", entry.Message)
	}
	if entry.Fields["missing"] != float64(7) {
		t.Errorf("expected missing=7 field, got %v", entry.Fields)
	}
}

func TestErrorEntryCarriesCause(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG, JSONFormat)

	l.Error("fetch failed", errTest)

	var entry Entry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if entry.Error != "boom" {
		t.Errorf("expected error field %q, got %q", "boom", entry.Error)
	}
}

func TestFatalExits(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG, TextFormat)

	exitCode := -1
	l.exit = func(code int) { exitCode = code }

	l.Fatalf("unrecoverable: %s", "no config")

	if exitCode != 1 {
		t.Errorf("expected exit code 1, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "unrecoverable: no config") {
		t.Errorf("fatal message not written: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
		ok       bool
	}{
		{"debug", DEBUG, true},
		{"INFO", INFO, true},
		{"Warning", WARN, true},
		{"error", ERROR, true},
		{"fatal", FATAL, true},
		{"verbose", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, ok := parseLevel(tt.input)
			if ok != tt.ok {
				t.Fatalf("parseLevel(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && level != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, level, tt.expected)
			}
		})
	}
}

func TestGlobalSwap(t *testing.T) {
	orig := Global()
	defer SetGlobal(orig)

	var buf bytes.Buffer
	SetGlobal(New(&buf, DEBUG, TextFormat))

	Warnf("series %s looks suspicious", "demo")

	if !strings.Contains(buf.String(), "series demo looks suspicious") {
		t.Errorf("global logger did not receive entry: %q", buf.String())
	}
}

var errTest = errBoom{}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
