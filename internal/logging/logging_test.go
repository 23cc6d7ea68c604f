package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		debug     bool
		wantDebug bool
	}{
		{true, true},
		{false, false},
	}

	for _, tc := range tests {
		var buf bytes.Buffer
		log := New(tc.debug, &buf)
		log.Debug().Int("memo_hits", 3).Msg("layout")
		log.Warn().Msg("skipped record")

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		gotDebug := len(lines) == 2
		if gotDebug != tc.wantDebug {
			t.Errorf("debug=%v: got %d lines: %q", tc.debug, len(lines), buf.String())
		}

		var entry map[string]any
		if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
			t.Fatalf("line is not JSON: %v", err)
		}
		if entry["level"] != "warn" || entry["message"] != "skipped record" {
			t.Errorf("unexpected entry %v", entry)
		}
		if _, ok := entry["time"]; !ok {
			t.Error("expected timestamp field")
		}
	}
}

func TestOpenDebug(t *testing.T) {
	t.Chdir(t.TempDir())

	_, closeFn, err := OpenDebug(false)
	if err != nil {
		t.Fatalf("OpenDebug(false) failed: %v", err)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close: %v", err)
	}
	if _, err := os.Stat(DebugLogPath); !os.IsNotExist(err) {
		t.Errorf("disabled debug log created a file: %v", err)
	}

	log, closeFn, err := OpenDebug(true)
	if err != nil {
		t.Fatalf("OpenDebug(true) failed: %v", err)
	}
	log.Debug().Str("week", "2024-05-05..2024-05-11").Msg("load")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(DebugLogPath)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "\n"); got != 3 {
		t.Errorf("expected 3 lines (start, load, end), got %d:\n%s", got, data)
	}
}

func TestConsole(t *testing.T) {
	var buf bytes.Buffer
	log := Console(false, &buf)
	log.Info().Str("addr", ":8080").Msg("listening")
	log.Debug().Msg("hidden")

	out := buf.String()
	if !strings.Contains(out, "listening") || !strings.Contains(out, "addr=") {
		t.Errorf("unexpected console output %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug line written at info level")
	}
}
