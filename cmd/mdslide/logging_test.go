package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags commonFlags
		want  slog.Level
	}{
		{"default", commonFlags{}, slog.LevelWarn},
		{"quiet", commonFlags{quiet: true}, slog.LevelError},
		{"verbose", commonFlags{verbose: true}, slog.LevelDebug},
		{"quiet wins", commonFlags{quiet: true, verbose: true}, slog.LevelError},
	}

	for _, tt := range tests {
		if got := logLevel(tt.flags); got != tt.want {
			t.Errorf("%s: logLevel() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("console only", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		logger, closeLog, err := newLogger(commonFlags{}, &stderr)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer func() { _ = closeLog() }()

		logger.Info("hidden")
		logger.Warn("shown", "node", "math")

		out := stderr.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("info record should be filtered at the default level: %q", out)
		}
		if !strings.Contains(out, "msg=shown node=math") {
			t.Errorf("stderr = %q, want text record", out)
		}
	})

	t.Run("fan out to log file", func(t *testing.T) {
		t.Parallel()

		var stderr bytes.Buffer
		path := filepath.Join(t.TempDir(), "run.log")
		logger, closeLog, err := newLogger(commonFlags{logFile: path}, &stderr)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		logger.Debug("file only")
		logger.Warn("both")
		if err := closeLog(); err != nil {
			t.Fatalf("closing log: %v", err)
		}

		if strings.Contains(stderr.String(), "file only") {
			t.Errorf("debug record reached the console: %q", stderr.String())
		}

		lines := strings.Split(strings.TrimSpace(readFile(t, path)), "\n")
		if len(lines) != 2 {
			t.Fatalf("log file has %d records, want 2: %q", len(lines), lines)
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
			t.Fatalf("log record is not JSON: %v", err)
		}
		if rec["msg"] != "both" || rec["level"] != "WARN" {
			t.Errorf("record = %v, want msg=both level=WARN", rec)
		}
	})

	t.Run("unwritable log file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "missing", "run.log")
		_, _, err := newLogger(commonFlags{logFile: path}, &bytes.Buffer{})
		if !errors.Is(err, ErrOpenLogFile) {
			t.Errorf("error = %v, want ErrOpenLogFile", err)
		}
	})
}
