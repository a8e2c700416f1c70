// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)

	logger.Info("quiet")
	logger.Warn("loud", "poll_id", "p1")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("Info record should be filtered: %s", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "poll_id=p1") {
		t.Errorf("Expected warn record with attributes, got: %s", out)
	}
}

func TestConfigureWritesFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "pokepoll.log")
	closer, err := Configure("info", path)
	if err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	slog.Info("poll created", "poll_id", "abc")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "poll_id=abc") {
		t.Errorf("Log file missing record: %s", data)
	}
}

func TestConfigureRejectsBadLevel(t *testing.T) {
	if _, err := Configure("chatty", ""); err == nil {
		t.Error("Expected error for invalid level")
	}
}
