package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mqttlog/mqttlog-go/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"trace", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewTextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(config.LogConfig{Level: "warn", Format: "text"}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer closer.Close()

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry written at warn level: %q", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "k=v") {
		t.Errorf("got %q, want warn entry with k=v", out)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(config.LogConfig{Level: "debug", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Debug("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg: got %v, want hello", entry["msg"])
	}
}

func TestNewFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")
	var buf bytes.Buffer
	logger, closer, err := New(config.LogConfig{
		Level:  "info",
		Format: "text",
		File:   config.LogFileConfig{Enabled: true, Path: path, Rotation: config.RotationConfig{MaxSizeMB: 1}},
	}, &buf)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("to both")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "to both") {
		t.Errorf("file: got %q", data)
	}
	if !strings.Contains(buf.String(), "to both") {
		t.Errorf("writer: got %q", buf.String())
	}
}

func TestNewErrors(t *testing.T) {
	tests := []config.LogConfig{
		{Level: "loud"},
		{Level: "info", Format: "xml"},
		{Level: "info", File: config.LogFileConfig{Enabled: true}},
	}
	for _, cfg := range tests {
		if _, _, err := New(cfg, &bytes.Buffer{}); err == nil {
			t.Errorf("New(%+v) succeeded, want error", cfg)
		}
	}
}

func TestInitSetsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	if _, err := Init(config.LogConfig{Level: "info", Format: "text"}, &buf); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	slog.Info("via default")
	if !strings.Contains(buf.String(), "via default") {
		t.Errorf("default logger not installed: %q", buf.String())
	}
}
