package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Debug: false, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Info("Test info message", "askeza_id", "a-1")
	Warn("Test warning message")
}

func TestInitDebugMode(t *testing.T) {
	if err := Init(Config{Debug: true, ConfigDir: t.TempDir()}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	if Logger.GetLevel() != log.DebugLevel {
		t.Errorf("expected debug level, got %v", Logger.GetLevel())
	}
}

func TestUseWriter(t *testing.T) {
	var buf bytes.Buffer
	UseWriter(&buf, log.WarnLevel)
	defer func() { Logger = nil }()

	Info("hidden")
	Warn("title mismatch", "template", "cold-shower")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info should be filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "title mismatch") || !strings.Contains(out, "cold-shower") {
		t.Errorf("expected warning with key/values, got %q", out)
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Config{ConfigDir: dir}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { Logger = nil }()

	Debug("filtered out")
	Error("reconcile failed", "askeza_id", "a-2")

	data, err := os.ReadFile(FilePath(dir))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "reconcile failed") || !strings.Contains(string(data), "a-2") {
		t.Errorf("expected the error record in the log file, got %q", data)
	}
	if strings.Contains(string(data), "filtered out") {
		t.Errorf("debug records must be dropped at info level, got %q", data)
	}
}
