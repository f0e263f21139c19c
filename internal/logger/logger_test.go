package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")

	if _, err := os.Stat(filepath.Join(logDir, "lifelog.log")); err != nil {
		t.Errorf("expected log file to exist after a warning was written: %v", err)
	}
}

func TestInitDebugModeWithLogDir(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "custom-logs")

	err := Init(Config{
		Debug:  true,
		LogDir: logDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}

	if _, err := os.Stat(logDir); err != nil {
		t.Errorf("custom log directory was not created: %v", err)
	}

	Debug("Test debug message in debug mode")
	if l := Named("server"); l == nil {
		t.Error("Named() returned nil after Init")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")

	if Named("server") != nil {
		t.Error("Named() should return nil when the logger is not initialized")
	}
}

func TestConfigDir(t *testing.T) {
	cfg := Config{ConfigDir: "/tmp/lifelog"}
	if got := cfg.Dir(); got != filepath.Join("/tmp/lifelog", "logs") {
		t.Errorf("Dir() = %q", got)
	}
	cfg.LogDir = "/var/log/lifelog"
	if got := cfg.Dir(); got != "/var/log/lifelog" {
		t.Errorf("Dir() with LogDir = %q", got)
	}
}
